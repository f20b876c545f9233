package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		in   string
		kind CommandKind
		args string
	}{
		{"q", CmdQuit, ""},
		{":quit", CmdQuit, ""},
		{"HELP", CmdHelp, ""},
		{"search  hello world ", CmdSearch, "hello world"},
		{"chat Ann", CmdChat, "Ann"},
		{"reply see you", CmdReply, "see you"},
		{"contacts", CmdContacts, ""},
		{"save", CmdCheckpoint, ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			cmd, err := ParseCommand(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, cmd.Kind)
			assert.Equal(t, tt.args, cmd.Args)
		})
	}
}

func TestParseCommandErrors(t *testing.T) {
	_, err := ParseCommand("logout")
	assert.ErrorContains(t, err, "unknown command")

	cmd, err := ParseCommand("search   ")
	assert.ErrorContains(t, err, "needs an argument")
	assert.Equal(t, CmdSearch, cmd.Kind)

	_, err = ParseCommand("")
	assert.Error(t, err)
}
