package main

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/matheus3301/chatkit/internal/config"
	"github.com/matheus3301/chatkit/internal/daemon"
	"github.com/matheus3301/chatkit/internal/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
)

func testHome(t *testing.T) {
	t.Helper()
	dir, err := os.MkdirTemp("/tmp", "chatctl-test-*")
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.RemoveAll(dir) })
	t.Setenv("CHATKIT_HOME", dir)
	t.Setenv("CHATKIT_SESSION", "")
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func startDaemon(t *testing.T, sessionName string) {
	t.Helper()
	cfg := config.Default()
	cfg.LogLevel = "error"
	cfg.CheckpointInterval = config.Duration{Duration: 50 * time.Millisecond}

	app := fxtest.New(t, daemon.Module(daemon.Params{SessionName: sessionName, Config: cfg}))
	app.RequireStart()
	t.Cleanup(app.RequireStop)
}

func TestParseEvent(t *testing.T) {
	raw, current, safe, err := parseEvent("300:550")
	require.NoError(t, err)
	assert.Equal(t, []int{300, 550, 0}, []int{raw, current, safe})

	_, _, safe, err = parseEvent("0:800:820")
	require.NoError(t, err)
	assert.Equal(t, 820, safe)

	for _, bad := range []string{"300", "1:2:3:4", "a:800"} {
		_, _, _, err := parseEvent(bad)
		assert.Error(t, err, bad)
	}
}

func TestKeyboardReplayJSON(t *testing.T) {
	testHome(t)
	out, err := execute(t, "--json", "keyboard", "replay", "0:800", "300:550", "0:550")
	require.NoError(t, err)

	var states []map[string]int
	require.NoError(t, json.Unmarshal([]byte(out), &states))
	assert.Equal(t, []map[string]int{
		{"baseWindowHeight": 800, "effectiveKeyboardHeight": 0},
		{"baseWindowHeight": 800, "effectiveKeyboardHeight": 50},
		{"baseWindowHeight": 800, "effectiveKeyboardHeight": 0},
	}, states)
}

func TestInvalidSessionRejected(t *testing.T) {
	testHome(t)
	_, err := execute(t, "--session", "Bad Name", "sessions")
	assert.Error(t, err)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
}

func TestFlags(t *testing.T) {
	it := wire.ConversationItem{}
	it.Pinned, it.IsGroup = true, true
	assert.Equal(t, "P-G", flags(it))
}

func TestAgainstDaemon(t *testing.T) {
	testHome(t)
	startDaemon(t, "cli")

	out, err := execute(t, "--session", "cli", "--json", "conversations")
	require.NoError(t, err)
	var list wire.ConversationList
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	require.Len(t, list.Items, 3)
	first := list.Items[0].ID

	out, err = execute(t, "--session", "cli", "send", first, "hello", "from", "cli")
	require.NoError(t, err)
	assert.Contains(t, out, "hello from cli")

	out, err = execute(t, "--session", "cli", "--json", "pin", first)
	require.NoError(t, err)
	var it wire.ConversationItem
	require.NoError(t, json.Unmarshal([]byte(out), &it))
	assert.Equal(t, first, it.ID)

	_, err = execute(t, "--session", "cli", "pin", "nope")
	assert.ErrorContains(t, err, "unknown conversation")

	out, err = execute(t, "--session", "cli", "search", "from cli")
	require.NoError(t, err)
	assert.Contains(t, out, "1 matches")

	out, err = execute(t, "--session", "cli", "sessions")
	require.NoError(t, err)
	assert.True(t, strings.Contains(out, "cli") && strings.Contains(out, "running *"), out)

	out, err = execute(t, "--session", "cli", "checkpoint")
	require.NoError(t, err)
	assert.Contains(t, out, "v")
}
