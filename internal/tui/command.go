package tui

import (
	"fmt"
	"strings"
)

// CommandKind identifies a ':' command.
type CommandKind int

const (
	CmdUnknown CommandKind = iota
	CmdQuit
	CmdHelp
	CmdChats
	CmdContacts
	CmdSearch
	CmdChat
	CmdReply
	CmdCheckpoint
)

var commandNames = map[string]CommandKind{
	"q":          CmdQuit,
	"quit":       CmdQuit,
	"h":          CmdHelp,
	"help":       CmdHelp,
	"chats":      CmdChats,
	"contacts":   CmdContacts,
	"search":     CmdSearch,
	"s":          CmdSearch,
	"chat":       CmdChat,
	"reply":      CmdReply,
	"checkpoint": CmdCheckpoint,
	"save":       CmdCheckpoint,
}

// argRequired lists commands that make no sense without an argument.
var argRequired = map[CommandKind]bool{
	CmdSearch: true,
	CmdChat:   true,
	CmdReply:  true,
}

// Command is a parsed ':' command line.
type Command struct {
	Kind CommandKind
	Name string
	Args string
}

// ParseCommand parses a command line without its leading ':'.
func ParseCommand(input string) (Command, error) {
	input = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(input), ":"))
	name, args, _ := strings.Cut(input, " ")
	cmd := Command{Name: strings.ToLower(name), Args: strings.TrimSpace(args)}

	kind, ok := commandNames[cmd.Name]
	if !ok {
		return cmd, fmt.Errorf("unknown command %q", name)
	}
	cmd.Kind = kind
	if argRequired[kind] && cmd.Args == "" {
		return cmd, fmt.Errorf(":%s needs an argument", cmd.Name)
	}
	return cmd, nil
}
