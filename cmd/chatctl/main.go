package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/matheus3301/chatkit/internal/session"
	"github.com/matheus3301/chatkit/internal/tui/client"
	"github.com/spf13/cobra"
	"google.golang.org/grpc/status"
)

type globals struct {
	session string
	json    bool
	timeout time.Duration
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if s, ok := status.FromError(err); ok {
			fmt.Fprintf(os.Stderr, "error: %s: %s\n", s.Code(), s.Message())
		} else {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	g := &globals{}
	root := &cobra.Command{
		Use:           "chatctl",
		Short:         "Control a running chat daemon",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			g.session = session.Resolve(g.session)
			return session.ValidateName(g.session)
		},
	}
	root.PersistentFlags().StringVar(&g.session, "session", "", "session name (overrides $CHATKIT_SESSION and config default)")
	root.PersistentFlags().BoolVar(&g.json, "json", false, "output in JSON format")
	root.PersistentFlags().DurationVar(&g.timeout, "timeout", 10*time.Second, "RPC timeout")

	root.AddCommand(
		statusCmd(g),
		conversationsCmd(g),
		showCmd(g),
		messagesCmd(g),
		sendCmd(g, "send", "Send a text message", false),
		sendCmd(g, "incoming", "Inject an incoming text message from the peer", true),
		deleteCmd(g),
		directCmd(g),
		contactsCmd(g),
		searchCmd(g),
		keyboardCmd(g),
		checkpointCmd(g),
		sessionsCmd(g),
		watchCmd(g),
	)
	root.AddCommand(mutationCmds(g)...)
	return root
}

// connect dials the session daemon. The returned context carries the RPC
// timeout; stop closes both.
func (g *globals) connect(parent context.Context) (*client.Client, context.Context, func(), error) {
	socketPath := session.SocketPath(g.session)
	c, err := client.New(socketPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("connect to daemon for session %q: %w", g.session, err)
	}
	ctx, cancel := context.WithTimeout(parent, g.timeout)
	stop := func() {
		cancel()
		_ = c.Close()
	}
	return c, ctx, stop, nil
}

func (g *globals) out(cmd *cobra.Command) *printer {
	return &printer{w: cmd.OutOrStdout(), json: g.json}
}
