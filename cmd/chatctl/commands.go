package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/matheus3301/chatkit/internal/chat"
	"github.com/matheus3301/chatkit/internal/wire"
	"github.com/spf13/cobra"
)

func statusCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show daemon status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, ctx, stop, err := g.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer stop()

			st, err := c.Status(ctx)
			if err != nil {
				return err
			}
			return g.out(cmd).emit(st, func(w io.Writer) {
				last := "never"
				if !st.LastCheckpoint.IsZero() {
					last = st.LastCheckpoint.Format(time.RFC3339)
				}
				if st.CheckpointPending {
					last += " (changes pending)"
				}
				_, _ = fmt.Fprintf(w, "Session:\t%s\n", st.Session)
				_, _ = fmt.Fprintf(w, "State:\t%s (since %s)\n", st.State, st.StateSince.Format(time.RFC3339))
				_, _ = fmt.Fprintf(w, "Uptime:\t%s\n", st.Uptime.Round(time.Second))
				_, _ = fmt.Fprintf(w, "Identity:\t%s (%s)\n", st.IdentityName, st.IdentityID)
				_, _ = fmt.Fprintf(w, "Conversations:\t%d (%d stored)\n", st.Conversations, st.StoredConversations)
				_, _ = fmt.Fprintf(w, "Messages:\t%d (%d stored)\n", st.Messages, st.StoredMessages)
				_, _ = fmt.Fprintf(w, "Unread:\t%d\n", st.TotalUnread)
				_, _ = fmt.Fprintf(w, "Schema:\tv%d\n", st.SchemaVersion)
				_, _ = fmt.Fprintf(w, "Checkpoint:\t%s\n", last)
			})
		},
	}
}

func conversationsCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:     "conversations",
		Aliases: []string{"ls", "chats"},
		Short:   "List conversations, pinned first then most recent",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, ctx, stop, err := g.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer stop()

			list, err := c.Conversations(ctx)
			if err != nil {
				return err
			}
			return g.out(cmd).emit(list, func(w io.Writer) {
				writeConversations(w, list)
			})
		},
	}
}

func showCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "show <conversation-id>",
		Short: "Show one conversation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, ctx, stop, err := g.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer stop()

			it, err := c.Conversation(ctx, args[0])
			if err != nil {
				return err
			}
			return g.out(cmd).emit(it, func(w io.Writer) { writeConversation(w, it) })
		},
	}
}

func messagesCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "messages <conversation-id>",
		Short: "Print a conversation's messages, oldest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, ctx, stop, err := g.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer stop()

			msgs, err := c.Messages(ctx, args[0])
			if err != nil {
				return err
			}
			return g.out(cmd).emit(msgs, func(w io.Writer) {
				for _, m := range msgs {
					writeMessage(w, m)
				}
			})
		},
	}
}

// sendCmd builds send and incoming, which differ only in direction.
func sendCmd(g *globals, use, short string, incoming bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <conversation-id> <text>...",
		Short: short,
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, ctx, stop, err := g.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer stop()

			text := strings.Join(args[1:], " ")
			var (
				msg chat.Message
				ok  bool
			)
			if incoming {
				msg, ok, err = c.SimulateIncomingText(ctx, args[0], text)
			} else {
				msg, ok, err = c.SendText(ctx, args[0], text)
			}
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("nothing sent: blank text or unknown conversation %q", args[0])
			}
			return g.out(cmd).emit(msg, func(w io.Writer) { writeMessage(w, msg) })
		},
	}
}

var mutations = []struct {
	use, method, short string
}{
	{"open", wire.MethodOpenConversation, "Open a conversation, clearing its unread count"},
	{"read", wire.MethodMarkRead, "Mark a conversation read"},
	{"unread", wire.MethodMarkUnread, "Mark a conversation unread"},
	{"pin", wire.MethodTogglePin, "Toggle a conversation's pin"},
	{"mute", wire.MethodToggleMute, "Toggle a conversation's mute"},
}

func mutationCmds(g *globals) []*cobra.Command {
	cmds := make([]*cobra.Command, 0, len(mutations))
	for _, m := range mutations {
		cmds = append(cmds, &cobra.Command{
			Use:   m.use + " <conversation-id>",
			Short: m.short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				c, ctx, stop, err := g.connect(cmd.Context())
				if err != nil {
					return err
				}
				defer stop()

				it, found, err := c.Mutate(ctx, m.method, args[0])
				if err != nil {
					return err
				}
				if !found {
					return fmt.Errorf("unknown conversation %q", args[0])
				}
				return g.out(cmd).emit(it, func(w io.Writer) { writeConversation(w, it) })
			},
		})
	}
	return cmds
}

func deleteCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <conversation-id>",
		Short: "Delete a conversation and its messages",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, ctx, stop, err := g.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer stop()

			ok, err := c.DeleteConversation(ctx, args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("unknown conversation %q", args[0])
			}
			return g.out(cmd).emit(map[string]any{"deleted": args[0]}, func(w io.Writer) {
				_, _ = fmt.Fprintf(w, "deleted %s\n", args[0])
			})
		},
	}
}

func directCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "direct <contact-id>",
		Short: "Find or create the direct conversation with a contact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, ctx, stop, err := g.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer stop()

			it, found, err := c.DirectConversation(ctx, args[0])
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("unknown contact %q", args[0])
			}
			return g.out(cmd).emit(it, func(w io.Writer) { writeConversation(w, it) })
		},
	}
}

func searchCmd(g *globals) *cobra.Command {
	var (
		convID string
		limit  int
	)
	cmd := &cobra.Command{
		Use:   "search <text>...",
		Short: "Search message text, newest first",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, ctx, stop, err := g.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer stop()

			hits, err := c.Search(ctx, strings.Join(args, " "), convID, limit)
			if err != nil {
				return err
			}
			return g.out(cmd).emit(hits, func(w io.Writer) {
				for _, h := range hits {
					_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
						time.UnixMilli(h.Message.At).Format("2006-01-02 15:04"), h.Message.ConvID, h.Message.SenderName, h.Snippet)
				}
				_, _ = fmt.Fprintf(w, "\n%d matches\n", len(hits))
			})
		},
	}
	cmd.Flags().StringVar(&convID, "conv", "", "restrict to one conversation")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of results")
	return cmd
}

func checkpointCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "checkpoint",
		Short: "Persist the current state to the session database now",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, ctx, stop, err := g.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer stop()

			res, err := c.Checkpoint(ctx)
			if err != nil {
				return err
			}
			return g.out(cmd).emit(res, func(w io.Writer) {
				if res.Saved {
					_, _ = fmt.Fprintf(w, "saved snapshot v%d\n", res.Version)
				} else {
					_, _ = fmt.Fprintf(w, "up to date at v%d\n", res.Version)
				}
			})
		},
	}
}

func watchCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "watch [prefix]",
		Short: "Stream daemon events until interrupted",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prefix := ""
			if len(args) == 1 {
				prefix = args[0]
			}
			c, _, stop, err := g.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer stop()

			stream, err := c.WatchEvents(cmd.Context(), prefix)
			if err != nil {
				return err
			}
			p := g.out(cmd)
			for {
				ev, err := stream.Recv()
				if errors.Is(err, io.EOF) {
					return nil
				}
				if err != nil {
					return err
				}
				if err := p.emit(ev, func(w io.Writer) {
					_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", ev.At.Format("15:04:05.000"), ev.Kind, ev.ConvID)
				}); err != nil {
					return err
				}
			}
		},
	}
}
