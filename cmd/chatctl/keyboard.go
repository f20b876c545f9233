package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/matheus3301/chatkit/internal/keyboard"
	"github.com/spf13/cobra"
)

func keyboardCmd(g *globals) *cobra.Command {
	var in keyboard.Input
	cmd := &cobra.Command{
		Use:   "keyboard",
		Short: "Compute the keyboard inset for one platform event",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, ctx, stop, err := g.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer stop()

			st, err := c.KeyboardLayout(ctx, in)
			if err != nil {
				return err
			}
			return g.out(cmd).emit(stateJSON(st), func(w io.Writer) { writeState(w, st) })
		},
	}
	cmd.Flags().IntVar(&in.PrevBaseWindowHeight, "prev", 0, "base window height from the previous event")
	cmd.Flags().IntVar(&in.RawKeyboardHeight, "raw", 0, "keyboard height reported by the platform")
	cmd.Flags().IntVar(&in.CurrentWindowHeight, "current", 0, "current window height")
	cmd.Flags().IntVar(&in.SafeAreaHeight, "safe", 0, "safe-area height, 0 if unknown")
	cmd.AddCommand(keyboardReplayCmd(g))
	return cmd
}

// keyboardReplayCmd runs a sequence of events through a local tracker and
// needs no daemon.
func keyboardReplayCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "replay <raw:current[:safe]>...",
		Short: "Replay a sequence of keyboard events, carrying the base height",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var tr keyboard.Tracker
			states := make([]map[string]int, 0, len(args))
			for _, arg := range args {
				raw, current, safe, err := parseEvent(arg)
				if err != nil {
					return err
				}
				states = append(states, stateJSON(tr.Observe(raw, current, safe)))
			}
			return g.out(cmd).emit(states, func(w io.Writer) {
				_, _ = fmt.Fprintln(w, "EVENT\tBASE\tEFFECTIVE")
				for i, st := range states {
					_, _ = fmt.Fprintf(w, "%s\t%d\t%d\n", args[i], st["baseWindowHeight"], st["effectiveKeyboardHeight"])
				}
			})
		},
	}
}

// parseEvent parses "raw:current" or "raw:current:safe".
func parseEvent(s string) (raw, current, safe int, err error) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, 0, 0, fmt.Errorf("event %q: want raw:current[:safe]", s)
	}
	vals := make([]int, 3)
	for i, p := range parts {
		if vals[i], err = strconv.Atoi(p); err != nil {
			return 0, 0, 0, fmt.Errorf("event %q: %w", s, err)
		}
	}
	return vals[0], vals[1], vals[2], nil
}

func stateJSON(st keyboard.State) map[string]int {
	return map[string]int{
		"baseWindowHeight":        st.BaseWindowHeight,
		"effectiveKeyboardHeight": st.EffectiveKeyboardHeight,
	}
}

func writeState(w io.Writer, st keyboard.State) {
	_, _ = fmt.Fprintf(w, "Base window height:\t%d\n", st.BaseWindowHeight)
	_, _ = fmt.Fprintf(w, "Effective keyboard height:\t%d\n", st.EffectiveKeyboardHeight)
}
