package main

import (
	"fmt"
	"io"
	"time"

	"github.com/matheus3301/chatkit/internal/lock"
	"github.com/matheus3301/chatkit/internal/session"
	"github.com/spf13/cobra"
)

type sessionInfo struct {
	Name    string    `json:"name"`
	Running bool      `json:"running"`
	PID     int       `json:"pid,omitempty"`
	Since   time.Time `json:"since,omitzero"`
}

func sessionsCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "sessions",
		Short: "List known sessions and whether a daemon holds each",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			names, err := session.List()
			if err != nil {
				return err
			}
			infos := make([]sessionInfo, 0, len(names))
			for _, name := range names {
				info := sessionInfo{Name: name}
				if lock.Held(session.Dir(name)) {
					info.Running = true
					if holder, err := lock.Read(session.Dir(name)); err == nil {
						info.PID, info.Since = holder.PID, holder.Since
					}
				}
				infos = append(infos, info)
			}
			return g.out(cmd).emit(infos, func(w io.Writer) {
				_, _ = fmt.Fprintln(w, "SESSION\tSTATE\tPID\tSINCE")
				for _, s := range infos {
					state, pid, since := "stopped", "-", "-"
					if s.Running {
						state, pid = "running", fmt.Sprint(s.PID)
						if !s.Since.IsZero() {
							since = s.Since.Format(time.RFC3339)
						}
					}
					if s.Name == g.session {
						state += " *"
					}
					_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.Name, state, pid, since)
				}
			})
		},
	}
}
