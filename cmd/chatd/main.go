package main

import (
	"fmt"
	"os"

	"github.com/matheus3301/chatkit/internal/config"
	"github.com/matheus3301/chatkit/internal/daemon"
	"github.com/matheus3301/chatkit/internal/session"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

func main() {
	var (
		sessionFlag string
		noSeed      bool
	)
	root := &cobra.Command{
		Use:          "chatd",
		Short:        "Run the chat daemon for one session",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sessionName := session.Resolve(sessionFlag)
			if err := session.ValidateName(sessionName); err != nil {
				return err
			}

			cfg, err := config.LoadOrDefault(session.ConfigPath())
			if err != nil {
				return err
			}
			if noSeed {
				cfg.SeedDemo = false
			}

			fx.New(
				daemon.Module(daemon.Params{SessionName: sessionName, Config: cfg}),
			).Run()
			return nil
		},
	}
	root.Flags().StringVar(&sessionFlag, "session", "", "session name (overrides $CHATKIT_SESSION and config default)")
	root.Flags().BoolVar(&noSeed, "no-seed", false, "start empty instead of loading demo data")

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
