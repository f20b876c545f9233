package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/matheus3301/chatkit/internal/session"
	"github.com/matheus3301/chatkit/internal/tui"
	"github.com/matheus3301/chatkit/internal/tui/client"
	"github.com/spf13/cobra"
)

func main() {
	var sessionFlag string
	root := &cobra.Command{
		Use:          "chattui",
		Short:        "Terminal chat client",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sessionName := session.Resolve(sessionFlag)
			if err := session.ValidateName(sessionName); err != nil {
				return err
			}
			return run(sessionName)
		},
	}
	root.Flags().StringVar(&sessionFlag, "session", "", "session name (overrides $CHATKIT_SESSION and config default)")

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(sessionName string) error {
	socketPath := session.SocketPath(sessionName)

	if !client.Probe(socketPath) {
		fmt.Fprintf(os.Stderr, "daemon not running for session %q, starting...\n", sessionName)
		if err := startDaemon(sessionName); err != nil {
			return fmt.Errorf("start daemon: %w", err)
		}
	}
	if !client.WaitReady(socketPath, 10*time.Second) {
		return fmt.Errorf("daemon for session %q did not become ready, see %s", sessionName, session.LogPath(sessionName))
	}

	c, err := client.New(socketPath)
	if err != nil {
		return fmt.Errorf("connect to daemon: %w", err)
	}
	defer func() { _ = c.Close() }()

	return tui.NewApp(c, sessionName).Run()
}

// startDaemon launches chatd from next to this binary, falling back to $PATH.
func startDaemon(sessionName string) error {
	chatd := "chatd"
	if executable, err := os.Executable(); err == nil {
		if p := filepath.Join(filepath.Dir(executable), "chatd"); fileExists(p) {
			chatd = p
		}
	}

	// Daemon output goes to its session log only.
	cmd := exec.Command(chatd, "--session", sessionName)
	if err := cmd.Start(); err != nil {
		return err
	}
	return cmd.Process.Release()
}

func fileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
