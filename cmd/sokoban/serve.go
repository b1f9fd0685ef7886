package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-sokoban/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the SSH server",
	Long: `Start an SSH server that lets users connect and watch training.

Each SSH connection gets its own level picker and its own training session.
Runs of every connection are recorded in the server's runs database.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.sokoban/host_key

Examples:
  sokoban serve                           # Listen on :23234 with auto-generated key
  sokoban serve --ssh :2222               # Listen on port 2222
  sokoban serve --host-key ./my_host_key  # Use specific host key
  sokoban serve --metrics-addr :9090      # Also export Prometheus metrics

Users can connect with:
  ssh localhost -p 23234`,
	Args: cobra.NoArgs,
	Run:  run(runServe),
}

func init() {
	addRunFlags(serveCmd)
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadTrainingConfig(cmd)
	if err != nil {
		return err
	}
	lvls, err := availableLevels()
	if err != nil {
		return err
	}
	logger, err := newLogger("sokoban-ssh")
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := openStore(logger)
	if store != nil {
		defer store.Close()
	}

	server, err := tui.NewSSHServer(tui.SSHServerConfig{
		Address:     flagSSHAddr,
		HostKeyPath: flagHostKey,
		IdleTimeout: time.Duration(flagIdleTimeout) * time.Minute,
		Training:    cfg,
		Levels:      lvls,
		Seed:        flagSeed,
		Metrics:     startMetrics(ctx, logger),
	}, store, logger)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	fmt.Printf("Starting sokoban SSH server on %s\n", flagSSHAddr)
	fmt.Println("Press Ctrl+C to stop")

	return server.ListenAndServe(ctx)
}
