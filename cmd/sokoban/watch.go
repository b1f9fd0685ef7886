package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-sokoban/internal/platform/tui"
)

var watchCmd = &cobra.Command{
	Use:   "watch <level>",
	Short: "Train and watch every step",
	Long: `Train on a level and draw the board after every trainer step, with the
elapsed time of the attempt, the state key and its Q-values.

Controls:
  P/Space  - Pause / resume
  S        - Single step while paused
  +/-      - Faster / slower
  T        - Print the full Q-table
  E        - Toggle emoji board
  Q/Ctrl+C - Stop

Without a terminal on standard output, training runs headless as with 'train'.

Examples:
  sokoban watch square
  sokoban watch microban-1 --quiet 100000 --sleep 200
  sokoban watch corridor --emoji --print-q-exit
  sokoban watch - < maze.txt`,
	Args: cobra.ExactArgs(1),
	Run:  run(runWatch),
}

func init() {
	addRunFlags(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadTrainingConfig(cmd)
	if err != nil {
		return err
	}
	lvl, err := resolveLevel(args[0])
	if err != nil {
		return err
	}
	logger, err := newLogger("sokoban")
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := openStore(logger)
	if store != nil {
		defer store.Close()
	}

	sess, err := newSession(lvl, cfg, store, logger, startMetrics(ctx, logger))
	if err != nil {
		return err
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		logger.Warn("standard output is not a terminal, training headless")
		return trainHeadless(ctx, cfg, sess, "")
	}

	_, runErr := tui.RunWatch(ctx, sess, tui.WatchConfigFrom(cfg.Run))
	closeErr := sess.Close()
	printQOnExit(cfg, sess)
	if runErr != nil {
		return runErr
	}
	return closeErr
}
