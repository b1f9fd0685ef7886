package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-sokoban/internal/platform/tui"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Pick a level interactively, then watch it train",
	Long: `Start in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to train on a level.
Leaving the watcher with Esc/B returns to the menu.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Select level
  Tab          - Training history
  Q            - Quit

Examples:
  sokoban menu
  sokoban menu --levels-dir ./levels
  sokoban menu --sleep 20 --emoji`,
	Args: cobra.NoArgs,
	Run:  run(runMenu),
}

func init() {
	addRunFlags(menuCmd)
}

func runMenu(cmd *cobra.Command, _ []string) error {
	cfg, err := loadTrainingConfig(cmd)
	if err != nil {
		return err
	}
	lvls, err := availableLevels()
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
	withMetrics := startMetrics(ctx, logger)

	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width, height = w, h
	}
	items := tui.NewMenuItems(lvls)

	// Menu loop
	for ctx.Err() == nil {
		menuResult, err := tui.RunMenu(items, width, height, store != nil)
		if err != nil {
			return err
		}
		width, height = menuResult.Width, menuResult.Height

		if menuResult.WantsHistory {
			back, err := tui.RunHistory(store, width, height)
			if err != nil {
				return err
			}
			if !back {
				return nil
			}
			continue
		}
		if menuResult.Level == nil {
			return nil
		}

		sess, err := newSession(*menuResult.Level, cfg, store, logger, withMetrics)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			continue
		}
		res, runErr := tui.RunWatch(ctx, sess, tui.WatchConfigFrom(cfg.Run))
		if err := sess.Close(); err != nil {
			logger.Warn("could not finish run", "err", err)
		}
		printQOnExit(cfg, sess)
		if runErr != nil {
			return runErr
		}
		if !res.BackToMenu {
			return nil
		}
	}
	return nil
}
