package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-sokoban/internal/config"
	"github.com/vovakirdan/tui-sokoban/internal/qlearn"
	"github.com/vovakirdan/tui-sokoban/internal/report"
	"github.com/vovakirdan/tui-sokoban/internal/session"
)

var flagPlot string

var trainCmd = &cobra.Command{
	Use:   "train <level>",
	Short: "Train headless and print a summary",
	Long: `Train on a level without drawing the board.

Training runs for --steps trainer steps, or until Ctrl+C when --steps is 0.
The run and every finished episode are recorded in the runs database.

Examples:
  sokoban train square --steps 5000
  sokoban train microban-1 --steps 500000 --plot microban.png
  sokoban train levels/pack.yaml#lvl01 --exploration explore
  sokoban train - --steps 10000 < maze.txt`,
	Args: cobra.ExactArgs(1),
	Run:  run(runTrain),
}

func init() {
	addRunFlags(trainCmd)
	trainCmd.Flags().StringVar(&flagPlot, "plot", "", "Write a learning-curve PNG to this path")
}

func runTrain(cmd *cobra.Command, args []string) error {
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
	return trainHeadless(ctx, cfg, sess, flagPlot)
}

// trainHeadless runs sess until the step limit or ctx is done, then prints
// the summary and the requested Q-table and plot.
func trainHeadless(ctx context.Context, cfg config.TrainingConfig, sess *session.Session, plotPath string) error {
	err := sess.Run(ctx, cfg.Run.MaxSteps, func(res qlearn.StepResult) error {
		printQAfter(cfg, sess, res)
		return nil
	})
	if closeErr := sess.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	printQOnExit(cfg, sess)
	printSummary(sess.Summary())

	if plotPath != "" {
		if plotErr := report.SaveLearningCurve(plotPath, sess.Level().Title(), sess.Outcomes()); plotErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", plotErr)
		} else {
			fmt.Printf("Learning curve written to %s\n", plotPath)
		}
	}
	return err
}

func printSummary(sum session.Summary) {
	fmt.Printf("Run %s - %s\n", sum.RunID, sum.Level)
	fmt.Println()
	fmt.Printf("  %-10s  %d\n", "Seed", sum.Seed)
	fmt.Printf("  %-10s  %d\n", "Steps", sum.Steps)
	fmt.Printf("  %-10s  %d\n", "Episodes", sum.Episodes)
	fmt.Printf("  %-10s  %d\n", "Succeeded", sum.Successes)
	fmt.Printf("  %-10s  %d\n", "Failed", sum.Failures)
	if sum.BestSteps > 0 {
		fmt.Printf("  %-10s  %d steps\n", "Best", sum.BestSteps)
	}
	fmt.Printf("  %-10s  %d\n", "Q states", sum.QStates)
	fmt.Printf("  %-10s  %.3f\n", "Epsilon", sum.Epsilon)
}
