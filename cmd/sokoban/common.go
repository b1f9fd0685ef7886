package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-sokoban/internal/config"
	"github.com/vovakirdan/tui-sokoban/internal/levels"
	"github.com/vovakirdan/tui-sokoban/internal/metrics"
	"github.com/vovakirdan/tui-sokoban/internal/platform/tui"
	"github.com/vovakirdan/tui-sokoban/internal/qlearn"
	"github.com/vovakirdan/tui-sokoban/internal/session"
	"github.com/vovakirdan/tui-sokoban/internal/storage"
)

// run adapts a command body to cobra's Run: failures are printed as
// "Error: ..." and exit with status 1.
func run(fn func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) {
	return func(cmd *cobra.Command, args []string) {
		if err := fn(cmd, args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
}

// Training flags shared by train, watch, menu and serve.
var (
	flagSleep        int
	flagQuiet        int
	flagSteps        int
	flagPrintQ       bool
	flagPrintSuccess bool
	flagPrintFailure bool
	flagPrintExit    bool
	flagEmoji        bool
)

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&flagSleep, "sleep", 0, "Delay between shown steps in milliseconds (config: run.sleep_ms)")
	cmd.Flags().IntVar(&flagQuiet, "quiet", 0, "Trainer steps before the first shown step (config: run.quiet_steps)")
	cmd.Flags().IntVar(&flagSteps, "steps", 0, "Stop after this many steps, 0 runs until interrupted (config: run.max_steps)")
	cmd.Flags().BoolVar(&flagPrintQ, "print-q", false, "Print the Q-table on success, failure and exit")
	cmd.Flags().BoolVar(&flagPrintSuccess, "print-q-success", false, "Print the Q-table after every success")
	cmd.Flags().BoolVar(&flagPrintFailure, "print-q-failure", false, "Print the Q-table after every failure")
	cmd.Flags().BoolVar(&flagPrintExit, "print-q-exit", false, "Print the Q-table on exit")
	cmd.Flags().BoolVar(&flagEmoji, "emoji", false, "Draw the board with emoji")
}

// loadTrainingConfig loads the config file, applies the exploration preset
// and every run flag set on the command line.
func loadTrainingConfig(cmd *cobra.Command) (config.TrainingConfig, error) {
	cfg, err := config.LoadTraining(flagConfig)
	if err != nil {
		return cfg, err
	}

	if flagExploration != "" {
		preset, err := config.ParseExplorationPreset(flagExploration)
		if err != nil {
			return cfg, err
		}
		config.ApplyExplorationPreset(&cfg, preset)
	}

	flags := cmd.Flags()
	if flags.Lookup("sleep") != nil {
		if flags.Changed("sleep") {
			cfg.Run.SleepMS = flagSleep
		}
		if flags.Changed("quiet") {
			cfg.Run.QuietSteps = flagQuiet
		}
		if flags.Changed("steps") {
			cfg.Run.MaxSteps = flagSteps
		}
		if flags.Changed("emoji") {
			cfg.Run.Emoji = flagEmoji
		}
		if flagPrintQ {
			cfg.Run.PrintQ = config.PrintQConfig{Success: true, Failure: true, Exit: true}
		}
		if flags.Changed("print-q-success") {
			cfg.Run.PrintQ.Success = flagPrintSuccess
		}
		if flags.Changed("print-q-failure") {
			cfg.Run.PrintQ.Failure = flagPrintFailure
		}
		if flags.Changed("print-q-exit") {
			cfg.Run.PrintQ.Exit = flagPrintExit
		}
	}

	return cfg, cfg.Validate()
}

// newLogger creates the stderr logger at --log-level.
func newLogger(prefix string) (*log.Logger, error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", flagLogLevel, err)
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           level,
	}), nil
}

// openStore opens the runs database. Recording is optional: a failure is
// logged and training continues without it.
func openStore(logger *log.Logger) *storage.Store {
	if flagDBPath == "" {
		return nil
	}
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open runs database", "path", flagDBPath, "err", err)
		return nil
	}
	return store
}

// startMetrics serves /metrics in the background when --metrics-addr is set.
func startMetrics(ctx context.Context, logger *log.Logger) bool {
	if flagMetricsAddr == "" {
		return false
	}
	go func() {
		if err := metrics.Serve(ctx, flagMetricsAddr); err != nil {
			logger.Error("metrics server stopped", "addr", flagMetricsAddr, "err", err)
		}
	}()
	logger.Info("serving metrics", "addr", flagMetricsAddr)
	return true
}

// availableLevels returns the built-in levels followed by those of
// --levels-dir.
func availableLevels() ([]levels.Level, error) {
	out := levels.Builtins()
	if flagLevelsDir == "" {
		return out, nil
	}
	extra, err := levels.NewLoader(flagLevelsDir).LoadAll()
	if err != nil {
		return nil, err
	}
	return append(out, extra...), nil
}

// resolveLevel finds the level named by ref, also searching --levels-dir.
func resolveLevel(ref string) (levels.Level, error) {
	lvl, err := levels.Resolve(ref, os.Stdin)
	if err == nil || flagLevelsDir == "" {
		return lvl, err
	}
	if found, dirErr := levels.NewLoader(flagLevelsDir).LoadByID(ref); dirErr == nil {
		return found, nil
	}
	return lvl, err
}

// newSession starts a training session with the global seed, store, logger
// and metrics settings.
func newSession(lvl levels.Level, cfg config.TrainingConfig, store *storage.Store, logger *log.Logger, withMetrics bool) (*session.Session, error) {
	seed, err := session.ResolveSeed(flagSeed, flagRandomDevice)
	if err != nil {
		return nil, err
	}
	opts := []session.Option{
		session.WithSeed(seed),
		session.WithLogger(logger),
		session.WithStore(store),
	}
	if withMetrics {
		opts = append(opts, session.WithMetrics(metrics.NewRecorder(lvl.ID)))
	}
	return session.New(lvl, cfg, opts...)
}

// printQOnExit prints the full Q-table to stderr when requested.
func printQOnExit(cfg config.TrainingConfig, sess *session.Session) {
	if !cfg.Run.PrintQ.Exit {
		return
	}
	//nolint:errcheck // Best-effort output on exit
	tui.PrintQTable(os.Stderr, sess.Table(), sess.Game().Maze().StateWidth())
}

// printQAfter prints the full Q-table to stderr when the step ended an
// episode and printing was requested for that outcome.
func printQAfter(cfg config.TrainingConfig, sess *session.Session, res qlearn.StepResult) {
	if tui.WantsQPrint(cfg.Run.PrintQ, res) {
		//nolint:errcheck // Best-effort output
		tui.PrintQTable(os.Stderr, sess.Table(), sess.Game().Maze().StateWidth())
	}
}
