package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-sokoban/internal/platform/tui"
	"github.com/vovakirdan/tui-sokoban/internal/report"
	"github.com/vovakirdan/tui-sokoban/internal/storage"
)

var (
	flagHistoryLimit int
	flagHistoryPlot  string
	flagHistoryTUI   bool
)

var historyCmd = &cobra.Command{
	Use:   "history [run]",
	Short: "Show recorded training runs",
	Long: `Without arguments, list the most recent training runs. With a run ID
(or a unique prefix of one), show the statistics of that run.

Examples:
  sokoban history
  sokoban history --tui
  sokoban history 3f2a9c1e
  sokoban history 3f2a9c1e --plot curve.png`,
	Args: cobra.MaximumNArgs(1),
	Run:  run(runHistory),
}

func init() {
	historyCmd.Flags().IntVar(&flagHistoryLimit, "limit", 10, "Number of runs to list")
	historyCmd.Flags().StringVar(&flagHistoryPlot, "plot", "", "Write the run's learning-curve PNG to this path")
	historyCmd.Flags().BoolVar(&flagHistoryTUI, "tui", false, "Browse runs interactively")
}

func runHistory(_ *cobra.Command, args []string) error {
	if flagDBPath == "" {
		return fmt.Errorf("no runs database (--db is empty)")
	}
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("opening runs database: %w", err)
	}
	defer store.Close()

	if flagHistoryTUI {
		width, height := 80, 24
		if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
			width, height = w, h
		}
		_, err := tui.RunHistory(store, width, height)
		return err
	}

	if len(args) == 0 {
		return listRuns(store)
	}
	rec, err := findRun(store, args[0])
	if err != nil {
		return err
	}
	return showRun(store, rec)
}

func listRuns(store *storage.Store) error {
	runs, err := store.RecentRuns(flagHistoryLimit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No training runs recorded yet.")
		fmt.Println()
		fmt.Println("Run 'sokoban train <level>' to record one.")
		return nil
	}

	fmt.Printf("  %-8s  %-16s  %-16s  %10s  %8s  %7s\n", "Run", "Level", "Started", "Steps", "Episodes", "Success")
	fmt.Printf("  %-8s  %-16s  %-16s  %10s  %8s  %7s\n", "---", "-----", "-------", "-----", "--------", "-------")
	for _, r := range runs {
		episodes, rate := "-", "-"
		if st, err := store.RunStats(r.ID); err == nil {
			episodes = fmt.Sprintf("%d", st.Episodes)
			if st.Episodes > 0 {
				rate = fmt.Sprintf("%.0f%%", 100*st.SuccessRate())
			}
		}
		steps := fmt.Sprintf("%d", r.Steps)
		if !r.Finished() {
			steps = "running"
		}
		fmt.Printf("  %-8s  %-16s  %-16s  %10s  %8s  %7s\n",
			r.ID[:min(8, len(r.ID))], r.Level, r.StartedAt.Local().Format("2006-01-02 15:04"), steps, episodes, rate)
	}
	return nil
}

// findRun looks a run up by ID, then by unique ID prefix among recent runs.
func findRun(store *storage.Store, ref string) (*storage.Run, error) {
	rec, err := store.Run(ref)
	if err != nil || rec != nil {
		return rec, err
	}

	runs, err := store.RecentRuns(1000)
	if err != nil {
		return nil, err
	}
	var match *storage.Run
	for i := range runs {
		if !strings.HasPrefix(runs[i].ID, ref) {
			continue
		}
		if match != nil {
			return nil, fmt.Errorf("run prefix %q is ambiguous", ref)
		}
		match = &runs[i]
	}
	if match == nil {
		return nil, fmt.Errorf("unknown run %q", ref)
	}
	return match, nil
}

func showRun(store *storage.Store, rec *storage.Run) error {
	stats, err := store.RunStats(rec.ID)
	if err != nil {
		return err
	}

	fmt.Printf("Run %s - %s\n", rec.ID, rec.Level)
	fmt.Println()
	fmt.Println(rec.Maze)
	fmt.Println()
	fmt.Printf("  %-10s  %s\n", "Started", rec.StartedAt.Local().Format("2006-01-02 15:04:05"))
	if rec.Finished() {
		fmt.Printf("  %-10s  %s\n", "Finished", rec.FinishedAt.Local().Format("2006-01-02 15:04:05"))
	}
	fmt.Printf("  %-10s  %d\n", "Seed", rec.Seed)
	fmt.Printf("  %-10s  ε=%.3f α=%.3f γ=%.3f\n", "Learning", rec.Epsilon, rec.Alpha, rec.Gamma)
	fmt.Printf("  %-10s  %d\n", "Steps", rec.Steps)
	fmt.Printf("  %-10s  %d\n", "Q states", rec.QStates)
	fmt.Printf("  %-10s  %d (%d succeeded, %d failed)\n", "Episodes", stats.Episodes, stats.Successes, stats.Failures)
	if stats.Episodes > 0 {
		fmt.Printf("  %-10s  %.1f%%\n", "Success", 100*stats.SuccessRate())
		fmt.Printf("  %-10s  %.1f steps\n", "Average", stats.AvgSteps)
	}
	if stats.BestSteps > 0 {
		fmt.Printf("  %-10s  %d steps\n", "Best", stats.BestSteps)
	}

	if flagHistoryPlot == "" {
		return nil
	}
	episodes, err := store.RunEpisodes(rec.ID)
	if err != nil {
		return err
	}
	if err := report.SaveLearningCurve(flagHistoryPlot, rec.Level, report.FromEpisodes(episodes)); err != nil {
		return err
	}
	fmt.Println()
	fmt.Printf("Learning curve written to %s\n", flagHistoryPlot)
	return nil
}
