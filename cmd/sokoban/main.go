// sokoban trains a tabular Q-learning agent on Sokoban levels and shows the
// training in the terminal.
//
// Usage:
//
//	sokoban levels             - List available levels
//	sokoban check <level>      - Parse a maze and print its analysis
//	sokoban watch <level>      - Train and watch every step
//	sokoban train <level>      - Train headless and print a summary
//	sokoban menu               - Pick a level interactively, then watch
//	sokoban history [run]      - Show recorded training runs
//	sokoban serve              - Start SSH server for remote watching
//
// A level is a built-in level ID, a maze or level pack file, "file#id" for
// one level of a pack, or "-" for a maze on standard input.
//
// Global flags:
//
//	--seed <value>      - RNG seed (0 = time based)
//	--random-device     - Seed from the operating system's random source
//	--config <path>     - Training config YAML
//	--exploration <p>   - Exploration preset: greedy, normal, explore, fixed
//	--db <path>         - Runs database (default: ~/.sokoban/runs.db, "" disables)
//	--metrics-addr <a>  - Serve Prometheus metrics on this address
//	--log-level <l>     - debug, info, warn, error
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagSeed         int64
	flagRandomDevice bool
	flagConfig       string
	flagExploration  string
	flagDBPath       string
	flagMetricsAddr  string
	flagLogLevel     string
	flagLevelsDir    string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "sokoban",
	Short: "Sokoban Q-learning - watch an agent learn to push boxes",
	Long: `sokoban trains a tabular Q-learning agent on Sokoban mazes.

The agent moves the player one cell at a time. Pushing every box onto a goal
ends an attempt successfully; a position from which no solution exists ends it
as failed. Either way the game restarts and training continues.

Maze alphabet:
  #  wall        .  floor       $  goal
  &  box         @  box on goal
  *  player      +  player on goal

Available commands:
  levels   - Show built-in levels
  check    - Analyse a maze
  watch    - Train and watch every step
  train    - Train headless
  menu     - Interactive level picker
  history  - Recorded training runs
  serve    - Start SSH server for remote watching

Examples:
  sokoban levels
  sokoban watch square --sleep 50
  sokoban train microban-1 --steps 200000 --plot curve.png
  sokoban watch - < maze.txt
  sokoban serve --ssh :2222`,
	SilenceUsage: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().BoolVar(&flagRandomDevice, "random-device", false, "Seed from the operating system's random source")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to training config YAML")
	rootCmd.PersistentFlags().StringVar(&flagExploration, "exploration", "", "Exploration preset: greedy, normal, explore, fixed")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.sokoban/runs.db", "Path to runs database (empty disables recording)")
	rootCmd.PersistentFlags().StringVar(&flagMetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9090)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLevelsDir, "levels-dir", "", "Directory of extra level files")

	// Add subcommands
	rootCmd.AddCommand(levelsCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(trainCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(serveCmd)
}
