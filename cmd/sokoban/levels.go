package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "List all available levels",
	Long: `Shows the built-in levels and, with --levels-dir, the levels found in
that directory (.txt mazes and .yaml/.yml level packs).`,
	Args: cobra.NoArgs,
	Run:  run(runLevels),
}

func runLevels(_ *cobra.Command, _ []string) error {
	lvls, err := availableLevels()
	if err != nil {
		return err
	}

	if len(lvls) == 0 {
		fmt.Println("No levels available.")
		return nil
	}

	fmt.Println("Available levels:")
	fmt.Println()

	// Calculate column widths
	maxIDLen := 2 // "ID" header
	for _, l := range lvls {
		maxIDLen = max(maxIDLen, len(l.ID))
	}

	fmt.Printf("  %-*s  %-7s  %-5s  %s\n", maxIDLen, "ID", "Size", "Boxes", "Title")
	fmt.Printf("  %-*s  %-7s  %-5s  %s\n", maxIDLen, "--", "----", "-----", "-----")

	for _, l := range lvls {
		m, err := l.Parse()
		if err != nil {
			fmt.Printf("  %-*s  %-7s  %-5s  %s (%v)\n", maxIDLen, l.ID, "-", "-", l.Title(), err)
			continue
		}
		size := fmt.Sprintf("%dx%d", m.Width(), m.Height())
		fmt.Printf("  %-*s  %-7s  %-5d  %s\n", maxIDLen, l.ID, size, m.BoxCount(), l.Title())
	}

	fmt.Println()
	fmt.Println("Run 'sokoban watch <id>' to train on a level.")
	return nil
}
