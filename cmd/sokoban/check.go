package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-sokoban/internal/platform/tui"
	"github.com/vovakirdan/tui-sokoban/internal/sokoban"
)

var flagCheckEmoji bool

var checkCmd = &cobra.Command{
	Use:   "check <level>",
	Short: "Parse a maze and print its analysis",
	Long: `Parse a maze and print what the trainer sees: its size, floor cells,
boxes and goals, the initial state key and the legal first moves.

Invalid mazes print the construction error, e.g. "[NO_BOX] No Box".

Examples:
  sokoban check square
  sokoban check maze.txt
  echo '#####\n#*&$#\n#####' | sokoban check -`,
	Args: cobra.ExactArgs(1),
	Run:  run(runCheck),
}

func init() {
	checkCmd.Flags().BoolVar(&flagCheckEmoji, "emoji", false, "Draw the board with emoji")
}

func runCheck(_ *cobra.Command, args []string) error {
	lvl, err := resolveLevel(args[0])
	if err != nil {
		return err
	}
	g, err := lvl.NewGame()
	if err != nil {
		return err
	}
	m := g.Maze()

	status := "running"
	switch {
	case g.Succeeded():
		status = "succeeded"
	case g.Failed():
		status = "failed"
	}

	fmt.Printf("Level - %s\n", lvl.Title())
	fmt.Println()
	fmt.Println(tui.BoardText(g, flagCheckEmoji))
	fmt.Println()
	fmt.Printf("  %-8s  %dx%d\n", "Size", m.Width(), m.Height())
	fmt.Printf("  %-8s  %d cells, %d bits per field\n", "Floor", m.FloorCount(), m.FloorBits())
	fmt.Printf("  %-8s  %d (%d on goals)\n", "Boxes", m.BoxCount(), g.Finished())
	fmt.Printf("  %-8s  %d\n", "Goals", len(m.Goals()))
	fmt.Printf("  %-8s  0x%s (%d of %d bits)\n", "State", g.State().Hex(m.StateWidth()), m.StateWidth(), sokoban.StateBits)
	fmt.Printf("  %-8s  %s\n", "Moves", g.Directions())
	fmt.Printf("  %-8s  %s\n", "Status", status)
	return nil
}
