package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	lgtable "github.com/charmbracelet/lipgloss/table"

	"github.com/vovakirdan/tui-sokoban/internal/config"
	"github.com/vovakirdan/tui-sokoban/internal/core"
	"github.com/vovakirdan/tui-sokoban/internal/qlearn"
	"github.com/vovakirdan/tui-sokoban/internal/sokoban"
)

// qPrecision is the number of decimals printed for Q-values.
const qPrecision = 4

var qHeaders = []string{"State", "Up", "Left", "Right", "Down"}

// QCells formats one Q-table row as table cells, state first.
func QCells(s sokoban.State, bits int, row qlearn.Row) []string {
	cells := make([]string, 0, len(qHeaders))
	cells = append(cells, "0x"+s.Hex(bits))
	for _, v := range row {
		cells = append(cells, fmt.Sprintf("%.*f", qPrecision, v))
	}
	return cells
}

// FormatQTable renders every row of the table, ordered by state, as a
// bordered table. bits is the state width used for the hex column.
func FormatQTable(q *qlearn.QTable, bits int) string {
	numStyle := lipgloss.NewStyle().Padding(0, 1).Align(lipgloss.Right)
	headStyle := numStyle.Bold(true)

	t := lgtable.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(colorStyles[core.ColorDim]).
		Headers(qHeaders...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == lgtable.HeaderRow {
				return headStyle
			}
			return numStyle
		})
	for _, s := range q.States() {
		t.Row(QCells(s, bits, q.Row(s))...)
	}
	return t.String()
}

// WantsQPrint reports whether res ended an episode with an outcome p asks to
// print. The restart step that follows a finished game reports the same
// outcome again and never triggers a print.
func WantsQPrint(p config.PrintQConfig, res qlearn.StepResult) bool {
	if res.Restarted {
		return false
	}
	return (res.Succeeded && p.Success) || (res.Failed && p.Failure)
}

// PrintQTable writes the full table framed by blank lines.
func PrintQTable(w io.Writer, q *qlearn.QTable, bits int) error {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(FormatQTable(q, bits))
	b.WriteString("\n\n")
	_, err := io.WriteString(w, b.String())
	return err
}
