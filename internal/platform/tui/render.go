package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-sokoban/internal/core"
	"github.com/vovakirdan/tui-sokoban/internal/sokoban"
)

// colorStyles maps color roles to lipgloss styles.
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorDefault:   lipgloss.NewStyle(),
	core.ColorWall:      lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	core.ColorFloor:     lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
	core.ColorGoal:      lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	core.ColorBox:       lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	core.ColorBoxOnGoal: lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
	core.ColorPlayer:    lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true),
	core.ColorDim:       lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	core.ColorTitle:     lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Bold(true),
	core.ColorSuccess:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
	core.ColorFailure:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			startColor := s.GetCell(x, y).Color

			var run strings.Builder
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			style, ok := colorStyles[startColor]
			if !ok {
				style = colorStyles[core.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}

// Board glyphs in emoji mode. Each one is two terminal columns wide.
const (
	emojiPlayer  = '🙃'
	emojiBox     = '📦'
	emojiGoal    = '⭕'
	emojiFloor   = '⬛'
	emojiWall    = '⬜'
	emojiSuccess = "⭕"
	emojiFailure = "❌"
)

// cellGlyph returns the rune and color role of a board cell.
func cellGlyph(c sokoban.Cell, emoji bool) (rune, core.Color) {
	var color core.Color
	switch {
	case !c.IsFloor():
		color = core.ColorWall
	case c.Has(sokoban.Player):
		color = core.ColorPlayer
	case c.Has(sokoban.Box | sokoban.Goal):
		color = core.ColorBoxOnGoal
	case c.Has(sokoban.Box):
		color = core.ColorBox
	case c.Has(sokoban.Goal):
		color = core.ColorGoal
	default:
		color = core.ColorFloor
	}
	if !emoji {
		return rune(c.Symbol()), color
	}
	switch color {
	case core.ColorWall:
		return emojiWall, color
	case core.ColorPlayer:
		return emojiPlayer, color
	case core.ColorBox, core.ColorBoxOnGoal:
		return emojiBox, color
	case core.ColorGoal:
		return emojiGoal, color
	}
	return emojiFloor, color
}

// DrawBoard draws the game's cell grid with its top-left corner at (x, y).
func DrawBoard(s *core.Screen, x, y int, g *sokoban.Game, emoji bool) {
	for r, row := range g.Cells() {
		for c, cell := range row {
			ch, color := cellGlyph(cell, emoji)
			s.SetCell(x+c, y+r, ch, color)
		}
	}
}

// BoardText renders the board without styling, one line per maze row.
func BoardText(g *sokoban.Game, emoji bool) string {
	s := core.NewScreen(g.Width(), g.Height())
	DrawBoard(s, 0, 0, g, emoji)
	return s.String()
}

// OutcomeBanner returns the end-of-episode banner and its color role, or an
// empty string while the episode is running.
func OutcomeBanner(g *sokoban.Game, emoji bool) (string, core.Color) {
	switch {
	case g.Succeeded():
		if emoji {
			return emojiSuccess + "Succeeded", core.ColorSuccess
		}
		return "Succeeded", core.ColorSuccess
	case g.Failed():
		if emoji {
			return emojiFailure + "Failed", core.ColorFailure
		}
		return "Failed", core.ColorFailure
	}
	return "", core.ColorDefault
}
