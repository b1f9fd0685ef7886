package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-sokoban/internal/core"
	"github.com/vovakirdan/tui-sokoban/internal/levels"
)

// MenuItem represents a selectable level in the picker.
type MenuItem struct {
	Level levels.Level
	Boxes int
	Size  string // "width x height"
}

// NewMenuItems builds picker entries, skipping levels whose maze is invalid.
func NewMenuItems(lvls []levels.Level) []MenuItem {
	items := make([]MenuItem, 0, len(lvls))
	for _, lvl := range lvls {
		m, err := lvl.Parse()
		if err != nil {
			continue
		}
		items = append(items, MenuItem{
			Level: lvl,
			Boxes: m.BoxCount(),
			Size:  fmt.Sprintf("%dx%d", m.Width(), m.Height()),
		})
	}
	return items
}

// MenuModel is the Bubble Tea model for the level picker.
type MenuModel struct {
	items       []MenuItem
	cursor      int
	width       int
	height      int
	withHistory bool
	quitting    bool
	selected    *MenuItem
	openHistory bool
}

// NewMenuModel creates a picker over items. withHistory enables the history
// key.
func NewMenuModel(items []MenuItem, width, height int, withHistory bool) MenuModel {
	return MenuModel{
		items:       items,
		width:       width,
		height:      height,
		withHistory: withHistory,
	}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch MapKeyToMenuAction(msg) {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case MenuActionSelect:
		if len(m.items) > 0 {
			selected := m.items[m.cursor]
			m.selected = &selected
			return m, tea.Quit
		}

	case MenuActionHistory:
		if m.withHistory {
			m.openHistory = true
			return m, tea.Quit
		}
	}

	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	title := colorStyles[core.ColorTitle]
	dim := colorStyles[core.ColorDim]

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(title.Render("  S O K O B A N  "), m.width, len("  S O K O B A N  ")))
	b.WriteString("\n\n")
	b.WriteString(centerText("Select a level to train on", m.width, -1))
	b.WriteString("\n\n")

	if len(m.items) == 0 {
		b.WriteString(centerText(dim.Render("No valid levels found."), m.width, len("No valid levels found.")))
		b.WriteString("\n")
	}

	for i, item := range m.items {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		line := fmt.Sprintf("%s%-24s %6s  %d box", cursor, item.Level.Title(), item.Size, item.Boxes)
		if item.Boxes != 1 {
			line += "es"
		}
		b.WriteString(centerText(line, m.width, -1))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	controls := "Up/Down: Navigate  |  Enter: Train"
	if m.withHistory {
		controls += "  |  Tab: History"
	}
	controls += "  |  Q: Quit"
	b.WriteString(centerText(dim.Render(controls), m.width, len(controls)))
	b.WriteString("\n")

	return b.String()
}

// Selected returns the selected menu item, or nil if none selected.
func (m MenuModel) Selected() *MenuItem {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsHistory returns true if user requested the run history.
func (m MenuModel) WantsHistory() bool {
	return m.openHistory
}

// Size returns the last known terminal size.
func (m MenuModel) Size() (int, int) {
	return m.width, m.height
}

// centerText centers text within width. visible is the printed length of
// text, or -1 to use its rune count.
func centerText(text string, width, visible int) string {
	if visible < 0 {
		visible = len([]rune(text))
	}
	if visible >= width {
		return text
	}
	padding := (width - visible) / 2
	return strings.Repeat(" ", padding) + text
}

// MenuResult holds the result of running the menu.
type MenuResult struct {
	Level        *levels.Level
	Width        int
	Height       int
	WantsHistory bool
	Quit         bool
}

// RunMenu runs the level picker and returns the selection.
func RunMenu(items []MenuItem, width, height int, withHistory bool) (MenuResult, error) {
	p := tea.NewProgram(
		NewMenuModel(items, width, height, withHistory),
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return MenuResult{Width: width, Height: height}, err
	}

	m, ok := finalModel.(MenuModel)
	if !ok {
		return MenuResult{Width: width, Height: height, Quit: true}, nil
	}

	result := MenuResult{}
	result.Width, result.Height = m.Size()

	switch {
	case m.WantsHistory():
		result.WantsHistory = true
	case m.Selected() != nil:
		lvl := m.Selected().Level
		result.Level = &lvl
	default:
		result.Quit = true
	}
	return result, nil
}
