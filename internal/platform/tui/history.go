package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-sokoban/internal/core"
	"github.com/vovakirdan/tui-sokoban/internal/storage"
)

// History layout constants
const (
	minWidthForSidebar = 100 // Minimum width to show the run details sidebar
	sidebarWidth       = 30
	maxRuns            = 100
)

// HistoryKeyMap defines the key bindings for the history browser.
type HistoryKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Delete key.Binding
	Back   key.Binding
	Quit   key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k HistoryKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Delete, k.Back, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k HistoryKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Delete},
		{k.Back, k.Quit},
	}
}

// DefaultHistoryKeyMap returns default key bindings.
func DefaultHistoryKeyMap() HistoryKeyMap {
	return HistoryKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "previous run"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "next run"),
		),
		Delete: key.NewBinding(
			key.WithKeys("x", "delete"),
			key.WithHelp("x", "delete run"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// HistoryModel is the Bubble Tea model for browsing recorded training runs.
type HistoryModel struct {
	store       *storage.Store
	runs        []storage.Run
	stats       map[string]*storage.RunStats
	table       table.Model
	help        help.Model
	keys        HistoryKeyMap
	width       int
	height      int
	err         error
	quitting    bool
	goingBack   bool
	showSidebar bool
}

// NewHistoryModel creates a history browser over store. A nil store shows
// an empty list.
func NewHistoryModel(store *storage.Store, width, height int) HistoryModel {
	h := help.New()
	h.ShowAll = false

	m := HistoryModel{
		store:       store,
		stats:       make(map[string]*storage.RunStats),
		keys:        DefaultHistoryKeyMap(),
		help:        h,
		width:       width,
		height:      height,
		showSidebar: width >= minWidthForSidebar,
	}
	m.table = m.createTable()
	m.loadRuns()
	return m
}

// createTable creates the runs table sized to the window.
func (m *HistoryModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "Run", Width: 10},
		{Title: "Level", Width: 14},
		{Title: "Started", Width: 14},
		{Title: "Steps", Width: 9},
		{Title: "Episodes", Width: 9},
		{Title: "Success", Width: 8},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-8, 3)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// loadRuns reloads the runs and their statistics.
func (m *HistoryModel) loadRuns() {
	m.runs = nil
	m.err = nil
	clear(m.stats)
	if m.store != nil {
		runs, err := m.store.RecentRuns(maxRuns)
		if err != nil {
			m.err = err
		} else {
			m.runs = runs
			for _, r := range runs {
				if st, err := m.store.RunStats(r.ID); err == nil {
					m.stats[r.ID] = st
				}
			}
		}
	}
	m.updateTableRows()
}

// updateTableRows updates the table with the loaded runs.
func (m *HistoryModel) updateTableRows() {
	rows := make([]table.Row, len(m.runs))
	for i, r := range m.runs {
		episodes, rate := "-", "-"
		if st := m.stats[r.ID]; st != nil {
			episodes = fmt.Sprintf("%d", st.Episodes)
			if st.Episodes > 0 {
				rate = fmt.Sprintf("%.0f%%", 100*st.SuccessRate())
			}
		}
		steps := fmt.Sprintf("%d", r.Steps)
		if !r.Finished() {
			steps = "running"
		}
		rows[i] = table.Row{
			shortID(r.ID),
			r.Level,
			r.StartedAt.Local().Format("Jan 02 15:04"),
			steps,
			episodes,
			rate,
		}
	}
	m.table.SetRows(rows)
	m.table.SetCursor(core.Clamp(m.table.Cursor(), 0, max(len(rows)-1, 0)))
}

// Init initializes the history model.
func (m HistoryModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the history browser.
func (m HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Delete):
			if run := m.current(); run != nil && m.store != nil {
				if err := m.store.DeleteRun(run.ID); err != nil {
					m.err = err
				} else {
					m.loadRuns()
				}
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.showSidebar = m.width >= minWidthForSidebar
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// current returns the run under the cursor.
func (m HistoryModel) current() *storage.Run {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.runs) {
		return nil
	}
	return &m.runs[i]
}

// View renders the history browser.
func (m HistoryModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		MarginBottom(1)
	b.WriteString(titleStyle.Render(centerText("TRAINING RUNS", m.width, -1)))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	tableRendered := tableStyle.Render(m.renderTableContent())

	if m.showSidebar && len(m.runs) > 0 {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tableRendered, "  ", m.renderSidebar()))
	} else {
		b.WriteString(tableRendered)
	}

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(colorStyles[core.ColorFailure].Render("Error: " + m.err.Error()))
	}

	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// renderSidebar renders details of the selected run.
func (m HistoryModel) renderSidebar() string {
	sidebarStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(sidebarWidth).
		Padding(0, 1)

	run := m.current()
	if run == nil {
		return sidebarStyle.Render("")
	}

	var s strings.Builder
	s.WriteString(run.Level + "\n")
	s.WriteString(strings.Repeat("-", sidebarWidth-4) + "\n")
	s.WriteString(run.Maze + "\n\n")
	fmt.Fprintf(&s, "seed    %d\n", run.Seed)
	fmt.Fprintf(&s, "ε/α/γ   %.2f/%.2f/%.2f\n", run.Epsilon, run.Alpha, run.Gamma)
	fmt.Fprintf(&s, "Q rows  %d\n", run.QStates)
	if st := m.stats[run.ID]; st != nil && st.Episodes > 0 {
		fmt.Fprintf(&s, "best    %d steps\n", st.BestSteps)
		fmt.Fprintf(&s, "avg     %.1f steps\n", st.AvgSteps)
	}
	return sidebarStyle.Render(s.String())
}

// renderTableContent renders the table or empty message.
func (m HistoryModel) renderTableContent() string {
	if len(m.runs) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
		return emptyStyle.Render("No training runs recorded yet.\nTrain on a level to record one!")
	}

	return m.table.View()
}

// IsGoingBack returns true if user wants to go back to the picker.
func (m HistoryModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m HistoryModel) IsQuitting() bool {
	return m.quitting
}

// RunHistory runs the history browser.
// Returns true if user wants to go back to the picker, false if quitting.
func RunHistory(store *storage.Store, width, height int) (goBack bool, err error) {
	p := tea.NewProgram(
		NewHistoryModel(store, width, height),
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}

	m, ok := finalModel.(HistoryModel)
	if !ok {
		return false, nil
	}

	return m.IsGoingBack(), nil
}
