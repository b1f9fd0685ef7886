package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-sokoban/internal/config"
	"github.com/vovakirdan/tui-sokoban/internal/core"
	"github.com/vovakirdan/tui-sokoban/internal/qlearn"
	"github.com/vovakirdan/tui-sokoban/internal/session"
)

// Step delay bounds for the +/- keys.
const (
	minSlowDelay = 10 * time.Millisecond
	maxDelay     = 5 * time.Second
)

// WatchConfig controls the training watcher.
type WatchConfig struct {
	Sleep      time.Duration // delay between trainer steps
	QuietSteps int           // steps taken before the first frame
	MaxSteps   int           // stop after this many steps, 0 for no limit
	Emoji      bool
	PrintQ     config.PrintQConfig
}

// WatchConfigFrom builds a watcher configuration from the run section.
func WatchConfigFrom(run config.RunConfig) WatchConfig {
	return WatchConfig{
		Sleep:      run.Sleep(),
		QuietSteps: run.QuietSteps,
		MaxSteps:   run.MaxSteps,
		Emoji:      run.Emoji,
		PrintQ:     run.PrintQ,
	}
}

type warmupDoneMsg struct{ err error }

// WatchModel is the Bubble Tea model that trains a session and draws every
// step: the board, elapsed time, the state key and its Q-values.
type WatchModel struct {
	ctx     context.Context
	sess    *session.Session
	cfg     WatchConfig
	keys    WatchKeyMap
	help    help.Model
	qtable  table.Model
	delay   time.Duration
	seq     int
	width   int
	ready   bool
	paused  bool
	hasStep bool // false until the first step is shown

	quitting   bool
	backToMenu bool
	err        error
}

// NewWatchModel creates a watcher for sess. ctx stops the warm-up.
func NewWatchModel(ctx context.Context, sess *session.Session, cfg WatchConfig) WatchModel {
	h := help.New()
	h.ShowAll = false

	m := WatchModel{
		ctx:   ctx,
		sess:  sess,
		cfg:   cfg,
		keys:  DefaultWatchKeyMap(),
		help:  h,
		delay: cfg.Sleep,
	}
	m.qtable = newQRowTable()
	m.refreshTable()
	return m
}

func newQRowTable() table.Model {
	columns := []table.Column{
		{Title: "", Width: 8},
		{Title: "State", Width: 18},
		{Title: "Up", Width: 12},
		{Title: "Left", Width: 12},
		{Title: "Right", Width: 12},
		{Title: "Down", Width: 12},
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(false),
		table.WithHeight(4),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Cell
	t.SetStyles(s)
	return t
}

// refreshTable shows the current state's row and the last update.
func (m *WatchModel) refreshTable() {
	g := m.sess.Game()
	bits := g.Maze().StateWidth()
	cur := g.State()

	rows := []table.Row{append(table.Row{"Q(s)"}, QCells(cur, bits, m.sess.Table().Row(cur))...)}
	if m.hasStep {
		last := m.sess.Last()
		if !last.Restarted {
			rows = append(rows,
				append(table.Row{"before"}, QCells(last.State, bits, last.Before)...),
				append(table.Row{"after"}, QCells(last.State, bits, last.After)...),
			)
		}
	}
	m.qtable.SetRows(rows)
}

// Init starts the warm-up.
func (m WatchModel) Init() tea.Cmd {
	sess, ctx, n := m.sess, m.ctx, m.cfg.QuietSteps
	return func() tea.Msg {
		_, err := sess.Warmup(ctx, n)
		return warmupDoneMsg{err: err}
	}
}

// Update handles messages and updates the model state.
func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case warmupDoneMsg:
		if msg.err != nil {
			if !errors.Is(msg.err, context.Canceled) {
				m.err = msg.err
			}
			m.quitting = true
			return m, tea.Quit
		}
		m.ready = true
		m.hasStep = m.cfg.QuietSteps > 0
		m.refreshTable()
		return m, tickCmd(m.delay, m.seq)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		if !m.ready || m.paused || msg.Seq != m.seq {
			return m, nil
		}
		cmd := m.step()
		if m.quitting {
			return m, tea.Batch(cmd, tea.Quit)
		}
		return m, tea.Batch(cmd, tickCmd(m.delay, m.seq))
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m WatchModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keys.MapKey(msg) {
	case core.ActionQuit:
		m.quitting = true
		return m, tea.Quit

	case core.ActionBack:
		if !m.ready {
			return m, nil
		}
		m.backToMenu = true
		return m, tea.Quit

	case core.ActionPause:
		if !m.ready {
			return m, nil
		}
		m.paused = !m.paused
		if m.paused {
			return m, nil
		}
		m.seq++
		return m, tickCmd(m.delay, m.seq)

	case core.ActionStep:
		if !m.ready || !m.paused {
			return m, nil
		}
		cmd := m.step()
		if m.quitting {
			return m, tea.Batch(cmd, tea.Quit)
		}
		return m, cmd

	case core.ActionFaster:
		m.delay /= 2
		if m.delay < minSlowDelay {
			m.delay = 0
		}

	case core.ActionSlower:
		if m.delay < minSlowDelay {
			m.delay = minSlowDelay
		} else {
			m.delay = min(m.delay*2, maxDelay)
		}

	case core.ActionPrintQ:
		return m, tea.Println(FormatQTable(m.sess.Table(), m.sess.Game().Maze().StateWidth()))

	case core.ActionEmoji:
		m.cfg.Emoji = !m.cfg.Emoji

	case core.ActionHelp:
		m.help.ShowAll = !m.help.ShowAll
	}

	return m, nil
}

// step runs one trainer step and returns the command printing the Q-table
// when the step ended an episode and printing was requested.
func (m *WatchModel) step() tea.Cmd {
	res := m.sess.Step()
	m.hasStep = true
	m.refreshTable()

	if m.cfg.MaxSteps > 0 && m.sess.Steps() >= m.cfg.MaxSteps {
		m.quitting = true
	}
	if WantsQPrint(m.cfg.PrintQ, res) {
		return tea.Println(FormatQTable(m.sess.Table(), m.sess.Game().Maze().StateWidth()))
	}
	return nil
}

// View renders the current state to a string for display.
func (m WatchModel) View() string {
	if m.quitting || m.backToMenu {
		return ""
	}

	title := colorStyles[core.ColorTitle]
	dim := colorStyles[core.ColorDim]

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(title.Render(m.sess.Level().Title()))
	b.WriteString(dim.Render("  run " + shortID(m.sess.ID())))
	b.WriteString("\n\n")

	if !m.ready {
		b.WriteString(dim.Render(fmt.Sprintf("Warming up (%d steps)...", m.cfg.QuietSteps)))
		b.WriteString("\n")
		return b.String()
	}

	g := m.sess.Game()
	board := core.NewScreen(g.Width(), g.Height())
	DrawBoard(board, 0, 0, g, m.cfg.Emoji)
	b.WriteString(RenderScreen(board))
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "Time: %d\n", g.Elapsed())
	fmt.Fprintf(&b, "State: 0x%s\n\n", g.State().Hex(g.Maze().StateWidth()))
	b.WriteString(m.qtable.View())
	b.WriteString("\n\n")

	if m.hasStep {
		b.WriteString(describeStep(m.sess.Last()))
		b.WriteString("\n")
	}
	if banner, color := OutcomeBanner(g, m.cfg.Emoji); banner != "" {
		b.WriteString(colorStyles[color].Render(banner))
		b.WriteString("\n")
	}

	sum := m.sess.Summary()
	status := fmt.Sprintf("steps %d  episodes %d  succeeded %d  failed %d  Q states %d  ε %.3f  delay %s",
		sum.Steps, sum.Episodes, sum.Successes, sum.Failures, sum.QStates, sum.Epsilon, m.delay)
	if m.paused {
		status += "  [paused]"
	}
	b.WriteString("\n")
	b.WriteString(dim.Render(status))
	b.WriteString("\n")
	b.WriteString(dim.Render(m.help.View(m.keys)))
	b.WriteString("\n")

	return b.String()
}

// describeStep renders the last trainer step on one line.
func describeStep(res qlearn.StepResult) string {
	if res.Restarted {
		return "Restarted"
	}
	line := fmt.Sprintf("Last: %s  reward %+.4f", res.Action, res.Reward)
	if res.Pushed {
		line += "  push"
	}
	return line
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// Session returns the watched session.
func (m WatchModel) Session() *session.Session {
	return m.sess
}

// IsQuitting returns true if training was stopped.
func (m WatchModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if the user asked for the level picker.
func (m WatchModel) BackToMenu() bool {
	return m.backToMenu
}

// Err returns the error that stopped the watcher, if any.
func (m WatchModel) Err() error {
	return m.err
}

// WatchResult describes how the watcher ended.
type WatchResult struct {
	BackToMenu bool
}

// RunWatch runs the watcher on the terminal until the user quits, MaxSteps
// is reached or ctx is cancelled. The view is drawn inline so Q-tables printed
// while training stay in the scrollback.
func RunWatch(ctx context.Context, sess *session.Session, cfg WatchConfig) (WatchResult, error) {
	p := tea.NewProgram(
		NewWatchModel(ctx, sess, cfg),
		tea.WithContext(ctx),
	)

	final, err := p.Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return WatchResult{}, err
	}
	m, ok := final.(WatchModel)
	if !ok {
		return WatchResult{}, nil
	}
	return WatchResult{BackToMenu: m.BackToMenu()}, m.Err()
}
