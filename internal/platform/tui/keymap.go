package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-sokoban/internal/core"
)

// WatchKeyMap defines the key bindings of the training watcher.
type WatchKeyMap struct {
	Pause  key.Binding
	Step   key.Binding
	Faster key.Binding
	Slower key.Binding
	PrintQ key.Binding
	Emoji  key.Binding
	Help   key.Binding
	Back   key.Binding
	Quit   key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k WatchKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Pause, k.Step, k.Faster, k.Slower, k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k WatchKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Pause, k.Step, k.Faster, k.Slower},
		{k.PrintQ, k.Emoji, k.Back, k.Quit},
	}
}

// DefaultWatchKeyMap returns default key bindings.
func DefaultWatchKeyMap() WatchKeyMap {
	return WatchKeyMap{
		Pause: key.NewBinding(
			key.WithKeys("p", " "),
			key.WithHelp("p/space", "pause"),
		),
		Step: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "single step"),
		),
		Faster: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "faster"),
		),
		Slower: key.NewBinding(
			key.WithKeys("-", "_"),
			key.WithHelp("-", "slower"),
		),
		PrintQ: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "print Q-table"),
		),
		Emoji: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "emoji"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more keys"),
		),
		Back: key.NewBinding(
			key.WithKeys("b", "esc"),
			key.WithHelp("esc/b", "levels"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// MapKey translates a key message to a watcher action.
func (k WatchKeyMap) MapKey(msg tea.KeyMsg) core.Action {
	switch {
	case key.Matches(msg, k.Quit):
		return core.ActionQuit
	case key.Matches(msg, k.Pause):
		return core.ActionPause
	case key.Matches(msg, k.Step):
		return core.ActionStep
	case key.Matches(msg, k.Faster):
		return core.ActionFaster
	case key.Matches(msg, k.Slower):
		return core.ActionSlower
	case key.Matches(msg, k.PrintQ):
		return core.ActionPrintQ
	case key.Matches(msg, k.Emoji):
		return core.ActionEmoji
	case key.Matches(msg, k.Help):
		return core.ActionHelp
	case key.Matches(msg, k.Back):
		return core.ActionBack
	}
	return core.ActionNone
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionSelect
	MenuActionHistory
	MenuActionQuit
)

// MapKeyToMenuAction translates a key to a menu action.
func MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	switch msg.String() {
	case "ctrl+c", "q", "esc":
		return MenuActionQuit
	case "w", "up", "k": // vim-style k for up
		return MenuActionUp
	case "s", "down", "j": // vim-style j for down
		return MenuActionDown
	case "enter", " ":
		return MenuActionSelect
	case "tab", "h":
		return MenuActionHistory
	}
	return MenuActionNone
}
