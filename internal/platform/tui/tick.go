// Package tui provides the Bubble Tea front end of the trainer: the training
// watcher, the level picker, the run history browser and the SSH server.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// minTick bounds the tick rate when the step delay is zero.
const minTick = time.Millisecond

// TickMsg is sent to trigger a trainer step. Seq identifies the tick chain
// that produced it so stale chains can be dropped after a pause.
type TickMsg struct {
	Time time.Time
	Seq  int
}

// tickCmd returns a Bubble Tea command that sends one tick after delay.
func tickCmd(delay time.Duration, seq int) tea.Cmd {
	if delay < minTick {
		delay = minTick
	}
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return TickMsg{Time: t, Seq: seq}
	})
}
