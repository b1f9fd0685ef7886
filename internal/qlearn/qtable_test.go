package qlearn

import (
	"testing"

	"github.com/vovakirdan/tui-sokoban/internal/sokoban"
)

func TestQTableDefaults(t *testing.T) {
	q := NewQTable()
	for _, d := range sokoban.Directions {
		if v := q.Get(42, d); v != 0 {
			t.Errorf("Get(unseen, %v) = %v, want 0", d, v)
		}
	}
	if q.Row(42) != (Row{}) {
		t.Error("unseen row must be zero")
	}
	if q.Has(42) || q.Len() != 0 {
		t.Error("reads must not create entries")
	}
}

func TestQTableSet(t *testing.T) {
	q := NewQTable()
	q.Set(7, sokoban.Right, 1.5)
	q.Set(7, sokoban.Up|sokoban.Down, 9)
	q.Set(8, sokoban.NoDirection, 9)

	if got := q.Row(7); got != (Row{0, 0, 1.5, 0}) {
		t.Errorf("Row(7) = %v", got)
	}
	if q.Has(8) {
		t.Error("writing a non-move must not create an entry")
	}
	if q.Get(7, sokoban.Up|sokoban.Right) != 0 {
		t.Error("a mask must read as 0")
	}

	q.SetRow(3, Row{1, 2, 3, 4})
	if q.Get(3, sokoban.Down) != 4 {
		t.Errorf("Get(3, Down) = %v", q.Get(3, sokoban.Down))
	}
	states := q.States()
	if len(states) != 2 || states[0] != 3 || states[1] != 7 {
		t.Errorf("States = %v, want [3 7]", states)
	}
}
