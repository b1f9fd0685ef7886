// Package qlearn holds the tabular Q-learning side: the Q-table, the
// epsilon-greedy selector and the one-step trainer.
package qlearn

import (
	"sort"

	"github.com/vovakirdan/tui-sokoban/internal/sokoban"
)

// Row holds the action values of one state, indexed by Direction.Index.
type Row [4]float64

// Get returns the value of a single direction; anything else reads as 0.
func (r Row) Get(d sokoban.Direction) float64 {
	i := d.Index()
	if i < 0 {
		return 0
	}
	return r[i]
}

// QTable is a sparse map from state keys to action rows. Unseen states read
// as zero rows and are only stored on first write.
type QTable struct {
	rows map[sokoban.State]Row
}

// NewQTable creates an empty table.
func NewQTable() *QTable {
	return &QTable{rows: make(map[sokoban.State]Row)}
}

// Get returns the value of action d in state s.
func (q *QTable) Get(s sokoban.State, d sokoban.Direction) float64 {
	return q.rows[s].Get(d)
}

// Row returns the full row of s, zero for unseen states.
func (q *QTable) Row(s sokoban.State) Row {
	return q.rows[s]
}

// Set stores the value of a single direction. Other directions are ignored.
func (q *QTable) Set(s sokoban.State, d sokoban.Direction, v float64) {
	i := d.Index()
	if i < 0 {
		return
	}
	row := q.rows[s]
	row[i] = v
	q.rows[s] = row
}

// SetRow replaces the row of s.
func (q *QTable) SetRow(s sokoban.State, row Row) {
	q.rows[s] = row
}

// Has reports whether s has been written.
func (q *QTable) Has(s sokoban.State) bool {
	_, ok := q.rows[s]
	return ok
}

// Len returns the number of stored states.
func (q *QTable) Len() int {
	return len(q.rows)
}

// States returns the stored states in ascending key order.
func (q *QTable) States() []sokoban.State {
	out := make([]sokoban.State, 0, len(q.rows))
	for s := range q.rows {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
