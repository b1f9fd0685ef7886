package qlearn

import (
	"testing"

	"github.com/vovakirdan/tui-sokoban/internal/sokoban"
)

// scriptedRand returns fixed draws and counts calls. Intn answers from seq
// first and falls back to n once seq is used up.
type scriptedRand struct {
	f      float64
	n      int
	seq    []int
	floats int
	ints   int
	lastN  int
}

func (r *scriptedRand) Float64() float64 {
	r.floats++
	return r.f
}

func (r *scriptedRand) Intn(n int) int {
	r.ints++
	r.lastN = n
	if len(r.seq) > 0 {
		v := r.seq[0]
		r.seq = r.seq[1:]
		return v
	}
	return r.n
}

func TestSelectAction(t *testing.T) {
	tests := []struct {
		name    string
		legal   sokoban.Direction
		values  Row
		eps     float64
		draw    float64
		pick    int
		want    sokoban.Direction
		floats  int
		ints    int
		intSize int
	}{
		{
			name:  "no legal move",
			legal: sokoban.NoDirection,
			want:  sokoban.NoDirection,
		},
		{
			name:   "single legal move skips the random source",
			legal:  sokoban.Down,
			values: Row{9, 9, 9, -5},
			eps:    1,
			want:   sokoban.Down,
		},
		{
			name:    "full tie is random",
			legal:   sokoban.Left | sokoban.Right | sokoban.Down,
			draw:    0.99,
			pick:    2,
			want:    sokoban.Down,
			floats:  1,
			ints:    1,
			intSize: 3,
		},
		{
			name:   "strict max wins",
			legal:  sokoban.Up | sokoban.Right,
			values: Row{1, 0, 2, 0},
			draw:   0.5,
			eps:    0.1,
			want:   sokoban.Right,
			floats: 1,
		},
		{
			name:   "partial tie goes to bit-scan order",
			legal:  sokoban.Up | sokoban.Left | sokoban.Right,
			values: Row{0, 3, 3, 0},
			draw:   0.5,
			eps:    0.1,
			want:   sokoban.Left,
			floats: 1,
		},
		{
			name:    "draw below epsilon explores",
			legal:   sokoban.Up | sokoban.Right,
			values:  Row{1, 0, 2, 0},
			draw:    0.01,
			eps:     0.1,
			pick:    0,
			want:    sokoban.Up,
			floats:  1,
			ints:    1,
			intSize: 2,
		},
		{
			name:   "illegal directions are ignored",
			legal:  sokoban.Left | sokoban.Down,
			values: Row{100, -1, 100, -2},
			draw:   0.5,
			want:   sokoban.Left,
			floats: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rng := &scriptedRand{f: tt.draw, n: tt.pick}
			got := SelectAction(rng, tt.eps, tt.legal, tt.values)
			if got != tt.want {
				t.Errorf("SelectAction = %v, want %v", got, tt.want)
			}
			if rng.floats != tt.floats || rng.ints != tt.ints {
				t.Errorf("draws = %d floats %d ints, want %d %d", rng.floats, rng.ints, tt.floats, tt.ints)
			}
			if tt.ints > 0 && rng.lastN != tt.intSize {
				t.Errorf("Intn(%d), want Intn(%d)", rng.lastN, tt.intSize)
			}
		})
	}
}
