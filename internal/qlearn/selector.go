package qlearn

import "github.com/vovakirdan/tui-sokoban/internal/sokoban"

// Rand is the random source used for exploration. *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

// SelectAction picks an epsilon-greedy move among the legal ones.
//
// A single legal move is returned without touching rng. Otherwise one
// Float64 is drawn; if every legal move has the same value, or the draw is
// below epsilon, a move is chosen with Intn over the legal moves in
// bit-scan order. Otherwise the move with the highest value wins, and a tie
// among only some of the moves goes to the first in bit-scan order.
func SelectAction(rng Rand, epsilon float64, legal sokoban.Direction, values Row) sokoban.Direction {
	var (
		best    = sokoban.NoDirection
		top     float64
		prev    float64
		count   int
		allSame = true
	)
	for _, d := range sokoban.Directions {
		if legal&d == 0 {
			continue
		}
		v := values.Get(d)
		if count == 0 {
			best, top = d, v
		} else {
			allSame = allSame && v == prev
			if v > top {
				best, top = d, v
			}
		}
		prev = v
		count++
	}

	switch count {
	case 0:
		return sokoban.NoDirection
	case 1:
		return best
	}

	if r := rng.Float64(); allSame || r < epsilon {
		return legal.Each()[rng.Intn(count)]
	}
	return best
}
