package sokoban

type axis uint8

const (
	vertical axis = iota
	horizontal
)

func (a axis) other() axis {
	if a == vertical {
		return horizontal
	}
	return vertical
}

// sides returns the two directions along the axis.
func (a axis) sides() (Direction, Direction) {
	if a == vertical {
		return Up, Down
	}
	return Left, Right
}

type frozenKey struct {
	pos  Pos
	axis axis
}

func (g *Game) hasBox(p Pos) bool {
	return g.Cell(p)&Box != 0
}

// canMove reports whether the player standing at p can move in d. With push
// set, a box in the way may be pushed if the cell beyond it is free floor.
func (g *Game) canMove(p Pos, d Direction, push bool) bool {
	next := p.Step(d)
	if !g.maze.IsFloor(next) {
		return false
	}
	if g.hasBox(next) {
		if !push {
			return false
		}
		return g.canMove(next, d, false)
	}
	return true
}

func (g *Game) checkFailed() bool {
	if g.succeeded {
		return false
	}
	if g.directions == NoDirection {
		return true
	}
	for _, b := range g.boxes {
		if g.Cell(b).Has(Goal) {
			continue
		}
		v := g.boxStuck(b, vertical, make(map[frozenKey]bool))
		h := g.boxStuck(b, horizontal, make(map[frozenKey]bool))
		if v && h {
			return true
		}
		if v && g.againstWall(b, vertical) {
			return true
		}
		if h && g.againstWall(b, horizontal) {
			return true
		}
	}
	return !g.canPushAny()
}

// boxStuck reports whether the box at p cannot move along axis a: one side is
// a wall, or a neighbouring box is itself stuck on the other axis. path holds
// the (position, axis) pairs of the current recursion; meeting one again is a
// closed ring of boxes holding each other, which counts as stuck. Depth is
// bounded by twice the box count.
func (g *Game) boxStuck(p Pos, a axis, path map[frozenKey]bool) bool {
	key := frozenKey{pos: p, axis: a}
	if path[key] {
		return true
	}
	path[key] = true
	defer delete(path, key)

	d1, d2 := a.sides()
	n1, n2 := p.Step(d1), p.Step(d2)
	if !g.maze.IsFloor(n1) || !g.maze.IsFloor(n2) {
		return true
	}
	if g.hasBox(n1) && g.boxStuck(n1, a.other(), path) {
		return true
	}
	return g.hasBox(n2) && g.boxStuck(n2, a.other(), path)
}

// againstWall runs the wall-run check for each wall that touches the box at
// p along axis a.
func (g *Game) againstWall(p Pos, a axis) bool {
	d1, d2 := a.sides()
	if !g.maze.IsFloor(p.Step(d1)) && g.wallRun(p, d2) {
		return true
	}
	return !g.maze.IsFloor(p.Step(d2)) && g.wallRun(p, d1)
}

// wallRun walks the floor run through p perpendicular to away, where away
// points from the wall toward the box. If no cell of the run opens onto the
// wall side, the boxes on the run can never leave it, and the position is
// dead when they outnumber the goals on it.
func (g *Game) wallRun(p Pos, away Direction) bool {
	boxes, goals := 0, 0
	count := func(c Cell) {
		if c&Box != 0 {
			boxes++
		}
		if c&Goal != 0 {
			goals++
		}
	}
	count(g.Cell(p))

	along := [2]Direction{Left, Right}
	if away == Left || away == Right {
		along = [2]Direction{Up, Down}
	}
	for _, d := range along {
		for q := p.Step(d); g.maze.IsFloor(q); q = q.Step(d) {
			if g.maze.IsFloor(q.Back(away)) {
				return false
			}
			count(g.Cell(q))
		}
	}
	return boxes > goals
}

// canPushAny reports whether some push is available from a cell the player
// reaches without pushing.
func (g *Game) canPushAny() bool {
	seen := make([]bool, len(g.cells))
	seen[g.maze.index(g.player)] = true
	stack := []Pos{g.player}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, d := range Directions {
			if g.canMove(p, d, false) {
				next := p.Step(d)
				if i := g.maze.index(next); !seen[i] {
					seen[i] = true
					stack = append(stack, next)
				}
			} else if g.canMove(p, d, true) {
				return true
			}
		}
	}
	return false
}
