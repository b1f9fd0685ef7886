package sokoban

import (
	"sort"
	"strings"
)

// Game is the mutable simulation of one maze. It is not safe for concurrent
// use; a single goroutine owns it.
type Game struct {
	maze *Maze

	player     Pos
	boxes      []Pos // row-major sorted
	cells      []Cell
	finished   int
	directions Direction
	succeeded  bool
	failed     bool
	state      State
	elapsed    uint64
	visited    map[State]struct{}
}

// Snapshot captures the observable state of a Game for comparisons.
type Snapshot struct {
	Player     Pos
	Boxes      []Pos
	State      State
	Elapsed    uint64
	Finished   int
	Directions Direction
	Succeeded  bool
	Failed     bool
	Visited    int
}

// New parses maze text and starts a game on it.
func New(text string) (*Game, error) {
	m, err := ParseMaze(text)
	if err != nil {
		return nil, err
	}
	return NewGame(m), nil
}

// NewGame starts a game on a parsed maze.
func NewGame(m *Maze) *Game {
	g := &Game{
		maze:  m,
		cells: make([]Cell, len(m.base)),
	}
	g.Restart()
	return g
}

// Restart puts the player and boxes back where the maze started them and
// forgets the elapsed steps and visited states.
func (g *Game) Restart() {
	g.elapsed = 0
	g.visited = make(map[State]struct{})
	g.player = g.maze.player
	g.boxes = append(g.boxes[:0], g.maze.boxes...)
	g.update()
}

// Move applies one legal move and reports whether it pushed a box. Illegal
// moves, NoDirection and masks of several moves leave the game untouched.
func (g *Game) Move(d Direction) bool {
	if !d.Single() || g.directions&d == 0 {
		return false
	}
	g.elapsed++
	g.visited[g.state] = struct{}{}
	g.player = g.player.Step(d)

	pushed := false
	for i, b := range g.boxes {
		if b == g.player {
			g.boxes[i] = b.Step(d)
			pushed = true
			break
		}
	}
	if pushed {
		sort.Slice(g.boxes, func(i, j int) bool { return g.boxes[i].Less(g.boxes[j]) })
	}
	g.update()
	return pushed
}

// update recomputes every derived field from player and boxes.
func (g *Game) update() {
	m := g.maze
	copy(g.cells, m.base)
	g.finished = 0
	for _, b := range g.boxes {
		i := m.index(b)
		g.cells[i] |= Box
		if g.cells[i].Has(Goal) {
			g.finished++
		}
	}
	g.cells[m.index(g.player)] |= Player
	g.state = m.Encode(g.player, g.boxes)

	g.directions = NoDirection
	for _, d := range Directions {
		if g.canMove(g.player, d, true) {
			g.directions |= d
		}
	}
	g.succeeded = g.finished == len(g.boxes)
	g.failed = g.checkFailed()
}

// Maze returns the static layout.
func (g *Game) Maze() *Maze { return g.maze }

// Height returns the number of rows.
func (g *Game) Height() int { return g.maze.height }

// Width returns the number of columns.
func (g *Game) Width() int { return g.maze.width }

// FloorBits returns the width of one position field of the state key.
func (g *Game) FloorBits() int { return g.maze.floorBits }

// BoxCount returns the number of boxes, which never changes.
func (g *Game) BoxCount() int { return len(g.boxes) }

// Finished returns the number of boxes currently on goals.
func (g *Game) Finished() int { return g.finished }

// State returns the canonical key of the current configuration.
func (g *Game) State() State { return g.state }

// Elapsed returns the number of accepted moves since the last restart.
func (g *Game) Elapsed() uint64 { return g.elapsed }

// Directions returns the mask of currently legal moves.
func (g *Game) Directions() Direction { return g.directions }

// Succeeded reports whether every box is on a goal.
func (g *Game) Succeeded() bool { return g.succeeded }

// Failed reports whether the position is provably unsolvable.
func (g *Game) Failed() bool { return g.failed }

// Terminal reports whether the game succeeded or failed.
func (g *Game) Terminal() bool { return g.succeeded || g.failed }

// Player returns the current player position.
func (g *Game) Player() Pos { return g.player }

// Boxes returns the current box positions in row-major order.
func (g *Game) Boxes() []Pos { return append([]Pos(nil), g.boxes...) }

// InitialPlayer returns the player position the maze starts with.
func (g *Game) InitialPlayer() Pos { return g.maze.player }

// InitialBoxes returns the box positions the maze starts with.
func (g *Game) InitialBoxes() []Pos { return g.maze.Boxes() }

// Goals returns the goal positions.
func (g *Game) Goals() []Pos { return g.maze.Goals() }

// Cell returns the current classification of p; off-grid cells are walls.
func (g *Game) Cell(p Pos) Cell {
	if !g.maze.InBounds(p) {
		return Wall
	}
	return g.cells[g.maze.index(p)]
}

// Cells returns a copy of the current classification grid, one slice per row.
func (g *Game) Cells() [][]Cell {
	rows := make([][]Cell, g.maze.height)
	for r := range rows {
		start := r * g.maze.width
		rows[r] = append([]Cell(nil), g.cells[start:start+g.maze.width]...)
	}
	return rows
}

// Visited reports whether s was occupied earlier in the current attempt.
func (g *Game) Visited(s State) bool {
	_, ok := g.visited[s]
	return ok
}

// VisitedCount returns the number of distinct states left since the restart.
func (g *Game) VisitedCount() int { return len(g.visited) }

// Snapshot returns a copy of the observable state.
func (g *Game) Snapshot() Snapshot {
	return Snapshot{
		Player:     g.player,
		Boxes:      g.Boxes(),
		State:      g.state,
		Elapsed:    g.elapsed,
		Finished:   g.finished,
		Directions: g.directions,
		Succeeded:  g.succeeded,
		Failed:     g.failed,
		Visited:    len(g.visited),
	}
}

// String renders the current board in maze text, rows joined by newlines.
func (g *Game) String() string {
	var sb strings.Builder
	sb.Grow(g.maze.height * (g.maze.width + 1))
	for r := 0; r < g.maze.height; r++ {
		if r > 0 {
			sb.WriteByte('\n')
		}
		for c := 0; c < g.maze.width; c++ {
			sb.WriteByte(g.cells[r*g.maze.width+c].Symbol())
		}
	}
	return sb.String()
}
