package sokoban

import "strings"

const (
	// MaxSize bounds the number of rows and of columns of a maze.
	MaxSize = 125
	// StateBits is the capacity of a State key.
	StateBits = 64
)

// Maze is the immutable layout parsed from maze text: dimensions, the floor
// and goal cells, the floor index and the initial player and boxes.
type Maze struct {
	height     int
	width      int
	base       []Cell // Floor and Goal flags only, row-major
	floorIndex []int  // -1 for walls
	floorCount int
	floorBits  int
	player     Pos
	boxes      []Pos
	goals      []Pos
}

type floorCell struct {
	pos  Pos
	cell Cell
}

// ParseMaze parses maze text (see Cell.Symbol for the alphabet). Leading and
// trailing newlines are dropped, carriage returns are ignored and short rows
// are padded with walls.
func ParseMaze(text string) (*Maze, error) {
	text = strings.Trim(text, "\n")

	m := &Maze{height: 1}
	var cells []floorCell
	havePlayer := false
	row, col := 0, -1
	for i := 0; i < len(text); i++ {
		ch := text[i]
		switch ch {
		case '\r':
			continue
		case '\n':
			row++
			col = -1
			if row >= MaxSize {
				return nil, newError(CodeMazeTooLarge, "maze too large: more than %d rows", MaxSize)
			}
			if row >= m.height {
				m.height = row + 1
			}
			continue
		}
		col++
		if col >= MaxSize {
			return nil, newError(CodeMazeTooLarge, "maze too large: more than %d columns", MaxSize)
		}
		if col >= m.width {
			m.width = col + 1
		}
		c := cellOf(ch)
		if !c.IsFloor() {
			continue
		}
		p := P(row, col)
		if c.Has(Player) {
			if havePlayer {
				return nil, newError(CodeTooManyPlayers, "too many players: second player at %s", p)
			}
			havePlayer = true
			m.player = p
		}
		if c.Has(Box) {
			m.boxes = append(m.boxes, p)
		}
		if c.Has(Goal) {
			m.goals = append(m.goals, p)
		}
		cells = append(cells, floorCell{pos: p, cell: c})
	}

	if !havePlayer {
		return nil, newError(CodeNoPlayer, "no player")
	}
	if len(m.boxes) == 0 {
		return nil, newError(CodeNoBox, "no box")
	}
	if len(m.boxes) > len(m.goals) {
		return nil, newError(CodeTooFewGoals, "too few goals: %d boxes, %d goals", len(m.boxes), len(m.goals))
	}

	m.floorCount = len(cells)
	for rest := m.floorCount - 1; rest > 0; rest >>= 1 {
		m.floorBits++
	}
	if need := m.floorBits * (len(m.boxes) + 1); need > StateBits {
		return nil, newError(CodeStateTooWide, "maze too large: state needs %d bits, capacity is %d", need, StateBits)
	}

	m.base = make([]Cell, m.height*m.width)
	m.floorIndex = make([]int, m.height*m.width)
	for i := range m.floorIndex {
		m.floorIndex[i] = -1
	}
	// cells were collected row-major, which fixes the floor index order
	for n, fc := range cells {
		i := m.index(fc.pos)
		m.base[i] = fc.cell & (Floor | Goal)
		m.floorIndex[i] = n
	}
	return m, nil
}

func (m *Maze) index(p Pos) int {
	return p.Row*m.width + p.Col
}

// InBounds reports whether p lies on the grid.
func (m *Maze) InBounds(p Pos) bool {
	return p.Row >= 0 && p.Row < m.height && p.Col >= 0 && p.Col < m.width
}

// IsFloor reports whether p is an on-grid floor cell.
func (m *Maze) IsFloor(p Pos) bool {
	return m.InBounds(p) && m.floorIndex[m.index(p)] >= 0
}

// Height returns the number of rows.
func (m *Maze) Height() int { return m.height }

// Width returns the number of columns.
func (m *Maze) Width() int { return m.width }

// FloorCount returns the number of floor cells.
func (m *Maze) FloorCount() int { return m.floorCount }

// FloorBits returns the width of one position field of a State.
func (m *Maze) FloorBits() int { return m.floorBits }

// FloorIndex returns the ordinal of a floor cell, or -1 for walls and
// off-grid positions.
func (m *Maze) FloorIndex(p Pos) int {
	if !m.InBounds(p) {
		return -1
	}
	return m.floorIndex[m.index(p)]
}

// Base returns the static classification of p (Floor and Goal only).
func (m *Maze) Base(p Pos) Cell {
	if !m.InBounds(p) {
		return Wall
	}
	return m.base[m.index(p)]
}

// Player returns the initial player position.
func (m *Maze) Player() Pos { return m.player }

// Boxes returns the initial box positions in row-major order.
func (m *Maze) Boxes() []Pos { return append([]Pos(nil), m.boxes...) }

// Goals returns the goal positions in row-major order.
func (m *Maze) Goals() []Pos { return append([]Pos(nil), m.goals...) }

// BoxCount returns the number of boxes.
func (m *Maze) BoxCount() int { return len(m.boxes) }

// StateWidth returns the number of bits a State of this maze occupies.
func (m *Maze) StateWidth() int { return m.floorBits * (len(m.boxes) + 1) }
