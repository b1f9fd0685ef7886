package sokoban

// Cell is the classification of one grid coordinate, a mask of flags.
// A cell without Floor is a wall and carries no other flag.
type Cell uint8

const (
	Wall   Cell = 0
	Floor  Cell = 1 << 0
	Goal   Cell = 1 << 1
	Box    Cell = 1 << 2
	Player Cell = 1 << 3
)

// Has reports whether every flag of f is set.
func (c Cell) Has(f Cell) bool {
	return c&f == f
}

// IsFloor reports whether the cell can hold the player or a box.
func (c Cell) IsFloor() bool {
	return c&Floor != 0
}

// Symbol returns the maze-text character for the cell.
func (c Cell) Symbol() byte {
	switch c {
	case Floor:
		return '.'
	case Floor | Goal:
		return '$'
	case Floor | Box:
		return '&'
	case Floor | Goal | Box:
		return '@'
	case Floor | Player:
		return '*'
	case Floor | Goal | Player:
		return '+'
	}
	return '#'
}

// cellOf maps a maze-text character to its cell. Unknown characters are walls.
func cellOf(ch byte) Cell {
	switch ch {
	case '.':
		return Floor
	case '*':
		return Floor | Player
	case '$':
		return Floor | Goal
	case '+':
		return Floor | Goal | Player
	case '&':
		return Floor | Box
	case '@':
		return Floor | Goal | Box
	}
	return Wall
}
