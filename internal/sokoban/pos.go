package sokoban

import "fmt"

// Pos is a (row, column) grid coordinate. Row grows downward.
type Pos struct {
	Row int
	Col int
}

// P is a convenience constructor for Pos.
func P(row, col int) Pos {
	return Pos{Row: row, Col: col}
}

// Step returns the neighbour of p one cell in direction d.
func (p Pos) Step(d Direction) Pos {
	dr, dc := d.Delta()
	return Pos{Row: p.Row + dr, Col: p.Col + dc}
}

// Back returns the neighbour of p one cell against direction d.
func (p Pos) Back(d Direction) Pos {
	dr, dc := d.Delta()
	return Pos{Row: p.Row - dr, Col: p.Col - dc}
}

// Less orders positions row-major.
func (p Pos) Less(other Pos) bool {
	if p.Row != other.Row {
		return p.Row < other.Row
	}
	return p.Col < other.Col
}

func (p Pos) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}
