// Package sokoban implements the Sokoban rules used by the learner: maze
// parsing, move and push legality, the canonical state key and dead
// position detection. It performs no I/O.
package sokoban

import "strings"

// Direction is a single move or, when used as a mask, a set of moves.
type Direction uint8

const (
	NoDirection Direction = 0
	Up          Direction = 1 << 0
	Left        Direction = 1 << 1
	Right       Direction = 1 << 2
	Down        Direction = 1 << 3
)

// Directions lists the four moves in bit-scan order. Every enumeration of a
// direction mask in this module follows this order.
var Directions = [4]Direction{Up, Left, Right, Down}

// Delta returns the row and column offsets of a single direction.
// Anything else yields (0, 0).
func (d Direction) Delta() (dr, dc int) {
	switch d {
	case Up:
		return -1, 0
	case Left:
		return 0, -1
	case Right:
		return 0, 1
	case Down:
		return 1, 0
	}
	return 0, 0
}

// Index returns the slot of a single direction in a Q-table row, or -1.
func (d Direction) Index() int {
	for i, dir := range Directions {
		if d == dir {
			return i
		}
	}
	return -1
}

// Single reports whether d names exactly one move.
func (d Direction) Single() bool {
	return d.Index() >= 0
}

// Has reports whether the mask contains every move in other.
func (d Direction) Has(other Direction) bool {
	return other != NoDirection && d&other == other
}

// Count returns how many moves the mask holds.
func (d Direction) Count() int {
	n := 0
	for _, dir := range Directions {
		if d&dir != 0 {
			n++
		}
	}
	return n
}

// Each returns the moves of the mask in bit-scan order.
func (d Direction) Each() []Direction {
	out := make([]Direction, 0, 4)
	for _, dir := range Directions {
		if d&dir != 0 {
			out = append(out, dir)
		}
	}
	return out
}

// Opposite returns the reverse of a single direction.
func (d Direction) Opposite() Direction {
	switch d {
	case Up:
		return Down
	case Down:
		return Up
	case Left:
		return Right
	case Right:
		return Left
	}
	return NoDirection
}

// String returns "Up", "Left", "Right", "Down", "None" or a "|"-joined mask.
func (d Direction) String() string {
	switch d {
	case NoDirection:
		return "None"
	case Up:
		return "Up"
	case Left:
		return "Left"
	case Right:
		return "Right"
	case Down:
		return "Down"
	}
	parts := make([]string, 0, 4)
	for _, dir := range d.Each() {
		parts = append(parts, dir.String())
	}
	return strings.Join(parts, "|")
}

// ParseDirection accepts a direction name in any case, or its first letter.
func ParseDirection(s string) (Direction, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up", "u":
		return Up, true
	case "left", "l":
		return Left, true
	case "right", "r":
		return Right, true
	case "down", "d":
		return Down, true
	}
	return NoDirection, false
}
