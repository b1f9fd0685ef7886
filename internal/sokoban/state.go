package sokoban

import "fmt"

// State is the canonical key of a board configuration. The player's floor
// index sits in the lowest field; box floor indices follow in row-major box
// order, one field each.
type State uint64

// Hex renders the low bits of s as nibble-padded lowercase hex.
func (s State) Hex(bits int) string {
	digits := (bits + 3) / 4
	if digits < 1 {
		digits = 1
	}
	return fmt.Sprintf("%0*x", digits, uint64(s))
}

// String renders s at full key capacity.
func (s State) String() string {
	return s.Hex(StateBits)
}

// Encode packs a player position and row-major sorted box positions.
// All positions must be floor cells of m.
func (m *Maze) Encode(player Pos, boxes []Pos) State {
	s := State(m.floorIndex[m.index(player)])
	for i, b := range boxes {
		s |= State(m.floorIndex[m.index(b)]) << (m.floorBits * (i + 1))
	}
	return s
}
