package core

// Color names the role of a screen cell. The platform layer maps roles to
// terminal colors, so boards can be drawn without knowing the palette.
type Color uint8

const (
	ColorDefault Color = iota
	ColorWall
	ColorFloor
	ColorGoal
	ColorBox
	ColorBoxOnGoal
	ColorPlayer
	ColorDim
	ColorTitle
	ColorSuccess
	ColorFailure
)

// String returns the role name.
func (c Color) String() string {
	switch c {
	case ColorDefault:
		return "default"
	case ColorWall:
		return "wall"
	case ColorFloor:
		return "floor"
	case ColorGoal:
		return "goal"
	case ColorBox:
		return "box"
	case ColorBoxOnGoal:
		return "box-on-goal"
	case ColorPlayer:
		return "player"
	case ColorDim:
		return "dim"
	case ColorTitle:
		return "title"
	case ColorSuccess:
		return "success"
	case ColorFailure:
		return "failure"
	default:
		return "unknown"
	}
}
