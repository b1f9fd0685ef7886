package sokoban

import (
	"errors"
	"fmt"
)

// Error codes of maze construction failures.
const (
	CodeMazeTooLarge   = "MAZE_TOO_LARGE"
	CodeTooManyPlayers = "TOO_MANY_PLAYERS"
	CodeNoPlayer       = "NO_PLAYER"
	CodeNoBox          = "NO_BOX"
	CodeTooFewGoals    = "TOO_FEW_GOALS"
	CodeStateTooWide   = "STATE_TOO_WIDE"
)

// Error is the only error the engine returns. It is produced while parsing a
// maze; once a Game exists no operation fails.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func newError(code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// IsCode reports whether err is, or wraps, an engine Error with the given code.
func IsCode(err error, code string) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}
