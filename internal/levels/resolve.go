package levels

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/vovakirdan/tui-sokoban/internal/registry"
)

// Stdin is the reference that reads a maze from standard input.
const Stdin = "-"

// Resolve finds a level from a command-line reference:
//   - "-" reads maze text from in
//   - a built-in level ID
//   - a file path, or "path#id" to pick one level of a pack
func Resolve(ref string, in io.Reader) (Level, error) {
	if ref == Stdin {
		data, err := io.ReadAll(in)
		if err != nil {
			return Level{}, fmt.Errorf("reading maze from stdin: %w", err)
		}
		lvl := Level{ID: "stdin", Name: "Standard input", Maze: string(data)}
		if _, err := lvl.Parse(); err != nil {
			return Level{}, err
		}
		return lvl, nil
	}

	if registry.Exists(ref) {
		return Builtin(ref)
	}

	path, id, _ := strings.Cut(ref, "#")
	if _, err := os.Stat(path); err != nil {
		return Level{}, fmt.Errorf("level %q is neither a built-in level nor a readable file", ref)
	}

	found, err := NewLoader(path).LoadFile(path)
	if err != nil {
		return Level{}, err
	}
	if id == "" {
		return found[0], nil
	}
	for _, lvl := range found {
		if lvl.ID == id {
			return lvl, nil
		}
	}
	return Level{}, fmt.Errorf("level not found: %s in %s", id, path)
}
