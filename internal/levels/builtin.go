package levels

import (
	_ "embed"
	"fmt"

	"github.com/vovakirdan/tui-sokoban/internal/levels/formats"
	"github.com/vovakirdan/tui-sokoban/internal/registry"
)

//go:embed builtin/levels.yaml
var builtinYAML []byte

func init() {
	lvls, err := formats.ParseYAML(builtinYAML)
	if err != nil {
		panic(fmt.Sprintf("levels: built-in pack: %v", err))
	}
	for _, l := range lvls {
		registry.Register(l.ID, l.Name, l.Maze)
	}
}

// Builtin returns a registered level by ID.
func Builtin(id string) (Level, error) {
	e, err := registry.Get(id)
	if err != nil {
		return Level{}, err
	}
	return Level{ID: e.ID, Name: e.Title, Maze: e.Maze}, nil
}

// Builtins returns every registered level, sorted by ID.
func Builtins() []Level {
	infos := registry.List()
	out := make([]Level, 0, len(infos))
	for _, info := range infos {
		if l, err := Builtin(info.ID); err == nil {
			out = append(out, l)
		}
	}
	return out
}
