// Package levels provides level loading for the trainer: raw maze files,
// YAML level packs and the built-in levels.
package levels

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vovakirdan/tui-sokoban/internal/levels/formats"
	"github.com/vovakirdan/tui-sokoban/internal/sokoban"
)

// Level represents a complete level definition.
type Level struct {
	ID       string
	Name     string
	Maze     string
	Metadata map[string]string
	FilePath string
}

// Title returns the name, or the ID when the level has none.
func (l Level) Title() string {
	if l.Name != "" {
		return l.Name
	}
	return l.ID
}

// Parse parses the maze text of the level.
func (l Level) Parse() (*sokoban.Maze, error) {
	return sokoban.ParseMaze(l.Maze)
}

// NewGame starts a game on the level.
func (l Level) NewGame() (*sokoban.Game, error) {
	m, err := l.Parse()
	if err != nil {
		return nil, fmt.Errorf("level %s: %w", l.ID, err)
	}
	return sokoban.NewGame(m), nil
}

// Loader handles loading levels from a directory.
type Loader struct {
	Root string
}

// NewLoader creates a new level loader.
func NewLoader(root string) *Loader {
	return &Loader{Root: root}
}

// LoadAll recursively scans and loads all level files.
// Returns levels sorted by ID for deterministic ordering.
func (l *Loader) LoadAll() ([]Level, error) {
	var levels []Level

	err := filepath.WalkDir(l.Root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		if !isSupportedExtension(ext) {
			return nil
		}

		found, err := l.LoadFile(path)
		if err != nil {
			// Skip invalid files
			return nil
		}

		levels = append(levels, found...)
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("walking directory %s: %w", l.Root, err)
	}

	// Sort by ID for determinism
	sort.Slice(levels, func(i, j int) bool {
		return levels[i].ID < levels[j].ID
	})

	return levels, nil
}

// LoadFile loads every level of one file. Levels without an ID are named
// after the file stem, with an index suffix inside packs. Every maze is
// parsed, so a returned level is always playable.
func (l *Loader) LoadFile(path string) ([]Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	parsed, err := parseByExtension(data, ext)
	if err != nil {
		return nil, fmt.Errorf("parsing file %s: %w", path, err)
	}

	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	out := make([]Level, 0, len(parsed))
	for i, p := range parsed {
		lvl := Level{
			ID:       p.ID,
			Name:     p.Name,
			Maze:     p.Maze,
			Metadata: p.Metadata,
			FilePath: path,
		}
		if lvl.ID == "" {
			lvl.ID = stem
			if len(parsed) > 1 {
				lvl.ID = fmt.Sprintf("%s-%d", stem, i+1)
			}
		}
		if _, err := lvl.Parse(); err != nil {
			return nil, fmt.Errorf("parsing file %s: level %s: %w", path, lvl.ID, err)
		}
		out = append(out, lvl)
	}
	return out, nil
}

// LoadByID loads a specific level by ID.
func (l *Loader) LoadByID(id string) (Level, error) {
	levels, err := l.LoadAll()
	if err != nil {
		return Level{}, err
	}

	for _, lvl := range levels {
		if lvl.ID == id {
			return lvl, nil
		}
	}

	return Level{}, fmt.Errorf("level not found: %s", id)
}

// ListIDs returns all level IDs in sorted order.
func (l *Loader) ListIDs() ([]string, error) {
	levels, err := l.LoadAll()
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(levels))
	for i, lvl := range levels {
		ids[i] = lvl.ID
	}
	return ids, nil
}

// isSupportedExtension checks if extension is supported.
func isSupportedExtension(ext string) bool {
	for _, supported := range formats.FormatExtensions() {
		if ext == supported {
			return true
		}
	}
	return false
}

// parseByExtension routes to the correct parser.
func parseByExtension(data []byte, ext string) ([]formats.Level, error) {
	switch ext {
	case ".yaml", ".yml":
		return formats.ParseYAML(data)
	case ".txt":
		return formats.ParseText(data)
	default:
		return nil, fmt.Errorf("unsupported extension: %s", ext)
	}
}
