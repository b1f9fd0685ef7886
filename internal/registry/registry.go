// Package registry provides a global registry of built-in levels.
// Level packs register themselves in init() functions, allowing the CLI and
// the SSH server to discover levels without hardcoded dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"
)

// Entry is a registered level.
type Entry struct {
	// ID is a unique identifier used on the command line (e.g., "square").
	ID string
	// Title is a human-readable name for display.
	Title string
	// Maze is the maze text.
	Maze string
}

// LevelInfo contains metadata about a registered level.
type LevelInfo struct {
	ID    string
	Title string
}

var (
	entries = make(map[string]Entry)
	mu      sync.RWMutex
)

// Register adds a level to the registry.
// Panics if a level with the same ID is already registered.
func Register(id, title, maze string) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := entries[id]; exists {
		panic(fmt.Sprintf("registry: level %q already registered", id))
	}
	if title == "" {
		title = id
	}
	entries[id] = Entry{ID: id, Title: title, Maze: maze}
}

// List returns information about all registered levels, sorted by ID.
func List() []LevelInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]LevelInfo, 0, len(entries))
	for id, e := range entries {
		result = append(result, LevelInfo{ID: id, Title: e.Title})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Get returns a level by its ID.
// Returns an error if the level ID is not registered.
func Get(id string) (Entry, error) {
	mu.RLock()
	defer mu.RUnlock()

	e, ok := entries[id]
	if !ok {
		return Entry{}, fmt.Errorf("registry: unknown level %q", id)
	}
	return e, nil
}

// Exists checks if a level with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := entries[id]
	return ok
}
