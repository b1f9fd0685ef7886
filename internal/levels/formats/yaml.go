// Package formats provides pluggable level file format parsers.
package formats

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// YAMLLevel represents one level in a YAML file.
type YAMLLevel struct {
	ID       string            `yaml:"id"`
	Name     string            `yaml:"name"`
	Maze     string            `yaml:"maze"`
	Metadata map[string]string `yaml:"metadata,omitempty"`
}

// YAMLPack is a YAML file holding several levels. A file without a levels
// list is read as a single YAMLLevel.
type YAMLPack struct {
	Name   string      `yaml:"name"`
	Levels []YAMLLevel `yaml:"levels"`
}

// Level represents a parsed level ready for use.
type Level struct {
	ID       string
	Name     string
	Maze     string
	Metadata map[string]string
}

// ParseYAML parses a YAML level file or level pack.
func ParseYAML(data []byte) ([]Level, error) {
	var pack YAMLPack
	if err := yaml.Unmarshal(data, &pack); err != nil {
		return nil, fmt.Errorf("yaml unmarshal: %w", err)
	}

	if len(pack.Levels) == 0 {
		var yl YAMLLevel
		if err := yaml.Unmarshal(data, &yl); err != nil {
			return nil, fmt.Errorf("yaml unmarshal: %w", err)
		}
		if yl.Maze == "" {
			return nil, fmt.Errorf("yaml: no levels and no maze")
		}
		pack.Levels = []YAMLLevel{yl}
	}

	out := make([]Level, 0, len(pack.Levels))
	for i, yl := range pack.Levels {
		if yl.Maze == "" {
			return nil, fmt.Errorf("yaml: level %d (%q) has no maze", i, yl.ID)
		}
		out = append(out, Level{
			ID:       yl.ID,
			Name:     yl.Name,
			Maze:     yl.Maze,
			Metadata: yl.Metadata,
		})
	}
	return out, nil
}

// ParseText reads a raw maze file; the level has no ID or name of its own.
func ParseText(data []byte) ([]Level, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("text: empty maze")
	}
	return []Level{{Maze: string(data)}}, nil
}

// FormatExtensions returns supported file extensions.
func FormatExtensions() []string {
	return []string{".yaml", ".yml", ".txt"}
}
