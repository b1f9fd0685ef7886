package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// TrainingFile is the file name looked up in the config directories.
const TrainingFile = "sokoban.yaml"

// LoadTraining loads the training configuration. Keys missing from the file
// keep their default values.
// Search order: customPath -> ~/.sokoban/configs/sokoban.yaml -> ./configs/sokoban.yaml -> embedded default
func LoadTraining(customPath string) (TrainingConfig, error) {
	cfg := DefaultTrainingConfig()

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory, then the local one
	for _, path := range []string{userConfigPath(TrainingFile), filepath.Join("configs", TrainingFile)} {
		if path == "" {
			continue
		}
		if c, ok := tryLoad(path); ok {
			return c, nil
		}
	}

	// Use embedded default YAML
	if err := yaml.Unmarshal(defaultTrainingYAML, &cfg); err != nil {
		return DefaultTrainingConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// tryLoad reads an optional config file; unreadable or invalid files are skipped.
func tryLoad(path string) (TrainingConfig, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return TrainingConfig{}, false
	}
	cfg := DefaultTrainingConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return TrainingConfig{}, false
	}
	return cfg, true
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".sokoban", "configs", filename)
}
