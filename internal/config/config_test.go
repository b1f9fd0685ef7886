package config

import (
	"math"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	cfg := DefaultTrainingConfig()
	if err := yaml.Unmarshal(DefaultYAML(), &cfg); err != nil {
		t.Fatalf("embedded yaml: %v", err)
	}
	if !reflect.DeepEqual(cfg, DefaultTrainingConfig()) {
		t.Errorf("embedded = %+v\nhardcoded = %+v", cfg, DefaultTrainingConfig())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults must validate: %v", err)
	}
}

func TestLoadTrainingFallsBackToEmbedded(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfg, err := LoadTraining("")
	if err != nil {
		t.Fatalf("LoadTraining: %v", err)
	}
	if !reflect.DeepEqual(cfg, DefaultTrainingConfig()) {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadTrainingUserDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	dir := filepath.Join(home, ".sokoban", "configs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, TrainingFile), []byte("learning:\n  alpha: 0.25\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadTraining("")
	if err != nil {
		t.Fatalf("LoadTraining: %v", err)
	}
	if cfg.Learning.Alpha != 0.25 {
		t.Errorf("alpha = %v, want 0.25", cfg.Learning.Alpha)
	}
}

func TestLoadTrainingCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "train.yaml")
	data := "learning:\n  epsilon: 0.2\nrun:\n  sleep_ms: 5\n  print_q:\n    exit: true\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadTraining(path)
	if err != nil {
		t.Fatalf("LoadTraining: %v", err)
	}
	if cfg.Learning.Epsilon != 0.2 || cfg.Run.SleepMS != 5 || !cfg.Run.PrintQ.Exit {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.Learning.Alpha != 0.5 || cfg.Rewards.GoalReward != 50 {
		t.Errorf("missing keys must keep defaults: %+v", cfg)
	}
	if cfg.Run.Sleep().Milliseconds() != 5 {
		t.Errorf("Sleep = %v", cfg.Run.Sleep())
	}
}

func TestLoadTrainingErrors(t *testing.T) {
	if _, err := LoadTraining(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing custom file must fail")
	}
	bad := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(bad, []byte("learning: [1, 2"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadTraining(bad); err == nil {
		t.Error("malformed yaml must fail")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*TrainingConfig)
		ok     bool
	}{
		{"defaults", func(*TrainingConfig) {}, true},
		{"negative epsilon", func(c *TrainingConfig) { c.Learning.Epsilon = -0.1 }, false},
		{"zero alpha", func(c *TrainingConfig) { c.Learning.Alpha = 0 }, false},
		{"gamma above one", func(c *TrainingConfig) { c.Learning.Gamma = 1.5 }, false},
		{"negative sleep", func(c *TrainingConfig) { c.Run.SleepMS = -1 }, false},
		{"negative quiet", func(c *TrainingConfig) { c.Run.QuietSteps = -3 }, false},
		{"bad progression", func(c *TrainingConfig) {
			c.Exploration.Enabled = true
			c.Exploration.Progression.Type = "score"
		}, false},
		{"disabled progression is not checked", func(c *TrainingConfig) {
			c.Exploration.Progression.Type = "score"
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultTrainingConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err == nil) != tt.ok {
				t.Errorf("Validate() = %v, want ok=%v", err, tt.ok)
			}
		})
	}
}

func TestParams(t *testing.T) {
	p := DefaultTrainingConfig().Params()
	if p.Epsilon != 0.05 || p.Alpha != 0.5 || p.Gamma != 1 || p.RetracePenalty != 1 ||
		p.PushReward != 0.5 || p.GoalReward != 50 || p.FailurePenalty != 1000 || p.SuccessReward != 1000 {
		t.Errorf("Params = %+v", p)
	}
}

func TestExplorationPresets(t *testing.T) {
	if _, err := ParseExplorationPreset("wild"); err == nil {
		t.Error("unknown preset must fail")
	}

	cfg := DefaultTrainingConfig()
	cfg.Exploration.Enabled = true
	ApplyExplorationPreset(&cfg, ExplorationExplore)
	if cfg.Learning.Epsilon != 0.2 || !cfg.Exploration.Enabled {
		t.Errorf("explore preset: %+v", cfg)
	}

	ApplyExplorationPreset(&cfg, ExplorationGreedy)
	if cfg.Learning.Epsilon != 0 || cfg.Exploration.Enabled {
		t.Errorf("greedy preset: %+v", cfg)
	}

	cfg.Learning.Epsilon = 0.3
	cfg.Exploration.Enabled = true
	ApplyExplorationPreset(&cfg, ExplorationFixed)
	if cfg.Learning.Epsilon != 0.3 || cfg.Exploration.Enabled {
		t.Errorf("fixed preset: %+v", cfg)
	}
}

func TestSchedule(t *testing.T) {
	linear := ExplorationConfig{
		Enabled:      true,
		FinalEpsilon: 0,
		Progression:  ProgressionConfig{Type: "steps", MaxAt: 100},
	}
	episodes := linear
	episodes.Progression.Type = "episodes"
	off := linear
	off.Enabled = false

	tests := []struct {
		name     string
		cfg      ExplorationConfig
		steps    int
		episodes int
		want     float64
	}{
		{"disabled keeps initial", off, 1000, 10, 0.2},
		{"start", linear, 0, 0, 0.2},
		{"halfway", linear, 50, 0, 0.1},
		{"past the end", linear, 500, 0, 0},
		{"by episodes", episodes, 1000, 25, 0.15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSchedule(0.2, tt.cfg)
			if got := s.Epsilon(tt.steps, tt.episodes); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Epsilon = %v, want %v", got, tt.want)
			}
		})
	}
}
