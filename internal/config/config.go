// Package config provides YAML-based training configuration loading and the
// exploration schedule for the trainer.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/tui-sokoban/internal/qlearn"
)

// TrainingConfig contains all configuration of a training session.
type TrainingConfig struct {
	Learning    LearningConfig    `yaml:"learning"`
	Rewards     RewardsConfig     `yaml:"rewards"`
	Exploration ExplorationConfig `yaml:"exploration"`
	Run         RunConfig         `yaml:"run"`
}

// LearningConfig defines the Q-learning rates.
type LearningConfig struct {
	Epsilon float64 `yaml:"epsilon"` // exploration probability
	Alpha   float64 `yaml:"alpha"`   // learning rate
	Gamma   float64 `yaml:"gamma"`   // discount factor
}

// RewardsConfig defines the reward shaping.
type RewardsConfig struct {
	RetracePenalty float64 `yaml:"retrace_penalty"` // entering a state seen earlier in the attempt
	PushReward     float64 `yaml:"push_reward"`
	GoalReward     float64 `yaml:"goal_reward"` // per box moved onto (or off) a goal
	FailurePenalty float64 `yaml:"failure_penalty"`
	SuccessReward  float64 `yaml:"success_reward"`
}

// ExplorationConfig defines how epsilon changes while training.
type ExplorationConfig struct {
	Enabled      bool              `yaml:"enabled"`
	FinalEpsilon float64           `yaml:"final_epsilon"`
	Progression  ProgressionConfig `yaml:"progression"`
}

// ProgressionConfig defines what drives the exploration schedule.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "steps", "episodes", or "none"
	MaxAt int    `yaml:"max_at"` // steps/episodes at which final_epsilon is reached
}

// RunConfig defines pacing and output of the training loop.
type RunConfig struct {
	SleepMS    int          `yaml:"sleep_ms"`
	QuietSteps int          `yaml:"quiet_steps"` // silent steps before the first frame
	MaxSteps   int          `yaml:"max_steps"`   // 0 runs until interrupted
	PrintQ     PrintQConfig `yaml:"print_q"`
	Emoji      bool         `yaml:"emoji"`
}

// PrintQConfig selects when the full Q-table is printed.
type PrintQConfig struct {
	Success bool `yaml:"success"`
	Failure bool `yaml:"failure"`
	Exit    bool `yaml:"exit"`
}

// Sleep returns the delay between rendered steps.
func (r RunConfig) Sleep() time.Duration {
	return time.Duration(r.SleepMS) * time.Millisecond
}

// Params converts the learning and reward sections into trainer parameters.
func (c TrainingConfig) Params() qlearn.Params {
	return qlearn.Params{
		Epsilon:        c.Learning.Epsilon,
		Alpha:          c.Learning.Alpha,
		Gamma:          c.Learning.Gamma,
		RetracePenalty: c.Rewards.RetracePenalty,
		PushReward:     c.Rewards.PushReward,
		GoalReward:     c.Rewards.GoalReward,
		FailurePenalty: c.Rewards.FailurePenalty,
		SuccessReward:  c.Rewards.SuccessReward,
	}
}

// Validate reports every out-of-range value.
func (c TrainingConfig) Validate() error {
	var errs []error
	if c.Learning.Epsilon < 0 || c.Learning.Epsilon > 1 {
		errs = append(errs, fmt.Errorf("learning.epsilon must be in [0,1], got %v", c.Learning.Epsilon))
	}
	if c.Learning.Alpha <= 0 || c.Learning.Alpha > 1 {
		errs = append(errs, fmt.Errorf("learning.alpha must be in (0,1], got %v", c.Learning.Alpha))
	}
	if c.Learning.Gamma < 0 || c.Learning.Gamma > 1 {
		errs = append(errs, fmt.Errorf("learning.gamma must be in [0,1], got %v", c.Learning.Gamma))
	}
	if c.Exploration.Enabled {
		if e := c.Exploration.FinalEpsilon; e < 0 || e > 1 {
			errs = append(errs, fmt.Errorf("exploration.final_epsilon must be in [0,1], got %v", e))
		}
		switch c.Exploration.Progression.Type {
		case "steps", "episodes", "none", "":
		default:
			errs = append(errs, fmt.Errorf("exploration.progression.type %q is not steps, episodes or none", c.Exploration.Progression.Type))
		}
	}
	if c.Run.SleepMS < 0 {
		errs = append(errs, fmt.Errorf("run.sleep_ms must not be negative, got %d", c.Run.SleepMS))
	}
	if c.Run.QuietSteps < 0 {
		errs = append(errs, fmt.Errorf("run.quiet_steps must not be negative, got %d", c.Run.QuietSteps))
	}
	if c.Run.MaxSteps < 0 {
		errs = append(errs, fmt.Errorf("run.max_steps must not be negative, got %d", c.Run.MaxSteps))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// ExplorationPreset represents a named exploration level.
type ExplorationPreset string

const (
	ExplorationGreedy  ExplorationPreset = "greedy"
	ExplorationNormal  ExplorationPreset = "normal"
	ExplorationExplore ExplorationPreset = "explore"
	ExplorationFixed   ExplorationPreset = "fixed"
)

// ParseExplorationPreset validates a preset name.
func ParseExplorationPreset(s string) (ExplorationPreset, error) {
	switch p := ExplorationPreset(s); p {
	case ExplorationGreedy, ExplorationNormal, ExplorationExplore, ExplorationFixed:
		return p, nil
	}
	return "", fmt.Errorf("unknown exploration preset %q (want greedy, normal, explore or fixed)", s)
}

// EpsilonForPreset returns the starting epsilon of a preset.
func EpsilonForPreset(preset ExplorationPreset) float64 {
	switch preset {
	case ExplorationGreedy:
		return 0.0
	case ExplorationNormal:
		return 0.05
	case ExplorationExplore:
		return 0.2
	default:
		return 0.05
	}
}

// IsFixedPreset returns true if the preset disables the schedule.
func IsFixedPreset(preset ExplorationPreset) bool {
	return preset == ExplorationFixed
}

// ApplyExplorationPreset modifies the config based on a preset. The fixed
// preset keeps the configured epsilon and turns the schedule off.
func ApplyExplorationPreset(cfg *TrainingConfig, preset ExplorationPreset) {
	if IsFixedPreset(preset) {
		cfg.Exploration.Enabled = false
		return
	}
	cfg.Learning.Epsilon = EpsilonForPreset(preset)
	if preset == ExplorationGreedy {
		cfg.Exploration.Enabled = false
	}
}
