package config

import "math"

// Schedule calculates the exploration rate from training progress.
type Schedule struct {
	cfg     ExplorationConfig
	initial float64
}

// NewSchedule creates a schedule starting at the given epsilon.
func NewSchedule(initial float64, cfg ExplorationConfig) *Schedule {
	return &Schedule{
		cfg:     cfg,
		initial: clampF(initial, 0.0, 1.0),
	}
}

// SetInitial overrides the starting epsilon (0.0 to 1.0).
func (s *Schedule) SetInitial(eps float64) {
	s.initial = clampF(eps, 0.0, 1.0)
}

// SetEnabled enables or disables the schedule.
func (s *Schedule) SetEnabled(enabled bool) {
	s.cfg.Enabled = enabled
}

// IsEnabled returns whether epsilon changes over time.
func (s *Schedule) IsEnabled() bool {
	return s.cfg.Enabled && s.cfg.Progression.Type != "none" && s.cfg.Progression.Type != ""
}

// Epsilon returns the exploration rate after the given number of trainer
// steps and finished episodes.
func (s *Schedule) Epsilon(steps int, episodes int) float64 {
	if !s.IsEnabled() {
		return s.initial
	}

	var progress float64
	maxAt := float64(s.cfg.Progression.MaxAt)
	if maxAt <= 0 {
		maxAt = 1 // Prevent division by zero
	}

	switch s.cfg.Progression.Type {
	case "steps":
		progress = float64(steps) / maxAt
	case "episodes":
		progress = float64(episodes) / maxAt
	default:
		return s.initial
	}

	progress = clampF(progress, 0.0, 1.0)
	final := clampF(s.cfg.FinalEpsilon, 0.0, 1.0)

	// Interpolate from the initial rate to the final one
	return s.initial + progress*(final-s.initial)
}

// clampF restricts a float64 to [min, max].
func clampF(val, min, max float64) float64 {
	return math.Max(min, math.Min(max, val))
}
