package config

import (
	_ "embed"
)

//go:embed defaults/sokoban.yaml
var defaultTrainingYAML []byte

// DefaultTrainingConfig returns the default training configuration.
func DefaultTrainingConfig() TrainingConfig {
	return TrainingConfig{
		Learning: LearningConfig{
			Epsilon: 0.05,
			Alpha:   0.5,
			Gamma:   1.0,
		},
		Rewards: RewardsConfig{
			RetracePenalty: 1.0,
			PushReward:     0.5,
			GoalReward:     50,
			FailurePenalty: 1000,
			SuccessReward:  1000,
		},
		Exploration: ExplorationConfig{
			Enabled:      false,
			FinalEpsilon: 0.0,
			Progression: ProgressionConfig{
				Type:  "steps",
				MaxAt: 100000,
			},
		},
		Run: RunConfig{
			SleepMS: 100,
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultTrainingYAML
}
