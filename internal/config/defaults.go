package config

import (
	_ "embed"
)

//go:embed defaults/runner.yaml
var defaultRunnerYAML []byte

// DefaultRunnerConfig returns the built-in configuration. It matches the
// embedded defaults/runner.yaml.
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		World: WorldConfig{
			Width:  1080,
			Height: 1920,
		},
		Player: PlayerConfig{
			Size:         40,
			YFraction:    0.85,
			StartLane:    1,
			LerpSpeed:    10,
			SnapDistance: 0.5,
		},
		Enemy: EnemyConfig{
			Size:       35,
			DangerZone: 0.8,
		},
		Collision: CollisionConfig{
			Strategy:  CollisionDistance,
			Threshold: 45,
		},
		Scoring: ScoringConfig{
			PointsPerSecond: 15,
		},
		Loop: LoopConfig{
			MinDeltaMS:    1,
			MaxDeltaMS:    33,
			FrameBudgetMS: 16,
			StopTimeoutMS: 2000,
		},
		Tiers: TiersConfig{
			Normal:  TierConfig{IntervalSeconds: 1.2, Speed: 600, SingleChance: 0.45},
			Hard:    TierConfig{IntervalSeconds: 0.85, Speed: 950, SingleChance: 0.35},
			Extreme: TierConfig{IntervalSeconds: 0.6, Speed: 1400, SingleChance: 0.25},
		},
		Difficulty: DifficultyConfig{
			Policy:             PolicyFlat,
			SpeedGrowth:        8,
			SpeedCap:           1.8,
			IntervalDecay:      0.004,
			MinIntervalSeconds: 0.5,
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultRunnerYAML
}
