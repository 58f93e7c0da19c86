// Package config provides YAML/TOML runner configuration loading and the
// difficulty tier presets.
package config

// RunnerConfig contains all tunables of the lane runner. Lengths are world
// units in a 1080x1920 portrait reference space; speeds are units per second.
type RunnerConfig struct {
	World      WorldConfig      `yaml:"world" toml:"world"`
	Player     PlayerConfig     `yaml:"player" toml:"player"`
	Enemy      EnemyConfig      `yaml:"enemy" toml:"enemy"`
	Collision  CollisionConfig  `yaml:"collision" toml:"collision"`
	Scoring    ScoringConfig    `yaml:"scoring" toml:"scoring"`
	Loop       LoopConfig       `yaml:"loop" toml:"loop"`
	Tiers      TiersConfig      `yaml:"tiers" toml:"tiers"`
	Difficulty DifficultyConfig `yaml:"difficulty" toml:"difficulty"`
}

// WorldConfig defines the visible play area.
type WorldConfig struct {
	Width  float64 `yaml:"width" toml:"width"`
	Height float64 `yaml:"height" toml:"height"`
}

// PlayerConfig defines the avatar.
type PlayerConfig struct {
	Size         float64 `yaml:"size" toml:"size"`
	YFraction    float64 `yaml:"y_fraction" toml:"y_fraction"` // vertical position as a fraction of height
	StartLane    int     `yaml:"start_lane" toml:"start_lane"`
	LerpSpeed    float64 `yaml:"lerp_speed" toml:"lerp_speed"`       // exponential smoothing rate (1/s)
	SnapDistance float64 `yaml:"snap_distance" toml:"snap_distance"` // snap to target below this distance
}

// EnemyConfig defines falling obstacles.
type EnemyConfig struct {
	Size       float64 `yaml:"size" toml:"size"`
	DangerZone float64 `yaml:"danger_zone" toml:"danger_zone"` // fraction of height where enemies are flagged
}

// CollisionConfig selects the collision test.
type CollisionConfig struct {
	Strategy  string  `yaml:"strategy" toml:"strategy"` // "distance" or "box"
	Threshold float64 `yaml:"threshold" toml:"threshold"`
}

// ScoringConfig defines time-based scoring.
type ScoringConfig struct {
	PointsPerSecond float64 `yaml:"points_per_second" toml:"points_per_second"`
}

// LoopConfig defines scheduler timing in milliseconds.
type LoopConfig struct {
	MinDeltaMS    int `yaml:"min_delta_ms" toml:"min_delta_ms"`
	MaxDeltaMS    int `yaml:"max_delta_ms" toml:"max_delta_ms"`
	FrameBudgetMS int `yaml:"frame_budget_ms" toml:"frame_budget_ms"`
	StopTimeoutMS int `yaml:"stop_timeout_ms" toml:"stop_timeout_ms"`
}

// TiersConfig holds one preset per difficulty tier.
type TiersConfig struct {
	Normal  TierConfig `yaml:"normal" toml:"normal"`
	Hard    TierConfig `yaml:"hard" toml:"hard"`
	Extreme TierConfig `yaml:"extreme" toml:"extreme"`
}

// TierConfig fixes spawn cadence and enemy speed for a tier.
type TierConfig struct {
	IntervalSeconds float64 `yaml:"interval_seconds" toml:"interval_seconds"`
	Speed           float64 `yaml:"speed" toml:"speed"`
	SingleChance    float64 `yaml:"single_chance" toml:"single_chance"` // probability of a one-enemy pattern
}

// DifficultyConfig selects how spawn interval and speed evolve over a session.
type DifficultyConfig struct {
	Policy             string  `yaml:"policy" toml:"policy"`                             // "flat", "escalating" or "script"
	SpeedGrowth        float64 `yaml:"speed_growth" toml:"speed_growth"`                 // units/s gained per second played
	SpeedCap           float64 `yaml:"speed_cap" toml:"speed_cap"`                       // multiple of the tier speed
	IntervalDecay      float64 `yaml:"interval_decay" toml:"interval_decay"`             // seconds removed per second played
	MinIntervalSeconds float64 `yaml:"min_interval_seconds" toml:"min_interval_seconds"` // interval floor
	Script             string  `yaml:"script" toml:"script"`                             // Lua file for the script policy
}

// Tier returns the preset for the given tier.
func (c RunnerConfig) Tier(t Tier) TierConfig {
	switch t {
	case TierHard:
		return c.Tiers.Hard
	case TierExtreme:
		return c.Tiers.Extreme
	default:
		return c.Tiers.Normal
	}
}
