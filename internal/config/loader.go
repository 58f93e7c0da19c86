package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Load loads the runner configuration.
// Search order: customPath -> ~/.neonrunner/configs/runner.yaml -> ./configs/runner.yaml -> embedded default.
// Fields missing from a file keep their default values.
func Load(customPath string) (RunnerConfig, error) {
	// Try custom path first
	if customPath != "" {
		cfg := DefaultRunnerConfig()
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("config: failed to read %s: %w", customPath, err)
		}
		if err := decode(customPath, data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: failed to parse %s: %w", customPath, err)
		}
		if err := cfg.Validate(); err != nil {
			return cfg, fmt.Errorf("config: %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath("runner.yaml"); userCfgPath != "" {
		if cfg, ok := tryFile(userCfgPath); ok {
			return cfg, nil
		}
	}

	// Try local configs directory
	if cfg, ok := tryFile(filepath.Join("configs", "runner.yaml")); ok {
		return cfg, nil
	}

	// Use embedded default YAML
	cfg := DefaultRunnerConfig()
	if err := yaml.Unmarshal(defaultRunnerYAML, &cfg); err != nil {
		return DefaultRunnerConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// tryFile loads an optional config file, ignoring missing or broken ones.
func tryFile(path string) (RunnerConfig, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return RunnerConfig{}, false
	}
	cfg := DefaultRunnerConfig()
	if err := decode(path, data, &cfg); err != nil {
		return RunnerConfig{}, false
	}
	if err := cfg.Validate(); err != nil {
		return RunnerConfig{}, false
	}
	return cfg, true
}

// decode picks the format from the file extension. YAML is the default.
func decode(path string, data []byte, cfg *RunnerConfig) error {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		_, err := toml.Decode(string(data), cfg)
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".neonrunner", "configs", filename)
}

// Validate rejects values the simulation cannot run with.
func (c RunnerConfig) Validate() error {
	if c.World.Width <= 0 || c.World.Height <= 0 {
		return fmt.Errorf("world size must be positive, got %gx%g", c.World.Width, c.World.Height)
	}
	for _, t := range Tiers {
		tc := c.Tier(t)
		if tc.IntervalSeconds <= 0 {
			return fmt.Errorf("tier %s: interval_seconds must be positive", t)
		}
		if tc.Speed <= 0 {
			return fmt.Errorf("tier %s: speed must be positive", t)
		}
		if tc.SingleChance < 0 || tc.SingleChance > 1 {
			return fmt.Errorf("tier %s: single_chance must be within [0, 1]", t)
		}
	}
	switch c.Collision.Strategy {
	case CollisionDistance, CollisionBox:
	default:
		return fmt.Errorf("%w %q", ErrUnknownCollision, c.Collision.Strategy)
	}
	switch c.Difficulty.Policy {
	case PolicyFlat, PolicyEscalating:
	case PolicyScript:
		if c.Difficulty.Script == "" {
			return fmt.Errorf("difficulty policy %q requires a script path", PolicyScript)
		}
	default:
		return fmt.Errorf("%w %q", ErrUnknownPolicy, c.Difficulty.Policy)
	}
	if c.Loop.MinDeltaMS <= 0 || c.Loop.MaxDeltaMS < c.Loop.MinDeltaMS {
		return fmt.Errorf("loop: need 0 < min_delta_ms <= max_delta_ms")
	}
	return nil
}

// ApplyOverrides replaces policy and collision strategy when non-empty,
// typically from CLI flags.
func ApplyOverrides(cfg *RunnerConfig, policy, collision, script string) error {
	if script != "" {
		cfg.Difficulty.Script = script
		if policy == "" {
			policy = PolicyScript
		}
	}
	if policy != "" {
		cfg.Difficulty.Policy = strings.ToLower(policy)
	}
	if collision != "" {
		cfg.Collision.Strategy = strings.ToLower(collision)
	}
	return cfg.Validate()
}
