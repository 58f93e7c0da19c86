package runner

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/neon-runner/internal/config"
	"github.com/vovakirdan/neon-runner/internal/runner/script"
)

// minSpawnInterval bounds any policy so a bad script cannot flood the lanes.
const minSpawnInterval = 50 * time.Millisecond

// DifficultyPolicy decides spawn cadence and enemy speed from elapsed play
// time. Speed is sampled once per enemy at spawn.
type DifficultyPolicy interface {
	Interval(elapsed time.Duration) time.Duration
	Speed(elapsed time.Duration) float64
	Name() string
}

// FlatPolicy keeps the tier's interval and speed for the whole session.
type FlatPolicy struct {
	BaseInterval time.Duration
	BaseSpeed    float64
}

// Interval returns the fixed interval.
func (p FlatPolicy) Interval(time.Duration) time.Duration { return p.BaseInterval }

// Speed returns the fixed speed.
func (p FlatPolicy) Speed(time.Duration) float64 { return p.BaseSpeed }

// Name returns "flat".
func (FlatPolicy) Name() string { return config.PolicyFlat }

// EscalatingPolicy speeds enemies up linearly until a cap and shortens the
// spawn interval linearly until a floor.
type EscalatingPolicy struct {
	BaseInterval  time.Duration
	BaseSpeed     float64
	SpeedGrowth   float64       // units/s per second of play
	SpeedCap      float64       // multiple of BaseSpeed
	IntervalDecay float64       // seconds of interval removed per second of play
	MinInterval   time.Duration // interval floor
}

// Interval decays from the base interval down to MinInterval. A base below
// the floor is kept as is.
func (p EscalatingPolicy) Interval(elapsed time.Duration) time.Duration {
	if p.BaseInterval <= p.MinInterval {
		return p.BaseInterval
	}
	decayed := p.BaseInterval - time.Duration(p.IntervalDecay*elapsed.Seconds()*float64(time.Second))
	if decayed < p.MinInterval {
		return p.MinInterval
	}
	return decayed
}

// Speed grows from the base speed up to BaseSpeed*SpeedCap.
func (p EscalatingPolicy) Speed(elapsed time.Duration) float64 {
	speed := p.BaseSpeed + p.SpeedGrowth*elapsed.Seconds()
	if p.SpeedCap > 0 {
		speed = math.Min(speed, p.BaseSpeed*p.SpeedCap)
	}
	return speed
}

// Name returns "escalating".
func (EscalatingPolicy) Name() string { return config.PolicyEscalating }

// NewPolicy builds the configured policy for a tier.
func NewPolicy(cfg config.RunnerConfig, tier config.Tier, logger *log.Logger) (DifficultyPolicy, error) {
	tc := cfg.Tier(tier)
	base := time.Duration(tc.IntervalSeconds * float64(time.Second))

	switch cfg.Difficulty.Policy {
	case config.PolicyFlat, "":
		return FlatPolicy{BaseInterval: base, BaseSpeed: tc.Speed}, nil
	case config.PolicyEscalating:
		d := cfg.Difficulty
		return EscalatingPolicy{
			BaseInterval:  base,
			BaseSpeed:     tc.Speed,
			SpeedGrowth:   d.SpeedGrowth,
			SpeedCap:      d.SpeedCap,
			IntervalDecay: d.IntervalDecay,
			MinInterval:   time.Duration(d.MinIntervalSeconds * float64(time.Second)),
		}, nil
	case config.PolicyScript:
		if logger == nil {
			logger = log.New(io.Discard)
		}
		p, err := script.Load(cfg.Difficulty.Script, script.Base{Interval: base, Speed: tc.Speed}, logger)
		if err != nil {
			return nil, fmt.Errorf("runner: %w", err)
		}
		return p, nil
	}
	return nil, fmt.Errorf("runner: %w %q", config.ErrUnknownPolicy, cfg.Difficulty.Policy)
}
