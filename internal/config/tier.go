package config

import (
	"errors"
	"fmt"
	"strings"
)

// Tier is a named difficulty preset.
type Tier string

const (
	TierNormal  Tier = "NORMAL"
	TierHard    Tier = "HARD"
	TierExtreme Tier = "EXTREME"
)

// Tiers lists all tiers from easiest to hardest.
var Tiers = []Tier{TierNormal, TierHard, TierExtreme}

// ErrUnknownTier is returned by ParseTier for unrecognized names.
var ErrUnknownTier = errors.New("unknown tier")

// ParseTier converts a case-insensitive tier name. An empty name is NORMAL.
func ParseTier(name string) (Tier, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "normal":
		return TierNormal, nil
	case "hard":
		return TierHard, nil
	case "extreme":
		return TierExtreme, nil
	}
	return TierNormal, fmt.Errorf("config: %w %q (want normal, hard or extreme)", ErrUnknownTier, name)
}

// Title returns the display name of the tier.
func (t Tier) Title() string {
	switch t {
	case TierHard:
		return "Hard"
	case TierExtreme:
		return "Extreme"
	default:
		return "Normal"
	}
}

// Policy names accepted in DifficultyConfig.Policy.
const (
	PolicyFlat       = "flat"
	PolicyEscalating = "escalating"
	PolicyScript     = "script"
)

// Collision strategy names accepted in CollisionConfig.Strategy.
const (
	CollisionDistance = "distance"
	CollisionBox      = "box"
)

// ErrUnknownPolicy is returned when a difficulty policy name is not recognized.
var ErrUnknownPolicy = errors.New("unknown difficulty policy")

// ErrUnknownCollision is returned when a collision strategy is not recognized.
var ErrUnknownCollision = errors.New("unknown collision strategy")
