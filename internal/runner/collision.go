package runner

import (
	"fmt"

	"github.com/vovakirdan/neon-runner/internal/config"
	"github.com/vovakirdan/neon-runner/internal/core"
)

// DefaultCollisionThreshold is the center distance below which the player
// and an enemy collide.
const DefaultCollisionThreshold = 45.0

// Collider decides whether the player touches an enemy.
type Collider interface {
	Collides(player core.Vec2, playerSize float64, e Enemy) bool
	Name() string
}

// CheckCollision reports whether the centers are closer than threshold.
func CheckCollision(player core.Vec2, e Enemy, threshold float64) bool {
	return player.Dist(e.Center()) < threshold
}

// DistanceCollider compares center distance with a fixed threshold. The
// hit area is a circle, so diagonal near-misses are forgiven.
type DistanceCollider struct {
	Threshold float64
}

// Collides implements Collider.
func (c DistanceCollider) Collides(player core.Vec2, _ float64, e Enemy) bool {
	if !e.Alive {
		return false
	}
	return CheckCollision(player, e, c.Threshold)
}

// Name returns "distance".
func (DistanceCollider) Name() string { return config.CollisionDistance }

// BoxCollider tests overlap of the player and enemy bounding squares. It
// hits at corners the distance test forgives and misses side-by-side
// overlaps the distance test catches.
type BoxCollider struct{}

// Collides implements Collider.
func (BoxCollider) Collides(player core.Vec2, playerSize float64, e Enemy) bool {
	if !e.Alive {
		return false
	}
	return core.BoxAround(player, playerSize).Intersects(core.BoxAround(e.Center(), e.Size))
}

// Name returns "box".
func (BoxCollider) Name() string { return config.CollisionBox }

// NewCollider builds the configured collision strategy.
func NewCollider(cfg config.CollisionConfig) (Collider, error) {
	switch cfg.Strategy {
	case config.CollisionDistance, "":
		threshold := cfg.Threshold
		if threshold <= 0 {
			threshold = DefaultCollisionThreshold
		}
		return DistanceCollider{Threshold: threshold}, nil
	case config.CollisionBox:
		return BoxCollider{}, nil
	}
	return nil, fmt.Errorf("runner: %w %q", config.ErrUnknownCollision, cfg.Strategy)
}
