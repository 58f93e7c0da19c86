package runner

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/vovakirdan/neon-runner/internal/config"
)

// SpawnSystem emits enemy patterns on a timer. Every pattern leaves at least
// one lane free. The system only queues enemies; the session drains them
// into its live collection once per tick.
type SpawnSystem struct {
	rng    *rand.Rand
	policy DifficultyPolicy
	tier   config.Tier

	singleChance float64
	worldWidth   float64
	enemySize    float64

	timer    time.Duration
	elapsed  time.Duration
	patterns int
	pending  []Enemy
}

// NewSpawnSystem creates a spawn system for one session. The same seed and
// the same sequence of Update deltas produce the same enemies.
func NewSpawnSystem(cfg config.RunnerConfig, tier config.Tier, policy DifficultyPolicy, seed int64) *SpawnSystem {
	return &SpawnSystem{
		rng:          rand.New(rand.NewSource(seed)),
		policy:       policy,
		tier:         tier,
		singleChance: cfg.Tier(tier).SingleChance,
		worldWidth:   cfg.World.Width,
		enemySize:    cfg.Enemy.Size,
	}
}

// Reset clears timers and queued enemies and reseeds the generator.
func (s *SpawnSystem) Reset(seed int64) {
	s.rng.Seed(seed)
	s.timer = 0
	s.elapsed = 0
	s.patterns = 0
	s.pending = s.pending[:0]
}

// Update advances the spawn timer and queues a pattern each time the
// current interval is reached. Overshoot carries into the next interval.
// It returns the number of patterns emitted.
func (s *SpawnSystem) Update(delta time.Duration) int {
	if delta <= 0 {
		return 0
	}
	s.timer += delta
	s.elapsed += delta

	emitted := 0
	for {
		interval := s.Interval()
		if s.timer < interval {
			break
		}
		s.timer -= interval
		s.spawnPattern()
		emitted++
	}
	return emitted
}

// spawnPattern queues either one enemy in a random lane or two enemies
// around a random free lane.
func (s *SpawnSystem) spawnPattern() {
	s.patterns++
	if s.rng.Float64() < s.singleChance {
		s.spawnEnemy(s.rng.Intn(LaneCount))
		return
	}
	free := s.rng.Intn(LaneCount)
	for lane := 0; lane < LaneCount; lane++ {
		if lane != free {
			s.spawnEnemy(lane)
		}
	}
}

func (s *SpawnSystem) spawnEnemy(lane int) {
	shape := Shapes[s.rng.Intn(len(Shapes))]
	speed := s.policy.Speed(s.elapsed)
	s.pending = append(s.pending, NewEnemy(s.worldWidth, lane, -s.enemySize, speed, s.enemySize, shape))
}

// Drain appends the queued enemies to dst and empties the queue.
func (s *SpawnSystem) Drain(dst []Enemy) []Enemy {
	dst = append(dst, s.pending...)
	s.pending = s.pending[:0]
	return dst
}

// Pending returns the number of queued enemies.
func (s *SpawnSystem) Pending() int { return len(s.pending) }

// Patterns returns the number of patterns emitted since the last reset.
func (s *SpawnSystem) Patterns() int { return s.patterns }

// Elapsed returns the total time seen by Update.
func (s *SpawnSystem) Elapsed() time.Duration { return s.elapsed }

// Interval returns the current spawn interval.
func (s *SpawnSystem) Interval() time.Duration {
	interval := s.policy.Interval(s.elapsed)
	if interval < minSpawnInterval {
		return minSpawnInterval
	}
	return interval
}

// Speed returns the speed the next enemy would get.
func (s *SpawnSystem) Speed() float64 {
	return s.policy.Speed(s.elapsed)
}

// Tier returns the difficulty tier.
func (s *SpawnSystem) Tier() config.Tier { return s.tier }

// DebugInfo describes the current difficulty for the HUD debug line.
func (s *SpawnSystem) DebugInfo() string {
	return fmt.Sprintf("Speed: %.0f | Spawn: %.2fs | Mode: %s | Policy: %s",
		s.Speed(), s.Interval().Seconds(), s.tier, s.policy.Name())
}
