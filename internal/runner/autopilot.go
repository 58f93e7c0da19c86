package runner

import (
	"math"
	"math/rand"
	"time"

	"github.com/vovakirdan/neon-runner/internal/core"
	"github.com/vovakirdan/neon-runner/internal/loop"
)

// Autopilot is a simple input bot: it steers toward the lane whose nearest
// approaching enemy is farthest away, with a configurable chance of random
// hesitation.
type Autopilot struct {
	rng *rand.Rand
	// Hesitation is the probability of skipping a decision.
	Hesitation float64
}

// NewAutopilot creates a bot with its own random source.
func NewAutopilot(seed int64, hesitation float64) *Autopilot {
	return &Autopilot{rng: rand.New(rand.NewSource(seed)), Hesitation: core.ClampF(hesitation, 0, 1)}
}

// Choose returns the lane to move to for the given frame.
func (a *Autopilot) Choose(snap Snapshot) int {
	if a.Hesitation > 0 && a.rng.Float64() < a.Hesitation {
		return snap.Player.Lane
	}
	var gap [LaneCount]float64
	for i := range gap {
		gap[i] = math.Inf(1)
	}
	for _, e := range snap.Enemies {
		// Enemies already below the player are no longer a threat.
		if e.Y > snap.Player.Y+snap.Player.Size {
			continue
		}
		if d := snap.Player.Y - e.Y; d < gap[e.Lane] {
			gap[e.Lane] = d
		}
	}

	best := snap.Player.Lane
	for lane := range LaneCount {
		if gap[lane] > gap[best] || (gap[lane] == gap[best] && abs(lane-snap.Player.Lane) < abs(best-snap.Player.Lane)) {
			best = lane
		}
	}
	// Only step to a neighbour; crossing two lanes in one move would sweep
	// through the middle one.
	switch {
	case best > snap.Player.Lane:
		return snap.Player.Lane + 1
	case best < snap.Player.Lane:
		return snap.Player.Lane - 1
	}
	return best
}

// SimResult summarizes a headless run.
type SimResult struct {
	Score    int
	Seconds  int
	Elapsed  time.Duration
	Frames   int
	GameOver bool
	Enemies  int
}

// Simulate drives a session with fixed steps until game over or until limit
// of simulated time has passed. A nil bot leaves the player in place. Steps
// longer than the configured max delta are split so enemies cannot skip past
// the player.
func Simulate(s *Session, bot *Autopilot, step, limit time.Duration) SimResult {
	if step <= 0 {
		step = 16 * time.Millisecond
	}
	maxDelta := ms(s.Config().Loop.MaxDeltaMS)
	if maxDelta <= 0 {
		maxDelta = loop.DefaultMaxDelta
	}

	var res SimResult
	for simulated := time.Duration(0); simulated < limit; simulated += step {
		if bot != nil {
			s.MoveToLane(bot.Choose(s.Snapshot()))
		}
		for left := step; left > 0 && s.State() != StateGameOver; {
			d := min(left, maxDelta)
			s.Update(d)
			left -= d
		}
		res.Frames++
		if s.State() == StateGameOver {
			res.GameOver = true
			break
		}
	}
	snap := s.Snapshot()
	res.Score = snap.Score
	res.Seconds = snap.Seconds
	res.Elapsed = snap.Elapsed
	res.Enemies = len(snap.Enemies)
	return res
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
