package runner

import (
	"time"

	"github.com/vovakirdan/neon-runner/internal/config"
)

// Snapshot is an immutable copy of everything a renderer needs for one
// frame. It shares no memory with the session.
type Snapshot struct {
	Frame   uint64
	State   State
	Tier    config.Tier
	Width   float64
	Height  float64
	DangerY float64 // enemies below this line are flagged as danger
	Player  PlayerView
	Enemies []EnemyView
	Score   int
	Elapsed time.Duration
	Seconds int
	Debug   string
}

// PlayerView is the renderable player state.
type PlayerView struct {
	Lane int
	X    float64
	Y    float64
	Size float64
}

// EnemyView is the renderable state of one live enemy.
type EnemyView struct {
	Lane   int
	X      float64
	Y      float64
	Size   float64
	Shape  Shape
	Danger bool
}

// FormattedTime returns the survival time as MM:SS.
func (s Snapshot) FormattedTime() string {
	return FormatTime(s.Seconds)
}

// FormattedScore returns the score with thousands separators.
func (s Snapshot) FormattedScore() string {
	return FormatScore(s.Score)
}
