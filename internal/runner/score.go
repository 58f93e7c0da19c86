package runner

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// DefaultPointsPerSecond is the baseline scoring rate.
const DefaultPointsPerSecond = 15.0

// ScoreSystem turns survival time into points.
type ScoreSystem struct {
	elapsed time.Duration
	rate    float64
}

// NewScoreSystem creates a score system awarding pointsPerSecond.
func NewScoreSystem(pointsPerSecond float64) *ScoreSystem {
	if pointsPerSecond <= 0 {
		pointsPerSecond = DefaultPointsPerSecond
	}
	return &ScoreSystem{rate: pointsPerSecond}
}

// Update accrues survival time. Non-positive deltas are ignored.
func (s *ScoreSystem) Update(delta time.Duration) {
	if delta > 0 {
		s.elapsed += delta
	}
}

// Score returns floor(elapsed seconds * rate).
func (s *ScoreSystem) Score() int {
	return int(math.Floor(s.elapsed.Seconds() * s.rate))
}

// Seconds returns whole seconds survived.
func (s *ScoreSystem) Seconds() int {
	return int(s.elapsed / time.Second)
}

// Elapsed returns the accrued survival time.
func (s *ScoreSystem) Elapsed() time.Duration { return s.elapsed }

// FormattedTime returns the survival time as MM:SS.
func (s *ScoreSystem) FormattedTime() string {
	return FormatTime(s.Seconds())
}

// Reset zeroes the accrued time.
func (s *ScoreSystem) Reset() {
	s.elapsed = 0
}

// FormatTime renders whole seconds as MM:SS. Minutes are not wrapped.
func FormatTime(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// FormatScore renders a score with '.' as the thousands separator.
func FormatScore(score int) string {
	s := strconv.Itoa(score)
	neg := false
	if score < 0 {
		neg = true
		s = s[1:]
	}
	var out []byte
	for i := range len(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, '.')
		}
		out = append(out, s[i])
	}
	if neg {
		return "-" + string(out)
	}
	return string(out)
}
