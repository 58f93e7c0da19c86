package runner

import (
	"testing"
	"time"

	"github.com/vovakirdan/neon-runner/internal/config"
)

func newTestSpawner(t *testing.T, interval time.Duration, single float64, seed int64) *SpawnSystem {
	t.Helper()
	cfg := config.DefaultRunnerConfig()
	cfg.Tiers.Normal.SingleChance = single
	return NewSpawnSystem(cfg, config.TierNormal, FlatPolicy{BaseInterval: interval, BaseSpeed: 600}, seed)
}

func TestSpawnEverySecondTick(t *testing.T) {
	s := newTestSpawner(t, time.Second, 0.5, 1)

	want := []int{0, 1, 0, 1, 0, 1}
	for i, w := range want {
		if got := s.Update(500 * time.Millisecond); got != w {
			t.Fatalf("tick %d: emitted %d patterns, want %d", i+1, got, w)
		}
	}
	if s.Patterns() != 3 {
		t.Errorf("Patterns = %d, want 3", s.Patterns())
	}
}

func TestSpawnOvershootCarries(t *testing.T) {
	s := newTestSpawner(t, time.Second, 0.5, 1)

	// 0.7, 1.4 (spawn, 0.4 left), 2.1 (spawn, 0.1 left)
	got := []int{
		s.Update(700 * time.Millisecond),
		s.Update(700 * time.Millisecond),
		s.Update(700 * time.Millisecond),
	}
	want := []int{0, 1, 1}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("emissions = %v, want %v", got, want)
		}
	}
}

func TestSpawnNeverEarly(t *testing.T) {
	s := newTestSpawner(t, 1200*time.Millisecond, 0.5, 3)
	elapsed := time.Duration(0)
	total := 0
	for i := 0; i < 1000; i++ {
		step := time.Duration(1+i%33) * time.Millisecond
		elapsed += step
		total += s.Update(step)
		if limit := int(elapsed / (1200 * time.Millisecond)); total > limit {
			t.Fatalf("at %v emitted %d patterns, at most %d allowed", elapsed, total, limit)
		}
	}
}

func TestSpawnLeavesFreeLane(t *testing.T) {
	for seed := int64(0); seed < 50; seed++ {
		s := newTestSpawner(t, time.Second, 0.45, seed)
		for i := 0; i < 40; i++ {
			n := s.Update(500 * time.Millisecond)
			batch := s.Drain(nil)
			if n == 0 {
				if len(batch) != 0 {
					t.Fatalf("seed %d: enemies without a pattern", seed)
				}
				continue
			}
			lanes := map[int]bool{}
			for _, e := range batch {
				lanes[e.Lane] = true
			}
			if len(batch) < 1 || len(batch) > 2 || len(lanes) != len(batch) {
				t.Fatalf("seed %d: bad pattern %+v", seed, batch)
			}
			if len(lanes) >= LaneCount {
				t.Fatalf("seed %d: pattern blocks every lane", seed)
			}
		}
	}
}

func TestSpawnPatternShapes(t *testing.T) {
	single := newTestSpawner(t, time.Second, 1, 7)
	double := newTestSpawner(t, time.Second, 0, 7)
	for i := 0; i < 20; i++ {
		single.Update(time.Second)
		double.Update(time.Second)
		if got := len(single.Drain(nil)); got != 1 {
			t.Fatalf("single pattern spawned %d enemies", got)
		}
		if got := len(double.Drain(nil)); got != 2 {
			t.Fatalf("double pattern spawned %d enemies", got)
		}
	}
}

func TestSpawnedEnemyInitialState(t *testing.T) {
	s := newTestSpawner(t, time.Second, 0.5, 11)
	s.Update(time.Second)
	for _, e := range s.Drain(nil) {
		if e.Y != -35 {
			t.Errorf("start y = %v, want -35", e.Y)
		}
		if e.X != LaneX(1080, e.Lane) {
			t.Errorf("x = %v, want lane center %v", e.X, LaneX(1080, e.Lane))
		}
		if e.Speed != 600 || !e.Alive {
			t.Errorf("unexpected enemy %+v", e)
		}
	}
	if s.Pending() != 0 {
		t.Errorf("Pending after Drain = %d", s.Pending())
	}
}

func TestSpawnDeterministic(t *testing.T) {
	run := func() []Enemy {
		s := newTestSpawner(t, 600*time.Millisecond, 0.25, 42)
		var out []Enemy
		for i := 0; i < 200; i++ {
			s.Update(16 * time.Millisecond)
			out = s.Drain(out)
		}
		return out
	}
	a, b := run(), run()
	if len(a) == 0 || len(a) != len(b) {
		t.Fatalf("runs differ in length: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("enemy %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestSpawnReset(t *testing.T) {
	s := newTestSpawner(t, time.Second, 0.5, 1)
	s.Update(1500 * time.Millisecond)
	s.Reset(2)
	if s.Elapsed() != 0 || s.Pending() != 0 || s.Patterns() != 0 {
		t.Fatalf("Reset left state: elapsed=%v pending=%d patterns=%d", s.Elapsed(), s.Pending(), s.Patterns())
	}
	if got := s.Update(500 * time.Millisecond); got != 0 {
		t.Errorf("timer not reset: emitted %d", got)
	}
}

func TestSpawnIntervalFloor(t *testing.T) {
	s := newTestSpawner(t, time.Nanosecond, 0.5, 1)
	if got := s.Interval(); got != minSpawnInterval {
		t.Errorf("Interval = %v, want floor %v", got, minSpawnInterval)
	}
	if got := s.Update(33 * time.Millisecond); got != 0 {
		t.Errorf("emitted %d patterns below the floor", got)
	}
}

func TestSpawnTierSingleChance(t *testing.T) {
	cfg := config.DefaultRunnerConfig()
	tests := []struct {
		tier config.Tier
		want float64
	}{
		{config.TierNormal, 0.45},
		{config.TierHard, 0.35},
		{config.TierExtreme, 0.25},
	}
	for _, tt := range tests {
		s := NewSpawnSystem(cfg, tt.tier, FlatPolicy{BaseInterval: time.Second, BaseSpeed: 1}, 1)
		if s.singleChance != tt.want {
			t.Errorf("%s: single chance %v, want %v", tt.tier, s.singleChance, tt.want)
		}
		if s.Tier() != tt.tier {
			t.Errorf("Tier = %s, want %s", s.Tier(), tt.tier)
		}
	}
}

func TestSpawnDebugInfo(t *testing.T) {
	s := newTestSpawner(t, 1200*time.Millisecond, 0.45, 1)
	want := "Speed: 600 | Spawn: 1.20s | Mode: NORMAL | Policy: flat"
	if got := s.DebugInfo(); got != want {
		t.Errorf("DebugInfo = %q, want %q", got, want)
	}
}
