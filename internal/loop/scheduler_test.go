package loop

import (
	"sync"
	"testing"
	"time"
)

// recordingTicker records deltas and signals after a number of frames.
type recordingTicker struct {
	mu      sync.Mutex
	deltas  []time.Duration
	renders int
	target  int
	reached chan struct{}
	once    sync.Once
	onTick  func(n int)
}

func newRecordingTicker(target int) *recordingTicker {
	return &recordingTicker{target: target, reached: make(chan struct{})}
}

func (r *recordingTicker) Update(delta time.Duration) {
	r.mu.Lock()
	r.deltas = append(r.deltas, delta)
	n := len(r.deltas)
	r.mu.Unlock()

	if r.onTick != nil {
		r.onTick(n)
	}
}

func (r *recordingTicker) Render() {
	r.mu.Lock()
	r.renders++
	n := r.renders
	r.mu.Unlock()

	if n >= r.target {
		r.once.Do(func() { close(r.reached) })
	}
}

func (r *recordingTicker) wait(t *testing.T) {
	t.Helper()
	select {
	case <-r.reached:
	case <-time.After(2 * time.Second):
		t.Fatal("ticker did not reach target frame count")
	}
}

func TestClampDelta(t *testing.T) {
	tests := []struct {
		name     string
		in       time.Duration
		expected time.Duration
	}{
		{"negative", -5 * time.Millisecond, DefaultMinDelta},
		{"zero", 0, DefaultMinDelta},
		{"tiny", 100 * time.Microsecond, DefaultMinDelta},
		{"normal frame", 16 * time.Millisecond, 16 * time.Millisecond},
		{"at max", DefaultMaxDelta, DefaultMaxDelta},
		{"long pause", 3 * time.Second, DefaultMaxDelta},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ClampDelta(tc.in, DefaultMinDelta, DefaultMaxDelta)
			if got != tc.expected {
				t.Errorf("ClampDelta(%v) = %v, expected %v", tc.in, got, tc.expected)
			}
		})
	}
}

func TestClampDeltaAlwaysInRange(t *testing.T) {
	for d := time.Duration(0); d <= time.Second; d += 250 * time.Microsecond {
		got := ClampDelta(d, DefaultMinDelta, DefaultMaxDelta)
		if got < DefaultMinDelta || got > DefaultMaxDelta {
			t.Fatalf("ClampDelta(%v) = %v, outside [%v, %v]", d, got, DefaultMinDelta, DefaultMaxDelta)
		}
	}
}

func TestSchedulerClampsMeasuredDelta(t *testing.T) {
	clock := NewManualClock(time.Unix(0, 0))
	ticker := newRecordingTicker(5)

	// Every frame appears to take 50ms of wall time.
	s := New(ticker, Options{
		Clock: clock,
		Sleep: func(time.Duration) { clock.Advance(50 * time.Millisecond) },
	})
	s.Start()
	ticker.wait(t)
	if err := s.Stop(); err != nil {
		t.Fatalf("Stop() failed: %v", err)
	}

	ticker.mu.Lock()
	defer ticker.mu.Unlock()

	if ticker.deltas[0] != DefaultMinDelta {
		t.Errorf("first delta = %v, expected min delta %v", ticker.deltas[0], DefaultMinDelta)
	}
	for i, d := range ticker.deltas[1:] {
		if d != DefaultMaxDelta {
			t.Errorf("delta[%d] = %v, expected clamp to %v", i+1, d, DefaultMaxDelta)
		}
	}
}

func TestSchedulerSleepsRemainderOfBudget(t *testing.T) {
	clock := NewManualClock(time.Unix(0, 0))
	ticker := newRecordingTicker(3)

	var mu sync.Mutex
	var sleeps []time.Duration
	ticker.onTick = func(int) { clock.Advance(4 * time.Millisecond) } // frame work takes 4ms

	s := New(ticker, Options{
		Clock: clock,
		Sleep: func(d time.Duration) {
			mu.Lock()
			sleeps = append(sleeps, d)
			mu.Unlock()
			clock.Advance(d)
		},
	})
	s.Start()
	ticker.wait(t)
	if err := s.Stop(); err != nil {
		t.Fatalf("Stop() failed: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(sleeps) == 0 {
		t.Fatal("expected the scheduler to sleep")
	}
	for _, d := range sleeps {
		if d != 12*time.Millisecond {
			t.Errorf("sleep = %v, expected 12ms (16ms budget - 4ms work)", d)
		}
	}
}

func TestSchedulerNeverSleepsNegative(t *testing.T) {
	clock := NewManualClock(time.Unix(0, 0))
	ticker := newRecordingTicker(3)
	ticker.onTick = func(int) { clock.Advance(40 * time.Millisecond) } // over budget

	var mu sync.Mutex
	slept := false
	s := New(ticker, Options{
		Clock: clock,
		Sleep: func(time.Duration) {
			mu.Lock()
			slept = true
			mu.Unlock()
		},
	})
	s.Start()
	ticker.wait(t)
	if err := s.Stop(); err != nil {
		t.Fatalf("Stop() failed: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if slept {
		t.Error("scheduler should not sleep when the frame exceeded its budget")
	}
}

func TestSchedulerStartIdempotent(t *testing.T) {
	ticker := newRecordingTicker(2)
	s := New(ticker, Options{})

	s.Start()
	s.Start()
	if !s.Running() {
		t.Fatal("scheduler should be running")
	}
	ticker.wait(t)

	if err := s.Stop(); err != nil {
		t.Fatalf("Stop() failed: %v", err)
	}
	if s.Running() {
		t.Error("scheduler should not be running after Stop")
	}
	// Second stop is a no-op.
	if err := s.Stop(); err != nil {
		t.Errorf("second Stop() failed: %v", err)
	}
}

func TestSchedulerRecoversFromPanics(t *testing.T) {
	ticker := newRecordingTicker(5)
	ticker.onTick = func(n int) {
		if n == 2 {
			panic("bad frame")
		}
	}

	s := New(ticker, Options{FrameBudget: time.Millisecond})
	s.Start()
	ticker.wait(t)
	if err := s.Stop(); err != nil {
		t.Fatalf("Stop() failed: %v", err)
	}

	if s.Panics() != 1 {
		t.Errorf("Panics() = %d, expected 1", s.Panics())
	}
	if s.Ticks() < 5 {
		t.Errorf("loop should continue after a panic, got %d ticks", s.Ticks())
	}
}

func TestSchedulerRequestStopFromTick(t *testing.T) {
	ticker := newRecordingTicker(1000)
	var s *Scheduler
	ticker.onTick = func(n int) {
		if n == 3 {
			s.RequestStop()
		}
	}

	s = New(ticker, Options{FrameBudget: time.Millisecond})
	s.Start()

	done := make(chan error, 1)
	go func() {
		// Give the loop time to request its own stop.
		time.Sleep(50 * time.Millisecond)
		done <- s.Stop()
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Stop() after RequestStop failed: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Stop() blocked")
	}

	if s.Running() {
		t.Error("scheduler should be stopped")
	}
	ticker.mu.Lock()
	defer ticker.mu.Unlock()
	if len(ticker.deltas) != 3 {
		t.Errorf("expected exactly 3 frames before the loop exited, got %d", len(ticker.deltas))
	}
}

func TestSchedulerStopTimeout(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	var once sync.Once
	ticker := newRecordingTicker(1000)
	ticker.onTick = func(int) {
		once.Do(func() { close(entered) })
		<-release
	}

	s := New(ticker, Options{StopTimeout: 20 * time.Millisecond})
	s.Start()
	<-entered

	if err := s.Stop(); err != ErrStopTimeout {
		t.Errorf("Stop() = %v, expected ErrStopTimeout", err)
	}
	close(release)
}
