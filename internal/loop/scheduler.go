package loop

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
)

// Default timing: never simulate slower than ~30 logical FPS, target ~60Hz.
const (
	DefaultMinDelta    = time.Millisecond
	DefaultMaxDelta    = 33 * time.Millisecond
	DefaultFrameBudget = 16 * time.Millisecond
	DefaultStopTimeout = 2 * time.Second
)

// ErrStopTimeout is returned by Stop when the loop did not exit in time.
var ErrStopTimeout = errors.New("loop: scheduler did not stop in time")

// Ticker is the work the scheduler drives once per frame.
type Ticker interface {
	Update(delta time.Duration)
	Render()
}

// Options configures a Scheduler. Zero values use the defaults.
type Options struct {
	Clock       Clock
	MinDelta    time.Duration
	MaxDelta    time.Duration
	FrameBudget time.Duration
	StopTimeout time.Duration
	Logger      *log.Logger
	// Sleep is used to wait out the frame budget; tests may replace it.
	Sleep func(time.Duration)
}

// Scheduler runs a Ticker on its own goroutine until stopped.
type Scheduler struct {
	ticker Ticker
	opts   Options
	logger *log.Logger

	mu      sync.Mutex
	running atomic.Bool
	stopCh  chan struct{}
	doneCh  chan struct{}
	ticks   atomic.Uint64
	panics  atomic.Uint64
}

// New creates a scheduler for the given ticker.
func New(t Ticker, opts Options) *Scheduler {
	if opts.Clock == nil {
		opts.Clock = SystemClock{}
	}
	if opts.MinDelta <= 0 {
		opts.MinDelta = DefaultMinDelta
	}
	if opts.MaxDelta <= 0 {
		opts.MaxDelta = DefaultMaxDelta
	}
	if opts.MaxDelta < opts.MinDelta {
		opts.MaxDelta = opts.MinDelta
	}
	if opts.FrameBudget <= 0 {
		opts.FrameBudget = DefaultFrameBudget
	}
	if opts.StopTimeout <= 0 {
		opts.StopTimeout = DefaultStopTimeout
	}
	if opts.Sleep == nil {
		opts.Sleep = time.Sleep
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Scheduler{ticker: t, opts: opts, logger: logger}
}

// ClampDelta restricts a frame delta to [min, max]. Negative deltas clamp
// to min.
func ClampDelta(d, min, max time.Duration) time.Duration {
	if d < min {
		return min
	}
	if d > max {
		return max
	}
	return d
}

// Start launches the loop goroutine. Calling Start while running is a no-op.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running.CompareAndSwap(false, true) {
		return
	}
	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})
	go s.run(s.stopCh, s.doneCh)
}

// RequestStop signals the loop to exit without waiting. It is safe to call
// from inside a tick, where Stop would wait on itself.
func (s *Scheduler) RequestStop() {
	s.signal()
}

// Stop signals the loop to exit and waits up to the stop timeout for it.
// Must not be called from inside a tick; use RequestStop there.
func (s *Scheduler) Stop() error {
	done := s.signal()
	if done == nil {
		return nil
	}

	select {
	case <-done:
		return nil
	case <-time.After(s.opts.StopTimeout):
		s.logger.Warn("scheduler stop timed out", "timeout", s.opts.StopTimeout)
		return ErrStopTimeout
	}
}

func (s *Scheduler) signal() chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running.CompareAndSwap(true, false) {
		close(s.stopCh)
	}
	return s.doneCh
}

// Running reports whether the loop is active.
func (s *Scheduler) Running() bool {
	return s.running.Load()
}

// Ticks returns the number of completed frames since creation.
func (s *Scheduler) Ticks() uint64 {
	return s.ticks.Load()
}

// Panics returns the number of frames that panicked and were recovered.
func (s *Scheduler) Panics() uint64 {
	return s.panics.Load()
}

func (s *Scheduler) run(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	last := s.opts.Clock.Now()
	for {
		select {
		case <-stop:
			return
		default:
		}

		frameStart := s.opts.Clock.Now()
		delta := ClampDelta(frameStart.Sub(last), s.opts.MinDelta, s.opts.MaxDelta)
		last = frameStart

		s.frame(delta)
		s.ticks.Add(1)

		if remaining := s.opts.FrameBudget - s.opts.Clock.Now().Sub(frameStart); remaining > 0 {
			select {
			case <-stop:
				return
			default:
				s.opts.Sleep(remaining)
			}
		}
	}
}

// frame runs one update+render pair. A panic is logged and the loop
// continues with the next frame.
func (s *Scheduler) frame(delta time.Duration) {
	defer func() {
		if r := recover(); r != nil {
			s.panics.Add(1)
			s.logger.Error("frame failed", "tick", s.ticks.Load(), "error", fmt.Sprint(r))
		}
	}()
	s.ticker.Update(delta)
	s.ticker.Render()
}
