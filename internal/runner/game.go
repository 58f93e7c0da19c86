package runner

import (
	"time"

	"github.com/vovakirdan/neon-runner/internal/loop"
)

// Game couples a session with the scheduler that drives it. Entering
// GameOver asks the scheduler to stop.
type Game struct {
	Session   *Session
	Scheduler *loop.Scheduler
}

// NewGame builds a session and its scheduler. Zero loop timings are taken
// from the session config.
func NewGame(opts Options, loopOpts loop.Options) (*Game, error) {
	sess, err := NewSession(opts)
	if err != nil {
		return nil, err
	}
	lc := opts.Config.Loop
	if loopOpts.MinDelta == 0 {
		loopOpts.MinDelta = ms(lc.MinDeltaMS)
	}
	if loopOpts.MaxDelta == 0 {
		loopOpts.MaxDelta = ms(lc.MaxDeltaMS)
	}
	if loopOpts.FrameBudget == 0 {
		loopOpts.FrameBudget = ms(lc.FrameBudgetMS)
	}
	if loopOpts.StopTimeout == 0 {
		loopOpts.StopTimeout = ms(lc.StopTimeoutMS)
	}
	if loopOpts.Logger == nil {
		loopOpts.Logger = opts.Logger
	}
	sched := loop.New(sess, loopOpts)
	sess.SetStopHook(sched.RequestStop)
	return &Game{Session: sess, Scheduler: sched}, nil
}

// Start begins ticking. Calling Start on a running game does nothing.
func (g *Game) Start() {
	g.Scheduler.Start()
}

// Stop halts ticking and waits for the loop to exit.
func (g *Game) Stop() error {
	return g.Scheduler.Stop()
}

// Close stops the loop and releases the session's resources. The game
// cannot be restarted afterwards.
func (g *Game) Close() error {
	err := g.Scheduler.Stop()
	g.Session.Close()
	return err
}

// Restart stops the loop, resets the session and starts again. When the old
// loop does not exit in time the session is left as is and the error is
// returned, so two loops never tick the same session.
func (g *Game) Restart() error {
	if err := g.Scheduler.Stop(); err != nil {
		return err
	}
	g.Session.Reset()
	g.Scheduler.Start()
	return nil
}

func ms(n int) time.Duration {
	return time.Duration(n) * time.Millisecond
}
