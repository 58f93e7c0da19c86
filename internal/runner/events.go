package runner

// Listener receives session events on the scheduler goroutine. Handlers
// must return quickly and must not block on the session's own scheduler.
type Listener interface {
	OnScoreChanged(score int)
	OnGameOver(score, seconds int)
}

// ListenerFuncs adapts plain functions to Listener. Nil fields are skipped.
type ListenerFuncs struct {
	ScoreChanged func(score int)
	GameOver     func(score, seconds int)
}

// OnScoreChanged implements Listener.
func (f ListenerFuncs) OnScoreChanged(score int) {
	if f.ScoreChanged != nil {
		f.ScoreChanged(score)
	}
}

// OnGameOver implements Listener.
func (f ListenerFuncs) OnGameOver(score, seconds int) {
	if f.GameOver != nil {
		f.GameOver(score, seconds)
	}
}

// Listeners fans events out to several listeners in order.
type Listeners []Listener

// OnScoreChanged implements Listener.
func (ls Listeners) OnScoreChanged(score int) {
	for _, l := range ls {
		l.OnScoreChanged(score)
	}
}

// OnGameOver implements Listener.
func (ls Listeners) OnGameOver(score, seconds int) {
	for _, l := range ls {
		l.OnGameOver(score, seconds)
	}
}

// RenderSink consumes frames. Draw runs on the scheduler goroutine; the
// snapshot is owned by the sink and may be passed to other goroutines.
type RenderSink interface {
	Draw(Snapshot)
}

// SinkFunc adapts a function to RenderSink.
type SinkFunc func(Snapshot)

// Draw implements RenderSink.
func (f SinkFunc) Draw(s Snapshot) { f(s) }

type nopListener struct{}

func (nopListener) OnScoreChanged(int)  {}
func (nopListener) OnGameOver(int, int) {}

type nopSink struct{}

func (nopSink) Draw(Snapshot) {}
