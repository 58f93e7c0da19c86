package runner

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// DefaultRecordTimeout bounds a fire-and-forget score write.
const DefaultRecordTimeout = 5 * time.Second

// ScoreRecord is one finished run.
type ScoreRecord struct {
	UserID      string
	Username    string
	Score       int
	TimeSeconds int
	Mode        string
	Timestamp   time.Time
}

// ScoreRecorder persists finished runs.
type ScoreRecorder interface {
	RecordScore(ctx context.Context, rec ScoreRecord) error
}

// RecordAsync writes rec in the background. Failures are logged and
// otherwise ignored; the returned channel is closed when the write is done.
func RecordAsync(recorder ScoreRecorder, rec ScoreRecord, timeout time.Duration, logger *log.Logger) <-chan struct{} {
	done := make(chan struct{})
	if recorder == nil {
		close(done)
		return done
	}
	if timeout <= 0 {
		timeout = DefaultRecordTimeout
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now()
	}
	go func() {
		defer close(done)
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := recorder.RecordScore(ctx, rec); err != nil && logger != nil {
			logger.Warn("Failed to record score", "user", rec.Username, "mode", rec.Mode, "score", rec.Score, "error", err)
		}
	}()
	return done
}
