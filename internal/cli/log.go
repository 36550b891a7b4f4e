package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mirrorlab/mirrorsnap/pkg/progress"
)

// newLogger creates a new logger with timestamp formatting.
// The logger writes to w and filters messages at the specified level.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// timer tracks the start time of an operation and logs completion with
// the elapsed duration. It is safe for sequential use by a single
// goroutine.
type timer struct {
	logger *log.Logger
	start  time.Time
}

// newTimer creates a timer that captures the current time as start.
func newTimer(l *log.Logger) *timer {
	return &timer{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since the timer was created.
// The duration is rounded to the nearest millisecond.
// Example output: "Wrote 1234 entries (1.234s)"
func (t *timer) done(msg string) {
	t.logger.Infof("%s (%s)", msg, time.Since(t.start).Round(time.Millisecond))
}

// reportEvery logs crawl progress from the tracker at the given interval
// until the tracker finishes, stop is called, or ctx is done. The
// returned stop function waits for the reporting goroutine to exit.
func reportEvery(ctx context.Context, logger *log.Logger, tracker *progress.Tracker, interval time.Duration) (stop func()) {
	done := make(chan struct{})
	finished := make(chan struct{})

	go func() {
		defer close(finished)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-done:
				return
			case <-ticker.C:
				if tracker.Finished() {
					return
				}
				if msg := tracker.Message(); msg != "" {
					logger.Infof("scanned %d/%d packages, current: %s", tracker.Done(), tracker.Total(), msg)
				} else {
					logger.Infof("scanned %d/%d packages", tracker.Done(), tracker.Total())
				}
			}
		}
	}()

	return func() {
		close(done)
		<-finished
	}
}

// ctxKey is the type for context keys used in this package.
// Using a distinct type prevents collisions with other packages.
type ctxKey int

// loggerKey is the context key for storing a logger.
const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
// The logger can be retrieved later with loggerFromContext.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx.
// If no logger is attached, it returns log.Default().
// This ensures commands always have a valid logger even if context setup fails.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
