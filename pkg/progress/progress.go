// Package progress holds the shared state behind a long crawl's progress
// display: how many units of work exist, how many are finished, and what
// is being worked on right now.
//
// A Tracker is written by the workers doing the crawl and read by
// whatever renders it (a periodic log line, a live terminal view). It is
// safe for concurrent use; rendering is the caller's concern.
package progress

import (
	"sync"
	"sync/atomic"
	"time"
)

// Tracker is a concurrency-safe progress counter with a free-form status
// message. The zero value is unusable; use NewTracker.
type Tracker struct {
	total    atomic.Int64
	done     atomic.Int64
	warnings atomic.Int64
	finished atomic.Bool
	start    time.Time

	mu      sync.RWMutex
	message string
}

// NewTracker returns a Tracker whose clock starts now.
func NewTracker() *Tracker {
	return &Tracker{start: time.Now()}
}

// SetTotal announces how many units of work the run will process.
func (t *Tracker) SetTotal(n int) {
	t.total.Store(int64(n))
}

// Total returns the announced amount of work.
func (t *Tracker) Total() int {
	return int(t.total.Load())
}

// Inc records one finished unit of work. It may be called from any
// number of goroutines.
func (t *Tracker) Inc() {
	t.done.Add(1)
}

// Done returns the number of finished units.
func (t *Tracker) Done() int {
	return int(t.done.Load())
}

// Warn records one warning emitted during the run, a degraded unit that
// the run survived (a failed listing, a dropped artifact).
func (t *Tracker) Warn() {
	t.warnings.Add(1)
}

// Warnings returns the number of warnings recorded so far.
func (t *Tracker) Warnings() int {
	return int(t.warnings.Load())
}

// SetMessage publishes what is currently being worked on, typically the
// name of the package in flight.
func (t *Tracker) SetMessage(msg string) {
	t.mu.Lock()
	t.message = msg
	t.mu.Unlock()
}

// Message returns the most recently published status message.
func (t *Tracker) Message() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.message
}

// Finish marks the run complete and publishes a closing message.
func (t *Tracker) Finish(msg string) {
	t.SetMessage(msg)
	t.finished.Store(true)
}

// Finished reports whether Finish has been called.
func (t *Tracker) Finished() bool {
	return t.finished.Load()
}

// Elapsed returns the time since the tracker was created.
func (t *Tracker) Elapsed() time.Duration {
	return time.Since(t.start)
}
