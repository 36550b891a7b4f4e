package progress

import (
	"sync"
	"testing"
)

func TestTrackerCounts(t *testing.T) {
	tr := NewTracker()
	tr.SetTotal(42)
	if tr.Total() != 42 {
		t.Errorf("total should be 42, got %d", tr.Total())
	}
	if tr.Done() != 0 {
		t.Errorf("done should start at 0, got %d", tr.Done())
	}
	tr.Inc()
	tr.Inc()
	if tr.Done() != 2 {
		t.Errorf("done should be 2 after two increments, got %d", tr.Done())
	}
}

func TestTrackerConcurrentInc(t *testing.T) {
	const workers = 50
	const perWorker = 200

	tr := NewTracker()
	tr.SetTotal(workers * perWorker)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				tr.Inc()
			}
		}()
	}
	wg.Wait()

	if tr.Done() != workers*perWorker {
		t.Errorf("done should be %d, got %d", workers*perWorker, tr.Done())
	}
}

func TestTrackerWarnings(t *testing.T) {
	tr := NewTracker()
	if tr.Warnings() != 0 {
		t.Errorf("warnings should start at 0, got %d", tr.Warnings())
	}
	tr.Warn()
	tr.Warn()
	if tr.Warnings() != 2 {
		t.Errorf("warnings should be 2, got %d", tr.Warnings())
	}
}

func TestTrackerMessage(t *testing.T) {
	tr := NewTracker()
	if tr.Message() != "" {
		t.Errorf("message should start empty, got %q", tr.Message())
	}
	tr.SetMessage("requests")
	if tr.Message() != "requests" {
		t.Errorf("message should be %q, got %q", "requests", tr.Message())
	}
}

func TestTrackerFinish(t *testing.T) {
	tr := NewTracker()
	if tr.Finished() {
		t.Error("tracker should not start finished")
	}
	tr.Finish("done")
	if !tr.Finished() {
		t.Error("tracker should be finished after Finish")
	}
	if tr.Message() != "done" {
		t.Errorf("Finish should publish its message, got %q", tr.Message())
	}
}
