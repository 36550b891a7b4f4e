package mirror

import (
	"context"
	"sync"

	"github.com/mirrorlab/mirrorsnap/pkg/progress"
)

type scanJob struct {
	index int
	name  string
}

// Scatter crawls names with at most workers goroutines, calling scan once
// per name, and returns one listing per name in the order the names were
// given, no matter which worker finished first.
//
// The tracker observes the crawl: the name in flight is published before
// its scan starts and the counter is incremented when it completes.
// Scatter itself cannot fail; scan isolates its own failures by returning
// whatever listing it can (typically none).
func Scatter(ctx context.Context, names []string, workers int, tracker *progress.Tracker, scan func(ctx context.Context, name string) []ListingEntry) [][]ListingEntry {
	if workers <= 0 {
		workers = 1
	}
	if workers > len(names) {
		workers = len(names)
	}

	results := make([][]ListingEntry, len(names))
	jobs := make(chan scanJob)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				tracker.SetMessage(j.name)
				results[j.index] = scan(ctx, j.name)
				tracker.Inc()
			}
		}()
	}

	for i, name := range names {
		jobs <- scanJob{index: i, name: name}
	}
	close(jobs)
	wg.Wait()

	return results
}
