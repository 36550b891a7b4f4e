// Package mirror defines the contract between a mirrorable source and
// the tooling that snapshots it: the snapshot and entry types, the
// Mission collaborators threaded through a run, and the bounded fan-out
// used to crawl many packages at once.
package mirror

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/mirrorlab/mirrorsnap/pkg/fetch"
	"github.com/mirrorlab/mirrorsnap/pkg/progress"
)

// Entry is one snapshot entry: the path of an artifact relative to the
// source's package storage base.
type Entry string

// TransferTarget is the absolute URL an entry can be downloaded from.
type TransferTarget string

// ListingEntry is one artifact reference observed on a package listing:
// the cleaned artifact URL plus the filename the listing displayed.
type ListingEntry struct {
	URL      string
	Filename string
}

// Snapshot is the outcome of one observation run over a source. Entries
// carry the semantics; ID and TakenAt label the run for whoever performs
// the transfers later.
type Snapshot struct {
	ID      string
	Source  string
	TakenAt time.Time
	Entries []Entry
}

// NewSnapshot stamps entries with a fresh run identifier.
func NewSnapshot(source string, entries []Entry) *Snapshot {
	return &Snapshot{
		ID:      uuid.NewString(),
		Source:  source,
		TakenAt: time.Now().UTC(),
		Entries: entries,
	}
}

// SnapshotConfig bounds a snapshot run.
type SnapshotConfig struct {
	// Concurrency is the number of packages crawled in parallel.
	Concurrency int
}

const defaultConcurrency = 16

// WithDefaults returns a copy with unset fields filled in.
func (c SnapshotConfig) WithDefaults() SnapshotConfig {
	if c.Concurrency <= 0 {
		c.Concurrency = defaultConcurrency
	}
	return c
}

// Mission bundles the collaborators a source operation runs with: the
// logger for warnings and milestones, the progress tracker the UI reads,
// and the HTTP client requests go through. Logger and Client are treated
// as read-only during a run; Progress is written concurrently.
type Mission struct {
	Logger   *log.Logger
	Progress *progress.Tracker
	Client   *fetch.Client
}

// NewMission pairs a logger and client with a fresh progress tracker.
func NewMission(logger *log.Logger, client *fetch.Client) Mission {
	return Mission{
		Logger:   logger,
		Progress: progress.NewTracker(),
		Client:   client,
	}
}

// WithDefaults returns a copy with nil collaborators replaced by
// working ones, so sources never have to nil-check.
func (m Mission) WithDefaults() Mission {
	if m.Logger == nil {
		m.Logger = log.Default()
	}
	if m.Progress == nil {
		m.Progress = progress.NewTracker()
	}
	if m.Client == nil {
		m.Client = fetch.NewClient(fetch.Config{})
	}
	return m
}

// Source is a registry that can be mirrored.
type Source interface {
	// Snapshot observes the source and returns the set of entries a
	// mirror must hold to serve it, in a deterministic order.
	Snapshot(ctx context.Context, m Mission, cfg SnapshotConfig) (*Snapshot, error)

	// TransferTarget resolves a snapshot entry to the URL the artifact
	// can be fetched from. Pure: no network, no state.
	TransferTarget(e Entry) TransferTarget

	// Info describes the source configuration for banners and logs.
	Info() string
}
