package mirror

import (
	"testing"
	"time"
)

func TestNewSnapshot(t *testing.T) {
	entries := []Entry{"aa/bb/one.tar.gz", "cc/dd/two.whl"}
	snap := NewSnapshot("pypi", entries)

	if snap.ID == "" {
		t.Error("snapshot should carry a run identifier")
	}
	if snap.Source != "pypi" {
		t.Errorf("source should be %q, got %q", "pypi", snap.Source)
	}
	if time.Since(snap.TakenAt) > time.Minute || snap.TakenAt.IsZero() {
		t.Errorf("TakenAt should be about now, got %v", snap.TakenAt)
	}
	if len(snap.Entries) != 2 || snap.Entries[0] != "aa/bb/one.tar.gz" {
		t.Errorf("entries should be kept as given, got %v", snap.Entries)
	}

	other := NewSnapshot("pypi", nil)
	if other.ID == snap.ID {
		t.Error("each snapshot should get its own identifier")
	}
}

func TestSnapshotConfigWithDefaults(t *testing.T) {
	if c := (SnapshotConfig{}).WithDefaults(); c.Concurrency != defaultConcurrency {
		t.Errorf("zero concurrency should default to %d, got %d", defaultConcurrency, c.Concurrency)
	}
	if c := (SnapshotConfig{Concurrency: -1}).WithDefaults(); c.Concurrency != defaultConcurrency {
		t.Errorf("negative concurrency should default to %d, got %d", defaultConcurrency, c.Concurrency)
	}
	if c := (SnapshotConfig{Concurrency: 4}).WithDefaults(); c.Concurrency != 4 {
		t.Errorf("explicit concurrency should be kept, got %d", c.Concurrency)
	}
}

func TestMissionWithDefaults(t *testing.T) {
	m := Mission{}.WithDefaults()
	if m.Logger == nil || m.Progress == nil || m.Client == nil {
		t.Error("WithDefaults should fill every collaborator")
	}

	full := NewMission(m.Logger, m.Client)
	kept := full.WithDefaults()
	if kept.Logger != full.Logger || kept.Progress != full.Progress || kept.Client != full.Client {
		t.Error("WithDefaults should not replace collaborators that are set")
	}
}
