// Package pypi implements the mirror source for PyPI-compatible package
// registries.
//
// A registry is observed through its simple listing interface: one index
// page naming every package, one listing page per package naming its
// artifacts. A snapshot run discovers the package universe, crawls the
// listings concurrently, optionally reduces each package to its most
// recent versions, and flattens the result into entries relative to the
// registry's artifact storage base.
package pypi

import (
	"context"
	"fmt"
	"strings"

	"github.com/mirrorlab/mirrorsnap/pkg/mirror"
	"github.com/mirrorlab/mirrorsnap/pkg/popularity"
)

const sourceName = "pypi"

const (
	defaultSimpleBase  = "https://pypi.org/simple"
	defaultPackageBase = "https://files.pythonhosted.org/packages"
)

// Config describes a registry to snapshot. The zero value points at the
// canonical public registry with no version filtering.
type Config struct {
	// SimpleBase is the root of the simple listing interface, without a
	// trailing slash requirement either way.
	SimpleBase string

	// PackageBase is the root under which artifacts are stored. Snapshot
	// entries are paths relative to it.
	PackageBase string

	// KeepRecent, when positive, reduces every package to at most that
	// many of its most recent versions.
	KeepRecent int

	// Popularity switches discovery from the full index scan to the
	// download-ranking query when non-nil.
	Popularity popularity.Executor

	// Debug shortens index discovery to a handful of packages.
	Debug bool
}

// Source snapshots a PyPI-compatible registry.
type Source struct {
	simpleBase  string
	packageBase string
	keepRecent  int
	popularity  popularity.Executor
	debug       bool
}

// New builds a Source from cfg. The package base is normalized to end in
// a slash; both assembly and transfer resolution use the normalized
// form, so stripping and re-resolving an entry is lossless.
func New(cfg Config) *Source {
	simple := cfg.SimpleBase
	if simple == "" {
		simple = defaultSimpleBase
	}
	simple = strings.TrimRight(simple, "/")

	base := cfg.PackageBase
	if base == "" {
		base = defaultPackageBase
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}

	return &Source{
		simpleBase:  simple,
		packageBase: base,
		keepRecent:  cfg.KeepRecent,
		popularity:  cfg.Popularity,
		debug:       cfg.Debug,
	}
}

// Snapshot observes the registry: discover the package universe, crawl
// every listing, and assemble the entry list. Discovery failure aborts
// the run; a single package failing only costs that package's entries.
func (s *Source) Snapshot(ctx context.Context, m mirror.Mission, cfg mirror.SnapshotConfig) (*mirror.Snapshot, error) {
	m = m.WithDefaults()
	cfg = cfg.WithDefaults()

	names, err := s.discoverNames(ctx, m)
	if err != nil {
		return nil, err
	}
	m.Logger.Infof("discovered %d packages", len(names))

	m.Progress.SetTotal(len(names))
	listings := mirror.Scatter(ctx, names, cfg.Concurrency, m.Progress, func(ctx context.Context, name string) []mirror.ListingEntry {
		return s.scanPackage(ctx, m, name)
	})
	m.Progress.Finish("done")

	return mirror.NewSnapshot(sourceName, s.assemble(m, listings)), nil
}

// assemble flattens the per-package listings, in crawl submission order,
// into entries relative to the package base. An artifact living outside
// the base cannot be mirrored by path and is dropped with a warning.
// Entries are not deduplicated; the listings are trusted as observed.
func (s *Source) assemble(m mirror.Mission, listings [][]mirror.ListingEntry) []mirror.Entry {
	var entries []mirror.Entry
	for _, listing := range listings {
		for _, le := range listing {
			path, ok := strings.CutPrefix(le.URL, s.packageBase)
			if !ok {
				m.Logger.Warnf("artifact is not stored on the package base: %s", le.URL)
				m.Progress.Warn()
				continue
			}
			entries = append(entries, mirror.Entry(path))
		}
	}
	return entries
}

// TransferTarget resolves entry against the package base. Entries were
// produced by stripping that same normalized base, so resolution returns
// exactly the URL observed on the listing.
func (s *Source) TransferTarget(e mirror.Entry) mirror.TransferTarget {
	return mirror.TransferTarget(s.packageBase + string(e))
}

// Info describes the source for the run banner.
func (s *Source) Info() string {
	mode := "full index scan"
	if s.popularity != nil {
		mode = "popularity ranking"
	}
	return fmt.Sprintf("%s: listings at %s, artifacts at %s, discovery by %s", sourceName, s.simpleBase, s.packageBase, mode)
}

var _ mirror.Source = (*Source)(nil)
