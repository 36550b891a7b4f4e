package pypi

import (
	"sort"

	"github.com/mirrorlab/mirrorsnap/pkg/mirror"
	"github.com/mirrorlab/mirrorsnap/pkg/pyver"
)

// keepRecentVersions reduces a package listing to the artifacts of its
// most recent versions.
//
// The budget counts distinct versions, not files: every artifact of a
// selected version is kept. At most half the budget may go to unstable
// versions (pre- or dev-releases); an unstable version over that cap is
// skipped and the walk continues to older versions.
//
// The policy is all-or-nothing per package: if any filename in the
// listing does not yield a version, filtering is disabled for the whole
// package and the listing is returned unchanged, because a partial
// reading of the listing could drop artifacts that actually belong to a
// recent version.
func (s *Source) keepRecentVersions(m mirror.Mission, name string, listing []mirror.ListingEntry) []mirror.ListingEntry {
	type versioned struct {
		entry   mirror.ListingEntry
		version pyver.Version
	}

	parsed := make([]versioned, 0, len(listing))
	for _, le := range listing {
		v, ok := versionFromFilename(le.Filename)
		if !ok {
			m.Logger.Warnf("failed to parse version from filename: %s", le.Filename)
			m.Logger.Warnf("keeping every version of package: %s", name)
			m.Progress.Warn()
			return listing
		}
		parsed = append(parsed, versioned{entry: le, version: v})
	}

	sort.SliceStable(parsed, func(i, j int) bool {
		return parsed[i].version.Less(parsed[j].version)
	})

	atMostUnstable := s.keepRecent / 2

	var (
		kept             []mirror.ListingEntry
		selected         int
		selectedUnstable int
		prev             *pyver.Version
	)
	// Newest first. An artifact of the version just selected is always
	// kept, even once the budget is spent.
	for i := len(parsed) - 1; i >= 0; i-- {
		cur := parsed[i]

		if prev != nil && prev.Equal(cur.version) {
			kept = append(kept, cur.entry)
			continue
		}
		if selected >= s.keepRecent {
			break
		}
		if !cur.version.Stable() {
			if selectedUnstable >= atMostUnstable {
				continue
			}
			selectedUnstable++
		}

		kept = append(kept, cur.entry)
		v := cur.version
		prev = &v
		selected++
	}
	return kept
}
