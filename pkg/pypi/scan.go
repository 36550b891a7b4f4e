package pypi

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/mirrorlab/mirrorsnap/pkg/htmlindex"
	"github.com/mirrorlab/mirrorsnap/pkg/mirror"
)

// scanPackage fetches one package's listing page and returns its
// artifact references, cleaned and optionally reduced to recent
// versions. Failures stay inside the package: the problem is logged and
// the package contributes nothing to the snapshot.
func (s *Source) scanPackage(ctx context.Context, m mirror.Mission, name string) []mirror.ListingEntry {
	listingURL := fmt.Sprintf("%s/%s/", s.simpleBase, name)

	body, err := m.Client.GetText(ctx, listingURL)
	if err != nil {
		m.Logger.Warnf("failed to fetch package listing for %s: %v", name, err)
		m.Progress.Warn()
		return nil
	}
	anchors, err := htmlindex.Anchors(listingURL, strings.NewReader(body))
	if err != nil {
		m.Logger.Warnf("failed to parse package listing for %s: %v", name, err)
		m.Progress.Warn()
		return nil
	}

	listing := make([]mirror.ListingEntry, 0, len(anchors))
	for _, a := range anchors {
		listing = append(listing, mirror.ListingEntry{
			URL:      cleanURL(a.URL),
			Filename: a.Text,
		})
	}

	if s.keepRecent > 0 {
		listing = s.keepRecentVersions(m, name, listing)
	}
	return listing
}

// cleanURL drops the query and fragment from an artifact URL, leaving
// scheme, host and path: listings decorate artifact links with checksum
// fragments that have no place in a storage path. Cleaning is idempotent
// and never fails; input that does not parse comes back unchanged.
func cleanURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	u.RawQuery = ""
	u.ForceQuery = false
	u.Fragment = ""
	u.RawFragment = ""
	return u.String()
}
