package pypi

import (
	"context"
	"fmt"
	"strings"

	"github.com/mirrorlab/mirrorsnap/pkg/htmlindex"
	"github.com/mirrorlab/mirrorsnap/pkg/mirror"
)

// debugIndexBytes bounds how much of the raw index document is parsed in
// debug mode. Cutting before parsing keeps debug runs to the handful of
// packages whose anchors fit in the prefix.
const debugIndexBytes = 1000

// discoverNames produces the ordered package-name universe for this run.
// Failures here are fatal: without a universe there is no snapshot.
func (s *Source) discoverNames(ctx context.Context, m mirror.Mission) ([]string, error) {
	if s.popularity != nil {
		if s.debug {
			m.Logger.Warn("debug mode is ignored when discovery uses the popularity ranking")
		}
		names, err := s.popularity.TopPackages(ctx)
		if err != nil {
			return nil, fmt.Errorf("rank packages by popularity: %w", err)
		}
		return names, nil
	}
	return s.scanIndex(ctx, m)
}

// scanIndex fetches the full registry index and returns the anchor texts
// as package names, in document order.
func (s *Source) scanIndex(ctx context.Context, m mirror.Mission) ([]string, error) {
	indexURL := s.simpleBase + "/"

	body, err := m.Client.GetText(ctx, indexURL)
	if err != nil {
		return nil, fmt.Errorf("fetch package index: %w", err)
	}
	if s.debug && len(body) > debugIndexBytes {
		body = body[:debugIndexBytes]
	}

	anchors, err := htmlindex.Anchors(indexURL, strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse package index: %w", err)
	}

	names := make([]string, 0, len(anchors))
	for _, a := range anchors {
		names = append(names, a.Text)
	}
	return names, nil
}
