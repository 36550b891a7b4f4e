// Package pkg provides the core libraries for mirrorsnap registry snapshots.
//
// # Overview
//
// Mirrorsnap observes a package registry at a point in time and produces
// the list of artifact paths a mirror has to transfer. The pkg directory
// is organized into four main areas:
//
//  1. [pypi] - The registry source (discovery, listing scans, retention, assembly)
//  2. [mirror] - Snapshot types, the Mission capability bundle, the fan-out pool
//  3. [fetch] / [cache] - Outbound HTTP with proxy selection and response caching
//  4. [popularity] / [pyver] / [htmlindex] / [progress] - Supporting domain pieces
//
// # Architecture
//
// The data flow of a snapshot run:
//
//	Registry simple index
//	         ↓
//	    [pypi] discovery (full index scan or popularity ranking)
//	         ↓
//	    [mirror] Scatter (bounded concurrent listing crawl)
//	         ↓
//	    [pypi] scan → clean → retention per package
//	         ↓
//	    [mirror] Snapshot (ordered entry paths, relative to the package base)
//
// # Quick Start
//
// Snapshot the public registry and resolve an entry back to its URL:
//
//	import (
//	    "context"
//	    "os"
//
//	    "github.com/charmbracelet/log"
//
//	    "github.com/mirrorlab/mirrorsnap/pkg/fetch"
//	    "github.com/mirrorlab/mirrorsnap/pkg/mirror"
//	    "github.com/mirrorlab/mirrorsnap/pkg/pypi"
//	)
//
//	// 1. Shared capabilities for every component call
//	client := fetch.NewClient(fetch.Config{UserAgent: "mirrorsnap/dev"})
//	m := mirror.NewMission(log.New(os.Stderr), client)
//
//	// 2. The source, with defaults pointing at pypi.org
//	src := pypi.New(pypi.Config{KeepRecent: 3})
//
//	// 3. Take the snapshot
//	snap, _ := src.Snapshot(context.Background(), m, mirror.SnapshotConfig{Concurrency: 16})
//
//	// 4. Resolve entries for a later transfer stage
//	for _, e := range snap.Entries {
//	    fmt.Println(src.TransferTarget(e))
//	}
//
// # Main Packages
//
// [pypi] - The PyPI source. Discovers the package universe (index scan or
// popularity ranking), crawls listing pages concurrently, cleans artifact
// URLs, applies the version retention filter, and assembles entries
// relative to the package storage base.
//
// [mirror] - Source-independent snapshot machinery: the Entry and
// Snapshot types, the Mission value carrying logger, progress tracker and
// HTTP client into every component, and Scatter, the bounded worker pool
// that preserves submission order.
//
// [fetch] - The shared HTTP capability: one client with a request
// timeout, default headers, environment proxy selection
// (http_proxy/https_proxy/all_proxy) and optional response caching.
//
// [cache] - Response cache backends behind one interface: file (XDG cache
// directory), redis, and null. Caching is opt-in; a snapshot is
// point-in-time by default.
//
// [popularity] - The BigQuery download-ranking executor and the
// credential provider that discriminates service-account files from
// instance metadata.
//
// [pyver] - Python version parsing and ordering for retention decisions:
// release tuples, pre/post/dev segments, stability classification.
//
// [htmlindex] - Anchor extraction from simple-index HTML documents,
// built on x/net/html.
//
// [progress] - Concurrency-safe progress tracking consumed by the CLI's
// periodic reporter and live view.
//
// [observability] - Instrumentation hooks for HTTP traffic and cache
// operations, registered by the application at startup.
//
// [buildinfo] - Version, commit and build date injected via ldflags.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                # All tests
//	go test ./pkg/pypi/...           # Specific package
//	go test -run TestKeepRecent      # Specific behavior
//
// [pypi]: https://pkg.go.dev/github.com/mirrorlab/mirrorsnap/pkg/pypi
// [mirror]: https://pkg.go.dev/github.com/mirrorlab/mirrorsnap/pkg/mirror
// [fetch]: https://pkg.go.dev/github.com/mirrorlab/mirrorsnap/pkg/fetch
// [cache]: https://pkg.go.dev/github.com/mirrorlab/mirrorsnap/pkg/cache
// [popularity]: https://pkg.go.dev/github.com/mirrorlab/mirrorsnap/pkg/popularity
// [pyver]: https://pkg.go.dev/github.com/mirrorlab/mirrorsnap/pkg/pyver
// [htmlindex]: https://pkg.go.dev/github.com/mirrorlab/mirrorsnap/pkg/htmlindex
// [progress]: https://pkg.go.dev/github.com/mirrorlab/mirrorsnap/pkg/progress
// [observability]: https://pkg.go.dev/github.com/mirrorlab/mirrorsnap/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/mirrorlab/mirrorsnap/pkg/buildinfo
package pkg
