// Package observability provides instrumentation hooks for crawl
// traffic and the response cache.
//
// The crawl libraries stay free of logging and metrics dependencies:
// they emit events through the hooks registered here, and the
// application decides at startup what to do with them. Defaults are
// no-ops, so unregistered hooks cost a map-free interface call.
//
// Register hooks once, before the first request:
//
//	observability.SetHTTPHooks(&myHTTPHooks{})
//	observability.SetCacheHooks(&myCacheHooks{})
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events for every listing and index request.
type HTTPHooks interface {
	// OnRequest records an outgoing request.
	OnRequest(ctx context.Context, method, host, path string)

	// OnResponse records a completed request, whatever the status.
	OnResponse(ctx context.Context, method, host, path string, statusCode int, elapsed time.Duration)

	// OnError records a request that never produced a response.
	OnError(ctx context.Context, method, host, path string, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from response cache lookups and writes.
type CacheHooks interface {
	// OnHit records a lookup served from the cache.
	OnHit(ctx context.Context, keyType string)

	// OnMiss records a lookup that fell through to the network.
	OnMiss(ctx context.Context, keyType string)

	// OnSet records a response stored into the cache.
	OnSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnHit(context.Context, string)      {}
func (NoopCacheHooks) OnMiss(context.Context, string)     {}
func (NoopCacheHooks) OnSet(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	httpHooks  HTTPHooks  = NoopHTTPHooks{}
	cacheHooks CacheHooks = NoopCacheHooks{}
	hooksMu    sync.RWMutex
)

// SetHTTPHooks registers custom HTTP hooks. Call once at startup,
// before the first request.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// SetCacheHooks registers custom cache hooks. Call once at startup,
// before the first request.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults. Primarily useful
// for tests.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	httpHooks = NoopHTTPHooks{}
	cacheHooks = NoopCacheHooks{}
}
