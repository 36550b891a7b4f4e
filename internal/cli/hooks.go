package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mirrorlab/mirrorsnap/pkg/observability"
)

// debugHooks forwards crawl telemetry to the debug log. Only verbose
// runs register it; everyone else keeps the no-op defaults.
type debugHooks struct {
	logger *log.Logger
}

func installDebugHooks(logger *log.Logger) {
	h := debugHooks{logger: logger}
	observability.SetHTTPHooks(h)
	observability.SetCacheHooks(h)
}

func (h debugHooks) OnRequest(_ context.Context, method, host, path string) {
	h.logger.Debugf("%s %s%s", method, host, path)
}

func (h debugHooks) OnResponse(_ context.Context, method, host, path string, status int, elapsed time.Duration) {
	h.logger.Debugf("%s %s%s: %d in %s", method, host, path, status, elapsed.Round(time.Millisecond))
}

func (h debugHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Debugf("%s %s%s failed: %v", method, host, path, err)
}

func (h debugHooks) OnHit(_ context.Context, keyType string) {
	h.logger.Debugf("cache hit (%s)", keyType)
}

func (h debugHooks) OnMiss(_ context.Context, keyType string) {
	h.logger.Debugf("cache miss (%s)", keyType)
}

func (h debugHooks) OnSet(_ context.Context, keyType string, size int) {
	h.logger.Debugf("cached %d bytes (%s)", size, keyType)
}
