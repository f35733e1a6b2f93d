// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about project checks, knowledge base collection, refresh
// cycles, cache operations, and API calls.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, not by libraries, so library packages never
// import a metrics backend.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetSchedulerHooks(&mySchedulerHooks{})
//	    observability.SetHTTPHooks(&myHTTPHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Check().OnCheckStart(ctx, path)
//	// ... parse and look up ...
//	observability.Check().OnCheckComplete(ctx, path, deprecated, safe, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Check Hooks
// =============================================================================

// CheckHooks receives events from project checks.
type CheckHooks interface {
	OnCheckStart(ctx context.Context, path string)
	OnCheckComplete(ctx context.Context, path string, deprecated, safe int, duration time.Duration, err error)
}

// =============================================================================
// Collector Hooks
// =============================================================================

// CollectorHooks receives events from knowledge base collection.
type CollectorHooks interface {
	// OnSourceStart records the start of a single data source fetch.
	OnSourceStart(ctx context.Context, source string, candidates int)

	// OnSourceComplete records the outcome of a data source fetch.
	OnSourceComplete(ctx context.Context, source string, records int, duration time.Duration, err error)
}

// =============================================================================
// Scheduler Hooks
// =============================================================================

// SchedulerHooks receives events from the refresh scheduler.
type SchedulerHooks interface {
	// OnAttempt records one collection attempt within a cycle.
	OnAttempt(ctx context.Context, cycleID string, attempt int, err error)

	// OnCycleComplete records the end of a refresh cycle.
	OnCycleComplete(ctx context.Context, cycleID string, attempts int, duration time.Duration, err error)

	// OnSkipped records a refresh that did not run because another cycle
	// was in progress.
	OnSkipped(ctx context.Context, trigger string)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from HTTP client operations.
type HTTPHooks interface {
	// OnRequest records an outgoing HTTP request.
	OnRequest(ctx context.Context, method, host, path string)

	// OnResponse records an HTTP response.
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)

	// OnError records an HTTP error (network failure, timeout).
	OnError(ctx context.Context, method, host, path string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopCheckHooks is a no-op implementation of CheckHooks.
type NoopCheckHooks struct{}

func (NoopCheckHooks) OnCheckStart(context.Context, string)                                   {}
func (NoopCheckHooks) OnCheckComplete(context.Context, string, int, int, time.Duration, error) {}

// NoopCollectorHooks is a no-op implementation of CollectorHooks.
type NoopCollectorHooks struct{}

func (NoopCollectorHooks) OnSourceStart(context.Context, string, int)                             {}
func (NoopCollectorHooks) OnSourceComplete(context.Context, string, int, time.Duration, error) {}

// NoopSchedulerHooks is a no-op implementation of SchedulerHooks.
type NoopSchedulerHooks struct{}

func (NoopSchedulerHooks) OnAttempt(context.Context, string, int, error)                      {}
func (NoopSchedulerHooks) OnCycleComplete(context.Context, string, int, time.Duration, error) {}
func (NoopSchedulerHooks) OnSkipped(context.Context, string)                                  {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	checkHooks     CheckHooks     = NoopCheckHooks{}
	collectorHooks CollectorHooks = NoopCollectorHooks{}
	schedulerHooks SchedulerHooks = NoopSchedulerHooks{}
	cacheHooks     CacheHooks     = NoopCacheHooks{}
	httpHooks      HTTPHooks      = NoopHTTPHooks{}
	hooksMu        sync.RWMutex
)

// SetCheckHooks registers custom check hooks.
func SetCheckHooks(h CheckHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		checkHooks = h
	}
}

// SetCollectorHooks registers custom collector hooks.
func SetCollectorHooks(h CollectorHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		collectorHooks = h
	}
}

// SetSchedulerHooks registers custom scheduler hooks.
// This should be called once at application startup before the scheduler starts.
func SetSchedulerHooks(h SchedulerHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		schedulerHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
// This should be called once at application startup before any HTTP operations.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Check returns the registered check hooks.
func Check() CheckHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return checkHooks
}

// Collector returns the registered collector hooks.
func Collector() CollectorHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return collectorHooks
}

// Scheduler returns the registered scheduler hooks.
func Scheduler() SchedulerHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return schedulerHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	checkHooks = NoopCheckHooks{}
	collectorHooks = NoopCollectorHooks{}
	schedulerHooks = NoopSchedulerHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
