// Package observability provides hooks for metrics, tracing, and logging.
//
// The client library emits events through hook interfaces without depending
// on a specific observability backend. Applications register implementations
// at startup; the defaults do nothing.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    m := prommetrics.New(prometheus.DefaultRegisterer)
//	    observability.SetClientHooks(m)
//	    observability.SetHTTPHooks(m)
//	    // ... create clients
//	}
//
// Library code calls the hooks around its operations:
//
//	observability.Client().OnDiscoveryStart(ctx, baseURL)
//	// ... fetch languages, compilers, libraries ...
//	observability.Client().OnDiscoveryComplete(ctx, baseURL, stats, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Client Hooks
// =============================================================================

// DiscoveryStats summarizes a completed discovery run.
type DiscoveryStats struct {
	Languages int
	Compilers int
	Libraries int
}

// ClientHooks receives events from the client facade.
type ClientHooks interface {
	// Discovery events
	OnDiscoveryStart(ctx context.Context, baseURL string)
	OnDiscoveryComplete(ctx context.Context, baseURL string, stats DiscoveryStats, duration time.Duration, err error)

	// Execute events. exitCode is only meaningful when err is nil.
	OnExecuteStart(ctx context.Context, language, compiler string)
	OnExecuteComplete(ctx context.Context, language, compiler string, exitCode int, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from the response cache. namespace names the
// kind of response ("languages", "compilers", "libraries").
type CacheHooks interface {
	OnCacheHit(ctx context.Context, namespace string)
	OnCacheMiss(ctx context.Context, namespace string)
	OnCacheSet(ctx context.Context, namespace string, size int)

	// OnCacheError records a backend failure. Cache failures never fail
	// the request that triggered them.
	OnCacheError(ctx context.Context, namespace string, err error)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the HTTP transport.
type HTTPHooks interface {
	// OnRequest records an outgoing HTTP request.
	OnRequest(ctx context.Context, method, host, path string)

	// OnResponse records an HTTP response of any status.
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)

	// OnError records a request that produced no response (network failure,
	// timeout, cancellation).
	OnError(ctx context.Context, method, host, path string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopClientHooks is a no-op implementation of ClientHooks.
type NoopClientHooks struct{}

func (NoopClientHooks) OnDiscoveryStart(context.Context, string) {}
func (NoopClientHooks) OnDiscoveryComplete(context.Context, string, DiscoveryStats, time.Duration, error) {
}
func (NoopClientHooks) OnExecuteStart(context.Context, string, string) {}
func (NoopClientHooks) OnExecuteComplete(context.Context, string, string, int, time.Duration, error) {
}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)          {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)         {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int)     {}
func (NoopCacheHooks) OnCacheError(context.Context, string, error) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	clientHooks ClientHooks = NoopClientHooks{}
	cacheHooks  CacheHooks  = NoopCacheHooks{}
	httpHooks   HTTPHooks   = NoopHTTPHooks{}
	hooksMu     sync.RWMutex
)

// SetClientHooks registers custom client hooks.
// This should be called once at application startup before any client is used.
func SetClientHooks(h ClientHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		clientHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Client returns the registered client hooks.
func Client() ClientHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return clientHooks
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
	clientHooks = NoopClientHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
