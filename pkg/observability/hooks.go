// Package observability provides hooks for metrics, tracing, and logging.
//
// Libraries emit events through a small set of hook interfaces. Backends
// (a debug logger, Prometheus, OpenTelemetry) are registered by main, so the
// core packages never import them.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetPipelineHooks(&myPipelineHooks{})
//	    observability.SetScanHooks(&myScanHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Pipeline().OnParseStart(ctx, "Gemfile.lock", path)
//	// ... do parsing ...
//	observability.Pipeline().OnParseComplete(ctx, "Gemfile.lock", path, specCount, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from a single-project run.
type PipelineHooks interface {
	// Parse events. kind is the manifest type ("Gemfile", "Gemfile.lock"),
	// count the number of declarations or specs read.
	OnParseStart(ctx context.Context, kind, path string)
	OnParseComplete(ctx context.Context, kind, path string, count int, duration time.Duration, err error)

	// Resolve events cover extraction and the closure walk.
	OnResolveStart(ctx context.Context, seeds int)
	OnResolveComplete(ctx context.Context, seeds, emitted int, duration time.Duration)

	// Render events
	OnRenderStart(ctx context.Context, format string)
	OnRenderComplete(ctx context.Context, format string, duration time.Duration, err error)
}

// =============================================================================
// Scan Hooks
// =============================================================================

// ScanHooks receives events from multi-project directory scans.
type ScanHooks interface {
	// OnProjectFound records a project directory discovered by the walk.
	OnProjectFound(ctx context.Context, dir string)

	// OnProjectComplete records a finished project.
	OnProjectComplete(ctx context.Context, dir string, entries int, duration time.Duration, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnParseStart(context.Context, string, string) {}
func (NoopPipelineHooks) OnParseComplete(context.Context, string, string, int, time.Duration, error) {
}
func (NoopPipelineHooks) OnResolveStart(context.Context, int)                            {}
func (NoopPipelineHooks) OnResolveComplete(context.Context, int, int, time.Duration)     {}
func (NoopPipelineHooks) OnRenderStart(context.Context, string)                          {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, string, time.Duration, error) {}

// NoopScanHooks is a no-op implementation of ScanHooks.
type NoopScanHooks struct{}

func (NoopScanHooks) OnProjectFound(context.Context, string)                               {}
func (NoopScanHooks) OnProjectComplete(context.Context, string, int, time.Duration, error) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	scanHooks     ScanHooks     = NoopScanHooks{}
	hooksMu       sync.RWMutex
)

// SetPipelineHooks registers custom pipeline hooks.
// This should be called once at application startup before any pipeline operations.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetScanHooks registers custom scan hooks.
func SetScanHooks(h ScanHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		scanHooks = h
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Scan returns the registered scan hooks.
func Scan() ScanHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return scanHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
	scanHooks = NoopScanHooks{}
}
