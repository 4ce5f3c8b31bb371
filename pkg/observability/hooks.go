// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about solver runs, reflow animations, drag sessions, page
// storage and the diagnostics HTTP API.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the engine free of observability frameworks
//
// The engine hooks (solver, reflow, drag) take no context: they fire from the
// single event loop that drives a drag gesture. Store and HTTP hooks take the
// request context.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetSolverHooks(&mySolverHooks{})
//	    observability.SetReflowHooks(&myReflowHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	start := time.Now()
//	sol, err := s.Solve(target, lastCommitted, lastDragged, dragged)
//	observability.Solver().OnSolve(target.X, target.Y, strategy, len(moves), time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Solver Hooks
// =============================================================================

// SolverHooks receives events from the displacement solver.
type SolverHooks interface {
	// OnSolve records one solve call. strategy is "cascade" or "swap" on
	// success and empty on failure.
	OnSolve(x, y int, strategy string, moves int, duration time.Duration, err error)
}

// =============================================================================
// Reflow Hooks
// =============================================================================

// ReflowHooks receives events from the reflow choreographer.
type ReflowHooks interface {
	// OnStateChange records a change set moving between animation states.
	OnStateChange(set uint64, from, to string)

	// OnCommit records a change set written to the occupancy index.
	OnCommit(set uint64, moves int)

	// OnRevert records a change set discarded without a write.
	OnRevert(set uint64, moves int)
}

// =============================================================================
// Drag Hooks
// =============================================================================

// DragHooks receives events from drag sessions.
type DragHooks interface {
	// OnDragStart records the start of a drag gesture.
	OnDragStart(item string)

	// OnDragEnd records the final state of a drag gesture.
	OnDragEnd(item string, state string, err error)
}

// =============================================================================
// Store Hooks
// =============================================================================

// StoreHooks receives events from page store operations.
type StoreHooks interface {
	// OnStoreHit records a page found in a backend.
	OnStoreHit(ctx context.Context, backend string)

	// OnStoreMiss records a page lookup that found nothing.
	OnStoreMiss(ctx context.Context, backend string)

	// OnStoreSet records a page write.
	OnStoreSet(ctx context.Context, backend string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the diagnostics HTTP server.
type HTTPHooks interface {
	// OnRequest records an incoming request.
	OnRequest(ctx context.Context, method, path string)

	// OnResponse records the response written for a request.
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopSolverHooks is a no-op implementation of SolverHooks.
type NoopSolverHooks struct{}

func (NoopSolverHooks) OnSolve(int, int, string, int, time.Duration, error) {}

// NoopReflowHooks is a no-op implementation of ReflowHooks.
type NoopReflowHooks struct{}

func (NoopReflowHooks) OnStateChange(uint64, string, string) {}
func (NoopReflowHooks) OnCommit(uint64, int)                 {}
func (NoopReflowHooks) OnRevert(uint64, int)                 {}

// NoopDragHooks is a no-op implementation of DragHooks.
type NoopDragHooks struct{}

func (NoopDragHooks) OnDragStart(string)              {}
func (NoopDragHooks) OnDragEnd(string, string, error) {}

// NoopStoreHooks is a no-op implementation of StoreHooks.
type NoopStoreHooks struct{}

func (NoopStoreHooks) OnStoreHit(context.Context, string)      {}
func (NoopStoreHooks) OnStoreMiss(context.Context, string)     {}
func (NoopStoreHooks) OnStoreSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	solverHooks SolverHooks = NoopSolverHooks{}
	reflowHooks ReflowHooks = NoopReflowHooks{}
	dragHooks   DragHooks   = NoopDragHooks{}
	storeHooks  StoreHooks  = NoopStoreHooks{}
	httpHooks   HTTPHooks   = NoopHTTPHooks{}
	hooksMu     sync.RWMutex
)

// SetSolverHooks registers custom solver hooks.
// This should be called once at application startup.
func SetSolverHooks(h SolverHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		solverHooks = h
	}
}

// SetReflowHooks registers custom reflow hooks.
// This should be called once at application startup.
func SetReflowHooks(h ReflowHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		reflowHooks = h
	}
}

// SetDragHooks registers custom drag hooks.
// This should be called once at application startup.
func SetDragHooks(h DragHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		dragHooks = h
	}
}

// SetStoreHooks registers custom store hooks.
// This should be called once at application startup before any store operations.
func SetStoreHooks(h StoreHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		storeHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
// This should be called once at application startup before the server starts.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Solver returns the registered solver hooks.
func Solver() SolverHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return solverHooks
}

// Reflow returns the registered reflow hooks.
func Reflow() ReflowHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return reflowHooks
}

// Drag returns the registered drag hooks.
func Drag() DragHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return dragHooks
}

// Store returns the registered store hooks.
func Store() StoreHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return storeHooks
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
	solverHooks = NoopSolverHooks{}
	reflowHooks = NoopReflowHooks{}
	dragHooks = NoopDragHooks{}
	storeHooks = NoopStoreHooks{}
	httpHooks = NoopHTTPHooks{}
}
