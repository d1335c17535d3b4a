// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about board toggles, control channel connections and
// state persistence.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetBoardHooks(&myBoardHooks{})
//	    observability.SetListenerHooks(&myListenerHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Listener().OnConnect(ctx, connID)
//	// ... read one line ...
//	observability.Listener().OnDisconnect(ctx, connID, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Board Hooks
// =============================================================================

// BoardHooks receives events from the board controller.
// Hooks are called outside the board lock.
type BoardHooks interface {
	// OnToggle records a successful flip of one cell.
	// Source names the input path, e.g. "pointer", "address", "index".
	OnToggle(index int, marked bool, source string)

	// OnRebuild records the board being cleared and repopulated.
	OnRebuild(cells int)
}

// =============================================================================
// Listener Hooks
// =============================================================================

// ListenerHooks receives events from the control channel listener.
type ListenerHooks interface {
	// OnConnect records an accepted client connection.
	OnConnect(ctx context.Context, connID string)

	// OnMessage records the line read from a connection and whether it was
	// forwarded as a toggle request.
	OnMessage(ctx context.Context, connID, line string, forwarded bool)

	// OnDisconnect records the end of a connection. err is the read error, if any.
	OnDisconnect(ctx context.Context, connID string, duration time.Duration, err error)
}

// =============================================================================
// Store Hooks
// =============================================================================

// StoreHooks receives events from board state persistence.
type StoreHooks interface {
	// OnLoad records a state load attempt.
	OnLoad(ctx context.Context, backend, key string, found bool, duration time.Duration, err error)

	// OnSave records a state write.
	OnSave(ctx context.Context, backend, key string, duration time.Duration, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopBoardHooks is a no-op implementation of BoardHooks.
type NoopBoardHooks struct{}

func (NoopBoardHooks) OnToggle(int, bool, string) {}
func (NoopBoardHooks) OnRebuild(int)              {}

// NoopListenerHooks is a no-op implementation of ListenerHooks.
type NoopListenerHooks struct{}

func (NoopListenerHooks) OnConnect(context.Context, string)                          {}
func (NoopListenerHooks) OnMessage(context.Context, string, string, bool)            {}
func (NoopListenerHooks) OnDisconnect(context.Context, string, time.Duration, error) {}

// NoopStoreHooks is a no-op implementation of StoreHooks.
type NoopStoreHooks struct{}

func (NoopStoreHooks) OnLoad(context.Context, string, string, bool, time.Duration, error) {}
func (NoopStoreHooks) OnSave(context.Context, string, string, time.Duration, error)       {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	boardHooks    BoardHooks    = NoopBoardHooks{}
	listenerHooks ListenerHooks = NoopListenerHooks{}
	storeHooks    StoreHooks    = NoopStoreHooks{}
	hooksMu       sync.RWMutex
)

// SetBoardHooks registers custom board hooks.
// This should be called once at application startup before any board operations.
func SetBoardHooks(h BoardHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		boardHooks = h
	}
}

// SetListenerHooks registers custom listener hooks.
// This should be called once at application startup before the listener runs.
func SetListenerHooks(h ListenerHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		listenerHooks = h
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

// Board returns the registered board hooks.
func Board() BoardHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return boardHooks
}

// Listener returns the registered listener hooks.
func Listener() ListenerHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return listenerHooks
}

// Store returns the registered store hooks.
func Store() StoreHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return storeHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	boardHooks = NoopBoardHooks{}
	listenerHooks = NoopListenerHooks{}
	storeHooks = NoopStoreHooks{}
}
