// Package bridge carries window events from the management context into the
// application runtime. Events raised before the runtime attaches are buffered
// in order; after attachment every event is delivered directly.
package bridge

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/1broseidon/winhost/internal/geometry"
	"github.com/1broseidon/winhost/internal/window"
)

// EventKind enumerates the events delivered to the runtime.
type EventKind int

const (
	WindowCreated EventKind = iota
	WindowChanged
	CloseRequested
	WindowDestroyed
)

func (k EventKind) String() string {
	switch k {
	case WindowCreated:
		return "onWindowCreated"
	case WindowChanged:
		return "onWindowChanged"
	case CloseRequested:
		return "onCloseRequested"
	case WindowDestroyed:
		return "onWindowDestroyed"
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// Event is one notification for the runtime.
type Event struct {
	Kind   EventKind
	Handle window.Handle
	// Size is the new logical client size, set for WindowChanged when the
	// size changed.
	Size *geometry.Size
}

// Runtime receives window events. Implementations run in the runtime's own
// execution context; the bridge enters that context around each delivery.
type Runtime interface {
	HandleWindowEvent(Event)
}

// Scope enters the runtime's execution context for the duration of one
// delivery, the way an isolate or interpreter scope would.
type Scope func(deliver func())

// Bridge is the single in-order event queue between the controller and the
// runtime.
type Bridge struct {
	mu        sync.Mutex
	runtime   Runtime
	scope     Scope
	queue     []Event
	maxQueued int
	dropped   int
	log       *slog.Logger
}

// New creates a bridge. maxQueued caps the pre-attachment buffer; zero means
// unbounded. Events beyond the cap are dropped and counted rather than
// growing the queue without limit.
func New(log *slog.Logger, maxQueued int) *Bridge {
	if log == nil {
		log = slog.Default()
	}
	return &Bridge{
		scope:     func(deliver func()) { deliver() },
		maxQueued: maxQueued,
		log:       log,
	}
}

// SetScope installs the context-switch hook invoked around each delivery.
func (b *Bridge) SetScope(scope Scope) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if scope != nil {
		b.scope = scope
	}
}

// Publish delivers ev to the runtime, or buffers it when no runtime is
// attached yet.
func (b *Bridge) Publish(ev Event) {
	b.mu.Lock()
	if b.runtime == nil {
		if b.maxQueued > 0 && len(b.queue) >= b.maxQueued {
			b.dropped++
			b.log.Warn("event queue full, dropping event",
				"kind", ev.Kind.String(), "handle", int64(ev.Handle), "dropped", b.dropped)
			b.mu.Unlock()
			return
		}
		b.queue = append(b.queue, ev)
		b.mu.Unlock()
		return
	}
	runtime, scope := b.runtime, b.scope
	b.mu.Unlock()

	scope(func() { runtime.HandleWindowEvent(ev) })
}

// Attach connects the runtime and replays all buffered events in enqueue
// order before switching to direct delivery. The lock is held across the
// replay: a Publish racing the attachment blocks until every buffered event
// is out, so a late event can never overtake an earlier one.
func (b *Bridge) Attach(rt Runtime) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.runtime = rt
	for _, ev := range b.queue {
		b.scope(func() { rt.HandleWindowEvent(ev) })
	}
	b.queue = nil
}

// Detach stops delivery, e.g. during engine shutdown. Events published after
// detachment are discarded.
func (b *Bridge) Detach() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.runtime = discardRuntime{}
}

// Dropped returns the number of events discarded because the pre-attachment
// buffer was full.
func (b *Bridge) Dropped() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dropped
}

// Discard returns a runtime that drops every event. Attaching it stops the
// pre-attachment buffer from growing when no real runtime will ever connect.
func Discard() Runtime {
	return discardRuntime{}
}

type discardRuntime struct{}

func (discardRuntime) HandleWindowEvent(Event) {}
