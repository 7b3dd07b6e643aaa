// Package native abstracts the OS windowing system the controller drives.
// Backends perform synchronous, one-shot window operations and deliver
// OS-originated events over a channel consumed by a single window-management
// context.
package native

import (
	"github.com/1broseidon/winhost/internal/geometry"
	"github.com/1broseidon/winhost/internal/window"
)

// Output describes one display.
type Output struct {
	ID      int
	Name    string
	Primary bool
	// WorkArea is the usable area of the display in device pixels,
	// excluding panels and docks.
	WorkArea geometry.Rect
	// Scale is the device scale factor of the display.
	Scale float64
}

// CreateOptions carries everything a backend needs to create a native window.
// All coordinates are device pixels.
type CreateOptions struct {
	Archetype window.Archetype
	Title     string

	// Frame is the requested window rectangle. When DefaultPosition is
	// set, only its size is honored and the windowing system chooses the
	// position.
	Frame           geometry.Rect
	DefaultPosition bool

	// Owner is the native owner window; zero for none.
	Owner window.NativeID

	// Constraints are min/max client sizes in device pixels.
	Constraints window.Constraints
}

// EventKind enumerates the OS notifications the controller dispatches on.
// The set is closed; backends must not invent new kinds.
type EventKind int

const (
	// EventConfigured reports a new client size after a user or OS resize.
	EventConfigured EventKind = iota
	// EventCloseRequested reports that the user asked to close the window.
	// The window is not destroyed until the runtime commands it.
	EventCloseRequested
	// EventDestroyed reports that the native window is gone.
	EventDestroyed
	// EventScaleChanged reports a new device scale factor for the window.
	EventScaleChanged
	// EventActivation reports an activation or deactivation.
	EventActivation
	// EventShowReady reports that the window is about to become visible
	// for the first time.
	EventShowReady
)

func (k EventKind) String() string {
	switch k {
	case EventConfigured:
		return "configured"
	case EventCloseRequested:
		return "close-requested"
	case EventDestroyed:
		return "destroyed"
	case EventScaleChanged:
		return "scale-changed"
	case EventActivation:
		return "activation"
	case EventShowReady:
		return "show-ready"
	}
	return "unknown"
}

// Event is one OS notification for a native window.
type Event struct {
	Kind   EventKind
	Window window.NativeID

	// Size is the new client size in device pixels (EventConfigured).
	Size geometry.Size
	// Scale is the new device scale factor (EventScaleChanged).
	Scale float64
	// Activated distinguishes activation from deactivation
	// (EventActivation).
	Activated bool
}

// Backend is a native windowing system. Implementations own any partially
// constructed native resources: a failed CreateWindow must tear them down
// and leave nothing registered.
type Backend interface {
	window.Native

	// CreateWindow creates a native window and returns its identifier.
	CreateWindow(opts CreateOptions) (window.NativeID, error)

	// FrameRect returns the window's frame rectangle in device pixels.
	FrameRect(id window.NativeID) (geometry.Rect, error)

	// Focus gives input focus to the window.
	Focus(id window.NativeID) error

	// Outputs enumerates the displays. An empty slice means the query
	// failed and callers should fall back to a documented default.
	Outputs() ([]Output, error)

	// ScaleFor returns the device scale factor for a window, or for the
	// primary display when id is zero. Implementations degrade to 1 when
	// the query fails.
	ScaleFor(id window.NativeID) float64

	// Events returns the channel OS notifications are delivered on. The
	// channel is closed when the backend shuts down.
	Events() <-chan Event

	// Close disconnects from the windowing system.
	Close() error
}
