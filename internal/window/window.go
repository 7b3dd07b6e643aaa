// Package window models one native top-level or popup window: its handle,
// archetype, state, size constraints, and ownership relationships. Entities
// are owned exclusively by the controller's registry; owner/owned references
// between entities are non-owning back-references.
package window

import (
	"fmt"

	"github.com/1broseidon/winhost/internal/geometry"
)

// Handle identifies a window towards the application runtime. It is valid
// only while the corresponding entity is alive.
type Handle int64

// NativeID identifies the underlying native window in the windowing system.
type NativeID uint32

// Archetype is the category of a window.
type Archetype int

const (
	// ArchetypeRegular is an independent top-level window.
	ArchetypeRegular Archetype = iota
	// ArchetypePopup is a transient window owned by and positioned
	// relative to another window.
	ArchetypePopup
)

func (a Archetype) String() string {
	switch a {
	case ArchetypeRegular:
		return "regular"
	case ArchetypePopup:
		return "popup"
	}
	return fmt.Sprintf("Archetype(%d)", int(a))
}

// State is the visual state of a regular window.
type State int

const (
	StateRestored State = iota
	StateMaximized
	StateMinimized
)

func (s State) String() string {
	switch s {
	case StateRestored:
		return "restored"
	case StateMaximized:
		return "maximized"
	case StateMinimized:
		return "minimized"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// ParseState converts the wire representation of a state back to a State.
func ParseState(s string) (State, error) {
	switch s {
	case "restored":
		return StateRestored, nil
	case "maximized":
		return StateMaximized, nil
	case "minimized":
		return StateMinimized, nil
	}
	return StateRestored, fmt.Errorf("unknown window state %q", s)
}

// Constraints are optional min/max client sizes in logical coordinates.
type Constraints struct {
	Min *geometry.Size
	Max *geometry.Size
}

// Validate rejects constraints where the minimum exceeds the maximum on
// either axis.
func (c Constraints) Validate() error {
	if c.Min != nil && c.Max != nil {
		if c.Min.Width > c.Max.Width || c.Min.Height > c.Max.Height {
			return fmt.Errorf("invalid size constraints: min %dx%d exceeds max %dx%d",
				c.Min.Width, c.Min.Height, c.Max.Width, c.Max.Height)
		}
	}
	return nil
}

// ScaledTo returns the constraints converted to device pixels at factor.
func (c Constraints) ScaledTo(factor float64) Constraints {
	scale := func(s *geometry.Size) *geometry.Size {
		if s == nil {
			return nil
		}
		return &geometry.Size{
			Width:  int(float64(s.Width) * factor),
			Height: int(float64(s.Height) * factor),
		}
	}
	return Constraints{Min: scale(c.Min), Max: scale(c.Max)}
}

// Clamp restricts size to the constraint range.
func (c Constraints) Clamp(size geometry.Size) geometry.Size {
	if c.Min != nil {
		size.Width = max(size.Width, c.Min.Width)
		size.Height = max(size.Height, c.Min.Height)
	}
	if c.Max != nil {
		size.Width = min(size.Width, c.Max.Width)
		size.Height = min(size.Height, c.Max.Height)
	}
	return size
}

// Native is the narrow view of the native backend a window entity needs for
// its own operations. All calls are synchronous and one-shot; no retries.
type Native interface {
	SetTitle(id NativeID, title string) error
	SetState(id NativeID, state State) error
	ResizeClient(id NativeID, size geometry.Size) error
	SetSizeHints(id NativeID, c Constraints) error
	DestroyWindow(id NativeID) error
}
