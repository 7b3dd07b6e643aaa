package window

import (
	"github.com/1broseidon/winhost/internal/geometry"
)

// Window is the in-memory record of one native window.
type Window struct {
	handle    Handle
	nativeID  NativeID
	archetype Archetype
	native    Native

	title       string
	state       State
	size        geometry.Size // client size, logical coordinates
	constraints Constraints   // logical coordinates
	scale       float64       // device pixels per logical unit

	owner      *Window
	owned      map[*Window]struct{}
	popupCount int

	// pendingShow is true between native creation and the first
	// ready-to-display signal; the initial state is applied then.
	pendingShow bool

	// suppressInactiveRedraw is set while a cascade is destroying this
	// window's popups, so the transient deactivation does not flicker the
	// title bar.
	suppressInactiveRedraw bool

	destroyed bool
}

// Config carries everything needed to construct an entity for an already
// created native window.
type Config struct {
	Handle      Handle
	NativeID    NativeID
	Archetype   Archetype
	Native      Native
	Title       string
	State       State
	Size        geometry.Size
	Constraints Constraints
	Scale       float64
	Owner       *Window
}

// New builds a Window entity and, when an owner is present, inserts it into
// the owner's owned set.
func New(cfg Config) *Window {
	scale := cfg.Scale
	if scale <= 0 {
		scale = 1
	}
	w := &Window{
		handle:      cfg.Handle,
		nativeID:    cfg.NativeID,
		archetype:   cfg.Archetype,
		native:      cfg.Native,
		title:       cfg.Title,
		state:       cfg.State,
		size:        cfg.Size,
		constraints: cfg.Constraints,
		scale:       scale,
		owned:       make(map[*Window]struct{}),
		pendingShow: true,
	}
	if cfg.Owner != nil {
		w.owner = cfg.Owner
		cfg.Owner.attachOwned(w)
	}
	return w
}

func (w *Window) Handle() Handle        { return w.handle }
func (w *Window) NativeID() NativeID    { return w.nativeID }
func (w *Window) Archetype() Archetype  { return w.archetype }
func (w *Window) Title() string         { return w.title }
func (w *Window) State() State          { return w.state }
func (w *Window) Size() geometry.Size   { return w.size }
func (w *Window) Scale() float64        { return w.scale }
func (w *Window) Owner() *Window        { return w.owner }
func (w *Window) PopupCount() int       { return w.popupCount }
func (w *Window) Destroyed() bool       { return w.destroyed }
func (w *Window) PendingShow() bool     { return w.pendingShow }
func (w *Window) Constraints() Constraints { return w.constraints }

// OwnedWindows returns the windows whose owner is this window. The slice is
// a copy; iteration order is unspecified.
func (w *Window) OwnedWindows() []*Window {
	out := make([]*Window, 0, len(w.owned))
	for owned := range w.owned {
		out = append(out, owned)
	}
	return out
}

// OwnedPopups returns the owned windows with the popup archetype.
func (w *Window) OwnedPopups() []*Window {
	out := make([]*Window, 0, w.popupCount)
	for owned := range w.owned {
		if owned.archetype == ArchetypePopup {
			out = append(out, owned)
		}
	}
	return out
}

func (w *Window) attachOwned(child *Window) {
	w.owned[child] = struct{}{}
	if child.archetype == ArchetypePopup {
		w.popupCount++
	}
}

// DetachOwned removes child from the owned set and clears its back-reference.
// Safe to call when child is not owned by w.
func (w *Window) DetachOwned(child *Window) {
	if _, ok := w.owned[child]; !ok {
		return
	}
	delete(w.owned, child)
	if child.archetype == ArchetypePopup {
		w.popupCount--
	}
	child.owner = nil
}

// SetTitle updates the recorded title and asks the native window to match.
func (w *Window) SetTitle(title string) error {
	if w.destroyed {
		return nil
	}
	w.title = title
	return w.native.SetTitle(w.nativeID, title)
}

// SetState moves the window directly to state. There are no forbidden
// transitions. The recorded state keeps the requested value even when the
// native call fails, so re-applying the same state stays idempotent.
func (w *Window) SetState(state State) error {
	if w.destroyed {
		return nil
	}
	w.state = state
	if w.pendingShow {
		// Applied on the show-ready signal instead.
		return nil
	}
	return w.native.SetState(w.nativeID, state)
}

// SetSize resizes the client area to size (logical coordinates), clamped to
// the window's constraints.
func (w *Window) SetSize(size geometry.Size) error {
	if w.destroyed {
		return nil
	}
	size = w.constraints.Clamp(size)
	w.size = size
	device := geometry.Size{
		Width:  int(float64(size.Width) * w.scale),
		Height: int(float64(size.Height) * w.scale),
	}
	return w.native.ResizeClient(w.nativeID, device)
}

// RecordNativeSize stores a size reported by the windowing system, given in
// device pixels.
func (w *Window) RecordNativeSize(device geometry.Size) {
	w.size = geometry.Size{
		Width:  int(float64(device.Width) / w.scale),
		Height: int(float64(device.Height) / w.scale),
	}
}

// Rescale updates the device scale and pushes rescaled size hints to the
// native window. Stored constraints stay in logical units.
func (w *Window) Rescale(factor float64) error {
	if w.destroyed || factor <= 0 {
		return nil
	}
	w.scale = factor
	return w.native.SetSizeHints(w.nativeID, w.constraints.ScaledTo(factor))
}

// MarkShown clears the pending-show flag and returns the state that should
// now be applied natively. The second return is false when the window was
// not waiting to be shown.
func (w *Window) MarkShown() (State, bool) {
	if !w.pendingShow {
		return StateRestored, false
	}
	w.pendingShow = false
	if w.archetype != ArchetypeRegular {
		return StateRestored, false
	}
	return w.state, true
}

// SuppressInactiveRedraw toggles the cascade suppression flag.
func (w *Window) SuppressInactiveRedraw(on bool) {
	w.suppressInactiveRedraw = on
}

// ForceActiveTitleBar reports whether an incoming deactivation should still
// draw the title bar with active styling: a regular window with live popups
// keeps active chrome, unless a cascade is suppressing it.
func (w *Window) ForceActiveTitleBar() bool {
	if w.archetype != ArchetypeRegular {
		return false
	}
	if w.suppressInactiveRedraw {
		return false
	}
	return w.popupCount > 0
}

// Destroy tears down the native window. Idempotent: destroying an already
// destroyed window is a no-op, never an error. Ownership bookkeeping is the
// registry's job; callers cascade popups before destroying their owner.
func (w *Window) Destroy() error {
	if w.destroyed {
		return nil
	}
	w.destroyed = true
	return w.native.DestroyWindow(w.nativeID)
}

// MarkDestroyed records destruction reported by the windowing system without
// issuing another native call.
func (w *Window) MarkDestroyed() {
	w.destroyed = true
}
