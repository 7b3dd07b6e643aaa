// Package controller owns the registry of live windows. It validates and
// executes runtime commands, places popups, cascades destruction through the
// ownership graph, and routes OS events back to the runtime through the
// bridge. All mutations are serialized: a single mutex is held across every
// create/destroy/cascade sequence.
package controller

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/1broseidon/winhost/internal/actionlog"
	"github.com/1broseidon/winhost/internal/bridge"
	"github.com/1broseidon/winhost/internal/geometry"
	"github.com/1broseidon/winhost/internal/native"
	"github.com/1broseidon/winhost/internal/window"
)

// Validation errors. Creation fails on these before any native call.
var (
	ErrUnknownHandle          = errors.New("unknown window handle")
	ErrRegularWithOwner       = errors.New("a regular window cannot have an owner")
	ErrRegularWithPositioner  = errors.New("a regular window cannot have a positioner")
	ErrPopupWithoutOwner      = errors.New("a popup window must have an owner")
	ErrPopupWithoutPositioner = errors.New("a popup window requires a positioner")
)

// CreationRequest describes one window to create. Sizes are in logical
// coordinates.
type CreationRequest struct {
	Archetype   window.Archetype
	Size        geometry.Size
	Constraints window.Constraints
	Title       string

	// Owner is required for popups and forbidden for regular windows.
	Owner window.Handle

	// Positioner is required for popups and forbidden for regular windows.
	Positioner *geometry.Positioner

	// State is the initial state; meaningful only for regular windows.
	State *window.State
}

// Metadata is returned from a successful creation.
type Metadata struct {
	Handle    window.Handle
	Archetype window.Archetype
	Size      geometry.Size
	Owner     window.Handle
	State     *window.State
}

// Response is the optional answer to a native event.
type Response struct {
	// ForceActiveTitleBar asks the backend to keep drawing active
	// title-bar styling despite a deactivation.
	ForceActiveTitleBar bool
}

// Controller mediates between the runtime, the window entities, and the
// native backend.
type Controller struct {
	mu      sync.Mutex
	backend native.Backend
	events  *bridge.Bridge
	log     *slog.Logger
	actions *actionlog.Logger

	nextHandle window.Handle
	byHandle   map[window.Handle]*window.Window
	byNative   map[window.NativeID]*window.Window
	closed     bool
}

// New creates a controller over backend, publishing runtime events to events.
func New(backend native.Backend, events *bridge.Bridge, log *slog.Logger, actions *actionlog.Logger) *Controller {
	if log == nil {
		log = slog.Default()
	}
	return &Controller{
		backend:  backend,
		events:   events,
		log:      log,
		actions:  actions,
		byHandle: make(map[window.Handle]*window.Window),
		byNative: make(map[window.NativeID]*window.Window),
	}
}

// Create validates req, creates the native window, and registers the entity.
// On validation failure no native call is made and no partial state remains.
func (c *Controller) Create(req CreationRequest) (Metadata, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return Metadata{}, errors.New("controller is shut down")
	}

	var owner *window.Window
	switch req.Archetype {
	case window.ArchetypeRegular:
		if req.Owner != 0 {
			return Metadata{}, ErrRegularWithOwner
		}
		if req.Positioner != nil {
			return Metadata{}, ErrRegularWithPositioner
		}
	case window.ArchetypePopup:
		if req.Owner == 0 {
			return Metadata{}, ErrPopupWithoutOwner
		}
		if req.Positioner == nil {
			return Metadata{}, ErrPopupWithoutPositioner
		}
		var ok bool
		owner, ok = c.byHandle[req.Owner]
		if !ok {
			return Metadata{}, fmt.Errorf("owner %d: %w", req.Owner, ErrUnknownHandle)
		}
	default:
		return Metadata{}, fmt.Errorf("unknown archetype %v", req.Archetype)
	}

	if err := req.Constraints.Validate(); err != nil {
		return Metadata{}, err
	}

	var ownerID window.NativeID
	if owner != nil {
		ownerID = owner.NativeID()
	}
	scale := c.backend.ScaleFor(ownerID)
	if scale <= 0 {
		scale = 1
	}

	deviceSize := geometry.Size{
		Width:  int(float64(req.Size.Width) * scale),
		Height: int(float64(req.Size.Height) * scale),
	}

	opts := native.CreateOptions{
		Archetype:       req.Archetype,
		Title:           req.Title,
		Frame:           geometry.Rect{Width: deviceSize.Width, Height: deviceSize.Height},
		DefaultPosition: true,
		Owner:           ownerID,
		Constraints:     req.Constraints.ScaledTo(scale),
	}

	if owner != nil {
		rect, err := c.placePopup(owner, deviceSize, req.Positioner.Scaled(scale))
		if err != nil {
			// Best-effort degradation: fall back to default placement.
			c.log.Warn("popup placement failed, using default position",
				"owner", int64(owner.Handle()), "error", err)
		} else {
			opts.Frame = rect
			opts.DefaultPosition = false
		}
	}

	nativeID, err := c.backend.CreateWindow(opts)
	if err != nil {
		return Metadata{}, fmt.Errorf("native window creation failed: %w", err)
	}

	c.nextHandle++
	handle := c.nextHandle

	state := window.StateRestored
	if req.State != nil {
		state = *req.State
	}

	w := window.New(window.Config{
		Handle:      handle,
		NativeID:    nativeID,
		Archetype:   req.Archetype,
		Native:      c.backend,
		Title:       req.Title,
		State:       state,
		Size:        req.Size,
		Constraints: req.Constraints,
		Scale:       scale,
		Owner:       owner,
	})

	c.byHandle[handle] = w
	c.byNative[nativeID] = w

	c.actions.Log(actionlog.ActionCreate, handle, map[string]interface{}{
		"archetype": req.Archetype.String(),
		"width":     req.Size.Width,
		"height":    req.Size.Height,
		"owner":     int64(req.Owner),
	})
	c.publish(bridge.Event{Kind: bridge.WindowCreated, Handle: handle})

	meta := Metadata{
		Handle:    handle,
		Archetype: req.Archetype,
		Size:      w.Size(),
		Owner:     req.Owner,
	}
	if req.Archetype == window.ArchetypeRegular {
		s := w.State()
		meta.State = &s
	}
	return meta, nil
}

// placePopup computes the screen rectangle for a popup anchored to owner.
// The positioner must already be scaled to device pixels.
func (c *Controller) placePopup(owner *window.Window, deviceSize geometry.Size, pos geometry.Positioner) (geometry.Rect, error) {
	ownerRect, err := c.backend.FrameRect(owner.NativeID())
	if err != nil {
		return geometry.Rect{}, fmt.Errorf("owner frame query failed: %w", err)
	}

	anchorRect := geometry.ResolveAnchorRect(pos, ownerRect)
	outputRect := c.outputRectFor(anchorRect, ownerRect)

	return geometry.Place(deviceSize, pos, ownerRect, outputRect), nil
}

// outputRectFor returns the work area of the display with the largest
// intersection with anchorRect. Falls back to the primary display, then to
// the owner's frame when the monitor query fails entirely.
func (c *Controller) outputRectFor(anchorRect, ownerRect geometry.Rect) geometry.Rect {
	outputs, err := c.backend.Outputs()
	if err != nil || len(outputs) == 0 {
		c.log.Debug("monitor query failed, using owner frame as output", "error", err)
		return ownerRect
	}

	best := -1
	bestArea := 0
	primary := 0
	for i, out := range outputs {
		if out.Primary {
			primary = i
		}
		if area := out.WorkArea.Intersect(anchorRect).Area(); area > bestArea {
			best, bestArea = i, area
		}
	}
	if best < 0 {
		best = primary
	}
	return outputs[best].WorkArea
}

// Destroy tears down the window and, first, every popup it transitively
// owns. Destroying an unknown or already destroyed handle is a no-op.
func (c *Controller) Destroy(handle window.Handle) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	w, ok := c.byHandle[handle]
	if !ok {
		return nil
	}
	c.destroyLocked(w)
	return nil
}

func (c *Controller) destroyLocked(w *window.Window) {
	if w.Destroyed() {
		return
	}

	// Cascade: close all owned popups before the owner itself. While the
	// cascade runs, inactive title-bar redraw for this owner is suppressed
	// so its chrome does not flicker.
	if w.PopupCount() > 0 {
		w.SuppressInactiveRedraw(true)
		for _, popup := range w.OwnedPopups() {
			c.destroyLocked(popup)
		}
		w.SuppressInactiveRedraw(false)
		c.actions.Log(actionlog.ActionCascade, w.Handle(), nil)
	}

	owner := w.Owner()
	if owner != nil {
		owner.DetachOwned(w)
	}

	if err := w.Destroy(); err != nil {
		c.log.Warn("native destroy failed", "window", int64(w.Handle()), "error", err)
	}

	c.removeLocked(w)

	// Focus returns to the owner once a popup is gone.
	if owner != nil && !owner.Destroyed() && w.Archetype() == window.ArchetypePopup {
		if err := c.backend.Focus(owner.NativeID()); err != nil {
			c.log.Debug("focus return failed", "owner", int64(owner.Handle()), "error", err)
		}
	}
}

func (c *Controller) removeLocked(w *window.Window) {
	delete(c.byHandle, w.Handle())
	delete(c.byNative, w.NativeID())
	c.actions.Log(actionlog.ActionDestroy, w.Handle(), map[string]interface{}{
		"archetype": w.Archetype().String(),
	})
	c.publish(bridge.Event{Kind: bridge.WindowDestroyed, Handle: w.Handle()})
}

// SetSize resizes a window's client area, clamped to its constraints.
func (c *Controller) SetSize(handle window.Handle, size geometry.Size) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	w, ok := c.byHandle[handle]
	if !ok {
		return fmt.Errorf("window %d: %w", handle, ErrUnknownHandle)
	}
	if err := w.SetSize(size); err != nil {
		return err
	}
	c.actions.Log(actionlog.ActionResize, handle, map[string]interface{}{
		"width": size.Width, "height": size.Height,
	})
	return nil
}

// SetTitle changes a window's title.
func (c *Controller) SetTitle(handle window.Handle, title string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	w, ok := c.byHandle[handle]
	if !ok {
		return fmt.Errorf("window %d: %w", handle, ErrUnknownHandle)
	}
	if err := w.SetTitle(title); err != nil {
		return err
	}
	c.actions.Log(actionlog.ActionRetitle, handle, map[string]interface{}{"title": title})
	return nil
}

// SetState moves a regular window to the given state.
func (c *Controller) SetState(handle window.Handle, state window.State) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	w, ok := c.byHandle[handle]
	if !ok {
		return fmt.Errorf("window %d: %w", handle, ErrUnknownHandle)
	}
	if w.Archetype() != window.ArchetypeRegular {
		return fmt.Errorf("window %d: state is only meaningful for regular windows", handle)
	}
	if err := w.SetState(state); err != nil {
		return err
	}
	c.actions.Log(actionlog.ActionRestate, handle, map[string]interface{}{"state": state.String()})
	return nil
}

// GetSize returns a window's logical client size.
func (c *Controller) GetSize(handle window.Handle) (geometry.Size, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	w, ok := c.byHandle[handle]
	if !ok {
		return geometry.Size{}, fmt.Errorf("window %d: %w", handle, ErrUnknownHandle)
	}
	return w.Size(), nil
}

// GetState returns a regular window's recorded state.
func (c *Controller) GetState(handle window.Handle) (window.State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	w, ok := c.byHandle[handle]
	if !ok {
		return window.StateRestored, fmt.Errorf("window %d: %w", handle, ErrUnknownHandle)
	}
	if w.Archetype() != window.ArchetypeRegular {
		return window.StateRestored, fmt.Errorf("window %d: state is only meaningful for regular windows", handle)
	}
	return w.State(), nil
}

// Close destroys every remaining window and stops event delivery. Used on
// engine shutdown.
func (c *Controller) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.events.Detach()

	remaining := make([]*window.Window, 0, len(c.byHandle))
	for _, w := range c.byHandle {
		remaining = append(remaining, w)
	}
	for _, w := range remaining {
		if !w.Destroyed() {
			c.destroyLocked(w)
		}
	}
	c.mu.Unlock()

	return c.backend.Close()
}

func (c *Controller) publish(ev bridge.Event) {
	if c.events != nil {
		c.events.Publish(ev)
	}
}

// Info is a point-in-time view of one window for inspection surfaces.
type Info struct {
	Handle      window.Handle
	Archetype   window.Archetype
	Title       string
	State       window.State
	Size        geometry.Size
	Owner       window.Handle
	PopupCount  int
	PendingShow bool
}

// Snapshot returns all live windows ordered by handle.
func (c *Controller) Snapshot() []Info {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Info, 0, len(c.byHandle))
	for _, w := range c.byHandle {
		info := Info{
			Handle:      w.Handle(),
			Archetype:   w.Archetype(),
			Title:       w.Title(),
			State:       w.State(),
			Size:        w.Size(),
			PopupCount:  w.PopupCount(),
			PendingShow: w.PendingShow(),
		}
		if owner := w.Owner(); owner != nil {
			info.Owner = owner.Handle()
		}
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Handle < out[j].Handle })
	return out
}
