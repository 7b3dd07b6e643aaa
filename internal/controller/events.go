package controller

import (
	"context"

	"github.com/1broseidon/winhost/internal/actionlog"
	"github.com/1broseidon/winhost/internal/bridge"
	"github.com/1broseidon/winhost/internal/native"
	"github.com/1broseidon/winhost/internal/window"
)

type eventHandler func(c *Controller, w *window.Window, ev native.Event) *Response

// eventHandlers is the dispatch table over the closed event-kind set.
var eventHandlers = map[native.EventKind]eventHandler{
	native.EventConfigured:     (*Controller).onConfigured,
	native.EventCloseRequested: (*Controller).onCloseRequested,
	native.EventDestroyed:      (*Controller).onNativeDestroyed,
	native.EventScaleChanged:   (*Controller).onScaleChanged,
	native.EventActivation:     (*Controller).onActivation,
	native.EventShowReady:      (*Controller).onShowReady,
}

// HandleEvent dispatches one OS notification to the owning entity. Events
// for unknown native windows are dropped; a window destroyed by command may
// still produce trailing notifications.
func (c *Controller) HandleEvent(ev native.Event) *Response {
	c.mu.Lock()
	defer c.mu.Unlock()

	w, ok := c.byNative[ev.Window]
	if !ok {
		c.log.Debug("event for unknown native window",
			"kind", ev.Kind.String(), "native", uint32(ev.Window))
		return nil
	}

	handler, ok := eventHandlers[ev.Kind]
	if !ok {
		c.log.Warn("unhandled native event kind", "kind", ev.Kind.String())
		return nil
	}

	c.actions.Log(actionlog.ActionEvent, w.Handle(), map[string]interface{}{
		"kind": ev.Kind.String(),
	})
	return handler(c, w, ev)
}

// Run consumes backend events until the context is canceled or the backend
// shuts down. It is the single window-management loop.
func (c *Controller) Run(ctx context.Context) error {
	events := c.backend.Events()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			c.HandleEvent(ev)
		}
	}
}

func (c *Controller) onConfigured(w *window.Window, ev native.Event) *Response {
	before := w.Size()
	w.RecordNativeSize(ev.Size)
	if after := w.Size(); after != before {
		size := after
		c.publish(bridge.Event{Kind: bridge.WindowChanged, Handle: w.Handle(), Size: &size})
	}
	return nil
}

func (c *Controller) onCloseRequested(w *window.Window, ev native.Event) *Response {
	// Destruction stays runtime-driven: forward and wait for a command.
	c.publish(bridge.Event{Kind: bridge.CloseRequested, Handle: w.Handle()})
	return nil
}

// onNativeDestroyed handles destruction initiated by the windowing system
// itself. Owned popups are still alive at this point and are torn down
// before the registry entry is removed.
func (c *Controller) onNativeDestroyed(w *window.Window, ev native.Event) *Response {
	if w.PopupCount() > 0 {
		w.SuppressInactiveRedraw(true)
		for _, popup := range w.OwnedPopups() {
			c.destroyLocked(popup)
		}
		w.SuppressInactiveRedraw(false)
	}

	owner := w.Owner()
	if owner != nil {
		owner.DetachOwned(w)
	}

	w.MarkDestroyed()
	c.removeLocked(w)

	if owner != nil && !owner.Destroyed() && w.Archetype() == window.ArchetypePopup {
		if err := c.backend.Focus(owner.NativeID()); err != nil {
			c.log.Debug("focus return failed", "owner", int64(owner.Handle()), "error", err)
		}
	}
	return nil
}

func (c *Controller) onScaleChanged(w *window.Window, ev native.Event) *Response {
	if err := w.Rescale(ev.Scale); err != nil {
		c.log.Warn("constraint rescale failed", "window", int64(w.Handle()), "error", err)
	}
	return nil
}

func (c *Controller) onActivation(w *window.Window, ev native.Event) *Response {
	if ev.Activated {
		return nil
	}

	// Popups are ephemeral: losing focus dismisses them. The controller
	// only instructs; the runtime issues the destroy command.
	if w.Archetype() == window.ArchetypePopup {
		c.publish(bridge.Event{Kind: bridge.CloseRequested, Handle: w.Handle()})
		return nil
	}

	return &Response{ForceActiveTitleBar: w.ForceActiveTitleBar()}
}

func (c *Controller) onShowReady(w *window.Window, ev native.Event) *Response {
	state, apply := w.MarkShown()
	if apply {
		if err := c.backend.SetState(w.NativeID(), state); err != nil {
			c.log.Warn("initial state apply failed", "window", int64(w.Handle()), "error", err)
		}
	}
	return nil
}
