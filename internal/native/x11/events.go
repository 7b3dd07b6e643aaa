package x11

import (
	"github.com/BurntSushi/xgb/xproto"

	"github.com/1broseidon/winhost/internal/geometry"
	"github.com/1broseidon/winhost/internal/native"
	"github.com/1broseidon/winhost/internal/window"
)

// eventLoop pumps the X event queue and translates notifications for owned
// windows into native events. Runs until the connection closes.
func (b *Backend) eventLoop() {
	defer close(b.events)

	for {
		ev, xerr := b.xu.Conn().WaitForEvent()
		if ev == nil && xerr == nil {
			// Connection closed.
			return
		}
		if xerr != nil {
			b.log.Debug("x11 error event", "error", xerr.Error())
			continue
		}

		switch e := ev.(type) {
		case xproto.ConfigureNotifyEvent:
			if b.tracked(e.Window) == nil {
				continue
			}
			b.emit(native.Event{
				Kind:   native.EventConfigured,
				Window: window.NativeID(e.Window),
				Size:   sizeOf(e.Width, e.Height),
			})

		case xproto.MapNotifyEvent:
			win := b.tracked(e.Window)
			if win == nil {
				continue
			}
			b.mu.Lock()
			first := !win.mapped
			win.mapped = true
			b.mu.Unlock()
			if first {
				b.emit(native.Event{
					Kind:   native.EventShowReady,
					Window: window.NativeID(e.Window),
				})
			}

		case xproto.DestroyNotifyEvent:
			// Command-driven destroys are deregistered before the X
			// request; anything still tracked here died on the server
			// side.
			b.mu.Lock()
			_, tracked := b.owned[e.Window]
			delete(b.owned, e.Window)
			b.mu.Unlock()
			if tracked {
				b.emit(native.Event{
					Kind:   native.EventDestroyed,
					Window: window.NativeID(e.Window),
				})
			}

		case xproto.FocusInEvent:
			if b.tracked(e.Event) == nil || grabTransition(e.Mode) {
				continue
			}
			b.emit(native.Event{
				Kind:      native.EventActivation,
				Window:    window.NativeID(e.Event),
				Activated: true,
			})

		case xproto.FocusOutEvent:
			if b.tracked(e.Event) == nil || grabTransition(e.Mode) {
				continue
			}
			b.emit(native.Event{
				Kind:      native.EventActivation,
				Window:    window.NativeID(e.Event),
				Activated: false,
			})

		case xproto.ClientMessageEvent:
			if b.tracked(e.Window) == nil {
				continue
			}
			if e.Type == b.wmProtocols && e.Format == 32 &&
				xproto.Atom(e.Data.Data32[0]) == b.wmDeleteWindow {
				b.emit(native.Event{
					Kind:   native.EventCloseRequested,
					Window: window.NativeID(e.Window),
				})
			}
		}
	}
}

func (b *Backend) tracked(wid xproto.Window) *xwin {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.owned[wid]
}

// emit delivers an event without blocking the X pump. The channel buffer
// absorbs bursts; overflow is dropped with a warning.
func (b *Backend) emit(ev native.Event) {
	select {
	case <-b.done:
	case b.events <- ev:
	default:
		b.log.Warn("event queue full, dropping",
			"kind", ev.Kind.String(), "native", uint32(ev.Window))
	}
}

// grabTransition reports whether a focus event is a pointer/keyboard grab
// artifact rather than a real activation change.
func grabTransition(mode byte) bool {
	return mode == xproto.NotifyModeGrab || mode == xproto.NotifyModeUngrab
}

func sizeOf(w, h uint16) geometry.Size {
	return geometry.Size{Width: int(w), Height: int(h)}
}
