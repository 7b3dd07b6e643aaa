// Package x11 implements the native backend on top of X11, using EWMH
// client messages where a window manager is expected to cooperate and raw
// xproto requests where it is not.
package x11

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xwindow"

	"github.com/1broseidon/winhost/internal/geometry"
	"github.com/1broseidon/winhost/internal/native"
	"github.com/1broseidon/winhost/internal/window"
)

// Backend is an X11 connection implementing native.Backend. One goroutine
// pumps the X event queue into the Events channel; all other methods issue
// synchronous requests.
type Backend struct {
	xu   *xgbutil.XUtil
	root xproto.Window
	log  *slog.Logger

	events chan native.Event
	done   chan struct{}

	mu    sync.Mutex
	owned map[xproto.Window]*xwin
	scale float64

	hasRandR bool

	wmDeleteWindow xproto.Atom
	wmProtocols    xproto.Atom
}

// xwin is per-window backend bookkeeping.
type xwin struct {
	archetype window.Archetype
	mapped    bool
}

// New connects to the X server named by the DISPLAY environment variable.
func New(log *slog.Logger) (*Backend, error) {
	if log == nil {
		log = slog.Default()
	}

	xu, err := xgbutil.NewConn()
	if err != nil {
		return nil, fmt.Errorf("x11 connection failed: %w", err)
	}

	b := &Backend{
		xu:     xu,
		root:   xu.RootWin(),
		log:    log,
		events: make(chan native.Event, 64),
		done:   make(chan struct{}),
		owned:  map[xproto.Window]*xwin{},
		scale:  detectScale(xu),
	}

	if err := b.internAtoms(); err != nil {
		xu.Conn().Close()
		return nil, err
	}

	// Probed once; without RandR, Outputs degrades to one whole-screen output.
	if err := randr.Init(xu.Conn()); err != nil {
		log.Warn("randr unavailable, using whole-screen output", "error", err)
	} else {
		b.hasRandR = true
	}

	go b.eventLoop()
	return b, nil
}

func (b *Backend) internAtoms() error {
	for _, a := range []struct {
		name string
		dst  *xproto.Atom
	}{
		{"WM_PROTOCOLS", &b.wmProtocols},
		{"WM_DELETE_WINDOW", &b.wmDeleteWindow},
	} {
		reply, err := xproto.InternAtom(b.xu.Conn(), false,
			uint16(len(a.name)), a.name).Reply()
		if err != nil {
			return fmt.Errorf("failed to intern %s: %w", a.name, err)
		}
		*a.dst = reply.Atom
	}
	return nil
}

// detectScale derives the device scale factor from the screen's physical
// size, treating 96 DPI as scale 1. Falls back to 1 when the server reports
// no physical dimensions.
func detectScale(xu *xgbutil.XUtil) float64 {
	screen := xu.Screen()
	if screen.WidthInMillimeters == 0 {
		return 1
	}
	dpi := float64(screen.WidthInPixels) / (float64(screen.WidthInMillimeters) / 25.4)
	if dpi <= 0 {
		return 1
	}
	scale := dpi / 96
	if scale < 0.5 {
		return 1
	}
	return scale
}

// CreateWindow creates and maps an X window. Popups are created
// override-redirect at their computed position; regular windows get normal
// WM decoration and placement.
func (b *Backend) CreateWindow(opts native.CreateOptions) (window.NativeID, error) {
	wid, err := xproto.NewWindowId(b.xu.Conn())
	if err != nil {
		return 0, fmt.Errorf("window id allocation failed: %w", err)
	}

	screen := b.xu.Screen()

	var x, y int16
	if !opts.DefaultPosition {
		x = int16(opts.Frame.X)
		y = int16(opts.Frame.Y)
	}
	width := uint16(opts.Frame.Width)
	height := uint16(opts.Frame.Height)
	if width == 0 {
		width = 1
	}
	if height == 0 {
		height = 1
	}

	mask := uint32(xproto.CwBackPixel | xproto.CwEventMask)
	values := []uint32{
		screen.WhitePixel,
		uint32(xproto.EventMaskStructureNotify | xproto.EventMaskFocusChange),
	}
	if opts.Archetype == window.ArchetypePopup {
		// Override-redirect keeps the WM from repositioning the popup.
		mask |= xproto.CwOverrideRedirect
		values = []uint32{
			screen.WhitePixel,
			1,
			uint32(xproto.EventMaskStructureNotify | xproto.EventMaskFocusChange),
		}
	}

	err = xproto.CreateWindowChecked(b.xu.Conn(),
		xproto.WindowClassCopyFromParent, wid, b.root,
		x, y, width, height, 0,
		xproto.WindowClassInputOutput, screen.RootVisual,
		mask, values).Check()
	if err != nil {
		return 0, fmt.Errorf("window creation failed: %w", err)
	}

	if err := b.configureNewWindow(wid, opts); err != nil {
		xproto.DestroyWindow(b.xu.Conn(), wid)
		return 0, err
	}

	b.mu.Lock()
	b.owned[wid] = &xwin{archetype: opts.Archetype}
	b.mu.Unlock()

	if err := xproto.MapWindowChecked(b.xu.Conn(), wid).Check(); err != nil {
		b.mu.Lock()
		delete(b.owned, wid)
		b.mu.Unlock()
		xproto.DestroyWindow(b.xu.Conn(), wid)
		return 0, fmt.Errorf("window map failed: %w", err)
	}

	return window.NativeID(wid), nil
}

// configureNewWindow sets the ICCCM and EWMH properties a fresh window needs
// before mapping.
func (b *Backend) configureNewWindow(wid xproto.Window, opts native.CreateOptions) error {
	if opts.Title != "" {
		if err := ewmh.WmNameSet(b.xu, wid, opts.Title); err != nil {
			b.log.Debug("title set failed", "window", uint32(wid), "error", err)
		}
	}

	if err := icccm.WmProtocolsSet(b.xu, wid, []string{"WM_DELETE_WINDOW"}); err != nil {
		return fmt.Errorf("failed to set WM_PROTOCOLS: %w", err)
	}

	wmType := "_NET_WM_WINDOW_TYPE_NORMAL"
	if opts.Archetype == window.ArchetypePopup {
		wmType = "_NET_WM_WINDOW_TYPE_POPUP_MENU"
	}
	if err := ewmh.WmWindowTypeSet(b.xu, wid, []string{wmType}); err != nil {
		b.log.Debug("window type set failed", "window", uint32(wid), "error", err)
	}

	if opts.Owner != 0 {
		if err := icccm.WmTransientForSet(b.xu, wid, xproto.Window(opts.Owner)); err != nil {
			b.log.Debug("transient-for set failed", "window", uint32(wid), "error", err)
		}
	}

	hints := normalHints(opts.Constraints)
	if !opts.DefaultPosition {
		hints.Flags |= icccm.SizeHintUSPosition
		hints.X = opts.Frame.X
		hints.Y = opts.Frame.Y
	}
	if hints.Flags != 0 {
		if err := icccm.WmNormalHintsSet(b.xu, wid, hints); err != nil {
			b.log.Debug("size hints set failed", "window", uint32(wid), "error", err)
		}
	}

	return nil
}

func normalHints(c window.Constraints) *icccm.NormalHints {
	hints := &icccm.NormalHints{}
	if c.Min != nil {
		hints.Flags |= icccm.SizeHintPMinSize
		hints.MinWidth = uint(c.Min.Width)
		hints.MinHeight = uint(c.Min.Height)
	}
	if c.Max != nil {
		hints.Flags |= icccm.SizeHintPMaxSize
		hints.MaxWidth = uint(c.Max.Width)
		hints.MaxHeight = uint(c.Max.Height)
	}
	return hints
}

// SetTitle updates _NET_WM_NAME.
func (b *Backend) SetTitle(id window.NativeID, title string) error {
	if err := ewmh.WmNameSet(b.xu, xproto.Window(id), title); err != nil {
		return fmt.Errorf("title update failed: %w", err)
	}
	return nil
}

// SetState drives the maximize and iconify protocol. Restore removes the
// maximized states and remaps the window in case it was iconified.
func (b *Backend) SetState(id window.NativeID, state window.State) error {
	wid := xproto.Window(id)
	switch state {
	case window.StateMaximized:
		if err := ewmh.WmStateReq(b.xu, wid, ewmh.StateAdd, "_NET_WM_STATE_MAXIMIZED_HORZ"); err != nil {
			return fmt.Errorf("maximize request failed: %w", err)
		}
		if err := ewmh.WmStateReq(b.xu, wid, ewmh.StateAdd, "_NET_WM_STATE_MAXIMIZED_VERT"); err != nil {
			return fmt.Errorf("maximize request failed: %w", err)
		}
		return nil
	case window.StateMinimized:
		return b.iconify(wid)
	case window.StateRestored:
		ewmh.WmStateReq(b.xu, wid, ewmh.StateRemove, "_NET_WM_STATE_MAXIMIZED_HORZ")
		ewmh.WmStateReq(b.xu, wid, ewmh.StateRemove, "_NET_WM_STATE_MAXIMIZED_VERT")
		// Deiconify.
		if err := xproto.MapWindowChecked(b.xu.Conn(), wid).Check(); err != nil {
			return fmt.Errorf("restore failed: %w", err)
		}
		return nil
	}
	return fmt.Errorf("unknown state %v", state)
}

// iconify sends the ICCCM WM_CHANGE_STATE client message. Built manually; the
// xgbutil helpers panic on this library version.
func (b *Backend) iconify(wid xproto.Window) error {
	atomReply, err := xproto.InternAtom(b.xu.Conn(), false,
		uint16(len("WM_CHANGE_STATE")), "WM_CHANGE_STATE").Reply()
	if err != nil {
		return fmt.Errorf("failed to intern WM_CHANGE_STATE: %w", err)
	}

	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: wid,
		Type:   atomReply.Atom,
		Data:   xproto.ClientMessageDataUnionData32New([]uint32{icccm.StateIconic, 0, 0, 0, 0}),
	}

	return xproto.SendEventChecked(
		b.xu.Conn(),
		false,
		b.root,
		xproto.EventMaskSubstructureRedirect|xproto.EventMaskSubstructureNotify,
		string(ev.Bytes()),
	).Check()
}

// ResizeClient resizes the window's client area.
func (b *Backend) ResizeClient(id window.NativeID, size geometry.Size) error {
	wid := xproto.Window(id)

	// EWMH moveresize keeps the WM in the loop; fall back to a direct
	// configure when the WM ignores it.
	err := ewmh.ResizeWindow(b.xu, wid, size.Width, size.Height)
	if err != nil {
		xwindow.New(b.xu, wid).Resize(size.Width, size.Height)
	}
	return nil
}

// SetSizeHints replaces the window's WM_NORMAL_HINTS min/max sizes.
func (b *Backend) SetSizeHints(id window.NativeID, c window.Constraints) error {
	hints := normalHints(c)
	if err := icccm.WmNormalHintsSet(b.xu, xproto.Window(id), hints); err != nil {
		return fmt.Errorf("size hints update failed: %w", err)
	}
	return nil
}

// DestroyWindow destroys the X window. The DestroyNotify this produces is
// filtered out of the event stream; command-driven destruction is already
// accounted for.
func (b *Backend) DestroyWindow(id window.NativeID) error {
	wid := xproto.Window(id)

	b.mu.Lock()
	delete(b.owned, wid)
	b.mu.Unlock()

	if err := xproto.DestroyWindowChecked(b.xu.Conn(), wid).Check(); err != nil {
		return fmt.Errorf("window destroy failed: %w", err)
	}
	return nil
}

// Focus activates and raises a window using _NET_ACTIVE_WINDOW. The message
// is built manually; the xgbutil ewmh helper panics on this library version.
func (b *Backend) Focus(id window.NativeID) error {
	wid := xproto.Window(id)

	atomReply, err := xproto.InternAtom(b.xu.Conn(), false,
		uint16(len("_NET_ACTIVE_WINDOW")), "_NET_ACTIVE_WINDOW").Reply()
	if err != nil {
		return fmt.Errorf("failed to intern _NET_ACTIVE_WINDOW: %w", err)
	}

	const sourceIndication = 2 // pager/direct action
	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: wid,
		Type:   atomReply.Atom,
		Data:   xproto.ClientMessageDataUnionData32New([]uint32{sourceIndication, 0, 0, 0, 0}),
	}

	return xproto.SendEventChecked(
		b.xu.Conn(),
		false,
		b.root,
		xproto.EventMaskSubstructureRedirect|xproto.EventMaskSubstructureNotify,
		string(ev.Bytes()),
	).Check()
}

// FrameRect returns the window rectangle including WM decorations, in root
// coordinates.
func (b *Backend) FrameRect(id window.NativeID) (geometry.Rect, error) {
	wid := xproto.Window(id)

	geom, err := xproto.GetGeometry(b.xu.Conn(), xproto.Drawable(wid)).Reply()
	if err != nil {
		return geometry.Rect{}, fmt.Errorf("geometry query failed: %w", err)
	}

	translate, err := xproto.TranslateCoordinates(b.xu.Conn(), wid, b.root, 0, 0).Reply()
	if err != nil {
		return geometry.Rect{}, fmt.Errorf("coordinate translation failed: %w", err)
	}

	rect := geometry.Rect{
		X:      int(translate.DstX),
		Y:      int(translate.DstY),
		Width:  int(geom.Width),
		Height: int(geom.Height),
	}

	// Grow by the decoration extents when the WM reports them.
	if extents, err := ewmh.FrameExtentsGet(b.xu, wid); err == nil {
		rect.X -= int(extents.Left)
		rect.Y -= int(extents.Top)
		rect.Width += int(extents.Left) + int(extents.Right)
		rect.Height += int(extents.Top) + int(extents.Bottom)
	}

	return rect, nil
}

// ScaleFor returns the detected screen scale. X11 reports one scale for the
// whole screen, so the window argument is ignored.
func (b *Backend) ScaleFor(id window.NativeID) float64 {
	return b.scale
}

// Events returns the OS notification channel.
func (b *Backend) Events() <-chan native.Event {
	return b.events
}

// Close stops the event loop and disconnects.
func (b *Backend) Close() error {
	close(b.done)
	b.xu.Conn().Close()
	return nil
}
