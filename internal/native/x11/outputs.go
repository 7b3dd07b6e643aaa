package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"

	"github.com/1broseidon/winhost/internal/geometry"
	"github.com/1broseidon/winhost/internal/native"
)

// Outputs enumerates active displays via XRandR. Each work area is the CRTC
// rectangle shrunk by any dock struts that overlap it. Without RandR (probed
// once at connect time) the whole screen is reported as a single output.
func (b *Backend) Outputs() ([]native.Output, error) {
	if !b.hasRandR {
		return b.fallbackOutputs()
	}

	resources, err := randr.GetScreenResources(b.xu.Conn(), b.root).Reply()
	if err != nil {
		b.log.Warn("failed to get screen resources, using whole-screen output", "error", err)
		return b.fallbackOutputs()
	}

	var primaryOutput randr.Output
	if reply, err := randr.GetOutputPrimary(b.xu.Conn(), b.root).Reply(); err == nil {
		primaryOutput = reply.Output
	}

	struts := b.collectDockStruts()

	var outputs []native.Output
	for i, crtc := range resources.Crtcs {
		crtcInfo, err := randr.GetCrtcInfo(b.xu.Conn(), crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}
		if crtcInfo.Width == 0 || crtcInfo.Height == 0 || len(crtcInfo.Outputs) == 0 {
			continue
		}

		name := fmt.Sprintf("output%d", i)
		primary := false
		if outputInfo, err := randr.GetOutputInfo(b.xu.Conn(), crtcInfo.Outputs[0], resources.ConfigTimestamp).Reply(); err == nil {
			name = string(outputInfo.Name)
		}
		for _, out := range crtcInfo.Outputs {
			if out == primaryOutput {
				primary = true
			}
		}

		area := geometry.Rect{
			X:      int(crtcInfo.X),
			Y:      int(crtcInfo.Y),
			Width:  int(crtcInfo.Width),
			Height: int(crtcInfo.Height),
		}

		outputs = append(outputs, native.Output{
			ID:       i,
			Name:     name,
			Primary:  primary,
			WorkArea: shrinkByStruts(area, struts),
			Scale:    b.scale,
		})
	}

	if len(outputs) > 0 {
		ensurePrimary(outputs)
	}
	return outputs, nil
}

// fallbackOutputs reports the root window as a single primary output.
func (b *Backend) fallbackOutputs() ([]native.Output, error) {
	geom, err := xproto.GetGeometry(b.xu.Conn(), xproto.Drawable(b.root)).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get root geometry: %w", err)
	}
	area := geometry.Rect{Width: int(geom.Width), Height: int(geom.Height)}
	return []native.Output{wholeScreenOutput(area, b.collectDockStruts(), b.scale)}, nil
}

// wholeScreenOutput builds the single-output view of a screen rectangle.
func wholeScreenOutput(area geometry.Rect, struts []strut, scale float64) native.Output {
	return native.Output{
		ID:       0,
		Name:     "screen",
		Primary:  true,
		WorkArea: shrinkByStruts(area, struts),
		Scale:    scale,
	}
}

// ensurePrimary marks the first output primary when the server reported none.
func ensurePrimary(outputs []native.Output) {
	for _, out := range outputs {
		if out.Primary {
			return
		}
	}
	outputs[0].Primary = true
}

// strut is one dock reservation at a screen edge, limited to a span along
// that edge.
type strut struct {
	edge   geometry.Rect
	amount int
	left   bool
	right  bool
	top    bool
	bottom bool
}

// collectDockStruts reads _NET_WM_STRUT_PARTIAL (falling back to
// _NET_WM_STRUT) from every dock window on the screen.
func (b *Backend) collectDockStruts() []strut {
	rootGeom, err := xproto.GetGeometry(b.xu.Conn(), xproto.Drawable(b.root)).Reply()
	if err != nil {
		return nil
	}
	rootW := int(rootGeom.Width)
	rootH := int(rootGeom.Height)

	clients, err := ewmh.ClientListGet(b.xu)
	if err != nil {
		return nil
	}

	var struts []strut
	for _, windowID := range clients {
		types, err := ewmh.WmWindowTypeGet(b.xu, windowID)
		if err != nil {
			continue
		}
		isDock := false
		for _, t := range types {
			if t == "_NET_WM_WINDOW_TYPE_DOCK" {
				isDock = true
				break
			}
		}
		if !isDock {
			continue
		}

		sp, err := ewmh.WmStrutPartialGet(b.xu, windowID)
		if err != nil {
			// Some docks only set _NET_WM_STRUT (no partial ranges).
			s, err := ewmh.WmStrutGet(b.xu, windowID)
			if err != nil {
				continue
			}
			sp = &ewmh.WmStrutPartial{
				Left:         s.Left,
				Right:        s.Right,
				Top:          s.Top,
				Bottom:       s.Bottom,
				LeftStartY:   0,
				LeftEndY:     uint(rootH - 1),
				RightStartY:  0,
				RightEndY:    uint(rootH - 1),
				TopStartX:    0,
				TopEndX:      uint(rootW - 1),
				BottomStartX: 0,
				BottomEndX:   uint(rootW - 1),
			}
		}
		struts = append(struts, partialStruts(sp, rootW, rootH)...)
	}
	return struts
}

// partialStruts converts one strut-partial property into edge rectangles.
func partialStruts(sp *ewmh.WmStrutPartial, rootW, rootH int) []strut {
	var out []strut
	if sp.Top > 0 {
		out = append(out, strut{
			edge: geometry.Rect{
				X: int(sp.TopStartX), Y: 0,
				Width: int(sp.TopEndX) - int(sp.TopStartX) + 1, Height: int(sp.Top),
			},
			amount: int(sp.Top), top: true,
		})
	}
	if sp.Bottom > 0 {
		out = append(out, strut{
			edge: geometry.Rect{
				X: int(sp.BottomStartX), Y: rootH - int(sp.Bottom),
				Width: int(sp.BottomEndX) - int(sp.BottomStartX) + 1, Height: int(sp.Bottom),
			},
			amount: int(sp.Bottom), bottom: true,
		})
	}
	if sp.Left > 0 {
		out = append(out, strut{
			edge: geometry.Rect{
				X: 0, Y: int(sp.LeftStartY),
				Width: int(sp.Left), Height: int(sp.LeftEndY) - int(sp.LeftStartY) + 1,
			},
			amount: int(sp.Left), left: true,
		})
	}
	if sp.Right > 0 {
		out = append(out, strut{
			edge: geometry.Rect{
				X: rootW - int(sp.Right), Y: int(sp.RightStartY),
				Width: int(sp.Right), Height: int(sp.RightEndY) - int(sp.RightStartY) + 1,
			},
			amount: int(sp.Right), right: true,
		})
	}
	return out
}

// shrinkByStruts trims area by every strut whose edge rectangle overlaps it.
// The result never collapses below one pixel.
func shrinkByStruts(area geometry.Rect, struts []strut) geometry.Rect {
	var trimLeft, trimRight, trimTop, trimBottom int
	for _, s := range struts {
		isect := area.Intersect(s.edge)
		if isect.Area() == 0 {
			continue
		}
		switch {
		case s.top:
			trimTop = max(trimTop, isect.Height)
		case s.bottom:
			trimBottom = max(trimBottom, isect.Height)
		case s.left:
			trimLeft = max(trimLeft, isect.Width)
		case s.right:
			trimRight = max(trimRight, isect.Width)
		}
	}

	area.X += trimLeft
	area.Y += trimTop
	area.Width -= trimLeft + trimRight
	area.Height -= trimTop + trimBottom
	if area.Width < 1 {
		area.Width = 1
	}
	if area.Height < 1 {
		area.Height = 1
	}
	return area
}
