package geometry

import "fmt"

// Anchor selects one of the nine compass positions on a rectangle: the four
// corners, the four edge midpoints, and the center.
type Anchor int

const (
	AnchorCenter Anchor = iota
	AnchorTop
	AnchorBottom
	AnchorLeft
	AnchorRight
	AnchorTopLeft
	AnchorTopRight
	AnchorBottomLeft
	AnchorBottomRight
)

var anchorNames = map[Anchor]string{
	AnchorCenter:      "center",
	AnchorTop:         "top",
	AnchorBottom:      "bottom",
	AnchorLeft:        "left",
	AnchorRight:       "right",
	AnchorTopLeft:     "topLeft",
	AnchorTopRight:    "topRight",
	AnchorBottomLeft:  "bottomLeft",
	AnchorBottomRight: "bottomRight",
}

func (a Anchor) String() string {
	if name, ok := anchorNames[a]; ok {
		return name
	}
	return fmt.Sprintf("Anchor(%d)", int(a))
}

// ParseAnchor converts an anchor name as used in the wire protocol back to an
// Anchor. Returns an error for unknown names.
func ParseAnchor(s string) (Anchor, error) {
	for a, name := range anchorNames {
		if name == s {
			return a, nil
		}
	}
	return AnchorCenter, fmt.Errorf("unknown anchor %q", s)
}

// PointOn returns the screen point the anchor selects on r. Corners are
// corners, edges are edge midpoints, center is the midpoint.
func (a Anchor) PointOn(r Rect) Point {
	var p Point

	switch a {
	case AnchorLeft, AnchorTopLeft, AnchorBottomLeft:
		p.X = r.X
	case AnchorRight, AnchorTopRight, AnchorBottomRight:
		p.X = r.Right()
	default:
		p.X = r.X + r.Width/2
	}

	switch a {
	case AnchorTop, AnchorTopLeft, AnchorTopRight:
		p.Y = r.Y
	case AnchorBottom, AnchorBottomLeft, AnchorBottomRight:
		p.Y = r.Bottom()
	default:
		p.Y = r.Y + r.Height/2
	}

	return p
}

// FlipX mirrors the anchor horizontally, e.g. topLeft becomes topRight.
func (a Anchor) FlipX() Anchor {
	switch a {
	case AnchorLeft:
		return AnchorRight
	case AnchorRight:
		return AnchorLeft
	case AnchorTopLeft:
		return AnchorTopRight
	case AnchorTopRight:
		return AnchorTopLeft
	case AnchorBottomLeft:
		return AnchorBottomRight
	case AnchorBottomRight:
		return AnchorBottomLeft
	}
	return a
}

// FlipY mirrors the anchor vertically, e.g. topLeft becomes bottomLeft.
func (a Anchor) FlipY() Anchor {
	switch a {
	case AnchorTop:
		return AnchorBottom
	case AnchorBottom:
		return AnchorTop
	case AnchorTopLeft:
		return AnchorBottomLeft
	case AnchorBottomLeft:
		return AnchorTopLeft
	case AnchorTopRight:
		return AnchorBottomRight
	case AnchorBottomRight:
		return AnchorTopRight
	}
	return a
}

// ConstraintAdjustment is a set of policies applied when naive placement
// would overflow the output rectangle.
type ConstraintAdjustment uint8

const (
	AdjustSlideX ConstraintAdjustment = 1 << iota
	AdjustSlideY
	AdjustFlipX
	AdjustFlipY
	AdjustResizeX
	AdjustResizeY

	// AdjustNone leaves any overflow uncorrected.
	AdjustNone ConstraintAdjustment = 0
)

// Has reports whether all flags in mask are set.
func (c ConstraintAdjustment) Has(mask ConstraintAdjustment) bool {
	return c&mask == mask
}

var adjustmentNames = map[string]ConstraintAdjustment{
	"slideX":  AdjustSlideX,
	"slideY":  AdjustSlideY,
	"flipX":   AdjustFlipX,
	"flipY":   AdjustFlipY,
	"resizeX": AdjustResizeX,
	"resizeY": AdjustResizeY,
}

// ParseConstraintAdjustment combines a list of adjustment names into a flag
// set. Returns an error for unknown names.
func ParseConstraintAdjustment(names []string) (ConstraintAdjustment, error) {
	var c ConstraintAdjustment
	for _, name := range names {
		flag, ok := adjustmentNames[name]
		if !ok {
			return 0, fmt.Errorf("unknown constraint adjustment %q", name)
		}
		c |= flag
	}
	return c, nil
}

// Positioner describes where a popup window should appear relative to the
// rectangle it is anchored to. The anchor rectangle, when present, is in
// owner-relative coordinates; callers that work in scaled device units must
// scale it before placement.
type Positioner struct {
	// AnchorRect is the owner-relative rectangle the popup anchors to.
	// When nil the owner's full frame is used.
	AnchorRect *Rect

	// ParentAnchor selects the point on the anchor rectangle.
	ParentAnchor Anchor

	// ChildAnchor selects the point on the popup that is aligned with the
	// parent anchor point.
	ChildAnchor Anchor

	// Offset is added to the anchor point before the child anchor is applied.
	Offset Point

	// Adjustment is applied per axis when the placement overflows the output.
	Adjustment ConstraintAdjustment
}

// Scaled returns a copy of the positioner with the anchor rectangle and
// offset multiplied by factor, for converting logical coordinates into
// device pixels.
func (p Positioner) Scaled(factor float64) Positioner {
	out := p
	out.Offset = Point{
		X: int(float64(p.Offset.X) * factor),
		Y: int(float64(p.Offset.Y) * factor),
	}
	if p.AnchorRect != nil {
		scaled := Rect{
			X:      int(float64(p.AnchorRect.X) * factor),
			Y:      int(float64(p.AnchorRect.Y) * factor),
			Width:  int(float64(p.AnchorRect.Width) * factor),
			Height: int(float64(p.AnchorRect.Height) * factor),
		}
		out.AnchorRect = &scaled
	}
	return out
}
