package geometry

import "testing"

func TestPlace_NoAdjustmentAllowsOverflow(t *testing.T) {
	output := Rect{X: 0, Y: 0, Width: 1000, Height: 1000}
	owner := Rect{X: 400, Y: 400, Width: 200, Height: 200}

	got := Place(Size{Width: 300, Height: 300}, Positioner{
		ParentAnchor: AnchorBottomRight,
		ChildAnchor:  AnchorTopLeft,
	}, owner, output)

	if got.X != 600 || got.Y != 600 {
		t.Fatalf("expected origin (600,600), got (%d,%d)", got.X, got.Y)
	}
	if got.Width != 300 || got.Height != 300 {
		t.Fatalf("expected size 300x300, got %dx%d", got.Width, got.Height)
	}
}

func TestPlace_SlideClampsToOutputEdge(t *testing.T) {
	output := Rect{X: 0, Y: 0, Width: 1000, Height: 1000}
	// Unadjusted placement would start at (750,750) and overflow to (1050,1050).
	owner := Rect{X: 550, Y: 550, Width: 200, Height: 200}

	got := Place(Size{Width: 300, Height: 300}, Positioner{
		ParentAnchor: AnchorBottomRight,
		ChildAnchor:  AnchorTopLeft,
		Adjustment:   AdjustSlideX | AdjustSlideY,
	}, owner, output)

	// Slid so the bottom-right corner touches (1000,1000).
	if got.X != 700 || got.Y != 700 {
		t.Fatalf("expected origin (700,700), got (%d,%d)", got.X, got.Y)
	}
}

func TestPlace_SlideDoesNotMovePastOppositeEdge(t *testing.T) {
	output := Rect{X: 0, Y: 0, Width: 200, Height: 200}
	owner := Rect{X: 50, Y: 50, Width: 100, Height: 100}

	// Child wider than the output: sliding left would push the origin
	// negative, so it clamps at the output's left edge.
	got := Place(Size{Width: 300, Height: 50}, Positioner{
		ParentAnchor: AnchorBottomRight,
		ChildAnchor:  AnchorTopLeft,
		Adjustment:   AdjustSlideX,
	}, owner, output)

	if got.X != 0 {
		t.Fatalf("expected X clamped to 0, got %d", got.X)
	}
}

func TestPlace_FlipMirrorsAnchors(t *testing.T) {
	output := Rect{X: 0, Y: 0, Width: 1000, Height: 1000}
	owner := Rect{X: 700, Y: 700, Width: 200, Height: 200}

	got := Place(Size{Width: 300, Height: 300}, Positioner{
		ParentAnchor: AnchorBottomRight,
		ChildAnchor:  AnchorTopLeft,
		Adjustment:   AdjustFlipX | AdjustFlipY,
	}, owner, output)

	// Mirrored to bottomLeft/topRight: the child's right edge sits at the
	// owner's left edge, bottom edge at the owner's top edge.
	if got.X != 400 || got.Y != 400 {
		t.Fatalf("expected origin (400,400), got (%d,%d)", got.X, got.Y)
	}
}

func TestPlace_FlipKeepsOriginalWhenMirrorDoesNotFit(t *testing.T) {
	output := Rect{X: 0, Y: 0, Width: 500, Height: 500}
	owner := Rect{X: 100, Y: 100, Width: 300, Height: 300}

	// 450 wide child overflows on both sides; flipping does not help.
	got := Place(Size{Width: 450, Height: 100}, Positioner{
		ParentAnchor: AnchorBottomRight,
		ChildAnchor:  AnchorTopLeft,
		Adjustment:   AdjustFlipX,
	}, owner, output)

	if got.X != 400 {
		t.Fatalf("expected unflipped X=400, got %d", got.X)
	}
}

func TestPlace_ResizeShrinksToOutput(t *testing.T) {
	output := Rect{X: 0, Y: 0, Width: 1000, Height: 1000}
	owner := Rect{X: 550, Y: 550, Width: 200, Height: 200}

	got := Place(Size{Width: 300, Height: 300}, Positioner{
		ParentAnchor: AnchorBottomRight,
		ChildAnchor:  AnchorTopLeft,
		Adjustment:   AdjustResizeX | AdjustResizeY,
	}, owner, output)

	if got.X != 750 || got.Y != 750 {
		t.Fatalf("expected origin (750,750), got (%d,%d)", got.X, got.Y)
	}
	if got.Width != 250 || got.Height != 250 {
		t.Fatalf("expected size 250x250, got %dx%d", got.Width, got.Height)
	}
}

func TestPlace_ResizeClampsToUnitSize(t *testing.T) {
	output := Rect{X: 0, Y: 0, Width: 100, Height: 100}
	owner := Rect{X: 90, Y: 90, Width: 20, Height: 20}

	// The candidate starts past the output's right edge; shrinking would
	// otherwise produce a non-positive width.
	got := Place(Size{Width: 50, Height: 50}, Positioner{
		ParentAnchor: AnchorBottomRight,
		ChildAnchor:  AnchorTopLeft,
		Adjustment:   AdjustResizeX,
	}, owner, output)

	if got.Width < 1 {
		t.Fatalf("expected width clamped to at least 1, got %d", got.Width)
	}
}

func TestPlace_ExplicitAnchorRectIsOwnerRelative(t *testing.T) {
	output := Rect{X: 0, Y: 0, Width: 1000, Height: 1000}
	owner := Rect{X: 100, Y: 100, Width: 400, Height: 400}
	anchor := Rect{X: 10, Y: 20, Width: 30, Height: 40}

	got := Place(Size{Width: 50, Height: 50}, Positioner{
		AnchorRect:   &anchor,
		ParentAnchor: AnchorTopLeft,
		ChildAnchor:  AnchorTopLeft,
	}, owner, output)

	if got.X != 110 || got.Y != 120 {
		t.Fatalf("expected origin (110,120), got (%d,%d)", got.X, got.Y)
	}
}

func TestPlace_OffsetShiftsCandidate(t *testing.T) {
	output := Rect{X: 0, Y: 0, Width: 1000, Height: 1000}
	owner := Rect{X: 100, Y: 100, Width: 200, Height: 200}

	got := Place(Size{Width: 50, Height: 50}, Positioner{
		ParentAnchor: AnchorTopLeft,
		ChildAnchor:  AnchorTopLeft,
		Offset:       Point{X: 5, Y: -7},
	}, owner, output)

	if got.X != 105 || got.Y != 93 {
		t.Fatalf("expected origin (105,93), got (%d,%d)", got.X, got.Y)
	}
}

func TestPlace_CenterAnchors(t *testing.T) {
	output := Rect{X: 0, Y: 0, Width: 1000, Height: 1000}
	owner := Rect{X: 400, Y: 400, Width: 200, Height: 200}

	got := Place(Size{Width: 100, Height: 100}, Positioner{
		ParentAnchor: AnchorCenter,
		ChildAnchor:  AnchorCenter,
	}, owner, output)

	// Child centered on the owner's midpoint (500,500).
	if got.X != 450 || got.Y != 450 {
		t.Fatalf("expected origin (450,450), got (%d,%d)", got.X, got.Y)
	}
}

func TestAnchorPointOn(t *testing.T) {
	r := Rect{X: 10, Y: 20, Width: 100, Height: 60}

	cases := []struct {
		anchor Anchor
		want   Point
	}{
		{AnchorTopLeft, Point{10, 20}},
		{AnchorTop, Point{60, 20}},
		{AnchorTopRight, Point{110, 20}},
		{AnchorLeft, Point{10, 50}},
		{AnchorCenter, Point{60, 50}},
		{AnchorRight, Point{110, 50}},
		{AnchorBottomLeft, Point{10, 80}},
		{AnchorBottom, Point{60, 80}},
		{AnchorBottomRight, Point{110, 80}},
	}
	for _, c := range cases {
		if got := c.anchor.PointOn(r); got != c.want {
			t.Fatalf("%s: expected %v, got %v", c.anchor, c.want, got)
		}
	}
}

func TestParseAnchor(t *testing.T) {
	a, err := ParseAnchor("bottomRight")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a != AnchorBottomRight {
		t.Fatalf("expected AnchorBottomRight, got %v", a)
	}

	if _, err := ParseAnchor("middle"); err == nil {
		t.Fatalf("expected error for unknown anchor")
	}
}

func TestParseConstraintAdjustment(t *testing.T) {
	c, err := ParseConstraintAdjustment([]string{"slideX", "flipY"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !c.Has(AdjustSlideX) || !c.Has(AdjustFlipY) {
		t.Fatalf("expected slideX|flipY, got %b", c)
	}
	if c.Has(AdjustResizeX) {
		t.Fatalf("resizeX should not be set")
	}

	if _, err := ParseConstraintAdjustment([]string{"shrinkX"}); err == nil {
		t.Fatalf("expected error for unknown adjustment")
	}
}

func TestRectIntersect(t *testing.T) {
	a := Rect{X: 0, Y: 0, Width: 100, Height: 100}
	b := Rect{X: 50, Y: 60, Width: 100, Height: 100}

	got := a.Intersect(b)
	if got != (Rect{X: 50, Y: 60, Width: 50, Height: 40}) {
		t.Fatalf("unexpected intersection: %+v", got)
	}

	c := Rect{X: 200, Y: 200, Width: 10, Height: 10}
	if a.Intersect(c).Area() != 0 {
		t.Fatalf("expected empty intersection")
	}
}
