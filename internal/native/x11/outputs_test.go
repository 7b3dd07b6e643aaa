package x11

import (
	"testing"

	"github.com/BurntSushi/xgbutil/ewmh"

	"github.com/1broseidon/winhost/internal/geometry"
	"github.com/1broseidon/winhost/internal/native"
)

func TestShrinkByStrutsTrimsOverlappingEdges(t *testing.T) {
	sp := &ewmh.WmStrutPartial{
		Top:       30,
		TopStartX: 0,
		TopEndX:   1919,
		Bottom:       40,
		BottomStartX: 0,
		BottomEndX:   1919,
	}
	struts := partialStruts(sp, 3840, 1080)

	// Panel spans only the first monitor.
	first := shrinkByStruts(geometry.Rect{Width: 1920, Height: 1080}, struts)
	if first != (geometry.Rect{X: 0, Y: 30, Width: 1920, Height: 1010}) {
		t.Fatalf("unexpected first work area: %+v", first)
	}

	second := shrinkByStruts(geometry.Rect{X: 1920, Width: 1920, Height: 1080}, struts)
	if second != (geometry.Rect{X: 1920, Width: 1920, Height: 1080}) {
		t.Fatalf("strut must not affect the second monitor: %+v", second)
	}
}

func TestShrinkByStrutsNeverCollapses(t *testing.T) {
	sp := &ewmh.WmStrutPartial{
		Left:       2000,
		LeftStartY: 0,
		LeftEndY:   1079,
	}
	struts := partialStruts(sp, 1920, 1080)

	area := shrinkByStruts(geometry.Rect{Width: 1920, Height: 1080}, struts)
	if area.Width < 1 || area.Height < 1 {
		t.Fatalf("work area collapsed: %+v", area)
	}
}

func TestWholeScreenOutputIsPrimaryWithStrutAdjustedWorkArea(t *testing.T) {
	sp := &ewmh.WmStrutPartial{
		Top:       30,
		TopStartX: 0,
		TopEndX:   1919,
	}
	struts := partialStruts(sp, 1920, 1080)

	out := wholeScreenOutput(geometry.Rect{Width: 1920, Height: 1080}, struts, 2)
	if !out.Primary {
		t.Fatalf("whole-screen output must be primary")
	}
	if out.WorkArea != (geometry.Rect{X: 0, Y: 30, Width: 1920, Height: 1050}) {
		t.Fatalf("unexpected work area: %+v", out.WorkArea)
	}
	if out.Scale != 2 {
		t.Fatalf("expected scale 2, got %v", out.Scale)
	}
}

func TestEnsurePrimaryFallsBackToFirst(t *testing.T) {
	outputs := []native.Output{
		{ID: 0, WorkArea: geometry.Rect{Width: 1920, Height: 1080}},
		{ID: 1, WorkArea: geometry.Rect{X: 1920, Width: 1920, Height: 1080}},
	}
	ensurePrimary(outputs)
	if !outputs[0].Primary {
		t.Fatalf("expected first output marked primary")
	}

	outputs[0].Primary = false
	outputs[1].Primary = true
	ensurePrimary(outputs)
	if outputs[0].Primary {
		t.Fatalf("explicit primary must be kept")
	}
}
