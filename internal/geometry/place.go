package geometry

// Place computes the final screen rectangle for a transient window.
//
// The anchor rectangle is resolved first: a positioner-supplied rectangle is
// offset into the owner's coordinate space, otherwise the owner's full frame
// is used. The candidate rectangle aligns the child anchor point with the
// parent anchor point plus the positioner offset. When the candidate
// overflows outputRect on an axis, the constraint adjustment for that axis is
// applied in fixed order: slide, else flip, else resize, else the overflow is
// left uncorrected.
func Place(childSize Size, pos Positioner, ownerRect, outputRect Rect) Rect {
	anchorRect := ResolveAnchorRect(pos, ownerRect)
	candidate := candidateRect(childSize, pos.ParentAnchor, pos.ChildAnchor, pos.Offset, anchorRect)

	candidate = adjustHorizontal(candidate, pos, anchorRect, outputRect)
	candidate = adjustVertical(candidate, pos, anchorRect, outputRect)

	if candidate.Width < 0 {
		candidate.Width = 0
	}
	if candidate.Height < 0 {
		candidate.Height = 0
	}
	return candidate
}

// ResolveAnchorRect returns the screen-space anchor rectangle for a
// positioner: the positioner's rectangle offset into the owner's coordinate
// space, or the owner's full frame when absent.
func ResolveAnchorRect(pos Positioner, ownerRect Rect) Rect {
	if pos.AnchorRect == nil {
		return ownerRect
	}
	return Rect{
		X:      ownerRect.X + pos.AnchorRect.X,
		Y:      ownerRect.Y + pos.AnchorRect.Y,
		Width:  pos.AnchorRect.Width,
		Height: pos.AnchorRect.Height,
	}
}

func candidateRect(childSize Size, parent, child Anchor, offset Point, anchorRect Rect) Rect {
	anchorPoint := parent.PointOn(anchorRect)
	childOffset := child.PointOn(Rect{Width: childSize.Width, Height: childSize.Height})
	return Rect{
		X:      anchorPoint.X + offset.X - childOffset.X,
		Y:      anchorPoint.Y + offset.Y - childOffset.Y,
		Width:  childSize.Width,
		Height: childSize.Height,
	}
}

func adjustHorizontal(candidate Rect, pos Positioner, anchorRect, outputRect Rect) Rect {
	if candidate.X >= outputRect.X && candidate.Right() <= outputRect.Right() {
		return candidate
	}

	switch {
	case pos.Adjustment.Has(AdjustSlideX):
		// Translate by the minimum amount that fits, without moving past
		// the opposite edge.
		if candidate.Right() > outputRect.Right() {
			candidate.X = outputRect.Right() - candidate.Width
		}
		if candidate.X < outputRect.X {
			candidate.X = outputRect.X
		}

	case pos.Adjustment.Has(AdjustFlipX):
		flipped := candidateRect(candidate.Size(), pos.ParentAnchor.FlipX(), pos.ChildAnchor.FlipX(), pos.Offset, anchorRect)
		// Keep the mirrored placement only when it actually fits.
		if flipped.X >= outputRect.X && flipped.Right() <= outputRect.Right() {
			candidate.X = flipped.X
		}

	case pos.Adjustment.Has(AdjustResizeX):
		left := max(candidate.X, outputRect.X)
		right := min(candidate.Right(), outputRect.Right())
		candidate.X = left
		candidate.Width = right - left
		if candidate.Width < 1 {
			candidate.Width = 1
		}
	}
	return candidate
}

func adjustVertical(candidate Rect, pos Positioner, anchorRect, outputRect Rect) Rect {
	if candidate.Y >= outputRect.Y && candidate.Bottom() <= outputRect.Bottom() {
		return candidate
	}

	switch {
	case pos.Adjustment.Has(AdjustSlideY):
		if candidate.Bottom() > outputRect.Bottom() {
			candidate.Y = outputRect.Bottom() - candidate.Height
		}
		if candidate.Y < outputRect.Y {
			candidate.Y = outputRect.Y
		}

	case pos.Adjustment.Has(AdjustFlipY):
		flipped := candidateRect(candidate.Size(), pos.ParentAnchor.FlipY(), pos.ChildAnchor.FlipY(), pos.Offset, anchorRect)
		if flipped.Y >= outputRect.Y && flipped.Bottom() <= outputRect.Bottom() {
			candidate.Y = flipped.Y
		}

	case pos.Adjustment.Has(AdjustResizeY):
		top := max(candidate.Y, outputRect.Y)
		bottom := min(candidate.Bottom(), outputRect.Bottom())
		candidate.Y = top
		candidate.Height = bottom - top
		if candidate.Height < 1 {
			candidate.Height = 1
		}
	}
	return candidate
}
