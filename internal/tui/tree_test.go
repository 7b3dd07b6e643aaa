package tui

import (
	"strings"
	"testing"

	"github.com/1broseidon/winhost/internal/controller"
	"github.com/1broseidon/winhost/internal/geometry"
	"github.com/1broseidon/winhost/internal/window"
)

func TestRenderTreeNestsPopupsUnderOwners(t *testing.T) {
	rows := []controller.Info{
		{Handle: 1, Archetype: window.ArchetypeRegular, Title: "main", State: window.StateRestored, Size: geometry.Size{Width: 800, Height: 600}, PopupCount: 1},
		{Handle: 2, Archetype: window.ArchetypePopup, Owner: 1, Size: geometry.Size{Width: 200, Height: 100}},
		{Handle: 3, Archetype: window.ArchetypeRegular, State: window.StateMaximized, Size: geometry.Size{Width: 1024, Height: 768}},
	}

	lines := renderTree(rows)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "#1") || !strings.Contains(lines[0], "main") {
		t.Fatalf("unexpected root line: %q", lines[0])
	}
	if !strings.Contains(lines[1], "#2") || !strings.HasPrefix(stripANSI(lines[1]), "  └ ") {
		t.Fatalf("popup not nested under owner: %q", lines[1])
	}
	if !strings.Contains(lines[2], "#3") || !strings.Contains(lines[2], "maximized") {
		t.Fatalf("unexpected second root: %q", lines[2])
	}
}

func TestRenderTreeKeepsOrphans(t *testing.T) {
	rows := []controller.Info{
		{Handle: 5, Archetype: window.ArchetypePopup, Owner: 9, Size: geometry.Size{Width: 10, Height: 10}},
	}

	lines := renderTree(rows)
	if len(lines) != 1 || !strings.Contains(lines[0], "#5") {
		t.Fatalf("orphan popup dropped: %v", lines)
	}
}

// stripANSI removes escape sequences so prefix checks see the plain text.
func stripANSI(s string) string {
	var b strings.Builder
	inEscape := false
	for _, r := range s {
		switch {
		case inEscape:
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
				inEscape = false
			}
		case r == '\x1b':
			inEscape = true
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
