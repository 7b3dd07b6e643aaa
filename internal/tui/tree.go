package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/winhost/internal/controller"
	"github.com/1broseidon/winhost/internal/window"
)

var (
	regularStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	popupStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	metaStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
)

// renderTree formats the snapshot as an indented ownership tree. Roots are
// windows without an owner; children are grouped under their owner in handle
// order.
func renderTree(rows []controller.Info) []string {
	children := make(map[window.Handle][]controller.Info)
	var roots []controller.Info
	for _, info := range rows {
		if info.Owner == 0 {
			roots = append(roots, info)
			continue
		}
		children[info.Owner] = append(children[info.Owner], info)
	}

	var lines []string
	var walk func(info controller.Info, depth int)
	walk = func(info controller.Info, depth int) {
		lines = append(lines, renderRow(info, depth))
		for _, child := range children[info.Handle] {
			walk(child, depth+1)
		}
	}
	for _, root := range roots {
		walk(root, 0)
	}

	// Orphans can appear transiently while an owner is being torn down.
	seen := make(map[window.Handle]bool, len(lines))
	for _, root := range roots {
		markSeen(root, children, seen)
	}
	for _, info := range rows {
		if !seen[info.Handle] {
			lines = append(lines, renderRow(info, 0))
		}
	}
	return lines
}

func markSeen(info controller.Info, children map[window.Handle][]controller.Info, seen map[window.Handle]bool) {
	seen[info.Handle] = true
	for _, child := range children[info.Handle] {
		markSeen(child, children, seen)
	}
}

func renderRow(info controller.Info, depth int) string {
	indent := ""
	for i := 0; i < depth; i++ {
		indent += "  "
	}
	if depth > 0 {
		indent += "└ "
	}

	var label string
	switch info.Archetype {
	case window.ArchetypePopup:
		label = popupStyle.Render(fmt.Sprintf("#%d popup", info.Handle))
	default:
		label = regularStyle.Render(fmt.Sprintf("#%d %s", info.Handle, info.State))
	}

	meta := fmt.Sprintf(" %dx%d", info.Size.Width, info.Size.Height)
	if info.Title != "" {
		meta += fmt.Sprintf("  %q", info.Title)
	}
	if info.PopupCount > 0 {
		meta += fmt.Sprintf("  (%d popup(s))", info.PopupCount)
	}
	if info.PendingShow {
		meta += "  pending"
	}
	return indent + label + metaStyle.Render(meta)
}
