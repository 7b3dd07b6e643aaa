package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/1broseidon/winhost/internal/bridge"
	"github.com/1broseidon/winhost/internal/controller"
	"github.com/1broseidon/winhost/internal/geometry"
	"github.com/1broseidon/winhost/internal/native/x11"
	"github.com/1broseidon/winhost/internal/tui"
	"github.com/1broseidon/winhost/internal/window"
)

func runDemo(args []string) int {
	fs := flag.NewFlagSet("demo", flag.ExitOnError)
	debug := fs.Bool("debug", false, "enable debug logging")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: winhost demo [options]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Create a demo window tree (a regular window with two popups) and")
		fmt.Fprintln(os.Stderr, "open the interactive tree inspector.")
		fmt.Fprintln(os.Stderr, "")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "demo requires an interactive terminal")
		return 1
	}

	log := newLogger(*debug)

	backend, err := x11.New(log)
	if err != nil {
		log.Error("failed to connect to display", "error", err)
		return 1
	}

	// No runtime consumes events here; discard them rather than letting the
	// pre-attachment buffer grow for the whole session.
	events := bridge.New(log, 0)
	events.Attach(bridge.Discard())
	ctrl := controller.New(backend, events, log, nil)
	defer ctrl.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go ctrl.Run(ctx)

	owner, err := ctrl.Create(controller.CreationRequest{
		Archetype: window.ArchetypeRegular,
		Title:     "winhost demo",
		Size:      geometry.Size{Width: 640, Height: 480},
	})
	if err != nil {
		log.Error("failed to create demo window", "error", err)
		return 1
	}

	popups := []geometry.Positioner{
		{ParentAnchor: geometry.AnchorBottomLeft, ChildAnchor: geometry.AnchorTopLeft},
		{
			ParentAnchor: geometry.AnchorTopRight,
			ChildAnchor:  geometry.AnchorTopLeft,
			Adjustment:   geometry.AdjustFlipX | geometry.AdjustSlideY,
		},
	}
	for i := range popups {
		if _, err := ctrl.Create(controller.CreationRequest{
			Archetype:  window.ArchetypePopup,
			Size:       geometry.Size{Width: 240, Height: 160},
			Owner:      owner.Handle,
			Positioner: &popups[i],
		}); err != nil {
			log.Warn("failed to create demo popup", "error", err)
		}
	}

	if err := tui.Run(ctrl); err != nil {
		log.Error("inspector error", "error", err)
		return 1
	}
	return 0
}
