package server

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/1broseidon/winhost/internal/bridge"
	"github.com/1broseidon/winhost/internal/config"
	"github.com/1broseidon/winhost/internal/controller"
	"github.com/1broseidon/winhost/internal/geometry"
	"github.com/1broseidon/winhost/internal/native"
	"github.com/1broseidon/winhost/internal/window"
)

// stubBackend is the minimal in-memory backend the tool handlers need.
type stubBackend struct {
	nextID window.NativeID
	frames map[window.NativeID]geometry.Rect
	events chan native.Event
}

func newStubBackend() *stubBackend {
	return &stubBackend{
		frames: make(map[window.NativeID]geometry.Rect),
		events: make(chan native.Event),
	}
}

func (f *stubBackend) CreateWindow(opts native.CreateOptions) (window.NativeID, error) {
	f.nextID++
	f.frames[f.nextID] = opts.Frame
	return f.nextID, nil
}

func (f *stubBackend) FrameRect(id window.NativeID) (geometry.Rect, error) {
	return f.frames[id], nil
}

func (f *stubBackend) Focus(id window.NativeID) error { return nil }

func (f *stubBackend) Outputs() ([]native.Output, error) {
	return []native.Output{
		{ID: 0, Primary: true, WorkArea: geometry.Rect{Width: 1920, Height: 1080}, Scale: 1},
	}, nil
}

func (f *stubBackend) ScaleFor(id window.NativeID) float64 { return 1 }

func (f *stubBackend) Events() <-chan native.Event { return f.events }

func (f *stubBackend) Close() error { return nil }

func (f *stubBackend) SetTitle(id window.NativeID, title string) error { return nil }

func (f *stubBackend) SetState(id window.NativeID, state window.State) error { return nil }

func (f *stubBackend) ResizeClient(id window.NativeID, size geometry.Size) error { return nil }

func (f *stubBackend) SetSizeHints(id window.NativeID, c window.Constraints) error { return nil }

func (f *stubBackend) DestroyWindow(id window.NativeID) error { return nil }

func newTestServer(t *testing.T) *Server {
	t.Helper()
	br := bridge.New(nil, 0)
	ctrl := controller.New(newStubBackend(), br, nil, nil)
	return NewServer(ctrl, br, config.DefaultConfig(), nil)
}

func TestCreateRegularWindowAppliesDefaults(t *testing.T) {
	s := newTestServer(t)

	_, out, err := s.handleCreateRegularWindow(context.Background(), nil, CreateRegularWindowInput{})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if out.Handle == 0 {
		t.Fatalf("expected a handle")
	}
	defaults := config.DefaultConfig().WindowDefaults
	if out.Size.Width != defaults.Width || out.Size.Height != defaults.Height {
		t.Fatalf("expected default size, got %+v", out.Size)
	}
	if out.State != "restored" {
		t.Fatalf("expected restored state, got %q", out.State)
	}
}

func TestCreateRegularWindowRejectsUnknownState(t *testing.T) {
	s := newTestServer(t)

	_, _, err := s.handleCreateRegularWindow(context.Background(), nil, CreateRegularWindowInput{State: "fullscreen"})
	if err == nil {
		t.Fatalf("expected error for unknown state")
	}
}

func TestCreatePopupWindowValidatesOwnership(t *testing.T) {
	s := newTestServer(t)

	_, _, err := s.handleCreatePopupWindow(context.Background(), nil, CreatePopupWindowInput{
		Width: 100, Height: 100,
	})
	if !errors.Is(err, controller.ErrPopupWithoutOwner) {
		t.Fatalf("expected ErrPopupWithoutOwner, got %v", err)
	}
}

func TestCreatePopupWindowRejectsBadAnchor(t *testing.T) {
	s := newTestServer(t)

	_, owner, err := s.handleCreateRegularWindow(context.Background(), nil, CreateRegularWindowInput{})
	if err != nil {
		t.Fatalf("create owner: %v", err)
	}

	_, _, err = s.handleCreatePopupWindow(context.Background(), nil, CreatePopupWindowInput{
		Owner: owner.Handle, Width: 100, Height: 100,
		ParentAnchor: "middle",
	})
	if err == nil || !strings.Contains(err.Error(), "parent_anchor") {
		t.Fatalf("expected parent_anchor error, got %v", err)
	}
}

func TestModifyWindowRequiresAField(t *testing.T) {
	s := newTestServer(t)

	_, owner, err := s.handleCreateRegularWindow(context.Background(), nil, CreateRegularWindowInput{})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, _, err = s.handleModifyWindow(context.Background(), nil, ModifyWindowInput{Handle: owner.Handle})
	if err == nil {
		t.Fatalf("expected error for empty modification")
	}

	width := 640
	_, _, err = s.handleModifyWindow(context.Background(), nil, ModifyWindowInput{Handle: owner.Handle, Width: &width})
	if err == nil {
		t.Fatalf("expected error for width without height")
	}
}

func TestModifyWindowUpdatesSizeAndState(t *testing.T) {
	s := newTestServer(t)

	_, created, err := s.handleCreateRegularWindow(context.Background(), nil, CreateRegularWindowInput{})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	width, height := 640, 480
	state := "maximized"
	_, _, err = s.handleModifyWindow(context.Background(), nil, ModifyWindowInput{
		Handle: created.Handle, Width: &width, Height: &height, State: &state,
	})
	if err != nil {
		t.Fatalf("modify: %v", err)
	}

	_, size, err := s.handleGetWindowSize(context.Background(), nil, GetWindowSizeInput{Handle: created.Handle})
	if err != nil {
		t.Fatalf("get size: %v", err)
	}
	if size.Size.Width != 640 || size.Size.Height != 480 {
		t.Fatalf("unexpected size: %+v", size.Size)
	}

	_, st, err := s.handleGetWindowState(context.Background(), nil, GetWindowStateInput{Handle: created.Handle})
	if err != nil {
		t.Fatalf("get state: %v", err)
	}
	if st.State != "maximized" {
		t.Fatalf("expected maximized, got %q", st.State)
	}
}

func TestListWindowsReportsOwnership(t *testing.T) {
	s := newTestServer(t)

	_, owner, err := s.handleCreateRegularWindow(context.Background(), nil, CreateRegularWindowInput{Title: "main"})
	if err != nil {
		t.Fatalf("create owner: %v", err)
	}
	_, popup, err := s.handleCreatePopupWindow(context.Background(), nil, CreatePopupWindowInput{
		Owner: owner.Handle, Width: 200, Height: 100,
		ParentAnchor: "bottomLeft", ChildAnchor: "topLeft",
	})
	if err != nil {
		t.Fatalf("create popup: %v", err)
	}

	_, out, err := s.handleListWindows(context.Background(), nil, ListWindowsInput{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(out.Windows) != 2 {
		t.Fatalf("expected 2 windows, got %d", len(out.Windows))
	}
	if out.Windows[0].Handle != owner.Handle || out.Windows[0].PopupCount != 1 {
		t.Fatalf("unexpected owner entry: %+v", out.Windows[0])
	}
	if out.Windows[1].Handle != popup.Handle || out.Windows[1].Owner != owner.Handle {
		t.Fatalf("unexpected popup entry: %+v", out.Windows[1])
	}
	if out.Windows[1].State != "" {
		t.Fatalf("popups must not report a state")
	}
}

func TestDrainEventsReturnsJournalInOrderThenClears(t *testing.T) {
	s := newTestServer(t)

	_, first, err := s.handleCreateRegularWindow(context.Background(), nil, CreateRegularWindowInput{})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, _, err := s.handleDestroyWindow(context.Background(), nil, DestroyWindowInput{Handle: first.Handle}); err != nil {
		t.Fatalf("destroy: %v", err)
	}

	_, out, err := s.handleDrainEvents(context.Background(), nil, DrainEventsInput{})
	if err != nil {
		t.Fatalf("drain: %v", err)
	}
	if len(out.Events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(out.Events))
	}
	if out.Events[0].Kind != "onWindowCreated" || out.Events[1].Kind != "onWindowDestroyed" {
		t.Fatalf("unexpected event order: %+v", out.Events)
	}

	_, out, err = s.handleDrainEvents(context.Background(), nil, DrainEventsInput{})
	if err != nil {
		t.Fatalf("drain: %v", err)
	}
	if len(out.Events) != 0 {
		t.Fatalf("expected empty journal after drain, got %d", len(out.Events))
	}
}

func TestEventsBufferedBeforeAttachAreJournaled(t *testing.T) {
	br := bridge.New(nil, 0)
	ctrl := controller.New(newStubBackend(), br, nil, nil)

	if _, err := ctrl.Create(controller.CreationRequest{
		Archetype: window.ArchetypeRegular,
		Size:      geometry.Size{Width: 100, Height: 100},
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	s := NewServer(ctrl, br, config.DefaultConfig(), nil)

	_, out, err := s.handleDrainEvents(context.Background(), nil, DrainEventsInput{})
	if err != nil {
		t.Fatalf("drain: %v", err)
	}
	if len(out.Events) != 1 || out.Events[0].Kind != "onWindowCreated" {
		t.Fatalf("expected buffered creation event, got %+v", out.Events)
	}
}
