// Package server exposes the window controller to runtimes over MCP. Tool
// calls map one-to-one onto controller commands; window events accumulate in
// a journal the runtime drains explicitly, preserving delivery order.
package server

import (
	"context"
	"log/slog"
	"sync"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/winhost/internal/bridge"
	"github.com/1broseidon/winhost/internal/config"
	"github.com/1broseidon/winhost/internal/controller"
)

const (
	ServerName    = "winhost"
	ServerVersion = "0.1.0"
)

// Server is the MCP server for window hosting.
type Server struct {
	mcpServer  *mcpsdk.Server
	controller *controller.Controller
	defaults   config.WindowDefaults
	log        *slog.Logger

	mu      sync.Mutex
	journal []EventRecord
}

// NewServer creates an MCP server over ctrl and attaches itself to events as
// the runtime. Buffered events are replayed into the journal immediately.
func NewServer(ctrl *controller.Controller, events *bridge.Bridge, cfg *config.Config, log *slog.Logger) *Server {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if log == nil {
		log = slog.Default()
	}

	s := &Server{
		controller: ctrl,
		defaults:   cfg.WindowDefaults,
		log:        log,
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	events.Attach(s)
	return s
}

// HandleWindowEvent implements bridge.Runtime. Events are journaled in
// arrival order until the next drain_events call.
func (s *Server) HandleWindowEvent(ev bridge.Event) {
	rec := EventRecord{
		Kind:   ev.Kind.String(),
		Handle: int64(ev.Handle),
	}
	if ev.Size != nil {
		rec.Size = &SizeResult{Width: ev.Size.Width, Height: ev.Size.Height}
	}

	s.mu.Lock()
	s.journal = append(s.journal, rec)
	s.mu.Unlock()
}

// drainJournal returns and clears the pending events.
func (s *Server) drainJournal() []EventRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.journal
	s.journal = nil
	return out
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "create_regular_window",
		Description: "Create a top-level application window. Regular windows cannot have an owner; they carry the restored/maximized/minimized state and optional min/max size constraints. Returns the window handle.",
	}, s.handleCreateRegularWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "create_popup_window",
		Description: "Create a popup anchored to an owner window. The popup is placed by anchor points on an anchor rectangle within the owner frame, with optional slide/flip/resize overflow handling against the display edge. Popups are destroyed with their owner.",
	}, s.handleCreatePopupWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "destroy_window",
		Description: "Destroy a window and, first, every popup it transitively owns. Destroying an unknown handle is a no-op.",
	}, s.handleDestroyWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "modify_window",
		Description: "Change a window's title, client size, or state. At least one field beyond the handle must be provided; state changes apply to regular windows only.",
	}, s.handleModifyWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_window_size",
		Description: "Get a window's current client size in logical coordinates.",
	}, s.handleGetWindowSize)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_window_state",
		Description: "Get a regular window's current state: restored, maximized or minimized.",
	}, s.handleGetWindowState)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_windows",
		Description: "List all live windows with their archetype, size, state and ownership.",
	}, s.handleListWindows)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "drain_events",
		Description: "Return and clear all pending window events (onWindowCreated, onWindowChanged, onCloseRequested, onWindowDestroyed) in delivery order. Events produced before the server attached are included.",
	}, s.handleDrainEvents)
}
