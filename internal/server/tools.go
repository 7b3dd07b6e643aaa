package server

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/winhost/internal/controller"
	"github.com/1broseidon/winhost/internal/geometry"
	"github.com/1broseidon/winhost/internal/window"
)

func (s *Server) handleCreateRegularWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args CreateRegularWindowInput) (*mcpsdk.CallToolResult, CreateRegularWindowOutput, error) {
	req := controller.CreationRequest{
		Archetype: window.ArchetypeRegular,
		Title:     args.Title,
		Size:      geometry.Size{Width: args.Width, Height: args.Height},
	}
	if req.Title == "" {
		req.Title = s.defaults.Title
	}
	if req.Size.Width == 0 {
		req.Size.Width = s.defaults.Width
	}
	if req.Size.Height == 0 {
		req.Size.Height = s.defaults.Height
	}

	req.Constraints = constraintsFromArgs(args.MinWidth, args.MinHeight, args.MaxWidth, args.MaxHeight)

	if args.State != "" {
		state, err := window.ParseState(args.State)
		if err != nil {
			return nil, CreateRegularWindowOutput{}, err
		}
		req.State = &state
	}

	meta, err := s.controller.Create(req)
	if err != nil {
		return nil, CreateRegularWindowOutput{}, err
	}

	out := CreateRegularWindowOutput{
		Handle: int64(meta.Handle),
		Size:   SizeResult{Width: meta.Size.Width, Height: meta.Size.Height},
	}
	if meta.State != nil {
		out.State = meta.State.String()
	}
	return nil, out, nil
}

func (s *Server) handleCreatePopupWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args CreatePopupWindowInput) (*mcpsdk.CallToolResult, CreatePopupWindowOutput, error) {
	pos, err := positionerFromArgs(args)
	if err != nil {
		return nil, CreatePopupWindowOutput{}, err
	}

	meta, err := s.controller.Create(controller.CreationRequest{
		Archetype:   window.ArchetypePopup,
		Size:        geometry.Size{Width: args.Width, Height: args.Height},
		Constraints: constraintsFromArgs(args.MinWidth, args.MinHeight, args.MaxWidth, args.MaxHeight),
		Owner:       window.Handle(args.Owner),
		Positioner:  pos,
	})
	if err != nil {
		return nil, CreatePopupWindowOutput{}, err
	}

	return nil, CreatePopupWindowOutput{
		Handle: int64(meta.Handle),
		Owner:  args.Owner,
		Size:   SizeResult{Width: meta.Size.Width, Height: meta.Size.Height},
	}, nil
}

func (s *Server) handleDestroyWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args DestroyWindowInput) (*mcpsdk.CallToolResult, DestroyWindowOutput, error) {
	if err := s.controller.Destroy(window.Handle(args.Handle)); err != nil {
		return nil, DestroyWindowOutput{}, err
	}
	return nil, DestroyWindowOutput{Destroyed: true}, nil
}

func (s *Server) handleModifyWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args ModifyWindowInput) (*mcpsdk.CallToolResult, ModifyWindowOutput, error) {
	if args.Title == nil && args.Width == nil && args.Height == nil && args.State == nil {
		return nil, ModifyWindowOutput{}, fmt.Errorf("modify_window requires at least one of title, width/height or state")
	}
	if (args.Width == nil) != (args.Height == nil) {
		return nil, ModifyWindowOutput{}, fmt.Errorf("width and height must be provided together")
	}

	handle := window.Handle(args.Handle)

	if args.Title != nil {
		if err := s.controller.SetTitle(handle, *args.Title); err != nil {
			return nil, ModifyWindowOutput{}, err
		}
	}
	if args.Width != nil {
		size := geometry.Size{Width: *args.Width, Height: *args.Height}
		if err := s.controller.SetSize(handle, size); err != nil {
			return nil, ModifyWindowOutput{}, err
		}
	}
	if args.State != nil {
		state, err := window.ParseState(*args.State)
		if err != nil {
			return nil, ModifyWindowOutput{}, err
		}
		if err := s.controller.SetState(handle, state); err != nil {
			return nil, ModifyWindowOutput{}, err
		}
	}

	return nil, ModifyWindowOutput{Handle: args.Handle}, nil
}

func (s *Server) handleGetWindowSize(_ context.Context, _ *mcpsdk.CallToolRequest, args GetWindowSizeInput) (*mcpsdk.CallToolResult, GetWindowSizeOutput, error) {
	size, err := s.controller.GetSize(window.Handle(args.Handle))
	if err != nil {
		return nil, GetWindowSizeOutput{}, err
	}
	return nil, GetWindowSizeOutput{
		Size: SizeResult{Width: size.Width, Height: size.Height},
	}, nil
}

func (s *Server) handleGetWindowState(_ context.Context, _ *mcpsdk.CallToolRequest, args GetWindowStateInput) (*mcpsdk.CallToolResult, GetWindowStateOutput, error) {
	state, err := s.controller.GetState(window.Handle(args.Handle))
	if err != nil {
		return nil, GetWindowStateOutput{}, err
	}
	return nil, GetWindowStateOutput{State: state.String()}, nil
}

func (s *Server) handleListWindows(_ context.Context, _ *mcpsdk.CallToolRequest, args ListWindowsInput) (*mcpsdk.CallToolResult, ListWindowsOutput, error) {
	snapshot := s.controller.Snapshot()

	out := ListWindowsOutput{Windows: make([]WindowInfo, 0, len(snapshot))}
	for _, info := range snapshot {
		wi := WindowInfo{
			Handle:     int64(info.Handle),
			Archetype:  info.Archetype.String(),
			Title:      info.Title,
			Size:       SizeResult{Width: info.Size.Width, Height: info.Size.Height},
			Owner:      int64(info.Owner),
			PopupCount: info.PopupCount,
		}
		if info.Archetype == window.ArchetypeRegular {
			wi.State = info.State.String()
		}
		out.Windows = append(out.Windows, wi)
	}
	return nil, out, nil
}

func (s *Server) handleDrainEvents(_ context.Context, _ *mcpsdk.CallToolRequest, args DrainEventsInput) (*mcpsdk.CallToolResult, DrainEventsOutput, error) {
	return nil, DrainEventsOutput{Events: s.drainJournal()}, nil
}

func constraintsFromArgs(minW, minH, maxW, maxH *int) window.Constraints {
	var c window.Constraints
	if minW != nil || minH != nil {
		min := geometry.Size{}
		if minW != nil {
			min.Width = *minW
		}
		if minH != nil {
			min.Height = *minH
		}
		c.Min = &min
	}
	if maxW != nil || maxH != nil {
		max := geometry.Size{}
		if maxW != nil {
			max.Width = *maxW
		}
		if maxH != nil {
			max.Height = *maxH
		}
		c.Max = &max
	}
	return c
}

func positionerFromArgs(args CreatePopupWindowInput) (*geometry.Positioner, error) {
	pos := &geometry.Positioner{
		Offset: geometry.Point{X: args.OffsetX, Y: args.OffsetY},
	}

	if args.AnchorRect != nil {
		pos.AnchorRect = &geometry.Rect{
			X:      args.AnchorRect.X,
			Y:      args.AnchorRect.Y,
			Width:  args.AnchorRect.Width,
			Height: args.AnchorRect.Height,
		}
	}

	if args.ParentAnchor != "" {
		anchor, err := geometry.ParseAnchor(args.ParentAnchor)
		if err != nil {
			return nil, fmt.Errorf("parent_anchor: %w", err)
		}
		pos.ParentAnchor = anchor
	}
	if args.ChildAnchor != "" {
		anchor, err := geometry.ParseAnchor(args.ChildAnchor)
		if err != nil {
			return nil, fmt.Errorf("child_anchor: %w", err)
		}
		pos.ChildAnchor = anchor
	}

	adjustment, err := geometry.ParseConstraintAdjustment(args.ConstraintAdjustment)
	if err != nil {
		return nil, fmt.Errorf("constraint_adjustment: %w", err)
	}
	pos.Adjustment = adjustment

	return pos, nil
}
