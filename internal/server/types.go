package server

// RectArg is a rectangle argument in logical coordinates.
type RectArg struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// SizeResult is a size in logical coordinates.
type SizeResult struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// CreateRegularWindowInput is the input for the create_regular_window tool.
type CreateRegularWindowInput struct {
	Title     string `json:"title,omitempty" jsonschema:"Window title"`
	Width     int    `json:"width,omitempty" jsonschema:"Client width in logical units (default from config)"`
	Height    int    `json:"height,omitempty" jsonschema:"Client height in logical units (default from config)"`
	MinWidth  *int   `json:"min_width,omitempty" jsonschema:"Minimum client width"`
	MinHeight *int   `json:"min_height,omitempty" jsonschema:"Minimum client height"`
	MaxWidth  *int   `json:"max_width,omitempty" jsonschema:"Maximum client width"`
	MaxHeight *int   `json:"max_height,omitempty" jsonschema:"Maximum client height"`
	State     string `json:"state,omitempty" jsonschema:"Initial state: restored, maximized or minimized (default: restored)"`
}

// CreateRegularWindowOutput is the output for the create_regular_window tool.
type CreateRegularWindowOutput struct {
	Handle int64      `json:"handle"`
	Size   SizeResult `json:"size"`
	State  string     `json:"state"`
}

// CreatePopupWindowInput is the input for the create_popup_window tool.
type CreatePopupWindowInput struct {
	Owner     int64 `json:"owner" jsonschema:"required,Handle of the owner window"`
	Width     int   `json:"width" jsonschema:"required,Client width in logical units"`
	Height    int   `json:"height" jsonschema:"required,Client height in logical units"`
	MinWidth  *int  `json:"min_width,omitempty" jsonschema:"Minimum client width"`
	MinHeight *int  `json:"min_height,omitempty" jsonschema:"Minimum client height"`
	MaxWidth  *int  `json:"max_width,omitempty" jsonschema:"Maximum client width"`
	MaxHeight *int  `json:"max_height,omitempty" jsonschema:"Maximum client height"`

	// AnchorRect is relative to the owner's frame; omitted means the whole
	// owner frame.
	AnchorRect           *RectArg `json:"anchor_rect,omitempty" jsonschema:"Anchor rectangle relative to the owner frame (default: the whole owner frame)"`
	ParentAnchor         string   `json:"parent_anchor,omitempty" jsonschema:"Anchor point on the anchor rectangle: center, top, bottom, left, right, topLeft, topRight, bottomLeft, bottomRight (default: center)"`
	ChildAnchor          string   `json:"child_anchor,omitempty" jsonschema:"Anchor point on the popup itself (default: center)"`
	OffsetX              int      `json:"offset_x,omitempty" jsonschema:"Horizontal displacement from the anchor point"`
	OffsetY              int      `json:"offset_y,omitempty" jsonschema:"Vertical displacement from the anchor point"`
	ConstraintAdjustment []string `json:"constraint_adjustment,omitempty" jsonschema:"Overflow strategies to allow: slideX, slideY, flipX, flipY, resizeX, resizeY"`
}

// CreatePopupWindowOutput is the output for the create_popup_window tool.
type CreatePopupWindowOutput struct {
	Handle int64      `json:"handle"`
	Owner  int64      `json:"owner"`
	Size   SizeResult `json:"size"`
}

// DestroyWindowInput is the input for the destroy_window tool.
type DestroyWindowInput struct {
	Handle int64 `json:"handle" jsonschema:"required,Handle of the window to destroy; owned popups are destroyed first"`
}

// DestroyWindowOutput is the output for the destroy_window tool.
type DestroyWindowOutput struct {
	Destroyed bool `json:"destroyed"`
}

// ModifyWindowInput is the input for the modify_window tool. At least one
// optional field must be set.
type ModifyWindowInput struct {
	Handle int64   `json:"handle" jsonschema:"required,Handle of the window to modify"`
	Title  *string `json:"title,omitempty" jsonschema:"New window title"`
	Width  *int    `json:"width,omitempty" jsonschema:"New client width in logical units; must be paired with height"`
	Height *int    `json:"height,omitempty" jsonschema:"New client height in logical units; must be paired with width"`
	State  *string `json:"state,omitempty" jsonschema:"New state: restored, maximized or minimized (regular windows only)"`
}

// ModifyWindowOutput is the output for the modify_window tool.
type ModifyWindowOutput struct {
	Handle int64 `json:"handle"`
}

// GetWindowSizeInput is the input for the get_window_size tool.
type GetWindowSizeInput struct {
	Handle int64 `json:"handle" jsonschema:"required,Window handle"`
}

// GetWindowSizeOutput is the output for the get_window_size tool.
type GetWindowSizeOutput struct {
	Size SizeResult `json:"size"`
}

// GetWindowStateInput is the input for the get_window_state tool.
type GetWindowStateInput struct {
	Handle int64 `json:"handle" jsonschema:"required,Window handle (regular windows only)"`
}

// GetWindowStateOutput is the output for the get_window_state tool.
type GetWindowStateOutput struct {
	State string `json:"state"`
}

// ListWindowsInput is the input for the list_windows tool.
type ListWindowsInput struct{}

// WindowInfo describes one live window.
type WindowInfo struct {
	Handle     int64      `json:"handle"`
	Archetype  string     `json:"archetype"`
	Title      string     `json:"title,omitempty"`
	State      string     `json:"state,omitempty"`
	Size       SizeResult `json:"size"`
	Owner      int64      `json:"owner,omitempty"`
	PopupCount int        `json:"popup_count,omitempty"`
}

// ListWindowsOutput is the output for the list_windows tool.
type ListWindowsOutput struct {
	Windows []WindowInfo `json:"windows"`
}

// DrainEventsInput is the input for the drain_events tool.
type DrainEventsInput struct{}

// EventRecord is one window event delivered to the runtime.
type EventRecord struct {
	Kind   string      `json:"kind"`
	Handle int64       `json:"handle"`
	Size   *SizeResult `json:"size,omitempty"`
}

// DrainEventsOutput is the output for the drain_events tool.
type DrainEventsOutput struct {
	Events []EventRecord `json:"events"`
}
