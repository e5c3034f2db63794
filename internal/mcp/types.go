package mcp

import "github.com/1broseidon/tagtile/internal/ipc"

// GetStatusInput is the input for the get_status tool.
type GetStatusInput struct{}

// GetStatusOutput is the output for the get_status tool.
type GetStatusOutput struct {
	ActiveLayout     string  `json:"active_layout"`
	WindowCount      int     `json:"window_count"`
	WorkspaceCount   int     `json:"workspace_count"`
	FocusedWindow    *uint32 `json:"focused_window,omitempty"`
	FocusedWorkspace *int    `json:"focused_workspace,omitempty"`
	PendingActions   int     `json:"pending_actions"`
	UptimeSeconds    int64   `json:"uptime_seconds"`
}

// ListWindowsInput is the input for the list_windows tool.
type ListWindowsInput struct {
	Tag          string `json:"tag,omitempty" jsonschema:"Only return windows carrying this tag"`
	VisibleOnly  bool   `json:"visible_only,omitempty" jsonschema:"When true, skip windows that are not currently shown"`
	IncludeDocks bool   `json:"include_docks,omitempty" jsonschema:"When true, include dock windows such as panels and bars (default: false)"`
}

// ListWindowsOutput is the output for the list_windows tool.
type ListWindowsOutput struct {
	Windows []ipc.WindowInfo `json:"windows"`
}

// ListWorkspacesInput is the input for the list_workspaces tool.
type ListWorkspacesInput struct{}

// ListWorkspacesOutput is the output for the list_workspaces tool.
type ListWorkspacesOutput struct {
	Workspaces []ipc.WorkspaceInfo `json:"workspaces"`
}

// ListLayoutsInput is the input for the list_layouts tool.
type ListLayoutsInput struct{}

// ListLayoutsOutput is the output for the list_layouts tool.
type ListLayoutsOutput struct {
	Layouts       []string `json:"layouts"`
	DefaultLayout string   `json:"default_layout"`
	ActiveLayout  string   `json:"active_layout"`
}

// ApplyLayoutInput is the input for the apply_layout tool.
type ApplyLayoutInput struct {
	Layout string `json:"layout" jsonschema:"required,Name of the layout to apply (see list_layouts)"`
}

// ApplyLayoutOutput is the output for the apply_layout tool.
type ApplyLayoutOutput struct {
	ActiveLayout string `json:"active_layout"`
}

// ReloadConfigInput is the input for the reload_config tool.
type ReloadConfigInput struct{}

// ReloadConfigOutput is the output for the reload_config tool.
type ReloadConfigOutput struct {
	Reloaded     bool   `json:"reloaded"`
	ActiveLayout string `json:"active_layout"`
}
