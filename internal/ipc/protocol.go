package ipc

import (
	"encoding/json"
	"fmt"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandReload         CommandType = "RELOAD"
	CommandGetStatus      CommandType = "GET_STATUS"
	CommandListWindows    CommandType = "LIST_WINDOWS"
	CommandListWorkspaces CommandType = "LIST_WORKSPACES"
	CommandListLayouts    CommandType = "LIST_LAYOUTS"
	CommandApplyLayout    CommandType = "APPLY_LAYOUT"
)

const (
	StatusOK    = "OK"
	StatusError = "ERROR"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	ActiveLayout     string  `json:"active_layout"`
	WindowCount      int     `json:"window_count"`
	WorkspaceCount   int     `json:"workspace_count"`
	FocusedWindow    *uint32 `json:"focused_window,omitempty"`
	FocusedWorkspace *int    `json:"focused_workspace,omitempty"`
	PendingActions   int     `json:"pending_actions"`
	UptimeSeconds    int64   `json:"uptime_seconds"`
	DaemonRunning    bool    `json:"daemon_running"`
}

// Rect is a rectangle in screen coordinates.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// WindowInfo describes one managed window.
type WindowInfo struct {
	Handle    uint32   `json:"handle"`
	Name      string   `json:"name"`
	Type      string   `json:"type"`
	Tags      []string `json:"tags"`
	Floating  bool     `json:"floating"`
	Visible   bool     `json:"visible"`
	Focused   bool     `json:"focused"`
	Transient *uint32  `json:"transient_for,omitempty"`
	Geometry  Rect     `json:"geometry"`
}

// WindowsData represents the data returned by LIST_WINDOWS
type WindowsData struct {
	Windows []WindowInfo `json:"windows"`
}

// WorkspaceInfo describes one workspace and the area its docks leave free.
type WorkspaceInfo struct {
	ID      int      `json:"id"`
	Tags    []string `json:"tags"`
	Focused bool     `json:"focused"`
	Area    Rect     `json:"area"`
	Usable  Rect     `json:"usable"`
	Avoid   []Rect   `json:"avoid,omitempty"`
}

// WorkspacesData represents the data returned by LIST_WORKSPACES
type WorkspacesData struct {
	Workspaces []WorkspaceInfo `json:"workspaces"`
}

type LayoutsData struct {
	Layouts       []string `json:"layouts"`
	DefaultLayout string   `json:"default_layout"`
	ActiveLayout  string   `json:"active_layout"`
}

type ApplyLayoutPayload struct {
	LayoutName string `json:"layout_name"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data any) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: StatusOK,
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: StatusError,
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
