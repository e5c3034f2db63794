// Package mcp exposes the running window manager to MCP clients over stdio.
// Every tool is a thin wrapper around a daemon IPC call.
package mcp

import (
	"context"
	"errors"
	"log/slog"
	"slices"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/tagtile/internal/ipc"
)

const (
	ServerName    = "tagtile"
	ServerVersion = "0.1.0"
)

// DaemonClient is the subset of ipc.Client the tools call.
type DaemonClient interface {
	GetStatus() (*ipc.StatusData, error)
	ListWindows() (*ipc.WindowsData, error)
	ListWorkspaces() (*ipc.WorkspacesData, error)
	ListLayouts() (*ipc.LayoutsData, error)
	ApplyLayout(name string) error
	Reload() error
}

var _ DaemonClient = (*ipc.Client)(nil)

// Server is the MCP server for tagtile.
type Server struct {
	mcpServer *mcpsdk.Server
	client    DaemonClient
	logger    *slog.Logger
}

// NewServer creates an MCP server that answers through client.
func NewServer(client DaemonClient, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{client: client, logger: logger}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_status",
		Description: "Show the window manager status: active layout, managed window and workspace counts, and which window and workspace have focus.",
	}, s.handleGetStatus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_windows",
		Description: "List managed windows with their tags, type, floating state and current geometry. Dock windows are skipped unless include_docks is set.",
	}, s.handleListWindows)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_workspaces",
		Description: "List workspaces (one per monitor) with their tags, full area, usable area after docks, and the reserved dock rectangles.",
	}, s.handleListWorkspaces)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_layouts",
		Description: "List the configured tiling layouts and show which one is active.",
	}, s.handleListLayouts)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "apply_layout",
		Description: "Switch the tiling layout and re-tile every workspace immediately.",
	}, s.handleApplyLayout)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "reload_config",
		Description: "Ask the daemon to re-read its configuration file. Fails without changing anything when the file is invalid.",
	}, s.handleReloadConfig)
}

func (s *Server) handleGetStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ GetStatusInput) (*mcpsdk.CallToolResult, GetStatusOutput, error) {
	status, err := s.client.GetStatus()
	if err != nil {
		return nil, GetStatusOutput{}, err
	}
	return nil, GetStatusOutput{
		ActiveLayout:     status.ActiveLayout,
		WindowCount:      status.WindowCount,
		WorkspaceCount:   status.WorkspaceCount,
		FocusedWindow:    status.FocusedWindow,
		FocusedWorkspace: status.FocusedWorkspace,
		PendingActions:   status.PendingActions,
		UptimeSeconds:    status.UptimeSeconds,
	}, nil
}

func (s *Server) handleListWindows(_ context.Context, _ *mcpsdk.CallToolRequest, args ListWindowsInput) (*mcpsdk.CallToolResult, ListWindowsOutput, error) {
	data, err := s.client.ListWindows()
	if err != nil {
		return nil, ListWindowsOutput{}, err
	}

	windows := make([]ipc.WindowInfo, 0, len(data.Windows))
	for _, w := range data.Windows {
		if w.Type == "dock" && !args.IncludeDocks {
			continue
		}
		if args.VisibleOnly && !w.Visible {
			continue
		}
		if args.Tag != "" && !slices.Contains(w.Tags, args.Tag) {
			continue
		}
		windows = append(windows, w)
	}
	s.logger.Debug("mcp list_windows", "total", len(data.Windows), "returned", len(windows))
	return nil, ListWindowsOutput{Windows: windows}, nil
}

func (s *Server) handleListWorkspaces(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListWorkspacesInput) (*mcpsdk.CallToolResult, ListWorkspacesOutput, error) {
	data, err := s.client.ListWorkspaces()
	if err != nil {
		return nil, ListWorkspacesOutput{}, err
	}
	return nil, ListWorkspacesOutput{Workspaces: data.Workspaces}, nil
}

func (s *Server) handleListLayouts(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListLayoutsInput) (*mcpsdk.CallToolResult, ListLayoutsOutput, error) {
	data, err := s.client.ListLayouts()
	if err != nil {
		return nil, ListLayoutsOutput{}, err
	}
	return nil, ListLayoutsOutput{
		Layouts:       data.Layouts,
		DefaultLayout: data.DefaultLayout,
		ActiveLayout:  data.ActiveLayout,
	}, nil
}

func (s *Server) handleApplyLayout(_ context.Context, _ *mcpsdk.CallToolRequest, args ApplyLayoutInput) (*mcpsdk.CallToolResult, ApplyLayoutOutput, error) {
	if args.Layout == "" {
		return nil, ApplyLayoutOutput{}, errors.New("layout is required")
	}
	if err := s.client.ApplyLayout(args.Layout); err != nil {
		return nil, ApplyLayoutOutput{}, err
	}
	s.logger.Info("mcp applied layout", "layout", args.Layout)
	return nil, ApplyLayoutOutput{ActiveLayout: args.Layout}, nil
}

func (s *Server) handleReloadConfig(_ context.Context, _ *mcpsdk.CallToolRequest, _ ReloadConfigInput) (*mcpsdk.CallToolResult, ReloadConfigOutput, error) {
	if err := s.client.Reload(); err != nil {
		return nil, ReloadConfigOutput{}, err
	}
	out := ReloadConfigOutput{Reloaded: true}
	// The active layout may have fallen back to the new default.
	if status, err := s.client.GetStatus(); err == nil {
		out.ActiveLayout = status.ActiveLayout
	}
	return nil, out, nil
}
