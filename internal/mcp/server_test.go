package mcp

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/1broseidon/tagtile/internal/ipc"
)

type fakeClient struct {
	windows  []ipc.WindowInfo
	active   string
	applied  []string
	reloads  int
	failWith error
}

func (f *fakeClient) GetStatus() (*ipc.StatusData, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	focused := uint32(42)
	return &ipc.StatusData{ActiveLayout: f.active, WindowCount: len(f.windows), WorkspaceCount: 1, FocusedWindow: &focused, DaemonRunning: true}, nil
}

func (f *fakeClient) ListWindows() (*ipc.WindowsData, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	return &ipc.WindowsData{Windows: f.windows}, nil
}

func (f *fakeClient) ListWorkspaces() (*ipc.WorkspacesData, error) {
	return &ipc.WorkspacesData{Workspaces: []ipc.WorkspaceInfo{
		{ID: 0, Tags: []string{"1"}, Focused: true, Usable: ipc.Rect{Y: 24, Width: 1920, Height: 1056}},
	}}, nil
}

func (f *fakeClient) ListLayouts() (*ipc.LayoutsData, error) {
	return &ipc.LayoutsData{Layouts: []string{"columns", "grid"}, DefaultLayout: "grid", ActiveLayout: f.active}, nil
}

func (f *fakeClient) ApplyLayout(name string) error {
	if name == "missing" {
		return errors.New(`daemon error: layout "missing" not found`)
	}
	f.applied = append(f.applied, name)
	f.active = name
	return nil
}

func (f *fakeClient) Reload() error {
	if f.failWith != nil {
		return f.failWith
	}
	f.reloads++
	f.active = "grid"
	return nil
}

func newTestServer(client *fakeClient) *Server {
	return NewServer(client, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func sampleWindows() []ipc.WindowInfo {
	return []ipc.WindowInfo{
		{Handle: 1, Name: "xterm", Type: "normal", Tags: []string{"1"}, Visible: true},
		{Handle: 2, Name: "editor", Type: "normal", Tags: []string{"2"}, Visible: false},
		{Handle: 3, Name: "bar", Type: "dock", Visible: true},
	}
}

func TestHandleGetStatus(t *testing.T) {
	s := newTestServer(&fakeClient{windows: sampleWindows(), active: "columns"})

	_, out, err := s.handleGetStatus(context.Background(), nil, GetStatusInput{})
	if err != nil {
		t.Fatalf("handleGetStatus() error: %v", err)
	}
	if out.ActiveLayout != "columns" || out.WindowCount != 3 {
		t.Fatalf("unexpected status: %+v", out)
	}
	if out.FocusedWindow == nil || *out.FocusedWindow != 42 {
		t.Fatalf("focused window = %v, want 42", out.FocusedWindow)
	}
}

func TestHandleListWindows_Filters(t *testing.T) {
	tests := []struct {
		name string
		args ListWindowsInput
		want []uint32
	}{
		{"docks skipped by default", ListWindowsInput{}, []uint32{1, 2}},
		{"include docks", ListWindowsInput{IncludeDocks: true}, []uint32{1, 2, 3}},
		{"visible only", ListWindowsInput{VisibleOnly: true}, []uint32{1}},
		{"by tag", ListWindowsInput{Tag: "2"}, []uint32{2}},
		{"unknown tag", ListWindowsInput{Tag: "9"}, nil},
	}

	s := newTestServer(&fakeClient{windows: sampleWindows()})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, out, err := s.handleListWindows(context.Background(), nil, tt.args)
			if err != nil {
				t.Fatalf("handleListWindows() error: %v", err)
			}
			var got []uint32
			for _, w := range out.Windows {
				got = append(got, w.Handle)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("handles = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("handles = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestHandleListWorkspaces(t *testing.T) {
	s := newTestServer(&fakeClient{})

	_, out, err := s.handleListWorkspaces(context.Background(), nil, ListWorkspacesInput{})
	if err != nil {
		t.Fatalf("handleListWorkspaces() error: %v", err)
	}
	if len(out.Workspaces) != 1 || out.Workspaces[0].Usable.Y != 24 {
		t.Fatalf("unexpected workspaces: %+v", out.Workspaces)
	}
}

func TestHandleApplyLayout(t *testing.T) {
	client := &fakeClient{active: "grid"}
	s := newTestServer(client)

	_, out, err := s.handleApplyLayout(context.Background(), nil, ApplyLayoutInput{Layout: "columns"})
	if err != nil {
		t.Fatalf("handleApplyLayout() error: %v", err)
	}
	if out.ActiveLayout != "columns" {
		t.Fatalf("active layout = %q, want columns", out.ActiveLayout)
	}

	if _, _, err := s.handleApplyLayout(context.Background(), nil, ApplyLayoutInput{}); err == nil {
		t.Fatal("expected error for empty layout name")
	}
	_, _, err = s.handleApplyLayout(context.Background(), nil, ApplyLayoutInput{Layout: "missing"})
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected not found error, got %v", err)
	}
	if len(client.applied) != 1 {
		t.Fatalf("applied = %v, want [columns]", client.applied)
	}

	_, layouts, err := s.handleListLayouts(context.Background(), nil, ListLayoutsInput{})
	if err != nil {
		t.Fatalf("handleListLayouts() error: %v", err)
	}
	if layouts.ActiveLayout != "columns" || layouts.DefaultLayout != "grid" {
		t.Fatalf("unexpected layouts: %+v", layouts)
	}
}

func TestHandleReloadConfig(t *testing.T) {
	client := &fakeClient{active: "columns"}
	s := newTestServer(client)

	_, out, err := s.handleReloadConfig(context.Background(), nil, ReloadConfigInput{})
	if err != nil {
		t.Fatalf("handleReloadConfig() error: %v", err)
	}
	if !out.Reloaded || out.ActiveLayout != "grid" || client.reloads != 1 {
		t.Fatalf("unexpected reload result: %+v (reloads=%d)", out, client.reloads)
	}

	client.failWith = errors.New("daemon error: bad yaml")
	if _, _, err := s.handleReloadConfig(context.Background(), nil, ReloadConfigInput{}); err == nil {
		t.Fatal("expected reload failure")
	}
}

func TestHandlersPropagateDaemonErrors(t *testing.T) {
	s := newTestServer(&fakeClient{failWith: errors.New("is the daemon running?")})

	if _, _, err := s.handleGetStatus(context.Background(), nil, GetStatusInput{}); err == nil {
		t.Fatal("expected status error")
	}
	if _, _, err := s.handleListWindows(context.Background(), nil, ListWindowsInput{}); err == nil {
		t.Fatal("expected list_windows error")
	}
}
