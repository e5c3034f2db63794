package daemon

import (
	"context"
	"slices"
	"sort"
	"time"

	"github.com/1broseidon/tagtile/internal/config"
	"github.com/1broseidon/tagtile/internal/geometry"
	"github.com/1broseidon/tagtile/internal/ipc"
	"github.com/1broseidon/tagtile/internal/models"
)

// ConfigLoader reads the configuration from its source.
type ConfigLoader func() (*config.Config, error)

// StateService answers IPC queries from the loop's state.
type StateService struct {
	loop *Loop
	load ConfigLoader
}

var _ ipc.StateProvider = (*StateService)(nil)

// NewStateService serves loop's state over IPC. load is used by RELOAD.
func NewStateService(loop *Loop, load ConfigLoader) *StateService {
	return &StateService{loop: loop, load: load}
}

// Status implements ipc.StateProvider.
func (s *StateService) Status(ctx context.Context) (ipc.StatusData, error) {
	return query(ctx, s.loop, func() (ipc.StatusData, error) {
		m := s.loop.manager
		status := ipc.StatusData{
			ActiveLayout:   s.loop.layoutName,
			WindowCount:    len(m.Windows),
			WorkspaceCount: len(m.Workspaces),
			PendingActions: m.Actions.Len(),
			UptimeSeconds:  int64(time.Since(s.loop.started).Seconds()),
			DaemonRunning:  true,
		}
		if w := m.FocusedWindow(); w != nil {
			h := uint32(w.Handle)
			status.FocusedWindow = &h
		}
		if ws := m.FocusedWorkspace(); ws != nil {
			id := ws.ID
			status.FocusedWorkspace = &id
		}
		return status, nil
	})
}

// Windows implements ipc.StateProvider.
func (s *StateService) Windows(ctx context.Context) ([]ipc.WindowInfo, error) {
	return query(ctx, s.loop, func() ([]ipc.WindowInfo, error) {
		m := s.loop.manager
		var focused models.WindowHandle
		if w := m.FocusedWindow(); w != nil {
			focused = w.Handle
		}
		out := make([]ipc.WindowInfo, 0, len(m.Windows))
		for i := range m.Windows {
			out = append(out, windowInfo(&m.Windows[i], focused))
		}
		return out, nil
	})
}

func windowInfo(w *models.Window, focused models.WindowHandle) ipc.WindowInfo {
	info := ipc.WindowInfo{
		Handle:   uint32(w.Handle),
		Name:     w.Name,
		Type:     string(w.Type),
		Tags:     slices.Clone(w.Tags),
		Floating: w.IsFloating(),
		Visible:  w.Visible,
		Focused:  w.Handle == focused,
		Geometry: toRect(w.Geometry()),
	}
	if w.Transient != nil {
		parent := uint32(*w.Transient)
		info.Transient = &parent
	}
	return info
}

// Workspaces implements ipc.StateProvider.
func (s *StateService) Workspaces(ctx context.Context) ([]ipc.WorkspaceInfo, error) {
	return query(ctx, s.loop, func() ([]ipc.WorkspaceInfo, error) {
		m := s.loop.manager
		focused := -1
		if ws := m.FocusedWorkspace(); ws != nil {
			focused = ws.ID
		}
		out := make([]ipc.WorkspaceInfo, 0, len(m.Workspaces))
		for _, ws := range m.Workspaces {
			info := ipc.WorkspaceInfo{
				ID:      ws.ID,
				Tags:    slices.Clone(ws.Tags),
				Focused: ws.ID == focused,
				Area:    toRect(ws.XYHW),
				Usable:  toRect(ws.XYHWAvoided),
			}
			for _, a := range ws.Avoid {
				info.Avoid = append(info.Avoid, toRect(a))
			}
			out = append(out, info)
		}
		return out, nil
	})
}

// Layouts implements ipc.StateProvider.
func (s *StateService) Layouts(ctx context.Context) (ipc.LayoutsData, error) {
	return query(ctx, s.loop, func() (ipc.LayoutsData, error) {
		cfg := s.loop.cfg
		names := make([]string, 0, len(cfg.Layouts))
		for name := range cfg.Layouts {
			names = append(names, name)
		}
		sort.Strings(names)
		return ipc.LayoutsData{
			Layouts:       names,
			DefaultLayout: cfg.DefaultLayout,
			ActiveLayout:  s.loop.layoutName,
		}, nil
	})
}

// ApplyLayout implements ipc.StateProvider.
func (s *StateService) ApplyLayout(ctx context.Context, name string) error {
	return s.loop.ApplyLayout(ctx, name)
}

// Reload implements ipc.StateProvider.
func (s *StateService) Reload(ctx context.Context) error {
	cfg, err := s.load()
	if err != nil {
		return err
	}
	return s.loop.Reload(ctx, cfg)
}

func toRect(g geometry.XYHW) ipc.Rect {
	return ipc.Rect{X: g.X, Y: g.Y, Width: g.W, Height: g.H}
}
