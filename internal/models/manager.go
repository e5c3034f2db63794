package models

import "slices"

// historyLimit bounds the focus histories.
const historyLimit = 10

// Manager is the aggregate root for all window manager state.
//
// It has no internal locking: exactly one goroutine may use a Manager at a
// time.
type Manager struct {
	Windows    []Window
	Workspaces []Workspace
	Tags       []string
	Theme      ThemeSetting
	Actions    *ActionQueue

	// Most recent first.
	FocusedWindowHistory    []WindowHandle
	FocusedWorkspaceHistory []int
}

// NewManager returns an empty manager for the given tags and theme.
func NewManager(tags []string, theme ThemeSetting) *Manager {
	return &Manager{
		Tags:    slices.Clone(tags),
		Theme:   theme,
		Actions: &ActionQueue{},
	}
}

// FocusedWorkspace returns the most recently focused workspace that still
// exists, or nil.
func (m *Manager) FocusedWorkspace() *Workspace {
	for _, id := range m.FocusedWorkspaceHistory {
		if ws := m.WorkspaceByID(id); ws != nil {
			return ws
		}
	}
	return nil
}

// FocusedWindow returns the focused window, or nil.
func (m *Manager) FocusedWindow() *Window {
	if len(m.FocusedWindowHistory) == 0 {
		return nil
	}
	handle := m.FocusedWindowHistory[0]
	for i := range m.Windows {
		if m.Windows[i].Handle == handle {
			return &m.Windows[i]
		}
	}
	return nil
}

// WorkspaceByID returns the workspace with the given id, or nil.
func (m *Manager) WorkspaceByID(id int) *Workspace {
	for i := range m.Workspaces {
		if m.Workspaces[i].ID == id {
			return &m.Workspaces[i]
		}
	}
	return nil
}

// PushFocusedWindow records handle as the newest focused window.
func (m *Manager) PushFocusedWindow(handle WindowHandle) {
	m.FocusedWindowHistory = pushFront(m.FocusedWindowHistory, handle)
}

// PushFocusedWorkspace records id as the newest focused workspace.
func (m *Manager) PushFocusedWorkspace(id int) {
	m.FocusedWorkspaceHistory = pushFront(m.FocusedWorkspaceHistory, id)
}

func pushFront[T comparable](history []T, v T) []T {
	out := make([]T, 0, historyLimit)
	out = append(out, v)
	for _, h := range history {
		if len(out) == historyLimit {
			break
		}
		if h != v {
			out = append(out, h)
		}
	}
	return out
}
