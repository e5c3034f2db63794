package handlers

import "github.com/1broseidon/tagtile/internal/models"

// FocusWindow records w as the focused window and focuses the workspace
// under (x, y). Docks and windows that refuse focus are skipped. The display
// side picks the change up from the focus history after the next render.
func FocusWindow(m *models.Manager, w models.Window, x, y int) bool {
	changed := focusWindowByHandle(m, w)
	for _, ws := range m.Workspaces {
		if ws.ContainsPoint(x, y) {
			if FocusWorkspace(m, ws.ID) {
				changed = true
			}
			break
		}
	}
	return changed
}

func focusWindowByHandle(m *models.Manager, w models.Window) bool {
	if w.Type == models.WindowTypeDock || w.NeverFocus {
		return false
	}
	if _, ok := FindWindow(m, w.Handle); !ok {
		return false
	}
	if fw := m.FocusedWindow(); fw != nil && fw.Handle == w.Handle {
		return false
	}
	m.PushFocusedWindow(w.Handle)
	return true
}

// FocusWorkspace makes the workspace with the given id the focused one.
func FocusWorkspace(m *models.Manager, id int) bool {
	if ws := m.FocusedWorkspace(); ws != nil && ws.ID == id {
		return false
	}
	if m.WorkspaceByID(id) == nil {
		return false
	}
	m.PushFocusedWorkspace(id)
	return true
}

// FocusLastWindowThatExists drops handles of windows that are gone from the
// front of the focus history, so the most recently focused survivor becomes
// the focused window. With no survivor the history ends up empty. It
// reports whether the focused window changed.
func FocusLastWindowThatExists(m *models.Manager) bool {
	dropped := false
	for len(m.FocusedWindowHistory) > 0 {
		if _, ok := FindWindow(m, m.FocusedWindowHistory[0]); ok {
			return dropped
		}
		m.FocusedWindowHistory = m.FocusedWindowHistory[1:]
		dropped = true
	}
	m.FocusedWindowHistory = nil
	return dropped
}
