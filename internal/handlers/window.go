// Package handlers applies window lifecycle events from the display server to
// a models.Manager and queues the display actions they require.
//
// Every handler returns whether a layout/render pass is warranted.
package handlers

import (
	"slices"

	"github.com/1broseidon/tagtile/internal/geometry"
	"github.com/1broseidon/tagtile/internal/models"
)

// Created starts managing a new window. A handle that is already managed is
// ignored.
func Created(m *models.Manager, w models.Window) bool {
	if _, ok := FindWindow(m, w.Handle); ok {
		return false
	}

	window := w.Clone()
	ws := m.FocusedWorkspace()
	if ws != nil {
		window.Tags = slices.Clone(ws.Tags)
	} else if len(m.Tags) > 0 {
		window.Tags = []string{m.Tags[0]}
	}

	if window.Type == models.WindowTypeDialog {
		if ws != nil {
			center := ws.CenterHalfed()
			window.Floating = &center
		}
		window.SetFloating(true)
	}

	if window.Transient != nil {
		window.SetFloating(true)
		if window.Floating == nil {
			f := geometry.DefaultBuilder().Build()
			window.Floating = &f
		}
		if parent, ok := FindWindow(m, *window.Transient); ok {
			center := calcCenterOfParent(window, *parent)
			window.Floating = &center
		}
	}

	window.UpdateForTheme(m.Theme)

	if window.IsFloating() && window.Floating == nil {
		f := window.Normal
		window.Floating = &f
	}

	m.Windows = append(m.Windows, window)

	m.Actions.Push(models.AddedWindow(window.Handle))
	if len(window.Tags) > 0 {
		m.Actions.Push(models.SetWindowTags(window.Handle, window.Tags[0]))
	}
	m.Actions.Push(models.MoveToTop(window.Handle))

	// One pixel in so the point lands inside the window, not on its border.
	FocusWindow(m, window, window.X()+1, window.Y()+1)

	if cmd := m.Theme.OnNewWindowCmd; cmd != "" {
		spawnHook(cmd)
	}

	return true
}

// Destroyed stops managing every window with the given handle. It reports
// whether anything was removed.
func Destroyed(m *models.Manager, handle models.WindowHandle) bool {
	before := len(m.Windows)
	kept := make([]models.Window, 0, before)
	for _, w := range m.Windows {
		if w.Handle != handle {
			kept = append(kept, w)
		}
	}
	m.Windows = kept

	FocusLastWindowThatExists(m)
	UpdateWorkspaceAvoidList(m)

	return before != len(m.Windows)
}

// Changed applies a partial update to the first window matching its handle.
//
// Dock changes never request a render: the avoid lists are recomputed
// instead, and the next render picks them up. Rendering on every dock change
// can make the dock report another change, forever.
func Changed(m *models.Manager, change models.WindowChange) bool {
	w, ok := FindWindow(m, change.Handle)
	if !ok {
		return false
	}

	changed := change.Update(w)
	if w.Type == models.WindowTypeDock {
		UpdateWorkspaceAvoidList(m)
		return false
	}
	return changed
}

// calcCenterOfParent returns window's floating geometry centered on parent.
// A window with no size yet gets half of the parent's.
func calcCenterOfParent(window models.Window, parent models.Window) geometry.XYHW {
	xyhw := geometry.DefaultBuilder().Build()
	if window.Floating != nil {
		xyhw = *window.Floating
	}

	if xyhw.H == 0 || xyhw.W == 0 {
		xyhw.SetH(parent.Height() / 2)
		xyhw.SetW(parent.Width() / 2)
	}

	xyhw.SetX(parent.X() + parent.Width()/2 - xyhw.W/2)
	xyhw.SetY(parent.Y() + parent.Height()/2 - xyhw.H/2)
	return xyhw
}

// FindWindow returns the first managed window with the given handle. The
// pointer is only valid until the window list is next modified.
func FindWindow(m *models.Manager, handle models.WindowHandle) (*models.Window, bool) {
	for i := range m.Windows {
		if m.Windows[i].Handle == handle {
			return &m.Windows[i], true
		}
	}
	return nil, false
}

// UpdateWorkspaceAvoidList rebuilds every workspace's avoid list from the
// floating geometry of the dock windows.
func UpdateWorkspaceAvoidList(m *models.Manager) {
	var avoid []geometry.XYHW
	for _, w := range m.Windows {
		if w.Type == models.WindowTypeDock && w.Floating != nil {
			avoid = append(avoid, *w.Floating)
		}
	}
	for i := range m.Workspaces {
		m.Workspaces[i].Avoid = slices.Clone(avoid)
		m.Workspaces[i].UpdateAvoidedAreas()
	}
}
