package models

import (
	"slices"

	"github.com/1broseidon/tagtile/internal/geometry"
)

// Workspace is one tiled area of the screen (usually a monitor) and the tags
// it currently shows.
type Workspace struct {
	ID   int
	Tags []string
	XYHW geometry.XYHW
	// Avoid holds regions reserved by docks. It is replaced wholesale, never
	// patched.
	Avoid []geometry.XYHW
	// XYHWAvoided is XYHW with every Avoid region trimmed off.
	XYHWAvoided geometry.XYHW
}

// NewWorkspace returns a workspace covering area and showing tags.
func NewWorkspace(id int, tags []string, area geometry.XYHW) Workspace {
	return Workspace{
		ID:          id,
		Tags:        slices.Clone(tags),
		XYHW:        area,
		XYHWAvoided: area,
	}
}

// CenterHalfed returns a rectangle half the workspace's size, centered on it.
func (ws Workspace) CenterHalfed() geometry.XYHW {
	return ws.XYHW.CenterHalfed()
}

// UpdateAvoidedAreas recomputes XYHWAvoided from XYHW and Avoid.
func (ws *Workspace) UpdateAvoidedAreas() {
	area := ws.XYHW
	for _, a := range ws.Avoid {
		area = area.Without(a)
	}
	ws.XYHWAvoided = area
}

// IsDisplaying reports whether the window shares a tag with the workspace.
func (ws Workspace) IsDisplaying(w *Window) bool {
	for _, tag := range w.Tags {
		if slices.Contains(ws.Tags, tag) {
			return true
		}
	}
	return false
}

// ContainsPoint reports whether (x, y) falls inside the workspace.
func (ws Workspace) ContainsPoint(x, y int) bool {
	return ws.XYHW.ContainsPoint(x, y)
}
