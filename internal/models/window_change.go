package models

import "github.com/1broseidon/tagtile/internal/geometry"

// XYHWChange carries the parts of a geometry that changed.
type XYHWChange struct {
	X *int
	Y *int
	W *int
	H *int
}

// apply writes the present fields into g and reports whether any differed.
func (c XYHWChange) apply(g *geometry.XYHW) bool {
	changed := false
	if c.X != nil && g.X != *c.X {
		g.SetX(*c.X)
		changed = true
	}
	if c.Y != nil && g.Y != *c.Y {
		g.SetY(*c.Y)
		changed = true
	}
	if c.W != nil && g.W != *c.W {
		g.SetW(*c.W)
		changed = true
	}
	if c.H != nil && g.H != *c.H {
		g.SetH(*c.H)
		changed = true
	}
	return changed
}

// WindowChange is a partial update for the window identified by Handle.
// Nil fields are left alone.
type WindowChange struct {
	Handle WindowHandle
	// Transient is a pointer to the new parent; a non-nil pointer to nil
	// clears the relation.
	Transient  **WindowHandle
	Name       *string
	NeverFocus *bool
	Type       *WindowType
	Floating   *XYHWChange
}

// Update applies the change to w and reports whether anything changed.
func (c WindowChange) Update(w *Window) bool {
	changed := false

	if c.Transient != nil {
		next := *c.Transient
		if !sameHandle(w.Transient, next) {
			changed = true
		}
		if next == nil {
			w.Transient = nil
		} else {
			h := *next
			w.Transient = &h
		}
	}

	if c.Name != nil {
		if w.Name != *c.Name {
			changed = true
		}
		w.Name = *c.Name
	}

	if c.NeverFocus != nil {
		if w.NeverFocus != *c.NeverFocus {
			changed = true
		}
		w.NeverFocus = *c.NeverFocus
	}

	if c.Floating != nil && (w.IsFloating() || w.Floating != nil) {
		if w.Floating == nil {
			f := w.Normal
			w.Floating = &f
		}
		if c.Floating.apply(w.Floating) {
			changed = true
		}
	}

	if c.Type != nil {
		if w.Type != *c.Type {
			changed = true
		}
		w.Type = *c.Type
		if w.Type == WindowTypeDock {
			w.Border = 0
			w.Margin = 0
		}
	}

	return changed
}

func sameHandle(a, b *WindowHandle) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
