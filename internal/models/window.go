package models

import (
	"slices"

	"github.com/1broseidon/tagtile/internal/geometry"
)

// WindowHandle is the display server's identifier for a window.
type WindowHandle uint32

// WindowType classifies a window and drives its placement policy.
type WindowType string

const (
	WindowTypeNormal  WindowType = "normal"
	WindowTypeDialog  WindowType = "dialog"
	WindowTypeDock    WindowType = "dock"
	WindowTypeSplash  WindowType = "splash"
	WindowTypeUtility WindowType = "utility"
	WindowTypeToolbar WindowType = "toolbar"
	WindowTypeMenu    WindowType = "menu"
	WindowTypeDesktop WindowType = "desktop"
)

// Window is a managed top-level window.
type Window struct {
	Handle     WindowHandle
	Transient  *WindowHandle
	Type       WindowType
	Name       string
	Tags       []string
	NeverFocus bool
	Visible    bool
	Border     int
	Margin     int

	// Floating overrides Normal while the window is in floating mode.
	Floating *geometry.XYHW
	// Normal is the geometry assigned by the tiling layout.
	Normal geometry.XYHW

	isFloating bool
}

// NewWindow returns a normal, tiled window with the given handle.
func NewWindow(handle WindowHandle, name string) Window {
	return Window{
		Handle: handle,
		Type:   WindowTypeNormal,
		Name:   name,
		Normal: geometry.DefaultBuilder().Build(),
	}
}

// IsFloating reports whether the window is positioned outside the tiling layout.
func (w *Window) IsFloating() bool {
	return w.isFloating
}

// SetFloating toggles floating mode. It does not touch the floating geometry.
func (w *Window) SetFloating(v bool) {
	w.isFloating = v
}

// HasTag reports whether the window carries tag.
func (w *Window) HasTag(tag string) bool {
	return slices.Contains(w.Tags, tag)
}

// UpdateForTheme applies border and margin from the theme. Only normal
// windows are decorated.
func (w *Window) UpdateForTheme(theme ThemeSetting) {
	if w.Type == WindowTypeNormal {
		w.Border = theme.BorderWidth
		w.Margin = theme.Margin
		return
	}
	w.Border = 0
	w.Margin = 0
}

func (w *Window) effectiveFloating() (geometry.XYHW, bool) {
	if w.isFloating && w.Floating != nil {
		return *w.Floating, true
	}
	return geometry.XYHW{}, false
}

// X returns the effective left edge.
func (w *Window) X() int {
	if f, ok := w.effectiveFloating(); ok {
		return f.X
	}
	return w.Normal.X + w.Margin
}

// Y returns the effective top edge.
func (w *Window) Y() int {
	if f, ok := w.effectiveFloating(); ok {
		return f.Y
	}
	return w.Normal.Y + w.Margin
}

// Width returns the effective width.
func (w *Window) Width() int {
	if f, ok := w.effectiveFloating(); ok {
		return f.W
	}
	return w.Normal.W - 2*w.Margin
}

// Height returns the effective height.
func (w *Window) Height() int {
	if f, ok := w.effectiveFloating(); ok {
		return f.H
	}
	return w.Normal.H - 2*w.Margin
}

// Geometry returns the effective rectangle used when the window is drawn.
func (w *Window) Geometry() geometry.XYHW {
	if f, ok := w.effectiveFloating(); ok {
		return f
	}
	g := w.Normal
	g.X, g.Y = w.X(), w.Y()
	g.W, g.H = w.Width(), w.Height()
	return g
}

// Clone returns a deep copy that shares no memory with w.
func (w Window) Clone() Window {
	c := w
	c.Tags = slices.Clone(w.Tags)
	if w.Transient != nil {
		t := *w.Transient
		c.Transient = &t
	}
	if w.Floating != nil {
		f := *w.Floating
		c.Floating = &f
	}
	return c
}
