package platform

import (
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"

	"github.com/1broseidon/tagtile/internal/geometry"
	"github.com/1broseidon/tagtile/internal/models"
	"github.com/1broseidon/tagtile/internal/x11"
)

var ewmhWindowTypes = map[string]models.WindowType{
	"_NET_WM_WINDOW_TYPE_NORMAL":  models.WindowTypeNormal,
	"_NET_WM_WINDOW_TYPE_DIALOG":  models.WindowTypeDialog,
	"_NET_WM_WINDOW_TYPE_DOCK":    models.WindowTypeDock,
	"_NET_WM_WINDOW_TYPE_SPLASH":  models.WindowTypeSplash,
	"_NET_WM_WINDOW_TYPE_UTILITY": models.WindowTypeUtility,
	"_NET_WM_WINDOW_TYPE_TOOLBAR": models.WindowTypeToolbar,
	"_NET_WM_WINDOW_TYPE_MENU":    models.WindowTypeMenu,
	"_NET_WM_WINDOW_TYPE_DESKTOP": models.WindowTypeDesktop,
}

// WindowTypeOf maps _NET_WM_WINDOW_TYPE to a window type. The list is in
// order of preference; the first known entry wins. Unknown or missing types
// are normal windows.
func WindowTypeOf(types []string) models.WindowType {
	for _, t := range types {
		if wt, ok := ewmhWindowTypes[t]; ok {
			return wt
		}
	}
	return models.WindowTypeNormal
}

// floatsByType lists the types placed at their requested geometry instead
// of being tiled.
func floatsByType(t models.WindowType) bool {
	switch t {
	case models.WindowTypeSplash, models.WindowTypeUtility, models.WindowTypeToolbar, models.WindowTypeMenu:
		return true
	}
	return false
}

// WindowFromInfo builds the window handed to the Created handler.
//
// A dock's floating geometry is the area its strut reserves, or its own
// geometry without a strut. Splash, utility, toolbar and menu windows float
// at the geometry they asked for.
func WindowFromInfo(info x11.WindowInfo, root x11.Rect) models.Window {
	w := models.NewWindow(models.WindowHandle(info.ID), info.Name)
	w.Type = WindowTypeOf(info.Types)
	w.NeverFocus = info.NeverFocus
	if info.Transient != 0 {
		parent := models.WindowHandle(info.Transient)
		w.Transient = &parent
	}

	b := geometry.DefaultBuilder()
	b.X, b.Y, b.W, b.H = info.X, info.Y, info.Width, info.Height
	if info.MinWidth > 0 {
		b.MinW = info.MinWidth
	}
	if info.MinHeight > 0 {
		b.MinH = info.MinHeight
	}
	if info.MaxWidth > 0 {
		b.MaxW = info.MaxWidth
	}
	if info.MaxHeight > 0 {
		b.MaxH = info.MaxHeight
	}
	w.Normal = b.Build()

	switch {
	case w.Type == models.WindowTypeDock:
		f := w.Normal
		if area, ok := x11.StrutArea(info.Strut, root.Width, root.Height); ok {
			f = rectToXYHW(area)
		}
		w.Floating = &f
	case floatsByType(w.Type):
		f := w.Normal
		w.Floating = &f
		w.SetFloating(true)
	}

	return w
}

// TransientChange reports a new WM_TRANSIENT_FOR value.
func TransientChange(id xproto.Window, parent xproto.Window) models.WindowChange {
	var next *models.WindowHandle
	if parent != 0 {
		h := models.WindowHandle(parent)
		next = &h
	}
	return models.WindowChange{Handle: models.WindowHandle(id), Transient: &next}
}

// NameChange reports a new title.
func NameChange(id xproto.Window, name string) models.WindowChange {
	return models.WindowChange{Handle: models.WindowHandle(id), Name: &name}
}

// TypeChange reports a new window type.
func TypeChange(id xproto.Window, types []string) models.WindowChange {
	t := WindowTypeOf(types)
	return models.WindowChange{Handle: models.WindowHandle(id), Type: &t}
}

// StrutChange moves a dock's floating geometry to the area its strut
// reserves. ok is false when the strut reserves nothing.
func StrutChange(id xproto.Window, sp *ewmh.WmStrutPartial, root x11.Rect) (models.WindowChange, bool) {
	area, ok := x11.StrutArea(sp, root.Width, root.Height)
	if !ok {
		return models.WindowChange{}, false
	}
	return models.WindowChange{
		Handle:   models.WindowHandle(id),
		Floating: xyhwChange(area.X, area.Y, area.Width, area.Height),
	}, true
}

// ConfigureChange turns the fields a configure request sets into a floating
// geometry change.
func ConfigureChange(ev *xproto.ConfigureRequestEvent) models.WindowChange {
	c := &models.XYHWChange{}
	m := ev.ValueMask
	if m&xproto.ConfigWindowX > 0 {
		c.X = ptr(int(ev.X))
	}
	if m&xproto.ConfigWindowY > 0 {
		c.Y = ptr(int(ev.Y))
	}
	if m&xproto.ConfigWindowWidth > 0 {
		c.W = ptr(int(ev.Width))
	}
	if m&xproto.ConfigWindowHeight > 0 {
		c.H = ptr(int(ev.Height))
	}
	return models.WindowChange{Handle: models.WindowHandle(ev.Window), Floating: c}
}

// MonitorsToWorkspaces converts monitor rectangles into workspace areas.
func MonitorsToWorkspaces(monitors []x11.Monitor) []geometry.XYHW {
	out := make([]geometry.XYHW, 0, len(monitors))
	for _, m := range monitors {
		out = append(out, rectToXYHW(m.Rect))
	}
	return out
}

// RectOf returns the rectangle a window is drawn at.
func RectOf(w models.Window) x11.Rect {
	g := w.Geometry()
	return x11.Rect{X: g.X, Y: g.Y, Width: g.W, Height: g.H}
}

func rectToXYHW(r x11.Rect) geometry.XYHW {
	return geometry.New(r.X, r.Y, r.Width, r.Height)
}

func xyhwChange(x, y, w, h int) *models.XYHWChange {
	return &models.XYHWChange{X: &x, Y: &y, W: &w, H: &h}
}

func ptr[T any](v T) *T {
	return &v
}
