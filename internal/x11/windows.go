package x11

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// ClientEventMask is selected on every managed window.
const ClientEventMask = xproto.EventMaskPropertyChange | xproto.EventMaskStructureNotify

// WindowInfo is what the window manager reads from a client when it asks to
// be mapped.
type WindowInfo struct {
	ID    xproto.Window
	Name  string
	Types []string
	// Transient is the WM_TRANSIENT_FOR parent, or 0.
	Transient  xproto.Window
	NeverFocus bool
	Rect
	MinWidth  int
	MinHeight int
	MaxWidth  int
	MaxHeight int
	// Strut is nil unless the client reserves screen space.
	Strut *ewmh.WmStrutPartial
}

// ReadWindow collects geometry, type, transient parent, size hints, input
// hint and struts. Only a failed geometry query is an error; missing
// properties are left at their zero value.
func (c *Connection) ReadWindow(id xproto.Window) (WindowInfo, error) {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(id)).Reply()
	if err != nil {
		return WindowInfo{}, fmt.Errorf("failed to get geometry of window %d: %w", id, err)
	}

	info := WindowInfo{
		ID:   id,
		Name: c.WindowTitle(id),
		Rect: Rect{
			X:      int(geom.X),
			Y:      int(geom.Y),
			Width:  int(geom.Width),
			Height: int(geom.Height),
		},
	}

	if types, err := ewmh.WmWindowTypeGet(c.XUtil, id); err == nil {
		info.Types = types
	}
	info.Transient = c.TransientFor(id)

	if hints, err := icccm.WmNormalHintsGet(c.XUtil, id); err == nil {
		if hints.Flags&icccm.SizeHintPMinSize > 0 {
			info.MinWidth = int(hints.MinWidth)
			info.MinHeight = int(hints.MinHeight)
		}
		if hints.Flags&icccm.SizeHintPMaxSize > 0 {
			info.MaxWidth = int(hints.MaxWidth)
			info.MaxHeight = int(hints.MaxHeight)
		}
	}

	if wmHints, err := icccm.WmHintsGet(c.XUtil, id); err == nil && wmHints.Flags&icccm.HintInput > 0 {
		info.NeverFocus = wmHints.Input == 0
	}

	info.Strut = c.Strut(id)

	return info, nil
}

// Strut returns the space a client reserves at the screen edges, or nil.
func (c *Connection) Strut(id xproto.Window) *ewmh.WmStrutPartial {
	if sp, err := ewmh.WmStrutPartialGet(c.XUtil, id); err == nil {
		return sp
	}

	// Some docks only set _NET_WM_STRUT (no partial ranges).
	s, err := ewmh.WmStrutGet(c.XUtil, id)
	if err != nil {
		return nil
	}
	root, err := c.RootGeometry()
	if err != nil {
		return nil
	}
	return FullStrut(s, root.Width, root.Height)
}

// TransientFor returns the WM_TRANSIENT_FOR parent of id, or 0.
func (c *Connection) TransientFor(id xproto.Window) xproto.Window {
	parent, err := icccm.WmTransientForGet(c.XUtil, id)
	if err != nil || parent == id {
		return 0
	}
	return parent
}

// WindowTypes returns _NET_WM_WINDOW_TYPE, or nil when unset.
func (c *Connection) WindowTypes(id xproto.Window) []string {
	types, err := ewmh.WmWindowTypeGet(c.XUtil, id)
	if err != nil {
		return nil
	}
	return types
}

// WindowTitle prefers _NET_WM_NAME and falls back to WM_NAME.
func (c *Connection) WindowTitle(id xproto.Window) string {
	title, err := ewmh.WmNameGet(c.XUtil, id)
	if err == nil {
		title = strings.TrimSpace(title)
		if title != "" {
			return title
		}
	}

	title, err = icccm.WmNameGet(c.XUtil, id)
	if err == nil {
		return strings.TrimSpace(title)
	}
	return ""
}

// ManageableChildren lists the root's children that a window manager
// starting late should adopt: viewable and not override-redirect.
func (c *Connection) ManageableChildren() ([]xproto.Window, error) {
	tree, err := xproto.QueryTree(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to query window tree: %w", err)
	}

	var out []xproto.Window
	for _, child := range tree.Children {
		if c.check != nil && child == c.check.Id {
			continue
		}
		attrs, err := xproto.GetWindowAttributes(c.XUtil.Conn(), child).Reply()
		if err != nil || attrs.OverrideRedirect || attrs.MapState != xproto.MapStateViewable {
			continue
		}
		out = append(out, child)
	}
	return out, nil
}

// Exists reports whether the server still knows the window.
func (c *Connection) Exists(id xproto.Window) bool {
	_, err := xproto.GetWindowAttributes(c.XUtil.Conn(), id).Reply()
	return err == nil
}

// SelectClientEvents subscribes to property and structure changes of id.
func (c *Connection) SelectClientEvents(id xproto.Window) error {
	return xwindow.New(c.XUtil, id).Listen(ClientEventMask)
}

// Map maps a window.
func (c *Connection) Map(id xproto.Window) {
	xwindow.New(c.XUtil, id).Map()
}

// Unmap unmaps a window.
func (c *Connection) Unmap(id xproto.Window) {
	xwindow.New(c.XUtil, id).Unmap()
}

// Raise puts the window on top of its siblings.
func (c *Connection) Raise(id xproto.Window) {
	xwindow.New(c.XUtil, id).Stack(xproto.StackModeAbove)
}

// MoveResizeWindow moves and resizes a window to the specified geometry and
// sets its border. The window manager owns the geometry, so no EWMH request
// is involved.
func (c *Connection) MoveResizeWindow(id xproto.Window, r Rect, border int) error {
	return xproto.ConfigureWindowChecked(
		c.XUtil.Conn(),
		id,
		xproto.ConfigWindowX|xproto.ConfigWindowY|xproto.ConfigWindowWidth|xproto.ConfigWindowHeight|xproto.ConfigWindowBorderWidth,
		[]uint32{
			uint32(int32(r.X)),
			uint32(int32(r.Y)),
			uint32(max(r.Width, 1)),
			uint32(max(r.Height, 1)),
			uint32(max(border, 0)),
		},
	).Check()
}

// SetBorderColor sets the border pixel of a window.
func (c *Connection) SetBorderColor(id xproto.Window, pixel uint32) {
	xproto.ChangeWindowAttributes(c.XUtil.Conn(), id, xproto.CwBorderPixel, []uint32{pixel})
}

// Focus gives the window input focus and records it as _NET_ACTIVE_WINDOW.
func (c *Connection) Focus(id xproto.Window) error {
	xwindow.New(c.XUtil, id).Focus()
	return ewmh.ActiveWindowSet(c.XUtil, id)
}

// Unfocus returns input focus to the root and clears _NET_ACTIVE_WINDOW.
func (c *Connection) Unfocus() error {
	xproto.SetInputFocus(c.XUtil.Conn(), xproto.InputFocusPointerRoot, c.Root, xproto.TimeCurrentTime)
	return ewmh.ActiveWindowSet(c.XUtil, 0)
}

// ParseColor converts "#rrggbb" into a 24-bit pixel value.
func ParseColor(s string) (uint32, error) {
	hex, ok := strings.CutPrefix(s, "#")
	if !ok || len(hex) != 6 {
		return 0, fmt.Errorf("invalid color %q: expected #rrggbb", s)
	}
	pixel, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return uint32(pixel), nil
}
