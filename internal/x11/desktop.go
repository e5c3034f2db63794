package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// SetupDesktops advertises one EWMH desktop per tag and makes the first one
// current.
func (c *Connection) SetupDesktops(names []string) error {
	if err := ewmh.NumberOfDesktopsSet(c.XUtil, uint(len(names))); err != nil {
		return fmt.Errorf("failed to set desktop count: %w", err)
	}
	if err := ewmh.DesktopNamesSet(c.XUtil, names); err != nil {
		return fmt.Errorf("failed to set desktop names: %w", err)
	}
	if err := ewmh.CurrentDesktopSet(c.XUtil, 0); err != nil {
		return fmt.Errorf("failed to set current desktop: %w", err)
	}
	return nil
}

// SetWindowDesktop records the desktop a window is on in _NET_WM_DESKTOP.
// As the window manager we own the property, so it is written directly
// rather than requested through a client message.
func (c *Connection) SetWindowDesktop(id xproto.Window, desktop int) error {
	if err := ewmh.WmDesktopSet(c.XUtil, id, uint(desktop)); err != nil {
		return fmt.Errorf("failed to set desktop of window %d: %w", id, err)
	}
	return nil
}

// SetClientList publishes _NET_CLIENT_LIST.
func (c *Connection) SetClientList(ids []xproto.Window) error {
	return ewmh.ClientListSet(c.XUtil, ids)
}
