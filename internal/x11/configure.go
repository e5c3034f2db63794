package x11

import (
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/xevent"
)

// ConfigureValues builds the ConfigureWindow value list for a request in
// the order of its mask bits.
func ConfigureValues(ev *xproto.ConfigureRequestEvent) []uint32 {
	var values []uint32
	m := ev.ValueMask
	if m&xproto.ConfigWindowX > 0 {
		values = append(values, uint32(ev.X))
	}
	if m&xproto.ConfigWindowY > 0 {
		values = append(values, uint32(ev.Y))
	}
	if m&xproto.ConfigWindowWidth > 0 {
		values = append(values, uint32(ev.Width))
	}
	if m&xproto.ConfigWindowHeight > 0 {
		values = append(values, uint32(ev.Height))
	}
	if m&xproto.ConfigWindowBorderWidth > 0 {
		values = append(values, uint32(ev.BorderWidth))
	}
	if m&xproto.ConfigWindowSibling > 0 {
		values = append(values, uint32(ev.Sibling))
	}
	if m&xproto.ConfigWindowStackMode > 0 {
		values = append(values, uint32(ev.StackMode))
	}
	return values
}

// HonorConfigure applies a configure request exactly as the client asked.
func (c *Connection) HonorConfigure(ev xevent.ConfigureRequestEvent) {
	xproto.ConfigureWindow(c.XUtil.Conn(), ev.Window, ev.ValueMask, ConfigureValues(ev.ConfigureRequestEvent))
}

// SendConfigureNotify tells a client its current geometry after a configure
// request was refused or altered.
func (c *Connection) SendConfigureNotify(id xproto.Window, r Rect, border int) {
	ev := xproto.ConfigureNotifyEvent{
		Event:            id,
		Window:           id,
		AboveSibling:     xevent.NoWindow,
		X:                int16(r.X),
		Y:                int16(r.Y),
		Width:            uint16(r.Width),
		Height:           uint16(r.Height),
		BorderWidth:      uint16(border),
		OverrideRedirect: false,
	}
	xproto.SendEvent(c.XUtil.Conn(), false, id, xproto.EventMaskStructureNotify, string(ev.Bytes()))
}
