package platform

import "github.com/BurntSushi/xgb/xproto"

// unmapTracker tells the window manager's own unmaps from a client's. X
// reports both with the same UnmapNotify, so each unmap the manager issues is
// counted and the matching notification is consumed.
//
// Unmapping a window that is not mapped produces no notification, so only
// windows known to be mapped are counted.
type unmapTracker struct {
	mapped  map[xproto.Window]bool
	pending map[xproto.Window]int
}

func newUnmapTracker() *unmapTracker {
	return &unmapTracker{
		mapped:  make(map[xproto.Window]bool),
		pending: make(map[xproto.Window]int),
	}
}

// markMapped records that the manager mapped id.
func (t *unmapTracker) markMapped(id xproto.Window) {
	t.mapped[id] = true
}

// expect reports whether an unmap request for id is needed, and if so
// counts the notification it will produce.
func (t *unmapTracker) expect(id xproto.Window) bool {
	if !t.mapped[id] {
		return false
	}
	t.mapped[id] = false
	t.pending[id]++
	return true
}

// consume matches an UnmapNotify for id against the expected ones. It
// returns true when the client unmapped the window itself.
func (t *unmapTracker) consume(id xproto.Window) bool {
	if n := t.pending[id]; n > 0 {
		if n == 1 {
			delete(t.pending, id)
		} else {
			t.pending[id] = n - 1
		}
		return false
	}
	t.mapped[id] = false
	return true
}

func (t *unmapTracker) forget(id xproto.Window) {
	delete(t.mapped, id)
	delete(t.pending, id)
}
