package models

import "fmt"

// ActionKind identifies a DisplayAction variant.
type ActionKind string

const (
	ActionAddedWindow     ActionKind = "added_window"
	ActionSetWindowTags   ActionKind = "set_window_tags"
	ActionMoveToTop       ActionKind = "move_to_top"
	ActionWindowTakeFocus ActionKind = "window_take_focus"
	ActionUnfocus         ActionKind = "unfocus"
)

// DisplayAction is a command for the display server integration.
// Handle is unused by Unfocus; Tag is only set for SetWindowTags.
type DisplayAction struct {
	Kind   ActionKind
	Handle WindowHandle
	Tag    string
}

// AddedWindow tells the display server the window is now managed.
func AddedWindow(h WindowHandle) DisplayAction {
	return DisplayAction{Kind: ActionAddedWindow, Handle: h}
}

// SetWindowTags tells the display server which tag (desktop) holds the window.
func SetWindowTags(h WindowHandle, tag string) DisplayAction {
	return DisplayAction{Kind: ActionSetWindowTags, Handle: h, Tag: tag}
}

// MoveToTop raises the window to the top of the stacking order.
func MoveToTop(h WindowHandle) DisplayAction {
	return DisplayAction{Kind: ActionMoveToTop, Handle: h}
}

// WindowTakeFocus gives input focus to the window.
func WindowTakeFocus(h WindowHandle) DisplayAction {
	return DisplayAction{Kind: ActionWindowTakeFocus, Handle: h}
}

// Unfocus clears input focus.
func Unfocus() DisplayAction {
	return DisplayAction{Kind: ActionUnfocus}
}

func (a DisplayAction) String() string {
	switch a.Kind {
	case ActionUnfocus:
		return string(a.Kind)
	case ActionSetWindowTags:
		return fmt.Sprintf("%s(%d, %q)", a.Kind, a.Handle, a.Tag)
	default:
		return fmt.Sprintf("%s(%d)", a.Kind, a.Handle)
	}
}

// ActionQueue is the FIFO outbox from the core to the display server.
// The core only appends; the consumer drains in order.
type ActionQueue struct {
	actions []DisplayAction
}

// Push appends an action.
func (q *ActionQueue) Push(a DisplayAction) {
	q.actions = append(q.actions, a)
}

// Len returns the number of pending actions.
func (q *ActionQueue) Len() int {
	return len(q.actions)
}

// Snapshot returns a copy of the pending actions without consuming them.
func (q *ActionQueue) Snapshot() []DisplayAction {
	out := make([]DisplayAction, len(q.actions))
	copy(out, q.actions)
	return out
}

// Drain removes and returns every pending action in enqueue order.
func (q *ActionQueue) Drain() []DisplayAction {
	out := q.actions
	q.actions = nil
	return out
}
