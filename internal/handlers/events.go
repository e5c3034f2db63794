package handlers

import "github.com/1broseidon/tagtile/internal/models"

// Event is a window lifecycle notification from the display server.
type Event interface {
	isEvent()
}

// CreateEvent reports a window asking to be managed.
type CreateEvent struct {
	Window models.Window
}

// DestroyEvent reports a window that no longer exists.
type DestroyEvent struct {
	Handle models.WindowHandle
}

// ChangeEvent reports a property or geometry change on a window.
type ChangeEvent struct {
	Change models.WindowChange
}

func (CreateEvent) isEvent()  {}
func (DestroyEvent) isEvent() {}
func (ChangeEvent) isEvent()  {}

// Process routes an event to its handler and reports whether a render pass
// is needed.
func Process(m *models.Manager, ev Event) bool {
	switch e := ev.(type) {
	case CreateEvent:
		return Created(m, e.Window)
	case DestroyEvent:
		return Destroyed(m, e.Handle)
	case ChangeEvent:
		return Changed(m, e.Change)
	default:
		return false
	}
}
