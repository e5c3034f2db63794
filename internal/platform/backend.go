package platform

import (
	"errors"
	"log/slog"

	"github.com/1broseidon/tagtile/internal/geometry"
	"github.com/1broseidon/tagtile/internal/handlers"
	"github.com/1broseidon/tagtile/internal/models"
)

// ErrUnsupported is returned by New on platforms without a display backend.
var ErrUnsupported = errors.New("no display backend for this platform")

// Backend is the display server integration driven by the daemon loop.
//
// Events is read by a single goroutine. Every other method except
// ExistingWindows and Close is called from that same goroutine.
type Backend interface {
	// Events delivers window lifecycle events. It is closed when the
	// connection to the display server ends.
	Events() <-chan handlers.Event
	// Execute performs one queued display action.
	Execute(action models.DisplayAction) error
	// UpdateWindow pushes a window's geometry, border and visibility.
	UpdateWindow(w models.Window) error
	// Configure applies tags and decoration colors after a reload.
	Configure(tags []string, theme models.ThemeSetting) error
	// ExistingWindows lists the handles the display server still knows,
	// among the ones it was asked about. Safe for concurrent use.
	ExistingWindows(handles []models.WindowHandle) ([]models.WindowHandle, error)
	// Workspaces returns one rectangle per monitor.
	Workspaces() ([]geometry.XYHW, error)
	Close()
}

// Options configures New.
type Options struct {
	// Display is the X display name; empty uses $DISPLAY.
	Display string
	Tags    []string
	Theme   models.ThemeSetting
	Logger  *slog.Logger
}
