// Package daemon runs the window manager: it feeds display events through
// the handlers, renders the result and executes the queued display actions.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/1broseidon/tagtile/internal/config"
	"github.com/1broseidon/tagtile/internal/geometry"
	"github.com/1broseidon/tagtile/internal/handlers"
	"github.com/1broseidon/tagtile/internal/layout"
	"github.com/1broseidon/tagtile/internal/models"
	"github.com/1broseidon/tagtile/internal/platform"
)

// ErrStopped is returned by requests made after the loop has exited.
var ErrStopped = errors.New("daemon loop stopped")

// request is a closure served on the loop goroutine. It hands its result
// back over a channel of its own; nothing it writes is read by the caller.
type request struct {
	run func()
}

type reply[T any] struct {
	value T
	err   error
}

// Loop owns the window manager state. Only the goroutine running Run touches
// the Manager; everything else goes through Inject or a request.
type Loop struct {
	backend platform.Backend
	logger  *slog.Logger

	manager    *models.Manager
	cfg        *config.Config
	layoutName string
	layout     *config.Layout

	// appliedFocus is the handle the backend last focused; zero means none.
	appliedFocus models.WindowHandle

	injected chan handlers.Event
	requests chan request
	stopped  chan struct{}
	started  time.Time
}

// NewLoop prepares a loop for cfg. It does not talk to the backend until Run.
func NewLoop(backend platform.Backend, cfg *config.Config, logger *slog.Logger) (*Loop, error) {
	if logger == nil {
		logger = slog.Default()
	}
	l, err := cfg.GetDefaultLayout()
	if err != nil {
		return nil, err
	}

	return &Loop{
		backend:    backend,
		logger:     logger,
		manager:    models.NewManager(cfg.Tags, cfg.Theme()),
		cfg:        cfg,
		layoutName: cfg.DefaultLayout,
		layout:     l,
		injected:   make(chan handlers.Event),
		requests:   make(chan request),
		stopped:    make(chan struct{}),
	}, nil
}

// Run builds one workspace per monitor and processes events until ctx is
// cancelled or the backend's event channel closes.
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.stopped)

	areas, err := l.backend.Workspaces()
	if err != nil {
		return fmt.Errorf("failed to read monitors: %w", err)
	}
	if len(areas) == 0 {
		return errors.New("no monitors found")
	}
	l.setWorkspaces(areas)
	l.started = time.Now()

	l.logger.Info("daemon loop started", "workspaces", len(areas), "tags", len(l.manager.Tags), "layout", l.layoutName)

	events := l.backend.Events()
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("daemon loop stopped")
			return nil
		case ev, ok := <-events:
			if !ok {
				l.logger.Info("display connection closed")
				return nil
			}
			l.handle(ev)
		case ev := <-l.injected:
			l.handle(ev)
		case req := <-l.requests:
			req.run()
		}
	}
}

// setWorkspaces gives workspace i the i-th tag and focuses the first one.
// Monitors beyond the tag count get a workspace without tags.
func (l *Loop) setWorkspaces(areas []geometry.XYHW) {
	m := l.manager
	m.Workspaces = m.Workspaces[:0]
	for i, area := range areas {
		var tags []string
		if i < len(m.Tags) {
			tags = []string{m.Tags[i]}
		}
		m.Workspaces = append(m.Workspaces, models.NewWorkspace(i, tags, area))
	}
	handlers.UpdateWorkspaceAvoidList(m)
	handlers.FocusWorkspace(m, 0)
}

func (l *Loop) handle(ev handlers.Event) {
	l.logger.Debug("display event", "event", describe(ev))

	needsRender := handlers.Process(l.manager, ev)
	// Created leaves the avoid lists alone; a new dock must still reserve
	// its space before the first render.
	if c, ok := ev.(handlers.CreateEvent); ok && needsRender && c.Window.Type == models.WindowTypeDock {
		handlers.UpdateWorkspaceAvoidList(l.manager)
	}
	l.flushActions()
	if needsRender {
		l.render()
	}
	l.applyFocus()
}

// flushActions executes queued actions in order. A failed action is logged
// and does not stop the rest.
func (l *Loop) flushActions() {
	for _, action := range l.manager.Actions.Drain() {
		if err := l.backend.Execute(action); err != nil {
			l.logger.Warn("display action failed", "action", action.String(), "error", err)
		}
	}
}

func (l *Loop) render() {
	if err := layout.Arrange(l.manager, l.layout, l.cfg.GapSize); err != nil {
		l.logger.Warn("layout failed", "layout", l.layoutName, "error", err)
	}
	for _, w := range l.manager.Windows {
		if err := l.backend.UpdateWindow(w); err != nil {
			l.logger.Warn("window update failed", "window", w.Handle, "error", err)
		}
	}
}

// applyFocus hands focus to the backend when the focused window differs
// from the one last applied.
func (l *Loop) applyFocus() {
	var want models.WindowHandle
	if w := l.manager.FocusedWindow(); w != nil {
		want = w.Handle
	}
	if want == l.appliedFocus {
		return
	}

	action := models.Unfocus()
	if want != 0 {
		action = models.WindowTakeFocus(want)
	}
	if err := l.backend.Execute(action); err != nil {
		l.logger.Warn("display action failed", "action", action.String(), "error", err)
		return
	}
	l.appliedFocus = want
}

// Inject feeds an event into the loop as if the backend had sent it.
func (l *Loop) Inject(ctx context.Context, ev handlers.Event) error {
	select {
	case l.injected <- ev:
		return nil
	case <-l.stopped:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// query runs fn on the loop goroutine and waits for what it returns. A
// caller whose ctx ends first gets ctx.Err(); fn still runs to completion and
// its reply is dropped into the buffered channel.
func query[T any](ctx context.Context, l *Loop, fn func() (T, error)) (T, error) {
	var zero T
	replies := make(chan reply[T], 1)
	req := request{run: func() {
		v, err := fn()
		replies <- reply[T]{value: v, err: err}
	}}

	select {
	case l.requests <- req:
	case <-l.stopped:
		return zero, ErrStopped
	case <-ctx.Done():
		return zero, ctx.Err()
	}

	select {
	case r := <-replies:
		return r.value, r.err
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// do is query for requests that only report an error.
func (l *Loop) do(ctx context.Context, fn func() error) error {
	_, err := query(ctx, l, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}

// ManagedHandles lists the handles of every managed window.
func (l *Loop) ManagedHandles(ctx context.Context) ([]models.WindowHandle, error) {
	return query(ctx, l, func() ([]models.WindowHandle, error) {
		handles := make([]models.WindowHandle, 0, len(l.manager.Windows))
		for _, w := range l.manager.Windows {
			handles = append(handles, w.Handle)
		}
		return handles, nil
	})
}

// ApplyLayout switches to the named layout and re-tiles.
func (l *Loop) ApplyLayout(ctx context.Context, name string) error {
	return l.do(ctx, func() error {
		next, err := l.cfg.GetLayout(name)
		if err != nil {
			return err
		}
		l.layoutName = name
		l.layout = next
		l.logger.Info("layout applied", "layout", name)
		l.render()
		return nil
	})
}

// Reload swaps in a new configuration: tags, theme, layouts and gap. The
// active layout falls back to the new default when it no longer exists.
// Managed windows keep their tags; workspaces are re-tagged by position.
func (l *Loop) Reload(ctx context.Context, cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	return l.do(ctx, func() error {
		name := l.layoutName
		next, err := cfg.GetLayout(name)
		if err != nil {
			name = cfg.DefaultLayout
			if next, err = cfg.GetDefaultLayout(); err != nil {
				return err
			}
		}
		if err := l.backend.Configure(cfg.Tags, cfg.Theme()); err != nil {
			return fmt.Errorf("failed to configure display: %w", err)
		}

		m := l.manager
		m.Tags = slices.Clone(cfg.Tags)
		m.Theme = cfg.Theme()
		for i := range m.Windows {
			m.Windows[i].UpdateForTheme(m.Theme)
		}
		for i := range m.Workspaces {
			m.Workspaces[i].Tags = nil
			if i < len(m.Tags) {
				m.Workspaces[i].Tags = []string{m.Tags[i]}
			}
		}

		l.cfg = cfg
		l.layoutName = name
		l.layout = next
		l.logger.Info("configuration reloaded", "layout", name, "tags", len(m.Tags))
		l.render()
		return nil
	})
}

func describe(ev handlers.Event) string {
	switch e := ev.(type) {
	case handlers.CreateEvent:
		return fmt.Sprintf("create(%d, %s)", e.Window.Handle, e.Window.Type)
	case handlers.DestroyEvent:
		return fmt.Sprintf("destroy(%d)", e.Handle)
	case handlers.ChangeEvent:
		return fmt.Sprintf("change(%d)", e.Change.Handle)
	default:
		return fmt.Sprintf("%T", ev)
	}
}
