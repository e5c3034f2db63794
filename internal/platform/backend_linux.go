//go:build linux

package platform

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xprop"

	"github.com/1broseidon/tagtile/internal/geometry"
	"github.com/1broseidon/tagtile/internal/handlers"
	"github.com/1broseidon/tagtile/internal/models"
	"github.com/1broseidon/tagtile/internal/x11"
)

const eventBuffer = 256

type borderColors struct {
	normal   uint32
	floating uint32
	focused  uint32
}

type placement struct {
	rect   x11.Rect
	border int
}

// LinuxBackend manages windows on an X11 display as its window manager.
type LinuxBackend struct {
	conn   *x11.Connection
	logger *slog.Logger
	root   x11.Rect

	events    chan handlers.Event
	done      chan struct{}
	closeOnce sync.Once

	// mu guards the fields below; X event callbacks run on the event loop
	// goroutine.
	mu      sync.Mutex
	managed map[xproto.Window]bool
	placed  map[xproto.Window]placement
	unmaps  *unmapTracker
	tags    []string
	colors  borderColors
	focused xproto.Window
}

var _ Backend = (*LinuxBackend)(nil)

// New connects to the X display, becomes its window manager and starts
// delivering events. Windows already mapped are reported as created.
func New(opts Options) (Backend, error) {
	return NewLinuxBackend(opts)
}

// NewLinuxBackend is New with the concrete return type.
func NewLinuxBackend(opts Options) (*LinuxBackend, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	conn, err := x11.NewConnection(opts.Display)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	if err := conn.BecomeWM(); err != nil {
		conn.Close()
		return nil, err
	}

	root, err := conn.RootGeometry()
	if err != nil {
		conn.Close()
		return nil, err
	}

	b := &LinuxBackend{
		conn:    conn,
		logger:  logger,
		root:    root,
		events:  make(chan handlers.Event, eventBuffer),
		done:    make(chan struct{}),
		managed: make(map[xproto.Window]bool),
		placed:  make(map[xproto.Window]placement),
		unmaps:  newUnmapTracker(),
	}
	if err := b.Configure(opts.Tags, opts.Theme); err != nil {
		conn.Close()
		return nil, err
	}

	xu := conn.XUtil
	xevent.MapRequestFun(b.onMapRequest).Connect(xu, conn.Root)
	xevent.ConfigureRequestFun(b.onConfigureRequest).Connect(xu, conn.Root)

	go b.run()
	return b, nil
}

func (b *LinuxBackend) run() {
	defer close(b.events)

	existing, err := b.conn.ManageableChildren()
	if err != nil {
		b.logger.Warn("failed to list existing windows", "error", err)
	}
	for _, id := range existing {
		b.adopt(id)
	}

	b.logger.Info("x11 event loop started", "root", b.conn.Root)
	b.conn.EventLoop()
	b.logger.Info("x11 event loop stopped")
}

// Events implements Backend.
func (b *LinuxBackend) Events() <-chan handlers.Event {
	return b.events
}

func (b *LinuxBackend) emit(ev handlers.Event) {
	select {
	case b.events <- ev:
	case <-b.done:
	}
}

func (b *LinuxBackend) isManaged(id xproto.Window) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.managed[id]
}

func (b *LinuxBackend) adopt(id xproto.Window) {
	info, err := b.conn.ReadWindow(id)
	if err != nil {
		b.logger.Debug("ignoring unreadable window", "window", id, "error", err)
		return
	}
	b.emit(handlers.CreateEvent{Window: WindowFromInfo(info, b.root)})
}

// mapWindow maps id and records it for the unmap tracker.
func (b *LinuxBackend) mapWindow(id xproto.Window) {
	b.mu.Lock()
	b.unmaps.markMapped(id)
	b.mu.Unlock()
	b.conn.Map(id)
}

func (b *LinuxBackend) unmapWindow(id xproto.Window) {
	b.mu.Lock()
	needed := b.unmaps.expect(id)
	b.mu.Unlock()
	if needed {
		b.conn.Unmap(id)
	}
}

func (b *LinuxBackend) onMapRequest(_ *xgbutil.XUtil, ev xevent.MapRequestEvent) {
	if b.isManaged(ev.Window) {
		b.mapWindow(ev.Window)
		return
	}
	b.adopt(ev.Window)
}

// Destroy and unmap notifications are dispatched by the window they are
// about, so their callbacks hang off each client rather than the root.

func (b *LinuxBackend) onDestroyNotify(xu *xgbutil.XUtil, ev xevent.DestroyNotifyEvent) {
	b.release(xu, ev.Window)
}

// onUnmapNotify treats a client unmapping itself as withdrawing the window.
// Unmaps issued by the window manager are consumed by the tracker.
func (b *LinuxBackend) onUnmapNotify(xu *xgbutil.XUtil, ev xevent.UnmapNotifyEvent) {
	// The root's SubstructureNotify copy arrives here too.
	if ev.Event != ev.Window {
		return
	}
	b.mu.Lock()
	withdrawn := b.managed[ev.Window] && b.unmaps.consume(ev.Window)
	b.mu.Unlock()

	if withdrawn {
		b.logger.Debug("client withdrew window", "window", ev.Window)
		b.release(xu, ev.Window)
	}
}

// release stops managing id and reports it destroyed.
func (b *LinuxBackend) release(xu *xgbutil.XUtil, id xproto.Window) {
	b.mu.Lock()
	wasManaged := b.managed[id]
	delete(b.managed, id)
	delete(b.placed, id)
	b.unmaps.forget(id)
	if b.focused == id {
		b.focused = 0
	}
	clients := b.clientListLocked()
	b.mu.Unlock()

	if !wasManaged {
		return
	}
	xevent.Detach(xu, id)
	if err := b.conn.SetClientList(clients); err != nil {
		b.logger.Debug("failed to update client list", "error", err)
	}
	b.emit(handlers.DestroyEvent{Handle: models.WindowHandle(id)})
}

func (b *LinuxBackend) onConfigureRequest(_ *xgbutil.XUtil, ev xevent.ConfigureRequestEvent) {
	b.mu.Lock()
	managed := b.managed[ev.Window]
	p, placed := b.placed[ev.Window]
	b.mu.Unlock()

	if !managed {
		b.conn.HonorConfigure(ev)
		return
	}

	b.emit(handlers.ChangeEvent{Change: ConfigureChange(ev.ConfigureRequestEvent)})
	if placed {
		b.conn.SendConfigureNotify(ev.Window, p.rect, p.border)
	}
}

func (b *LinuxBackend) onPropertyNotify(xu *xgbutil.XUtil, ev xevent.PropertyNotifyEvent) {
	name, err := xprop.AtomName(xu, ev.Atom)
	if err != nil {
		return
	}

	id := ev.Window
	switch name {
	case "_NET_WM_NAME", "WM_NAME":
		b.emit(handlers.ChangeEvent{Change: NameChange(id, b.conn.WindowTitle(id))})
	case "WM_TRANSIENT_FOR":
		b.emit(handlers.ChangeEvent{Change: TransientChange(id, b.conn.TransientFor(id))})
	case "_NET_WM_WINDOW_TYPE":
		b.emit(handlers.ChangeEvent{Change: TypeChange(id, b.conn.WindowTypes(id))})
	case "_NET_WM_STRUT_PARTIAL", "_NET_WM_STRUT":
		if change, ok := StrutChange(id, b.conn.Strut(id), b.root); ok {
			b.emit(handlers.ChangeEvent{Change: change})
		}
	}
}

// Execute implements Backend.
func (b *LinuxBackend) Execute(action models.DisplayAction) error {
	id := xproto.Window(action.Handle)

	switch action.Kind {
	case models.ActionAddedWindow:
		b.mu.Lock()
		b.managed[id] = true
		clients := b.clientListLocked()
		normal := b.colors.normal
		b.mu.Unlock()

		if err := b.conn.SelectClientEvents(id); err != nil {
			return fmt.Errorf("failed to select events on window %d: %w", id, err)
		}
		xu := b.conn.XUtil
		xevent.PropertyNotifyFun(b.onPropertyNotify).Connect(xu, id)
		xevent.DestroyNotifyFun(b.onDestroyNotify).Connect(xu, id)
		xevent.UnmapNotifyFun(b.onUnmapNotify).Connect(xu, id)
		b.conn.SetBorderColor(id, normal)
		b.mapWindow(id)
		return b.conn.SetClientList(clients)

	case models.ActionSetWindowTags:
		b.mu.Lock()
		desktop := slices.Index(b.tags, action.Tag)
		b.mu.Unlock()
		if desktop < 0 {
			return fmt.Errorf("window %d: unknown tag %q", id, action.Tag)
		}
		return b.conn.SetWindowDesktop(id, desktop)

	case models.ActionMoveToTop:
		b.conn.Raise(id)
		return nil

	case models.ActionWindowTakeFocus:
		b.refocus(id)
		return b.conn.Focus(id)

	case models.ActionUnfocus:
		b.refocus(0)
		return b.conn.Unfocus()

	default:
		return fmt.Errorf("unknown display action %q", action.Kind)
	}
}

// refocus moves the focused border color from the previous window to id.
func (b *LinuxBackend) refocus(id xproto.Window) {
	b.mu.Lock()
	prev := b.focused
	b.focused = id
	colors := b.colors
	prevManaged := b.managed[prev]
	b.mu.Unlock()

	if prev != 0 && prev != id && prevManaged {
		b.conn.SetBorderColor(prev, colors.normal)
	}
	if id != 0 {
		b.conn.SetBorderColor(id, colors.focused)
	}
}

// UpdateWindow implements Backend. Docks place themselves and are only
// mapped or unmapped.
func (b *LinuxBackend) UpdateWindow(w models.Window) error {
	id := xproto.Window(w.Handle)
	if !b.isManaged(id) {
		return nil
	}

	if !w.Visible {
		b.unmapWindow(id)
		return nil
	}
	if w.Type == models.WindowTypeDock {
		b.mapWindow(id)
		return nil
	}

	rect := RectOf(w)
	if err := b.conn.MoveResizeWindow(id, rect, w.Border); err != nil {
		return fmt.Errorf("failed to place window %d: %w", id, err)
	}

	b.mu.Lock()
	b.placed[id] = placement{rect: rect, border: w.Border}
	pixel := b.colors.normal
	switch {
	case b.focused == id:
		pixel = b.colors.focused
	case w.IsFloating():
		pixel = b.colors.floating
	}
	b.mu.Unlock()

	b.conn.SetBorderColor(id, pixel)
	b.mapWindow(id)
	return nil
}

// Configure implements Backend.
func (b *LinuxBackend) Configure(tags []string, theme models.ThemeSetting) error {
	var colors borderColors
	for _, c := range []struct {
		value string
		dst   *uint32
	}{
		{theme.DefaultBorderColor, &colors.normal},
		{theme.FloatingBorderColor, &colors.floating},
		{theme.FocusedBorderColor, &colors.focused},
	} {
		pixel, err := x11.ParseColor(c.value)
		if err != nil {
			return err
		}
		*c.dst = pixel
	}

	if err := b.conn.SetupDesktops(tags); err != nil {
		return err
	}

	b.mu.Lock()
	b.tags = slices.Clone(tags)
	b.colors = colors
	b.mu.Unlock()
	return nil
}

// ExistingWindows implements Backend.
func (b *LinuxBackend) ExistingWindows(handles []models.WindowHandle) ([]models.WindowHandle, error) {
	out := make([]models.WindowHandle, 0, len(handles))
	for _, h := range handles {
		if b.conn.Exists(xproto.Window(h)) {
			out = append(out, h)
		}
	}
	return out, nil
}

// Workspaces implements Backend.
func (b *LinuxBackend) Workspaces() ([]geometry.XYHW, error) {
	monitors, err := b.conn.GetMonitors()
	if err != nil {
		return nil, err
	}
	return MonitorsToWorkspaces(monitors), nil
}

// Close stops the event loop and disconnects.
func (b *LinuxBackend) Close() {
	b.closeOnce.Do(func() {
		close(b.done)
		b.conn.Quit()
		b.conn.Close()
	})
}

func (b *LinuxBackend) clientListLocked() []xproto.Window {
	clients := make([]xproto.Window, 0, len(b.managed))
	for id := range b.managed {
		clients = append(clients, id)
	}
	slices.Sort(clients)
	return clients
}
