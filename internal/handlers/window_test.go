package handlers

import (
	"slices"
	"testing"

	"github.com/1broseidon/tagtile/internal/geometry"
	"github.com/1broseidon/tagtile/internal/models"
)

func noHook(t *testing.T) *[]string {
	t.Helper()
	var calls []string
	prev := spawnHook
	spawnHook = func(cmd string) { calls = append(calls, cmd) }
	t.Cleanup(func() { spawnHook = prev })
	return &calls
}

func managerWithWorkspace(tags []string, area geometry.XYHW) *models.Manager {
	m := models.NewManager([]string{"1", "2", "3"}, models.ThemeSetting{})
	m.Workspaces = append(m.Workspaces, models.NewWorkspace(0, tags, area))
	m.PushFocusedWorkspace(0)
	return m
}

func TestCreated_NoWorkspaceUsesFirstTag(t *testing.T) {
	noHook(t)
	m := models.NewManager([]string{"1"}, models.ThemeSetting{})

	if !Created(m, models.NewWindow(42, "a")) {
		t.Fatalf("expected Created to request a render")
	}

	w, ok := FindWindow(m, 42)
	if !ok {
		t.Fatalf("expected window 42 to be managed")
	}
	if !slices.Equal(w.Tags, []string{"1"}) {
		t.Fatalf("expected tags [1], got %v", w.Tags)
	}

	want := []models.DisplayAction{
		models.AddedWindow(42),
		models.SetWindowTags(42, "1"),
		models.MoveToTop(42),
	}
	if got := m.Actions.Snapshot(); !slices.Equal(got, want) {
		t.Fatalf("expected queue %v, got %v", want, got)
	}
}

func TestCreated_NoTagsAndNoWorkspace(t *testing.T) {
	noHook(t)
	m := models.NewManager(nil, models.ThemeSetting{})

	Created(m, models.NewWindow(1, "a"))

	w, _ := FindWindow(m, 1)
	if len(w.Tags) != 0 {
		t.Fatalf("expected no tags, got %v", w.Tags)
	}
	want := []models.DisplayAction{models.AddedWindow(1), models.MoveToTop(1)}
	if got := m.Actions.Snapshot(); !slices.Equal(got, want) {
		t.Fatalf("expected queue %v, got %v", want, got)
	}
}

func TestCreated_InheritsWorkspaceTagsAsCopy(t *testing.T) {
	noHook(t)
	m := managerWithWorkspace([]string{"2", "3"}, geometry.New(0, 0, 800, 600))

	Created(m, models.NewWindow(7, "a"))

	w, _ := FindWindow(m, 7)
	if !slices.Equal(w.Tags, []string{"2", "3"}) {
		t.Fatalf("expected tags [2 3], got %v", w.Tags)
	}

	w.Tags[0] = "9"
	if m.Workspaces[0].Tags[0] != "2" {
		t.Fatalf("expected workspace tags to be independent of window tags")
	}
}

func TestCreated_DialogIsCenteredOnWorkspace(t *testing.T) {
	noHook(t)
	m := managerWithWorkspace([]string{"2"}, geometry.New(0, 0, 800, 600))

	d := models.NewWindow(5, "dialog")
	d.Type = models.WindowTypeDialog
	Created(m, d)

	w, _ := FindWindow(m, 5)
	if !w.IsFloating() {
		t.Fatalf("expected dialog to be floating")
	}
	if w.Floating == nil || w.Floating.W != 400 || w.Floating.H != 300 {
		t.Fatalf("expected 400x300 floating geometry, got %+v", w.Floating)
	}
	if *w.Floating != m.Workspaces[0].CenterHalfed() {
		t.Fatalf("expected floating geometry %+v, got %+v", m.Workspaces[0].CenterHalfed(), *w.Floating)
	}
	if !slices.Equal(w.Tags, []string{"2"}) {
		t.Fatalf("expected tags [2], got %v", w.Tags)
	}
}

func TestCreated_DialogWithoutWorkspaceFallsBackToNormal(t *testing.T) {
	noHook(t)
	m := models.NewManager([]string{"1"}, models.ThemeSetting{})

	d := models.NewWindow(5, "dialog")
	d.Type = models.WindowTypeDialog
	d.Normal = geometry.New(10, 20, 300, 200)
	Created(m, d)

	w, _ := FindWindow(m, 5)
	if !w.IsFloating() || w.Floating == nil {
		t.Fatalf("expected floating dialog with geometry")
	}
	if *w.Floating != d.Normal {
		t.Fatalf("expected floating geometry to default to normal, got %+v", *w.Floating)
	}
}

func TestCreated_TransientIsCenteredOnParent(t *testing.T) {
	noHook(t)
	m := models.NewManager([]string{"1"}, models.ThemeSetting{})

	parent := models.NewWindow(1, "parent")
	parent.Normal = geometry.New(100, 100, 400, 300)
	Created(m, parent)

	parentHandle := models.WindowHandle(1)
	child := models.NewWindow(2, "child")
	child.Transient = &parentHandle
	Created(m, child)

	w, _ := FindWindow(m, 2)
	if !w.IsFloating() {
		t.Fatalf("expected transient window to be floating")
	}
	if w.Floating.W != 200 || w.Floating.H != 150 {
		t.Fatalf("expected half the parent size 200x150, got %dx%d", w.Floating.W, w.Floating.H)
	}
	if w.Floating.X != 100+400/2-200/2 || w.Floating.Y != 100+300/2-150/2 {
		t.Fatalf("expected origin 200,175, got %d,%d", w.Floating.X, w.Floating.Y)
	}
}

func TestCreated_TransientKeepsOwnSize(t *testing.T) {
	noHook(t)
	m := models.NewManager([]string{"1"}, models.ThemeSetting{})

	parent := models.NewWindow(1, "parent")
	parent.Normal = geometry.New(0, 0, 1000, 800)
	Created(m, parent)

	parentHandle := models.WindowHandle(1)
	child := models.NewWindow(2, "child")
	child.Transient = &parentHandle
	f := geometry.New(5, 5, 300, 100)
	child.Floating = &f
	Created(m, child)

	w, _ := FindWindow(m, 2)
	if w.Floating.W != 300 || w.Floating.H != 100 {
		t.Fatalf("expected size 300x100 to be kept, got %dx%d", w.Floating.W, w.Floating.H)
	}
	if w.Floating.X != 350 || w.Floating.Y != 350 {
		t.Fatalf("expected origin 350,350, got %d,%d", w.Floating.X, w.Floating.Y)
	}
}

func TestCreated_TransientWithUnknownParent(t *testing.T) {
	noHook(t)
	m := models.NewManager([]string{"1"}, models.ThemeSetting{})

	missing := models.WindowHandle(99)
	child := models.NewWindow(2, "child")
	child.Transient = &missing
	f := geometry.New(5, 6, 70, 80)
	child.Floating = &f
	Created(m, child)

	w, _ := FindWindow(m, 2)
	if !w.IsFloating() {
		t.Fatalf("expected transient window to be floating")
	}
	if *w.Floating != f {
		t.Fatalf("expected floating geometry to be kept, got %+v", *w.Floating)
	}
}

func TestCreated_AppliesTheme(t *testing.T) {
	noHook(t)
	m := models.NewManager([]string{"1"}, models.ThemeSetting{BorderWidth: 2, Margin: 5})

	Created(m, models.NewWindow(1, "a"))
	dock := models.NewWindow(2, "bar")
	dock.Type = models.WindowTypeDock
	Created(m, dock)

	a, _ := FindWindow(m, 1)
	if a.Border != 2 || a.Margin != 5 {
		t.Fatalf("expected border 2 margin 5, got %d %d", a.Border, a.Margin)
	}
	b, _ := FindWindow(m, 2)
	if b.Border != 0 || b.Margin != 0 {
		t.Fatalf("expected undecorated dock, got %d %d", b.Border, b.Margin)
	}
}

func TestCreated_DuplicateHandleIgnored(t *testing.T) {
	noHook(t)
	m := models.NewManager([]string{"1"}, models.ThemeSetting{})

	Created(m, models.NewWindow(1, "a"))
	m.Actions.Drain()

	if Created(m, models.NewWindow(1, "again")) {
		t.Fatalf("expected duplicate create to be ignored")
	}
	if len(m.Windows) != 1 {
		t.Fatalf("expected 1 window, got %d", len(m.Windows))
	}
	if m.Actions.Len() != 0 {
		t.Fatalf("expected no actions, got %v", m.Actions.Snapshot())
	}
}

func TestCreated_FocusesNewWindowAndWorkspace(t *testing.T) {
	noHook(t)
	m := models.NewManager([]string{"1", "2"}, models.ThemeSetting{})
	m.Workspaces = []models.Workspace{
		models.NewWorkspace(0, []string{"1"}, geometry.New(0, 0, 1000, 800)),
		models.NewWorkspace(1, []string{"2"}, geometry.New(1000, 0, 1000, 800)),
	}
	m.PushFocusedWorkspace(0)

	w := models.NewWindow(3, "a")
	w.Normal = geometry.New(1200, 100, 300, 300)
	Created(m, w)

	if fw := m.FocusedWindow(); fw == nil || fw.Handle != 3 {
		t.Fatalf("expected window 3 to be focused, got %+v", fw)
	}
	if ws := m.FocusedWorkspace(); ws == nil || ws.ID != 1 {
		t.Fatalf("expected workspace 1 to be focused, got %+v", ws)
	}
}

func TestCreated_RunsHook(t *testing.T) {
	calls := noHook(t)
	m := models.NewManager([]string{"1"}, models.ThemeSetting{OnNewWindowCmd: "notify-send new"})

	Created(m, models.NewWindow(1, "a"))

	if !slices.Equal(*calls, []string{"notify-send new"}) {
		t.Fatalf("expected hook to run once, got %v", *calls)
	}
}

func TestCreated_NoHookWhenUnset(t *testing.T) {
	calls := noHook(t)
	m := models.NewManager([]string{"1"}, models.ThemeSetting{})

	Created(m, models.NewWindow(1, "a"))

	if len(*calls) != 0 {
		t.Fatalf("expected no hook calls, got %v", *calls)
	}
}

func TestDestroyed(t *testing.T) {
	noHook(t)
	m := models.NewManager([]string{"1"}, models.ThemeSetting{})
	Created(m, models.NewWindow(1, "a"))
	Created(m, models.NewWindow(2, "b"))

	if Destroyed(m, 99) {
		t.Fatalf("expected unknown handle to report no change")
	}
	if len(m.Windows) != 2 {
		t.Fatalf("expected 2 windows, got %d", len(m.Windows))
	}

	if !Destroyed(m, 2) {
		t.Fatalf("expected known handle to report a change")
	}
	if len(m.Windows) != 1 {
		t.Fatalf("expected 1 window, got %d", len(m.Windows))
	}
	if _, ok := FindWindow(m, 2); ok {
		t.Fatalf("expected window 2 to be gone")
	}
	if fw := m.FocusedWindow(); fw == nil || fw.Handle != 1 {
		t.Fatalf("expected focus to fall back to window 1, got %+v", fw)
	}

	Destroyed(m, 1)
	if len(m.FocusedWindowHistory) != 0 {
		t.Fatalf("expected empty focus history, got %v", m.FocusedWindowHistory)
	}
}

func TestDestroyed_DockReleasesAvoidedArea(t *testing.T) {
	noHook(t)
	m := managerWithWorkspace([]string{"1"}, geometry.New(0, 0, 1000, 800))

	dock := models.NewWindow(9, "bar")
	dock.Type = models.WindowTypeDock
	bar := geometry.New(0, 0, 1000, 30)
	dock.Floating = &bar
	Created(m, dock)
	UpdateWorkspaceAvoidList(m)
	if m.Workspaces[0].XYHWAvoided.Y != 30 {
		t.Fatalf("expected avoided area to start at 30, got %d", m.Workspaces[0].XYHWAvoided.Y)
	}

	Destroyed(m, 9)
	if len(m.Workspaces[0].Avoid) != 0 {
		t.Fatalf("expected empty avoid list, got %v", m.Workspaces[0].Avoid)
	}
	if m.Workspaces[0].XYHWAvoided != m.Workspaces[0].XYHW {
		t.Fatalf("expected full workspace area, got %+v", m.Workspaces[0].XYHWAvoided)
	}
}

func TestChanged(t *testing.T) {
	noHook(t)
	m := models.NewManager([]string{"1"}, models.ThemeSetting{})
	Created(m, models.NewWindow(1, "old"))

	name := "new"
	if !Changed(m, models.WindowChange{Handle: 1, Name: &name}) {
		t.Fatalf("expected name change to report a change")
	}
	w, _ := FindWindow(m, 1)
	if w.Name != "new" {
		t.Fatalf("expected name new, got %q", w.Name)
	}

	if Changed(m, models.WindowChange{Handle: 1, Name: &name}) {
		t.Fatalf("expected identical change to report no change")
	}
	if Changed(m, models.WindowChange{Handle: 42, Name: &name}) {
		t.Fatalf("expected unknown handle to report no change")
	}
}

func TestChanged_DockNeverRenders(t *testing.T) {
	noHook(t)
	m := managerWithWorkspace([]string{"1"}, geometry.New(0, 0, 1000, 800))

	dock := models.NewWindow(9, "bar")
	dock.Type = models.WindowTypeDock
	bar := geometry.New(0, 0, 1000, 30)
	dock.Floating = &bar
	Created(m, dock)

	h := 40
	name := "panel"
	if Changed(m, models.WindowChange{Handle: 9, Name: &name, Floating: &models.XYHWChange{H: &h}}) {
		t.Fatalf("expected dock change to report no change")
	}
	w, _ := FindWindow(m, 9)
	if w.Name != "panel" || w.Floating.H != 40 {
		t.Fatalf("expected change to be applied, got %q h=%d", w.Name, w.Floating.H)
	}
	if got := m.Workspaces[0].XYHWAvoided; got.Y != 40 || got.H != 760 {
		t.Fatalf("expected avoided area 40/760, got %d/%d", got.Y, got.H)
	}
}

func TestChanged_BecomingDockUpdatesAvoidList(t *testing.T) {
	noHook(t)
	m := managerWithWorkspace([]string{"1"}, geometry.New(0, 0, 1000, 800))

	w := models.NewWindow(9, "bar")
	w.Normal = geometry.New(0, 770, 1000, 30)
	w.Floating = &w.Normal
	Created(m, w)

	dock := models.WindowTypeDock
	if Changed(m, models.WindowChange{Handle: 9, Type: &dock}) {
		t.Fatalf("expected dock change to report no change")
	}
	if got := m.Workspaces[0].XYHWAvoided; got.H != 770 {
		t.Fatalf("expected avoided height 770, got %d", got.H)
	}
}

func TestCalcCenterOfParent(t *testing.T) {
	parent := models.NewWindow(1, "parent")
	parent.Normal = geometry.New(0, 0, 800, 600)

	tests := []struct {
		name     string
		floating *geometry.XYHW
		want     geometry.XYHW
	}{
		{"no geometry", nil, geometry.New(200, 150, 400, 300)},
		{"zero width", &geometry.XYHW{H: 100, MaxW: geometry.Unbounded, MaxH: geometry.Unbounded}, geometry.New(200, 150, 400, 300)},
		{"sized", ptr(geometry.New(0, 0, 100, 50)), geometry.New(350, 275, 100, 50)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := models.NewWindow(2, "child")
			w.Floating = tt.floating
			got := calcCenterOfParent(w, parent)
			if got.X != tt.want.X || got.Y != tt.want.Y || got.W != tt.want.W || got.H != tt.want.H {
				t.Fatalf("expected %d,%d %dx%d, got %d,%d %dx%d",
					tt.want.X, tt.want.Y, tt.want.W, tt.want.H, got.X, got.Y, got.W, got.H)
			}
		})
	}
}

func TestUpdateWorkspaceAvoidList(t *testing.T) {
	m := models.NewManager([]string{"1", "2"}, models.ThemeSetting{})
	m.Workspaces = []models.Workspace{
		models.NewWorkspace(0, []string{"1"}, geometry.New(0, 0, 1000, 800)),
		models.NewWorkspace(1, []string{"2"}, geometry.New(1000, 0, 1000, 800)),
	}

	top := geometry.New(0, 0, 1000, 30)
	side := geometry.New(0, 0, 40, 800)
	normal := geometry.New(0, 0, 500, 500)

	dock1 := models.NewWindow(1, "top")
	dock1.Type = models.WindowTypeDock
	dock1.Floating = &top
	dock2 := models.NewWindow(2, "side")
	dock2.Type = models.WindowTypeDock
	dock2.Floating = &side
	plain := models.NewWindow(3, "plain")
	plain.Floating = &normal
	// A dock that has not reported a geometry yet reserves nothing.
	unplaced := models.NewWindow(4, "unplaced")
	unplaced.Type = models.WindowTypeDock
	m.Windows = []models.Window{dock1, plain, unplaced, dock2}

	UpdateWorkspaceAvoidList(m)

	want := []geometry.XYHW{top, side}
	for _, ws := range m.Workspaces {
		if !slices.Equal(ws.Avoid, want) {
			t.Fatalf("workspace %d: expected avoid %v, got %v", ws.ID, want, ws.Avoid)
		}
		if len(ws.Avoid) != 2 {
			t.Fatalf("workspace %d: expected only placed docks in avoid, got %d entries", ws.ID, len(ws.Avoid))
		}
	}
	if got := m.Workspaces[0].XYHWAvoided; got.X != 40 || got.Y != 30 || got.W != 960 || got.H != 770 {
		t.Fatalf("expected avoided 40,30 960x770, got %+v", got)
	}

	m.Workspaces[0].Avoid[0].X = 5
	if m.Workspaces[1].Avoid[0].X != 0 {
		t.Fatalf("expected workspaces to hold independent avoid lists")
	}
}

func TestProcess(t *testing.T) {
	noHook(t)
	m := models.NewManager([]string{"1"}, models.ThemeSetting{})

	if !Process(m, CreateEvent{Window: models.NewWindow(1, "a")}) {
		t.Fatalf("expected create to request a render")
	}
	name := "b"
	if !Process(m, ChangeEvent{Change: models.WindowChange{Handle: 1, Name: &name}}) {
		t.Fatalf("expected change to request a render")
	}
	if !Process(m, DestroyEvent{Handle: 1}) {
		t.Fatalf("expected destroy to request a render")
	}
	if len(m.Windows) != 0 {
		t.Fatalf("expected no windows, got %d", len(m.Windows))
	}
}

func ptr[T any](v T) *T { return &v }
