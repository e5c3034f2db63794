package layout

import (
	"testing"

	"github.com/1broseidon/tagtile/internal/config"
	"github.com/1broseidon/tagtile/internal/geometry"
	"github.com/1broseidon/tagtile/internal/models"
)

func window(handle models.WindowHandle, tags ...string) models.Window {
	w := models.NewWindow(handle, "w")
	w.Tags = tags
	return w
}

func TestArrange_TilesPerWorkspaceAndSetsVisibility(t *testing.T) {
	m := models.NewManager([]string{"1", "2", "3"}, models.ThemeSetting{})
	m.Workspaces = []models.Workspace{
		models.NewWorkspace(0, []string{"1"}, geometry.New(0, 0, 800, 600)),
		models.NewWorkspace(1, []string{"2"}, geometry.New(800, 0, 800, 600)),
	}

	floating := window(4, "1")
	floating.SetFloating(true)
	f := geometry.New(10, 10, 50, 50)
	floating.Floating = &f

	dock := window(5)
	dock.Type = models.WindowTypeDock

	m.Windows = []models.Window{window(1, "1"), window(2, "1"), window(3, "2"), floating, dock, window(6, "3")}

	l := &config.Layout{Mode: config.LayoutModeHorizontal}
	if err := Arrange(m, l, 0); err != nil {
		t.Fatalf("arrange: %v", err)
	}

	want := map[models.WindowHandle]geometry.XYHW{
		1: geometry.New(0, 0, 400, 600),
		2: geometry.New(400, 0, 400, 600),
		3: geometry.New(800, 0, 800, 600),
	}
	for _, w := range m.Windows {
		g, ok := want[w.Handle]
		if !ok {
			continue
		}
		if w.Normal.X != g.X || w.Normal.Y != g.Y || w.Normal.W != g.W || w.Normal.H != g.H {
			t.Fatalf("window %d: expected %+v, got %+v", w.Handle, g, w.Normal)
		}
	}

	visible := map[models.WindowHandle]bool{1: true, 2: true, 3: true, 4: true, 5: true, 6: false}
	for _, w := range m.Windows {
		if w.Visible != visible[w.Handle] {
			t.Fatalf("window %d: expected visible=%v", w.Handle, visible[w.Handle])
		}
	}
	if m.Windows[3].Normal.W != 0 {
		t.Fatalf("expected floating window to keep its tiled geometry, got %+v", m.Windows[3].Normal)
	}
}

func TestArrange_UsesAvoidedArea(t *testing.T) {
	m := models.NewManager([]string{"1"}, models.ThemeSetting{})
	ws := models.NewWorkspace(0, []string{"1"}, geometry.New(0, 0, 1000, 800))
	ws.Avoid = []geometry.XYHW{geometry.New(0, 0, 1000, 30)}
	ws.UpdateAvoidedAreas()
	m.Workspaces = []models.Workspace{ws}
	m.Windows = []models.Window{window(1, "1")}

	if err := Arrange(m, &config.Layout{Mode: config.LayoutModeAuto}, 0); err != nil {
		t.Fatalf("arrange: %v", err)
	}
	if got := m.Windows[0].Normal; got.Y != 30 || got.H != 770 {
		t.Fatalf("expected window below the bar, got %+v", got)
	}
}

func TestArrange_SharedTagTiledOnce(t *testing.T) {
	m := models.NewManager([]string{"1"}, models.ThemeSetting{})
	m.Workspaces = []models.Workspace{
		models.NewWorkspace(0, []string{"1"}, geometry.New(0, 0, 100, 100)),
		models.NewWorkspace(1, []string{"1"}, geometry.New(100, 0, 100, 100)),
	}
	m.Windows = []models.Window{window(1, "1")}

	if err := Arrange(m, &config.Layout{Mode: config.LayoutModeAuto}, 0); err != nil {
		t.Fatalf("arrange: %v", err)
	}
	if m.Windows[0].Normal.X != 0 {
		t.Fatalf("expected window on the first workspace, got %+v", m.Windows[0].Normal)
	}
}

func TestArrange_ReportsTooSmallWorkspace(t *testing.T) {
	m := models.NewManager([]string{"1", "2"}, models.ThemeSetting{})
	m.Workspaces = []models.Workspace{
		models.NewWorkspace(0, []string{"1"}, geometry.New(0, 0, 10, 10)),
		models.NewWorkspace(1, []string{"2"}, geometry.New(10, 0, 500, 500)),
	}
	m.Windows = []models.Window{window(1, "1"), window(2, "2")}

	err := Arrange(m, &config.Layout{Mode: config.LayoutModeAuto}, 20)
	if err == nil {
		t.Fatalf("expected error for the small workspace")
	}
	if got := m.Windows[1].Normal; got.X != 30 || got.W != 460 {
		t.Fatalf("expected second workspace to be arranged, got %+v", got)
	}
}
