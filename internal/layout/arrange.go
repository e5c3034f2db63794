package layout

import (
	"errors"
	"fmt"

	"github.com/1broseidon/tagtile/internal/config"
	"github.com/1broseidon/tagtile/internal/models"
)

// Arrange recomputes visibility for every window and tiles the windows each
// workspace displays. A window shown on several workspaces is tiled on the
// first one only. Floating windows and docks keep their geometry.
//
// A workspace too small for the layout is skipped and reported in the
// returned error; the others are still arranged.
func Arrange(m *models.Manager, l *config.Layout, gapSize int) error {
	for i := range m.Windows {
		w := &m.Windows[i]
		w.Visible = w.Type == models.WindowTypeDock || displayedAnywhere(m, w)
	}

	placed := make(map[models.WindowHandle]bool, len(m.Windows))
	var errs []error
	for _, ws := range m.Workspaces {
		var tiled []int
		for i := range m.Windows {
			w := &m.Windows[i]
			if placed[w.Handle] || !isTiled(w) || !ws.IsDisplaying(w) {
				continue
			}
			tiled = append(tiled, i)
			placed[w.Handle] = true
		}
		if len(tiled) == 0 {
			continue
		}

		area := ApplyRegion(ws.XYHWAvoided, l.TileRegion)
		positions, err := Positions(len(tiled), area, l, gapSize)
		if err != nil {
			errs = append(errs, fmt.Errorf("workspace %d: %w", ws.ID, err))
			continue
		}
		for slot, idx := range tiled {
			if slot >= len(positions) {
				break
			}
			applyPosition(&m.Windows[idx], positions[slot].X, positions[slot].Y, positions[slot].W, positions[slot].H)
		}
	}
	return errors.Join(errs...)
}

func isTiled(w *models.Window) bool {
	return !w.IsFloating() && w.Type != models.WindowTypeDock
}

func displayedAnywhere(m *models.Manager, w *models.Window) bool {
	for _, ws := range m.Workspaces {
		if ws.IsDisplaying(w) {
			return true
		}
	}
	return false
}

// applyPosition moves the window's tiled geometry, keeping its size hints.
func applyPosition(w *models.Window, x, y, width, height int) {
	w.Normal.SetX(x)
	w.Normal.SetY(y)
	w.Normal.SetW(width)
	w.Normal.SetH(height)
}
