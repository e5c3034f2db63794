package x11

import (
	"fmt"
	"sort"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
)

// Rect is a rectangle in root window coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Monitor represents a physical display
type Monitor struct {
	ID   int
	Name string
	Rect
}

// GetMonitors retrieves all active monitors using XRandR, ordered left to
// right then top to bottom. Without RandR or with no active CRTC the whole
// root window is reported as one monitor.
func (c *Connection) GetMonitors() ([]Monitor, error) {
	monitors, err := c.randrMonitors()
	if err == nil && len(monitors) > 0 {
		return monitors, nil
	}

	root, rootErr := c.RootGeometry()
	if rootErr != nil {
		if err != nil {
			return nil, fmt.Errorf("%w (root fallback: %v)", err, rootErr)
		}
		return nil, rootErr
	}
	return []Monitor{{ID: 0, Name: "root", Rect: root}}, nil
}

func (c *Connection) randrMonitors() ([]Monitor, error) {
	if err := randr.Init(c.XUtil.Conn()); err != nil {
		return nil, fmt.Errorf("randr init failed: %w", err)
	}

	resources, err := randr.GetScreenResources(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var monitors []Monitor
	for i, crtc := range resources.Crtcs {
		crtcInfo, err := randr.GetCrtcInfo(c.XUtil.Conn(), crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}

		// Skip disabled CRTCs
		if crtcInfo.Width == 0 || crtcInfo.Height == 0 || len(crtcInfo.Outputs) == 0 {
			continue
		}

		outputName := fmt.Sprintf("Monitor%d", i)
		outputInfo, err := randr.GetOutputInfo(c.XUtil.Conn(), crtcInfo.Outputs[0], resources.ConfigTimestamp).Reply()
		if err == nil {
			outputName = string(outputInfo.Name)
		}

		monitors = append(monitors, Monitor{
			Name: outputName,
			Rect: Rect{
				X:      int(crtcInfo.X),
				Y:      int(crtcInfo.Y),
				Width:  int(crtcInfo.Width),
				Height: int(crtcInfo.Height),
			},
		})
	}

	return orderMonitors(monitors), nil
}

// orderMonitors sorts left to right, then top to bottom, drops mirrored
// outputs and renumbers the result.
func orderMonitors(monitors []Monitor) []Monitor {
	sort.SliceStable(monitors, func(i, j int) bool {
		if monitors[i].X != monitors[j].X {
			return monitors[i].X < monitors[j].X
		}
		return monitors[i].Y < monitors[j].Y
	})

	out := monitors[:0]
	for _, m := range monitors {
		if len(out) > 0 && out[len(out)-1].Rect == m.Rect {
			continue
		}
		m.ID = len(out)
		out = append(out, m)
	}
	return out
}

// RootGeometry returns the size of the root window.
func (c *Connection) RootGeometry() (Rect, error) {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(c.Root)).Reply()
	if err != nil {
		return Rect{}, fmt.Errorf("failed to get root geometry: %w", err)
	}
	return Rect{Width: int(geom.Width), Height: int(geom.Height)}, nil
}
