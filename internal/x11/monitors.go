package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/xinerama"

	"github.com/1broseidon/tagwm/internal/tiling"
)

// Monitor represents a physical display
type Monitor struct {
	ID     int
	Name   string
	X      int
	Y      int
	Width  int
	Height int
}

// Rect returns the monitor geometry.
func (m Monitor) Rect() tiling.Rect {
	return tiling.Rect{X: m.X, Y: m.Y, Width: m.Width, Height: m.Height}
}

// GetMonitors retrieves all active monitors using XRandR
func (c *Connection) GetMonitors() ([]Monitor, error) {
	if !c.hasRandr {
		return nil, fmt.Errorf("randr extension not available")
	}

	// Get screen resources
	resources, err := randr.GetScreenResources(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var monitors []Monitor

	// Query each CRTC for active monitors
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
			ID:     i,
			Name:   outputName,
			X:      int(crtcInfo.X),
			Y:      int(crtcInfo.Y),
			Width:  int(crtcInfo.Width),
			Height: int(crtcInfo.Height),
		})
	}

	return monitors, nil
}

// Heads returns the output rectangles in server order. RandR CRTCs are
// preferred, then Xinerama screens, then the whole root window.
func (c *Connection) Heads() ([]tiling.Rect, error) {
	if monitors, err := c.GetMonitors(); err == nil && len(monitors) > 0 {
		heads := make([]tiling.Rect, len(monitors))
		for i, m := range monitors {
			heads[i] = m.Rect()
		}
		return heads, nil
	}

	if c.hasXin {
		if phys, err := xinerama.PhysicalHeads(c.XUtil); err == nil && len(phys) > 0 {
			heads := make([]tiling.Rect, len(phys))
			for i, h := range phys {
				heads[i] = tiling.Rect{X: h.X(), Y: h.Y(), Width: h.Width(), Height: h.Height()}
			}
			return heads, nil
		}
	}

	return []tiling.Rect{c.Screen()}, nil
}

// Screen returns the root window geometry.
func (c *Connection) Screen() tiling.Rect {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(c.Root)).Reply()
	if err != nil {
		s := c.XUtil.Screen()
		return tiling.Rect{Width: int(s.WidthInPixels), Height: int(s.HeightInPixels)}
	}
	return tiling.Rect{Width: int(geom.Width), Height: int(geom.Height)}
}

// QueryPointer returns the pointer position in root coordinates.
func (c *Connection) QueryPointer() (int, int, bool) {
	pointer, err := xproto.QueryPointer(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return 0, 0, false
	}
	return int(pointer.RootX), int(pointer.RootY), true
}
