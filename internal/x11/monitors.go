package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// Area is an origin + size rectangle in root window coordinates.
type Area struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Monitor represents a physical display
type Monitor struct {
	ID       int
	Name     string
	Area     Area
	WorkArea Area
	Primary  bool
}

// GetMonitors retrieves all active monitors using XRandR, in CRTC order.
// WorkArea excludes space reserved by docks and panels.
func (c *Connection) GetMonitors() ([]Monitor, error) {
	resources, err := randr.GetScreenResources(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var primaryOutput randr.Output
	if reply, err := randr.GetOutputPrimary(c.XUtil.Conn(), c.Root).Reply(); err == nil {
		primaryOutput = reply.Output
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

		primary := false
		for _, out := range crtcInfo.Outputs {
			if primaryOutput != 0 && out == primaryOutput {
				primary = true
			}
		}

		area := Area{
			X:      int(crtcInfo.X),
			Y:      int(crtcInfo.Y),
			Width:  int(crtcInfo.Width),
			Height: int(crtcInfo.Height),
		}
		monitors = append(monitors, Monitor{
			ID:       i,
			Name:     outputName,
			Area:     area,
			WorkArea: area,
			Primary:  primary,
		})
	}

	c.applyWorkAreas(monitors)
	return monitors, nil
}

// applyWorkAreas shrinks each monitor's WorkArea by dock struts, falling back
// to the intersection with _NET_WORKAREA when no dock reserves space.
func (c *Connection) applyWorkAreas(monitors []Monitor) {
	struts, rootW, rootH, ok := c.dockStruts()
	var workArea *Area
	if wa, err := ewmh.WorkareaGet(c.XUtil); err == nil && len(wa) > 0 {
		idx := 0
		if current, err := ewmh.CurrentDesktopGet(c.XUtil); err == nil && int(current) < len(wa) {
			idx = int(current)
		}
		workArea = &Area{X: wa[idx].X, Y: wa[idx].Y, Width: int(wa[idx].Width), Height: int(wa[idx].Height)}
	}

	for i := range monitors {
		mon := &monitors[i]
		if ok {
			if adjusted, applied := WorkAreaFromStruts(mon.Area, rootW, rootH, struts); applied {
				mon.WorkArea = adjusted
				continue
			}
		}
		if workArea != nil {
			if isect, hit := intersect(mon.Area, *workArea); hit {
				mon.WorkArea = isect
			}
		}
	}
}

// dockStruts collects _NET_WM_STRUT_PARTIAL (or plain _NET_WM_STRUT) of every dock.
func (c *Connection) dockStruts() ([]ewmh.WmStrutPartial, int, int, bool) {
	rootGeom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(c.Root)).Reply()
	if err != nil {
		return nil, 0, 0, false
	}
	rootWidth := int(rootGeom.Width)
	rootHeight := int(rootGeom.Height)

	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return nil, 0, 0, false
	}

	var struts []ewmh.WmStrutPartial
	for _, windowID := range clients {
		if !c.hasWindowType(windowID, "_NET_WM_WINDOW_TYPE_DOCK") {
			continue
		}

		if sp, err := ewmh.WmStrutPartialGet(c.XUtil, windowID); err == nil {
			struts = append(struts, *sp)
			continue
		}

		// Some docks only set _NET_WM_STRUT (no partial ranges).
		if s, err := ewmh.WmStrutGet(c.XUtil, windowID); err == nil {
			struts = append(struts, ewmh.WmStrutPartial{
				Left:       s.Left,
				Right:      s.Right,
				Top:        s.Top,
				Bottom:     s.Bottom,
				LeftEndY:   uint(rootHeight - 1),
				RightEndY:  uint(rootHeight - 1),
				TopEndX:    uint(rootWidth - 1),
				BottomEndX: uint(rootWidth - 1),
			})
		}
	}
	return struts, rootWidth, rootHeight, true
}

type edges struct {
	left   int
	right  int
	top    int
	bottom int
}

// WorkAreaFromStruts subtracts the struts overlapping monitor. It reports
// false when no strut touches the monitor.
func WorkAreaFromStruts(monitor Area, rootWidth, rootHeight int, struts []ewmh.WmStrutPartial) (Area, bool) {
	var acc edges
	for i := range struts {
		addStrut(monitor, rootWidth, rootHeight, &struts[i], &acc)
	}
	if acc == (edges{}) {
		return monitor, false
	}

	out := Area{
		X:      monitor.X + acc.left,
		Y:      monitor.Y + acc.top,
		Width:  monitor.Width - (acc.left + acc.right),
		Height: monitor.Height - (acc.top + acc.bottom),
	}
	if out.Width < 1 {
		out.Width = 1
	}
	if out.Height < 1 {
		out.Height = 1
	}
	return out, true
}

func addStrut(monitor Area, rootWidth, rootHeight int, sp *ewmh.WmStrutPartial, acc *edges) {
	// Top strut: y=[0,Top), x=[TopStartX,TopEndX]
	if sp.Top > 0 {
		band := Area{X: int(sp.TopStartX), Y: 0, Width: int(sp.TopEndX) + 1 - int(sp.TopStartX), Height: int(sp.Top)}
		if isect, ok := intersect(monitor, band); ok {
			acc.top = max(acc.top, isect.Height)
		}
	}

	// Bottom strut: y=[rootHeight-Bottom,rootHeight), x=[BottomStartX,BottomEndX]
	if sp.Bottom > 0 {
		band := Area{X: int(sp.BottomStartX), Y: rootHeight - int(sp.Bottom), Width: int(sp.BottomEndX) + 1 - int(sp.BottomStartX), Height: int(sp.Bottom)}
		if isect, ok := intersect(monitor, band); ok {
			acc.bottom = max(acc.bottom, isect.Height)
		}
	}

	// Left strut: x=[0,Left), y=[LeftStartY,LeftEndY]
	if sp.Left > 0 {
		band := Area{X: 0, Y: int(sp.LeftStartY), Width: int(sp.Left), Height: int(sp.LeftEndY) + 1 - int(sp.LeftStartY)}
		if isect, ok := intersect(monitor, band); ok {
			acc.left = max(acc.left, isect.Width)
		}
	}

	// Right strut: x=[rootWidth-Right,rootWidth), y=[RightStartY,RightEndY]
	if sp.Right > 0 {
		band := Area{X: rootWidth - int(sp.Right), Y: int(sp.RightStartY), Width: int(sp.Right), Height: int(sp.RightEndY) + 1 - int(sp.RightStartY)}
		if isect, ok := intersect(monitor, band); ok {
			acc.right = max(acc.right, isect.Width)
		}
	}
}

func intersect(a, b Area) (Area, bool) {
	x1 := max(a.X, b.X)
	y1 := max(a.Y, b.Y)
	x2 := min(a.X+a.Width, b.X+b.Width)
	y2 := min(a.Y+a.Height, b.Y+b.Height)
	if x2 <= x1 || y2 <= y1 {
		return Area{}, false
	}
	return Area{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}, true
}
