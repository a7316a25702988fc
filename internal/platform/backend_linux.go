//go:build linux

package platform

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"

	"github.com/barbatron/gather/internal/x11"
)

// hiddenSentinel is where minimized windows are reported, matching the
// off-screen placement Windows uses for iconic windows.
const hiddenSentinel = -32000

// LinuxBackend implements Backend over an X11 connection with an EWMH window manager.
type LinuxBackend struct {
	conn *x11.Connection
}

var _ Backend = (*LinuxBackend)(nil)

// NewLinuxBackend creates a Linux platform backend from an existing X11 connection.
func NewLinuxBackend(conn *x11.Connection) *LinuxBackend {
	return &LinuxBackend{conn: conn}
}

// Open connects to $DISPLAY.
func Open() (Backend, error) {
	conn, err := x11.NewConnection()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return &LinuxBackend{conn: conn}, nil
}

// Close closes the underlying X11 connection.
func (b *LinuxBackend) Close() error {
	if b != nil && b.conn != nil {
		b.conn.Close()
	}
	return nil
}

// Screens returns RandR monitors in CRTC order.
func (b *LinuxBackend) Screens() ([]Screen, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}

	monitors, err := conn.GetMonitors()
	if err != nil {
		return nil, err
	}

	screens := make([]Screen, 0, len(monitors))
	for _, m := range monitors {
		screens = append(screens, Screen{
			Name:     m.Name,
			Bounds:   rectFromArea(m.Area),
			WorkArea: rectFromArea(m.WorkArea),
			Primary:  m.Primary,
		})
	}
	if _, ok := primaryIndex(screens); !ok && len(screens) > 0 {
		screens[0].Primary = true
	}
	return screens, nil
}

// Processes groups managed windows by _NET_WM_PID; the first window of each
// process in client-list order is its main window.
func (b *LinuxBackend) Processes() ([]Process, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}

	clients, err := conn.Clients()
	if err != nil {
		return nil, err
	}

	seen := make(map[int]bool)
	var procs []Process
	for _, c := range clients {
		if c.PID == 0 || seen[c.PID] {
			continue
		}
		seen[c.PID] = true

		name, err := x11.ProcessName(c.PID)
		if err != nil || name == "" {
			name = c.Class
		}
		procs = append(procs, Process{PID: c.PID, Name: name, Window: WindowID(c.Window)})
	}
	return procs, nil
}

// WindowScreen returns the monitor nearest to the window's real geometry,
// including for minimized windows.
func (b *LinuxBackend) WindowScreen(id WindowID) (Screen, error) {
	conn, err := b.connection()
	if err != nil {
		return Screen{}, err
	}

	area, err := conn.Geometry(xproto.Window(id))
	if err != nil {
		return Screen{}, err
	}

	screens, err := b.Screens()
	if err != nil {
		return Screen{}, err
	}
	s, ok := NearestScreen(screens, rectFromArea(area))
	if !ok {
		return Screen{}, fmt.Errorf("no screens attached")
	}
	return s, nil
}

// WindowRect returns the window geometry, or the minimized sentinel when the
// window manager reports it hidden.
func (b *LinuxBackend) WindowRect(id WindowID) (Rect, error) {
	conn, err := b.connection()
	if err != nil {
		return Rect{}, err
	}

	area, err := conn.Geometry(xproto.Window(id))
	if err != nil {
		return Rect{}, err
	}
	if conn.IsHidden(xproto.Window(id)) {
		return RectXYWH(hiddenSentinel, hiddenSentinel, area.Width, area.Height), nil
	}
	return rectFromArea(area), nil
}

// Restore asks the window manager to activate, and thereby de-iconify, the window.
func (b *LinuxBackend) Restore(id WindowID) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.ActivateWindow(xproto.Window(id))
}

// Move moves and resizes a window to the specified bounds.
func (b *LinuxBackend) Move(id WindowID, bounds Rect) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.MoveResizeWindow(xproto.Window(id), bounds.Left, bounds.Top, bounds.Width(), bounds.Height())
}

// Focus activates and raises the window.
func (b *LinuxBackend) Focus(id WindowID) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.ActivateWindow(xproto.Window(id))
}

func (b *LinuxBackend) connection() (*x11.Connection, error) {
	if b == nil || b.conn == nil {
		return nil, fmt.Errorf("x11 backend connection is nil")
	}
	return b.conn, nil
}

func primaryIndex(screens []Screen) (int, bool) {
	for i, s := range screens {
		if s.Primary {
			return i, true
		}
	}
	return -1, false
}

func rectFromArea(a x11.Area) Rect {
	return RectXYWH(a.X, a.Y, a.Width, a.Height)
}
