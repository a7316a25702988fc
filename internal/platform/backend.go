package platform

import (
	"errors"
	"fmt"
)

// WindowID is a platform-neutral window handle (HWND on Windows, X11 window id on Linux).
type WindowID uintptr

// MinimizedThreshold is the coordinate below which both window edges indicate
// the OS has parked a minimized window off-screen (Windows uses -32000).
const MinimizedThreshold = -1000

// Rect is an edge-based rectangle in virtual desktop coordinates.
type Rect struct {
	Left   int
	Top    int
	Right  int
	Bottom int
}

// RectXYWH builds a Rect from an origin and size.
func RectXYWH(x, y, width, height int) Rect {
	return Rect{Left: x, Top: y, Right: x + width, Bottom: y + height}
}

func (r Rect) Width() int  { return r.Right - r.Left }
func (r Rect) Height() int { return r.Bottom - r.Top }

// Translate shifts the rectangle by (dx, dy) keeping its size.
func (r Rect) Translate(dx, dy int) Rect {
	return Rect{Left: r.Left + dx, Top: r.Top + dy, Right: r.Right + dx, Bottom: r.Bottom + dy}
}

// IsMinimized reports whether both the left and top edges are below threshold.
func (r Rect) IsMinimized(threshold int) bool {
	return r.Left < threshold && r.Top < threshold
}

// Contains reports whether the point lies inside the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.Left && x < r.Right && y >= r.Top && y < r.Bottom
}

func (r Rect) String() string {
	return fmt.Sprintf("X=%d Y=%d W=%d H=%d", r.Left, r.Top, r.Width(), r.Height())
}

// Screen describes an attached display.
type Screen struct {
	Name     string
	Bounds   Rect
	WorkArea Rect
	Primary  bool
}

// Process is a running process paired with its main top-level window.
// Window is zero when the process owns no such window.
type Process struct {
	PID    int
	Name   string
	Window WindowID
}

// Backend abstracts the window-system operations the gatherer needs.
type Backend interface {
	Screens() ([]Screen, error)
	Processes() ([]Process, error)
	WindowScreen(id WindowID) (Screen, error)
	WindowRect(id WindowID) (Rect, error)
	Restore(id WindowID) error
	Move(id WindowID, bounds Rect) error
	Focus(id WindowID) error
}

// ErrUnsupported is returned by Open on targets without a backend.
var ErrUnsupported = errors.New("no window system backend for this platform")

// ErrNoWindow is returned when a handle does not resolve to a live window.
var ErrNoWindow = errors.New("window not found")

// PrimaryScreen returns the screen flagged primary, or the first screen.
func PrimaryScreen(screens []Screen) (Screen, bool) {
	for _, s := range screens {
		if s.Primary {
			return s, true
		}
	}
	if len(screens) > 0 {
		return screens[0], true
	}
	return Screen{}, false
}

// NearestScreen returns the screen containing the rect's center, falling back
// to the screen sharing the largest area with it, then to the primary screen.
func NearestScreen(screens []Screen, r Rect) (Screen, bool) {
	cx := r.Left + r.Width()/2
	cy := r.Top + r.Height()/2
	for _, s := range screens {
		if s.Bounds.Contains(cx, cy) {
			return s, true
		}
	}

	best := -1
	bestArea := 0
	for i, s := range screens {
		if a := overlapArea(s.Bounds, r); a > bestArea {
			best, bestArea = i, a
		}
	}
	if best >= 0 {
		return screens[best], true
	}
	return PrimaryScreen(screens)
}

func overlapArea(a, b Rect) int {
	x1 := max(a.Left, b.Left)
	y1 := max(a.Top, b.Top)
	x2 := min(a.Right, b.Right)
	y2 := min(a.Bottom, b.Bottom)
	if x2 <= x1 || y2 <= y1 {
		return 0
	}
	return (x2 - x1) * (y2 - y1)
}
