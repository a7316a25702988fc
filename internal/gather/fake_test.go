package gather

import (
	"fmt"
	"strings"

	"github.com/barbatron/gather/internal/platform"
)

// fakeBackend is an in-memory window system that records every call.
type fakeBackend struct {
	screens []platform.Screen
	procs   []platform.Process

	// per-window state
	screenOf map[platform.WindowID]string
	rects    map[platform.WindowID]platform.Rect
	// restored replaces the rect when Restore is called; absent keeps the old one.
	restored map[platform.WindowID]platform.Rect

	rectErr    map[platform.WindowID]error
	screenErr  map[platform.WindowID]error
	moveErr    map[platform.WindowID]error
	restoreErr map[platform.WindowID]error
	procErr    error

	calls  []string
	moves  map[platform.WindowID]platform.Rect
	closed bool
}

func newFakeBackend(screens ...platform.Screen) *fakeBackend {
	return &fakeBackend{
		screens:    screens,
		screenOf:   map[platform.WindowID]string{},
		rects:      map[platform.WindowID]platform.Rect{},
		restored:   map[platform.WindowID]platform.Rect{},
		rectErr:    map[platform.WindowID]error{},
		screenErr:  map[platform.WindowID]error{},
		moveErr:    map[platform.WindowID]error{},
		restoreErr: map[platform.WindowID]error{},
		moves:      map[platform.WindowID]platform.Rect{},
	}
}

// addWindow registers a process whose main window sits on the named screen.
func (f *fakeBackend) addWindow(pid int, name string, id platform.WindowID, screen string, r platform.Rect) {
	f.procs = append(f.procs, platform.Process{PID: pid, Name: name, Window: id})
	f.screenOf[id] = screen
	f.rects[id] = r
}

func (f *fakeBackend) Screens() ([]platform.Screen, error) {
	f.calls = append(f.calls, "Screens")
	return f.screens, nil
}

func (f *fakeBackend) Processes() ([]platform.Process, error) {
	f.calls = append(f.calls, "Processes")
	if f.procErr != nil {
		return nil, f.procErr
	}
	return f.procs, nil
}

func (f *fakeBackend) WindowScreen(id platform.WindowID) (platform.Screen, error) {
	f.calls = append(f.calls, fmt.Sprintf("WindowScreen(%d)", id))
	if err := f.screenErr[id]; err != nil {
		return platform.Screen{}, err
	}
	name, ok := f.screenOf[id]
	if !ok {
		return platform.Screen{}, platform.ErrNoWindow
	}
	for _, s := range f.screens {
		if s.Name == name {
			return s, nil
		}
	}
	return platform.Screen{}, fmt.Errorf("unknown screen %q", name)
}

func (f *fakeBackend) WindowRect(id platform.WindowID) (platform.Rect, error) {
	f.calls = append(f.calls, fmt.Sprintf("WindowRect(%d)", id))
	if err := f.rectErr[id]; err != nil {
		return platform.Rect{}, err
	}
	r, ok := f.rects[id]
	if !ok {
		return platform.Rect{}, platform.ErrNoWindow
	}
	return r, nil
}

func (f *fakeBackend) Restore(id platform.WindowID) error {
	f.calls = append(f.calls, fmt.Sprintf("Restore(%d)", id))
	if err := f.restoreErr[id]; err != nil {
		return err
	}
	if r, ok := f.restored[id]; ok {
		f.rects[id] = r
	}
	return nil
}

func (f *fakeBackend) Move(id platform.WindowID, r platform.Rect) error {
	f.calls = append(f.calls, fmt.Sprintf("Move(%d)", id))
	if err := f.moveErr[id]; err != nil {
		return err
	}
	f.moves[id] = r
	f.rects[id] = r
	return nil
}

func (f *fakeBackend) Focus(id platform.WindowID) error {
	f.calls = append(f.calls, fmt.Sprintf("Focus(%d)", id))
	return nil
}

func (f *fakeBackend) Close() error {
	f.closed = true
	return nil
}

// mutatingCalls returns the calls that change window state.
func (f *fakeBackend) mutatingCalls() []string {
	var out []string
	for _, c := range f.calls {
		for _, prefix := range []string{"Restore(", "Move(", "Focus("} {
			if strings.HasPrefix(c, prefix) {
				out = append(out, c)
			}
		}
	}
	return out
}

// Two side-by-side screens; the right one is primary with a bottom taskbar.
var (
	screenLeft = platform.Screen{
		Name:     `\\.\DISPLAY1`,
		Bounds:   platform.RectXYWH(-1920, 0, 1920, 1080),
		WorkArea: platform.RectXYWH(-1920, 0, 1920, 1080),
	}
	screenMain = platform.Screen{
		Name:     `\\.\DISPLAY2`,
		Bounds:   platform.RectXYWH(0, 0, 2560, 1440),
		WorkArea: platform.RectXYWH(0, 0, 2560, 1400),
		Primary:  true,
	}
	screenTop = platform.Screen{
		Name:     `\\.\DISPLAY3`,
		Bounds:   platform.RectXYWH(0, -1080, 1920, 1080),
		WorkArea: platform.RectXYWH(0, -1080, 1920, 1080),
	}
)
