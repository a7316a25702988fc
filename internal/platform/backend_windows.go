//go:build windows

package platform

import (
	"fmt"
	"strings"
	"sync"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32 = windows.NewLazySystemDLL("user32.dll")

	procEnumDisplayMonitors = user32.NewProc("EnumDisplayMonitors")
	procGetMonitorInfoW     = user32.NewProc("GetMonitorInfoW")
	procMonitorFromWindow   = user32.NewProc("MonitorFromWindow")
	procEnumWindows         = user32.NewProc("EnumWindows")
	procIsWindow            = user32.NewProc("IsWindow")
	procIsWindowVisible     = user32.NewProc("IsWindowVisible")
	procGetWindow           = user32.NewProc("GetWindow")
	procGetWindowRect       = user32.NewProc("GetWindowRect")
	procShowWindow          = user32.NewProc("ShowWindow")
	procMoveWindow          = user32.NewProc("MoveWindow")
	procSetForegroundWindow = user32.NewProc("SetForegroundWindow")
	procSetFocus            = user32.NewProc("SetFocus")
)

const (
	swRestore               = 9
	gwOwner                 = 4
	monitorDefaultToNearest = 2
	monitorInfoFPrimary     = 1
)

// monitorInfoEx mirrors MONITORINFOEXW.
type monitorInfoEx struct {
	CbSize    uint32
	RcMonitor windows.Rect
	RcWork    windows.Rect
	DwFlags   uint32
	SzDevice  [32]uint16
}

// WindowsBackend talks to user32 directly.
type WindowsBackend struct{}

var _ Backend = (*WindowsBackend)(nil)

// NewWindowsBackend returns the Win32 backend.
func NewWindowsBackend() *WindowsBackend {
	return &WindowsBackend{}
}

// Open returns the backend for the running platform.
func Open() (Backend, error) {
	if err := user32.Load(); err != nil {
		return nil, fmt.Errorf("failed to load user32.dll: %w", err)
	}
	return NewWindowsBackend(), nil
}

// Enumeration callbacks are allocated once; windows.NewCallback slots are finite.
var (
	enumMu        sync.Mutex
	enumMonitors  []uintptr
	enumWindows   []uintptr
	monitorCbOnce sync.Once
	monitorCb     uintptr
	windowCbOnce  sync.Once
	windowCb      uintptr
)

func monitorCallback() uintptr {
	monitorCbOnce.Do(func() {
		monitorCb = windows.NewCallback(func(hmon, hdc, rect, lparam uintptr) uintptr {
			enumMonitors = append(enumMonitors, hmon)
			return 1
		})
	})
	return monitorCb
}

func windowCallback() uintptr {
	windowCbOnce.Do(func() {
		windowCb = windows.NewCallback(func(hwnd, lparam uintptr) uintptr {
			enumWindows = append(enumWindows, hwnd)
			return 1
		})
	})
	return windowCb
}

// Screens returns attached displays in EnumDisplayMonitors order.
func (b *WindowsBackend) Screens() ([]Screen, error) {
	enumMu.Lock()
	enumMonitors = enumMonitors[:0]
	r, _, err := procEnumDisplayMonitors.Call(0, 0, monitorCallback(), 0)
	handles := append([]uintptr(nil), enumMonitors...)
	enumMu.Unlock()
	if r == 0 {
		return nil, fmt.Errorf("EnumDisplayMonitors failed: %w", err)
	}

	screens := make([]Screen, 0, len(handles))
	for _, h := range handles {
		s, err := screenFromMonitor(h)
		if err != nil {
			return nil, err
		}
		screens = append(screens, s)
	}
	return screens, nil
}

// Processes returns every running process, paired with its main window when it has one.
func (b *WindowsBackend) Processes() ([]Process, error) {
	mainWindows, err := mainWindowsByPID()
	if err != nil {
		return nil, err
	}

	snap, err := windows.CreateToolhelp32Snapshot(windows.TH32CS_SNAPPROCESS, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot processes: %w", err)
	}
	defer windows.CloseHandle(snap)

	var entry windows.ProcessEntry32
	entry.Size = uint32(unsafe.Sizeof(entry))
	if err := windows.Process32First(snap, &entry); err != nil {
		return nil, fmt.Errorf("failed to read process list: %w", err)
	}

	var procs []Process
	for {
		pid := int(entry.ProcessID)
		procs = append(procs, Process{
			PID:    pid,
			Name:   processName(windows.UTF16ToString(entry.ExeFile[:])),
			Window: mainWindows[pid],
		})
		if err := windows.Process32Next(snap, &entry); err != nil {
			if err == windows.ERROR_NO_MORE_FILES {
				break
			}
			return nil, fmt.Errorf("failed to read process list: %w", err)
		}
	}
	return procs, nil
}

// WindowScreen resolves the monitor the OS associates with the window.
func (b *WindowsBackend) WindowScreen(id WindowID) (Screen, error) {
	if !isWindow(id) {
		return Screen{}, ErrNoWindow
	}
	h, _, _ := procMonitorFromWindow.Call(uintptr(id), monitorDefaultToNearest)
	if h == 0 {
		return Screen{}, fmt.Errorf("MonitorFromWindow returned no monitor for %#x", uintptr(id))
	}
	return screenFromMonitor(h)
}

// WindowRect returns the window's bounding rectangle in screen coordinates.
func (b *WindowsBackend) WindowRect(id WindowID) (Rect, error) {
	var rc windows.Rect
	r, _, err := procGetWindowRect.Call(uintptr(id), uintptr(unsafe.Pointer(&rc)))
	if r == 0 {
		return Rect{}, fmt.Errorf("GetWindowRect: %w", err)
	}
	return rectFromWin(rc), nil
}

// Restore issues SW_RESTORE. The return value of ShowWindow is the previous
// visibility, not a status, so only an invalid handle is an error.
func (b *WindowsBackend) Restore(id WindowID) error {
	if !isWindow(id) {
		return ErrNoWindow
	}
	procShowWindow.Call(uintptr(id), swRestore)
	return nil
}

// Move moves and resizes the window, requesting a repaint.
func (b *WindowsBackend) Move(id WindowID, bounds Rect) error {
	r, _, err := procMoveWindow.Call(
		uintptr(id),
		uintptr(int32(bounds.Left)),
		uintptr(int32(bounds.Top)),
		uintptr(int32(bounds.Width())),
		uintptr(int32(bounds.Height())),
		1,
	)
	if r == 0 {
		return fmt.Errorf("MoveWindow: %w", err)
	}
	return nil
}

// Focus brings the window forward and gives it keyboard focus where the
// foreground lock allows; both calls are best effort.
func (b *WindowsBackend) Focus(id WindowID) error {
	if !isWindow(id) {
		return ErrNoWindow
	}
	procSetForegroundWindow.Call(uintptr(id))
	procSetFocus.Call(uintptr(id))
	return nil
}

// mainWindowsByPID picks, per process, the first visible unowned top-level window.
func mainWindowsByPID() (map[int]WindowID, error) {
	enumMu.Lock()
	enumWindows = enumWindows[:0]
	r, _, err := procEnumWindows.Call(windowCallback(), 0)
	hwnds := append([]uintptr(nil), enumWindows...)
	enumMu.Unlock()
	if r == 0 {
		return nil, fmt.Errorf("EnumWindows failed: %w", err)
	}

	out := make(map[int]WindowID)
	for _, hwnd := range hwnds {
		if visible, _, _ := procIsWindowVisible.Call(hwnd); visible == 0 {
			continue
		}
		if owner, _, _ := procGetWindow.Call(hwnd, gwOwner); owner != 0 {
			continue
		}
		var pid uint32
		if _, err := windows.GetWindowThreadProcessId(windows.HWND(hwnd), &pid); err != nil {
			continue
		}
		if _, ok := out[int(pid)]; !ok {
			out[int(pid)] = WindowID(hwnd)
		}
	}
	return out, nil
}

func screenFromMonitor(h uintptr) (Screen, error) {
	var mi monitorInfoEx
	mi.CbSize = uint32(unsafe.Sizeof(mi))
	r, _, err := procGetMonitorInfoW.Call(h, uintptr(unsafe.Pointer(&mi)))
	if r == 0 {
		return Screen{}, fmt.Errorf("GetMonitorInfoW: %w", err)
	}
	return Screen{
		Name:     windows.UTF16ToString(mi.SzDevice[:]),
		Bounds:   rectFromWin(mi.RcMonitor),
		WorkArea: rectFromWin(mi.RcWork),
		Primary:  mi.DwFlags&monitorInfoFPrimary != 0,
	}, nil
}

func isWindow(id WindowID) bool {
	r, _, _ := procIsWindow.Call(uintptr(id))
	return r != 0
}

func rectFromWin(rc windows.Rect) Rect {
	return Rect{Left: int(rc.Left), Top: int(rc.Top), Right: int(rc.Right), Bottom: int(rc.Bottom)}
}

// processName drops the .exe suffix the way Process.ProcessName reports names.
func processName(exe string) string {
	if len(exe) > 4 && strings.EqualFold(exe[len(exe)-4:], ".exe") {
		return exe[:len(exe)-4]
	}
	return exe
}
