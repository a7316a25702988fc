package gather

import (
	"errors"
	"testing"

	"github.com/barbatron/gather/internal/logging"
	"github.com/barbatron/gather/internal/platform"
)

func selectedPIDs(cands []Candidate) []int {
	out := make([]int, len(cands))
	for i, c := range cands {
		out[i] = c.Process.PID
	}
	return out
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestMatchesFilter(t *testing.T) {
	tests := []struct {
		names []string
		s     string
		want  bool
	}{
		{nil, "anything", true},
		{[]string{"note"}, "Notepad", true},
		{[]string{"CODE"}, "code", true},
		{[]string{"chrome", "pad"}, "notepad", true},
		{[]string{"chrome"}, "notepad", false},
		{[]string{"123"}, "41234", true},
	}
	for _, tt := range tests {
		if got := matchesFilter(tt.names, tt.s); got != tt.want {
			t.Fatalf("matchesFilter(%q, %q) = %v, want %v", tt.names, tt.s, got, tt.want)
		}
	}
}

func TestSelect_FiltersByScreenAndProcess(t *testing.T) {
	fb := newFakeBackend(screenLeft, screenMain, screenTop)
	fb.addWindow(100, "Notepad", 1, screenLeft.Name, platform.RectXYWH(-1800, 100, 800, 600))
	fb.addWindow(200, "chrome", 2, screenLeft.Name, platform.RectXYWH(-1000, 0, 900, 900))
	fb.addWindow(300, "notepad", 3, screenMain.Name, platform.RectXYWH(10, 10, 800, 600))
	fb.addWindow(400, "notepad", 4, screenTop.Name, platform.RectXYWH(0, -1000, 800, 600))

	plan := Plan{From: []platform.Screen{screenLeft, screenTop}, To: screenMain, Procs: []string{"NOTE"}}
	cands, err := Select(fb, plan, logging.Discard())
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if got := selectedPIDs(cands); !equalInts(got, []int{100, 400}) {
		t.Fatalf("expected pids [100 400], got %v", got)
	}
	if cands[0].Screen.Name != screenLeft.Name || cands[0].Rect != platform.RectXYWH(-1800, 100, 800, 600) {
		t.Fatalf("unexpected candidate %+v", cands[0])
	}
	if len(fb.mutatingCalls()) != 0 {
		t.Fatalf("select must not change windows, got %v", fb.mutatingCalls())
	}
}

func TestSelect_MatchesPID(t *testing.T) {
	fb := newFakeBackend(screenLeft, screenMain)
	fb.addWindow(1234, "app", 1, screenLeft.Name, platform.RectXYWH(-1800, 0, 100, 100))
	fb.addWindow(5678, "app", 2, screenLeft.Name, platform.RectXYWH(-1800, 0, 100, 100))

	plan := Plan{From: []platform.Screen{screenLeft}, To: screenMain, Procs: []string{"1234"}}
	cands, err := Select(fb, plan, logging.Discard())
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if got := selectedPIDs(cands); !equalInts(got, []int{1234}) {
		t.Fatalf("expected pid 1234, got %v", got)
	}
}

func TestSelect_SkipsUnqueryableWindows(t *testing.T) {
	fb := newFakeBackend(screenLeft, screenMain)
	fb.procs = append(fb.procs, platform.Process{PID: 10, Name: "daemon"})
	fb.addWindow(20, "gone", 2, screenLeft.Name, platform.RectXYWH(-1800, 0, 100, 100))
	fb.addWindow(30, "norect", 3, screenLeft.Name, platform.RectXYWH(-1800, 0, 100, 100))
	fb.addWindow(40, "ok", 4, screenLeft.Name, platform.RectXYWH(-1800, 0, 100, 100))
	fb.screenErr[2] = platform.ErrNoWindow
	fb.rectErr[3] = errors.New("access denied")

	plan := Plan{From: []platform.Screen{screenLeft}, To: screenMain}
	cands, err := Select(fb, plan, logging.Discard())
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if got := selectedPIDs(cands); !equalInts(got, []int{40}) {
		t.Fatalf("expected only pid 40, got %v", got)
	}
	for _, c := range fb.calls {
		if c == "WindowScreen(0)" || c == "WindowRect(0)" {
			t.Fatalf("windowless process must not be queried, got %s", c)
		}
	}
}

func TestSelect_ProcessEnumerationError(t *testing.T) {
	fb := newFakeBackend(screenLeft, screenMain)
	fb.procErr = errors.New("snapshot failed")

	_, err := Select(fb, Plan{From: []platform.Screen{screenLeft}, To: screenMain}, logging.Discard())
	if err == nil {
		t.Fatalf("expected error")
	}
	if !errors.Is(err, fb.procErr) {
		t.Fatalf("expected wrapped snapshot error, got %v", err)
	}
}
