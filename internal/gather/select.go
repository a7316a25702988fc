package gather

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/barbatron/gather/internal/platform"
)

// Candidate is a selected window with the screen it is on and its rectangle
// at selection time.
type Candidate struct {
	Process platform.Process
	Screen  platform.Screen
	Rect    platform.Rect
}

// matchesFilter reports whether s contains any of names, ignoring case.
// An empty filter matches everything.
func matchesFilter(names []string, s string) bool {
	if len(names) == 0 {
		return true
	}
	s = strings.ToLower(s)
	for _, n := range names {
		if strings.Contains(s, strings.ToLower(n)) {
			return true
		}
	}
	return false
}

// Select returns, in process enumeration order, the main windows of matching
// processes that are displayed on one of plan.From. Windows whose screen or
// rectangle cannot be queried are left out.
func Select(b platform.Backend, plan Plan, logger *slog.Logger) ([]Candidate, error) {
	procs, err := b.Processes()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate processes: %w", err)
	}

	var out []Candidate
	for _, p := range procs {
		if !matchesFilter(plan.Procs, p.Name) && !matchesFilter(plan.Procs, strconv.Itoa(p.PID)) {
			continue
		}
		if p.Window == 0 {
			continue
		}

		screen, err := b.WindowScreen(p.Window)
		if err != nil {
			logger.Debug("window screen unavailable", "pid", p.PID, "name", p.Name, "err", err)
			continue
		}
		if !containsScreen(plan.From, screen) {
			continue
		}

		rect, err := b.WindowRect(p.Window)
		if err != nil {
			logger.Debug("window rect unavailable", "pid", p.PID, "name", p.Name, "err", err)
			continue
		}

		logger.Debug("selected window", "pid", p.PID, "name", p.Name, "screen", screen.Name, "rect", rect.String())
		out = append(out, Candidate{Process: p, Screen: screen, Rect: rect})
	}
	return out, nil
}
