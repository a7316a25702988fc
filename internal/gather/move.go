package gather

import (
	"errors"
	"log/slog"

	"github.com/barbatron/gather/internal/console"
	"github.com/barbatron/gather/internal/platform"
)

// Outcome is the terminal state of one window.
type Outcome int

const (
	OutcomeSkipped Outcome = iota
	OutcomeMoved
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeMoved:
		return "moved"
	case OutcomeFailed:
		return "failed"
	default:
		return "skipped"
	}
}

// Summary counts outcomes of a run.
type Summary struct {
	Moved   int
	Skipped int
	Failed  int
}

// Mover repositions selected windows onto a destination screen.
type Mover struct {
	Backend platform.Backend
	Console *console.Console
	Logger  *slog.Logger

	// Threshold is the minimized sentinel bound, see platform.Rect.IsMinimized.
	Threshold int
	// DryRun computes and prints targets without restoring, moving or focusing.
	DryRun bool
	// ContinueOnError processes the remaining windows after a failure.
	// Otherwise the first failure stops the run.
	ContinueOnError bool
}

// MoveAll processes candidates in order. Each failure is printed to the
// error stream as it happens; the returned error is non-nil if any window
// failed, and in fail-fast mode later windows are never attempted.
func (m *Mover) MoveAll(cands []Candidate, to platform.Screen) (Summary, error) {
	var summary Summary
	var failures []error

	for _, c := range cands {
		outcome, err := m.moveOne(c, to)
		m.Logger.Debug("window processed", "pid", c.Process.PID, "name", c.Process.Name, "outcome", outcome.String())

		switch outcome {
		case OutcomeMoved:
			summary.Moved++
		case OutcomeSkipped:
			summary.Skipped++
		case OutcomeFailed:
			summary.Failed++
		}
		if err == nil {
			continue
		}

		m.Console.Println()
		m.Console.Errorf("%v", err)
		m.Logger.Error("window failed", "pid", c.Process.PID, "name", c.Process.Name, "err", err)
		if !m.ContinueOnError {
			return summary, err
		}
		failures = append(failures, err)
	}
	return summary, errors.Join(failures...)
}

func (m *Mover) moveOne(c Candidate, to platform.Screen) (Outcome, error) {
	p := c.Process
	m.Console.Printf("%s (%d)\n", p.Name, p.PID)

	if sameScreen(c.Screen, to) {
		m.Console.Notice("Skipping - already in target screen")
		return OutcomeSkipped, nil
	}

	rect, err := m.Backend.WindowRect(p.Window)
	if err != nil {
		m.Console.Notice("Unable to get window rect - skipping")
		m.Logger.Debug("rect unavailable", "pid", p.PID, "err", err)
		return OutcomeSkipped, nil
	}
	m.Console.Detail("Original rect: %s", rect)

	if rect.IsMinimized(m.Threshold) {
		m.Console.Notice("Window is minimized - restoring to measure...")
		if m.DryRun {
			m.Console.Detail("Dry run - not restoring")
		} else {
			if err := m.Backend.Restore(p.Window); err != nil {
				return OutcomeFailed, &WindowError{PID: p.PID, Name: p.Name, Op: "restore", Err: err}
			}
			if restored, err := m.Backend.WindowRect(p.Window); err != nil {
				m.Console.Notice("Unable to read rect!")
			} else {
				rect = restored
			}
		}
		if rect.IsMinimized(m.Threshold) {
			m.Console.Notice("Still minimized - falling back to fullscreen on target")
			rect = fallbackRect(c.Screen, to)
		}
	}
	m.Console.Detail("Window rect: %s", rect)

	target := targetRect(rect, c.Screen, to)
	m.Console.Detail("Target rect: %s", target)

	if m.DryRun {
		return OutcomeMoved, nil
	}
	if err := m.Backend.Move(p.Window, target); err != nil {
		return OutcomeFailed, &WindowError{PID: p.PID, Name: p.Name, Op: "move", Err: err}
	}
	if err := m.Backend.Focus(p.Window); err != nil {
		return OutcomeFailed, &WindowError{PID: p.PID, Name: p.Name, Op: "focus", Err: err}
	}
	return OutcomeMoved, nil
}

// targetRect keeps the window's offset from its screen origin and its size.
func targetRect(r platform.Rect, from, to platform.Screen) platform.Rect {
	return r.Translate(to.Bounds.Left-from.Bounds.Left, to.Bounds.Top-from.Bounds.Top)
}

// fallbackRect stands in for a window whose restored size is unknowable: at
// the source screen origin, sized to the destination work area.
func fallbackRect(from, to platform.Screen) platform.Rect {
	return platform.RectXYWH(from.Bounds.Left, from.Bounds.Top, to.WorkArea.Width(), to.WorkArea.Height())
}
