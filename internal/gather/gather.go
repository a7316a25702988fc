package gather

import (
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/barbatron/gather/internal/console"
	"github.com/barbatron/gather/internal/platform"
)

// Options carries run-wide settings.
type Options struct {
	Prog            string
	Defaults        Defaults
	Threshold       int
	StrictOptions   bool
	ContinueOnError bool
	DryRun          bool
}

// App runs one gather invocation. Connect is called at most once, and only
// when the command needs the window system.
type App struct {
	Connect func() (platform.Backend, error)
	Console *console.Console
	Logger  *slog.Logger
	Options Options
}

// Run executes the command line and returns the process exit code.
func (a *App) Run(args []string) int {
	cmd, err := ParseArgs(args, a.Options.StrictOptions)
	if err != nil {
		a.Console.Errorf("%v", err)
		return ExitUsage
	}
	for _, opt := range cmd.Ignored {
		a.Logger.Warn("ignoring unknown option", "option", opt)
	}
	if cmd.Mode == ModeUsage {
		PrintUsage(a.Console.Out, a.Options.Prog)
		return ExitOK
	}

	backend, err := a.Connect()
	if err != nil {
		a.Console.Errorf("%v", err)
		return ExitRuntime
	}
	if closer, ok := backend.(io.Closer); ok {
		defer closer.Close()
	}

	screens, err := backend.Screens()
	if err != nil {
		a.Console.Errorf("failed to enumerate screens: %v", err)
		return ExitRuntime
	}
	a.Logger.Debug("screens enumerated", "count", len(screens))

	if cmd.Mode == ModeListScreens {
		ListScreens(a.Console, screens)
		return ExitOK
	}

	plan, err := Resolve(cmd, screens, a.Options.Defaults)
	if err != nil {
		a.Console.Errorf("%v", err)
		var uerr *UsageError
		if errors.As(err, &uerr) {
			return ExitUsage
		}
		return ExitRuntime
	}

	cands, err := Select(backend, plan, a.Logger)
	if err != nil {
		a.Console.Errorf("%v", err)
		return ExitRuntime
	}
	if len(cands) == 0 {
		a.Console.Println("No windows found to move")
		return ExitOK
	}

	a.printHeader(plan, cands)

	threshold := a.Options.Threshold
	if threshold == 0 {
		threshold = platform.MinimizedThreshold
	}
	mover := &Mover{
		Backend:         backend,
		Console:         a.Console,
		Logger:          a.Logger,
		Threshold:       threshold,
		DryRun:          a.Options.DryRun,
		ContinueOnError: a.Options.ContinueOnError,
	}
	summary, err := mover.MoveAll(cands, plan.To)
	if err != nil && !a.Options.ContinueOnError {
		return ExitRuntime
	}

	if a.Options.DryRun {
		a.Console.Heading("Dry run: would move %d, skipped %d", summary.Moved, summary.Skipped)
	} else {
		a.Console.Heading("Moved %d, skipped %d, failed %d", summary.Moved, summary.Skipped, summary.Failed)
	}
	if err != nil {
		return ExitRuntime
	}
	return ExitOK
}

func (a *App) printHeader(plan Plan, cands []Candidate) {
	names := make([]string, len(cands))
	for i, c := range cands {
		names[i] = c.Process.Name
	}
	a.Console.Heading("Gathering windows from screens %s -> %s", screenNames(plan.From), plan.To.Name)
	a.Console.Println("Target screen bounds: " + plan.To.Bounds.String())
	a.Console.Println("Matching processes: " + strings.Join(names, ", "))
}
