package gather

import "fmt"

// Process exit codes.
const (
	ExitOK      = 0
	ExitUsage   = 1
	ExitRuntime = 2
)

// UsageError reports malformed arguments; no window has been touched.
type UsageError struct {
	Msg string
}

func (e *UsageError) Error() string { return e.Msg }

func usageErrorf(format string, args ...any) error {
	return &UsageError{Msg: fmt.Sprintf(format, args...)}
}

// WindowError is a failure while manipulating one selected window.
type WindowError struct {
	PID  int
	Name string
	Op   string
	Err  error
}

func (e *WindowError) Error() string {
	return fmt.Sprintf("%s (%d): %s failed: %v", e.Name, e.PID, e.Op, e.Err)
}

func (e *WindowError) Unwrap() error { return e.Err }
