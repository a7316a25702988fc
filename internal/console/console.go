package console

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

var (
	colorHeading = lipgloss.Color("#61AFEF")
	colorMuted   = lipgloss.Color("#828997")
	colorAccent  = lipgloss.Color("#98C379")
	colorWarn    = lipgloss.Color("#E5C07B")
	colorError   = lipgloss.Color("#E06C75")
)

// Console is the user-facing output sink: results on Out, failures on Err.
type Console struct {
	Out io.Writer
	Err io.Writer

	color   bool
	heading lipgloss.Style
	muted   lipgloss.Style
	accent  lipgloss.Style
	warn    lipgloss.Style
	errorS  lipgloss.Style
}

// New creates a console. mode is auto, always or never; auto colours only
// when out is a terminal.
func New(out, errOut io.Writer, mode string) *Console {
	c := &Console{Out: out, Err: errOut}

	switch mode {
	case "always":
		c.color = true
	case "auto":
		c.color = isTerminal(out)
	}
	if !c.color {
		return c
	}

	r := lipgloss.NewRenderer(out)
	if mode == "always" {
		r.SetColorProfile(termenv.ANSI256)
	}
	c.heading = r.NewStyle().Foreground(colorHeading).Bold(true)
	c.muted = r.NewStyle().Foreground(colorMuted)
	c.accent = r.NewStyle().Foreground(colorAccent)
	c.warn = r.NewStyle().Foreground(colorWarn)
	c.errorS = r.NewStyle().Foreground(colorError).Bold(true)
	return c
}

// Plain returns a console that never colours, for tests and pipes.
func Plain(out, errOut io.Writer) *Console {
	return New(out, errOut, "never")
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (c *Console) render(s lipgloss.Style, text string) string {
	if !c.color {
		return text
	}
	return s.Render(text)
}

// Printf writes unstyled text to Out.
func (c *Console) Printf(format string, args ...any) {
	fmt.Fprintf(c.Out, format, args...)
}

// Println writes an unstyled line to Out.
func (c *Console) Println(args ...any) {
	fmt.Fprintln(c.Out, args...)
}

// Heading writes an emphasized line to Out.
func (c *Console) Heading(format string, args ...any) {
	fmt.Fprintln(c.Out, c.render(c.heading, fmt.Sprintf(format, args...)))
}

// Detail writes an indented, de-emphasized line to Out.
func (c *Console) Detail(format string, args ...any) {
	fmt.Fprintln(c.Out, "  "+c.render(c.muted, fmt.Sprintf(format, args...)))
}

// Notice writes an indented line to Out for a non-fatal condition.
func (c *Console) Notice(format string, args ...any) {
	fmt.Fprintln(c.Out, "  "+c.render(c.warn, fmt.Sprintf(format, args...)))
}

// Accent highlights a fragment for inline use.
func (c *Console) Accent(text string) string {
	return c.render(c.accent, text)
}

// Errorf writes a line to Err.
func (c *Console) Errorf(format string, args ...any) {
	fmt.Fprintln(c.Err, c.render(c.errorS, fmt.Sprintf(format, args...)))
}
