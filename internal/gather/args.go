package gather

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Mode is what a command line asks for.
type Mode int

const (
	ModeUsage Mode = iota
	ModeListScreens
	ModeGather
)

// ScreenRef is an unresolved screen token: a 1-based index or the primary screen.
type ScreenRef struct {
	Primary bool
	Index   int
}

func (r ScreenRef) String() string {
	if r.Primary {
		return "p"
	}
	return strconv.Itoa(r.Index)
}

// Command is a parsed command line.
type Command struct {
	Mode  Mode
	From  []ScreenRef
	To    []ScreenRef // nil when no "to" option was given
	Procs []string
	// Ignored holds unknown option tokens skipped in lenient mode.
	Ignored []string
}

// ParseScreenRefs parses a comma-separated screen spec such as "1,2" or "p".
// Any token starting with "p" (either case) means the primary screen.
func ParseScreenRefs(spec string) ([]ScreenRef, error) {
	parts := strings.Split(spec, ",")
	refs := make([]ScreenRef, 0, len(parts))
	for _, part := range parts {
		tok := strings.TrimSpace(part)
		if tok == "" {
			return nil, usageErrorf("empty screen in %q", spec)
		}
		if strings.HasPrefix(strings.ToLower(tok), "p") {
			refs = append(refs, ScreenRef{Primary: true})
			continue
		}
		n, err := strconv.Atoi(tok)
		if err != nil {
			return nil, usageErrorf("invalid screen %q: expected a 1-based index or p[rimary]", tok)
		}
		if n < 1 {
			return nil, usageErrorf("invalid screen %d: screens are numbered from 1", n)
		}
		refs = append(refs, ScreenRef{Index: n})
	}
	return refs, nil
}

// ParseArgs interprets the positional command line. Options come in
// (option, value) pairs; unknown options are skipped unless strict is set.
func ParseArgs(args []string, strict bool) (Command, error) {
	if len(args) == 0 {
		return Command{Mode: ModeUsage}, nil
	}
	switch args[0] {
	case "ls":
		return Command{Mode: ModeListScreens}, nil
	case "help", "-h", "--help":
		return Command{Mode: ModeUsage}, nil
	}

	cmd := Command{Mode: ModeGather}
	seenProc := make(map[string]bool)
	for i := 0; i < len(args); i += 2 {
		option := args[i]
		if i+1 >= len(args) {
			return Command{}, usageErrorf("option %q requires a value", option)
		}
		value := args[i+1]

		switch option {
		case "from":
			refs, err := ParseScreenRefs(value)
			if err != nil {
				return Command{}, err
			}
			cmd.From = append(cmd.From, refs...)
		case "to":
			refs, err := ParseScreenRefs(value)
			if err != nil {
				return Command{}, err
			}
			if len(refs) > 1 {
				return Command{}, usageErrorf("Cannot specify multiple screens to move to")
			}
			cmd.To = refs
		case "proc":
			for _, name := range strings.Split(value, ",") {
				name = strings.TrimSpace(name)
				if name == "" || seenProc[name] {
					continue
				}
				seenProc[name] = true
				cmd.Procs = append(cmd.Procs, name)
			}
		default:
			if strict {
				return Command{}, usageErrorf("unknown option %q (expected from, to or proc)", option)
			}
			cmd.Ignored = append(cmd.Ignored, option)
		}
	}
	return cmd, nil
}

// PrintUsage writes the help text.
func PrintUsage(w io.Writer, prog string) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "")
	fmt.Fprintf(w, "  %s ls                 List screens\n", prog)
	fmt.Fprintf(w, "  %s from 1,2           Gather windows from screens 1+2 to the primary screen\n", prog)
	fmt.Fprintf(w, "  %s from 2 to 1        Gather windows from screen 2 to screen 1\n", prog)
	fmt.Fprintf(w, "  %s to 1               Gather windows from all screens to screen 1\n", prog)
	fmt.Fprintf(w, "  %s to p[rimary]       Gather windows from all screens to the primary screen\n", prog)
	fmt.Fprintf(w, "  %s proc notepad,1234  Only gather windows of matching process names or PIDs\n", prog)
	fmt.Fprintln(w, "")
	fmt.Fprintf(w, "Options combine, e.g. '%s from 1,2 to p proc notepad'.\n", prog)
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Flags (before the command):")
	fmt.Fprintln(w, "  --config PATH  Config file (default: <user config dir>/gather/config.yaml)")
	fmt.Fprintln(w, "  --dry-run      Show what would move without touching any window")
	fmt.Fprintln(w, "  --verbose      Log diagnostics at debug level")
}
