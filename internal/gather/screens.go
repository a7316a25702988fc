package gather

import (
	"strings"

	"github.com/barbatron/gather/internal/console"
	"github.com/barbatron/gather/internal/platform"
)

// Plan is a gather request resolved against the attached screens.
type Plan struct {
	From  []platform.Screen
	To    platform.Screen
	Procs []string
}

// Defaults apply when the command line omits "from" or "to".
// An empty From means every attached screen.
type Defaults struct {
	From []ScreenRef
	To   ScreenRef
}

// Resolve maps screen references onto screens. Duplicate sources collapse
// to their first occurrence.
func Resolve(cmd Command, screens []platform.Screen, defaults Defaults) (Plan, error) {
	if len(screens) == 0 {
		return Plan{}, usageErrorf("no screens attached")
	}

	plan := Plan{Procs: cmd.Procs}

	fromRefs := cmd.From
	if len(fromRefs) == 0 {
		fromRefs = defaults.From
	}
	if len(fromRefs) == 0 {
		plan.From = append(plan.From, screens...)
	}
	for _, ref := range fromRefs {
		s, err := resolveRef(ref, screens)
		if err != nil {
			return Plan{}, err
		}
		if !containsScreen(plan.From, s) {
			plan.From = append(plan.From, s)
		}
	}

	toRef := defaults.To
	if len(cmd.To) > 0 {
		toRef = cmd.To[0]
	}
	to, err := resolveRef(toRef, screens)
	if err != nil {
		return Plan{}, err
	}
	plan.To = to
	return plan, nil
}

func resolveRef(ref ScreenRef, screens []platform.Screen) (platform.Screen, error) {
	if ref.Primary {
		s, ok := platform.PrimaryScreen(screens)
		if !ok {
			return platform.Screen{}, usageErrorf("no screens attached")
		}
		return s, nil
	}
	if ref.Index < 1 || ref.Index > len(screens) {
		return platform.Screen{}, usageErrorf("screen %d does not exist (%d attached; run 'ls')", ref.Index, len(screens))
	}
	return screens[ref.Index-1], nil
}

func sameScreen(a, b platform.Screen) bool {
	return a.Name == b.Name
}

func containsScreen(list []platform.Screen, s platform.Screen) bool {
	for _, x := range list {
		if sameScreen(x, s) {
			return true
		}
	}
	return false
}

func screenNames(list []platform.Screen) string {
	names := make([]string, len(list))
	for i, s := range list {
		names[i] = s.Name
	}
	return strings.Join(names, ",")
}

// ListScreens prints attached screens with their 1-based index.
func ListScreens(c *console.Console, screens []platform.Screen) {
	c.Println("#   Device name")
	c.Println("--- -----------")
	for i, s := range screens {
		primary := ""
		if s.Primary {
			primary = " " + c.Accent("(primary)")
		}
		c.Printf("%-4d%s%s\n", i+1, s.Name, primary)
		c.Detail("  bounds %s, work area %s", s.Bounds, s.WorkArea)
	}
}
