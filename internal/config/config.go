package config

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	DefaultMinimizedThreshold = -1000
	DefaultLogLevel           = "warning"
)

// ScreenList supports either:
//
//	default_from: "1,2"
//
// or:
//
//	default_from:
//	  - 1
//	  - p
type ScreenList []string

func (l *ScreenList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag == "!!null" {
			*l = nil
			return nil
		}
		*l = splitList(value.Value)
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode {
				return fmt.Errorf("screen list entries must be scalars")
			}
			out = append(out, strings.TrimSpace(item.Value))
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("screen list must be a string or list")
	}
}

// String renders the list in the command-line form ("1,2").
func (l ScreenList) String() string {
	return strings.Join(l, ",")
}

// LogConfig configures diagnostic logging.
type LogConfig struct {
	// Level is one of: debug, info, warning, error
	Level string `yaml:"level"`
	// File receives JSON records instead of stderr when set
	File string `yaml:"file,omitempty"`
}

// Config holds user defaults for gather runs.
type Config struct {
	// DefaultTo is the destination screen used when no "to" option is given.
	DefaultTo string `yaml:"default_to"`
	// DefaultFrom lists source screens used when no "from" option is given.
	// Empty means every attached screen.
	DefaultFrom ScreenList `yaml:"default_from"`
	// MinimizedThreshold is the coordinate below which a window's left and
	// top edges mark it minimized.
	MinimizedThreshold int `yaml:"minimized_threshold"`
	// StrictOptions rejects unknown option tokens instead of ignoring them.
	StrictOptions bool `yaml:"strict_options"`
	// ContinueOnError keeps going after a window fails instead of aborting the run.
	ContinueOnError bool `yaml:"continue_on_error"`
	// Color is one of: auto, always, never
	Color string    `yaml:"color"`
	Log   LogConfig `yaml:"log"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		DefaultTo:          "p",
		MinimizedThreshold: DefaultMinimizedThreshold,
		Color:              "auto",
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
	}
}

// Validate checks field values. Screen specs are checked for syntax only;
// indices are resolved against attached screens at run time.
func (c *Config) Validate() error {
	to := splitList(c.DefaultTo)
	if len(to) != 1 {
		return &ValidationError{Path: "default_to", Err: fmt.Errorf("default_to must name exactly one screen")}
	}
	if !validScreenToken(to[0]) {
		return &ValidationError{Path: "default_to", Err: fmt.Errorf("invalid screen %q: expected a 1-based index or p[rimary]", to[0])}
	}
	for i, tok := range c.DefaultFrom {
		if !validScreenToken(tok) {
			return &ValidationError{Path: fmt.Sprintf("default_from.%d", i), Err: fmt.Errorf("invalid screen %q: expected a 1-based index or p[rimary]", tok)}
		}
	}
	if c.MinimizedThreshold >= 0 {
		return &ValidationError{Path: "minimized_threshold", Err: fmt.Errorf("minimized_threshold must be negative")}
	}
	switch c.Color {
	case "auto", "always", "never":
	default:
		return &ValidationError{Path: "color", Err: fmt.Errorf("color must be one of: auto, always, never")}
	}
	switch c.Log.Level {
	case "debug", "info", "warning", "error":
	default:
		return &ValidationError{Path: "log.level", Err: fmt.Errorf("level must be one of: debug, info, warning, error")}
	}
	return nil
}

func validScreenToken(tok string) bool {
	if strings.HasPrefix(strings.ToLower(tok), "p") {
		return true
	}
	n, err := strconv.Atoi(tok)
	return err == nil && n >= 1
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
