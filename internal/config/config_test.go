package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
	if cfg.DefaultTo != "p" {
		t.Fatalf("expected default_to p, got %q", cfg.DefaultTo)
	}
	if cfg.MinimizedThreshold != -1000 {
		t.Fatalf("expected threshold -1000, got %d", cfg.MinimizedThreshold)
	}
	if cfg.ContinueOnError || cfg.StrictOptions {
		t.Fatalf("expected fail-fast and lenient options by default")
	}
}

func TestLoadFromPath_EmptyFileUsesDefaults(t *testing.T) {
	path := writeConfig(t, "# empty\n")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !res.Loaded {
		t.Fatalf("expected file to be reported as loaded")
	}
	if res.Config.DefaultTo != "p" || res.Config.Log.Level != DefaultLogLevel {
		t.Fatalf("expected defaults, got %+v", res.Config)
	}
}

func TestLoadFromPath_MissingFileIsError(t *testing.T) {
	_, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatalf("expected error for missing explicit config")
	}
	if !strings.Contains(err.Error(), "does not exist") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoad_MissingDefaultFileUsesDefaults(t *testing.T) {
	res, err := load(filepath.Join(t.TempDir(), "config.yaml"), false)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Loaded {
		t.Fatalf("expected Loaded=false for absent file")
	}
	if res.Config.Color != "auto" {
		t.Fatalf("expected default color auto, got %q", res.Config.Color)
	}
}

func TestLoadFromPath_OverridesKeepUnsetDefaults(t *testing.T) {
	path := writeConfig(t, strings.Join([]string{
		"default_to: 2",
		"default_from: \"1, 3\"",
		"continue_on_error: true",
		"log:",
		"  file: /tmp/gather.log",
		"",
	}, "\n"))

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cfg := res.Config
	if cfg.DefaultTo != "2" {
		t.Fatalf("expected default_to 2, got %q", cfg.DefaultTo)
	}
	if got := cfg.DefaultFrom.String(); got != "1,3" {
		t.Fatalf("expected default_from 1,3, got %q", got)
	}
	if !cfg.ContinueOnError {
		t.Fatalf("expected continue_on_error true")
	}
	if cfg.Log.File != "/tmp/gather.log" || cfg.Log.Level != DefaultLogLevel {
		t.Fatalf("unexpected log config %+v", cfg.Log)
	}
	if cfg.MinimizedThreshold != DefaultMinimizedThreshold {
		t.Fatalf("expected default threshold to survive, got %d", cfg.MinimizedThreshold)
	}
}

func TestLoadFromPath_DefaultFromSequence(t *testing.T) {
	path := writeConfig(t, "default_from:\n  - 1\n  - primary\n")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := res.Config.DefaultFrom.String(); got != "1,primary" {
		t.Fatalf("expected 1,primary, got %q", got)
	}
}

func TestLoadFromPath_UnknownKeyRejected(t *testing.T) {
	path := writeConfig(t, "default_too: 2\n")

	if _, err := LoadFromPath(path); err == nil {
		t.Fatalf("expected strict decoding to reject unknown key")
	}
}

func TestLoadFromPath_ValidationErrorCarriesSource(t *testing.T) {
	path := writeConfig(t, "color: auto\nlog:\n  level: loud\n")

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected validation error")
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if verr.Path != "log.level" {
		t.Fatalf("expected path log.level, got %q", verr.Path)
	}
	if verr.Source.File != path || verr.Source.Line != 3 {
		t.Fatalf("expected %s line 3, got %+v", path, verr.Source)
	}
	if !strings.HasPrefix(err.Error(), path+":3:") {
		t.Fatalf("expected file:line prefix, got %q", err.Error())
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		path   string
	}{
		{"multiple destinations", func(c *Config) { c.DefaultTo = "1,2" }, "default_to"},
		{"empty destination", func(c *Config) { c.DefaultTo = "" }, "default_to"},
		{"zero index", func(c *Config) { c.DefaultTo = "0" }, "default_to"},
		{"bad source", func(c *Config) { c.DefaultFrom = ScreenList{"1", "x"} }, "default_from.1"},
		{"positive threshold", func(c *Config) { c.MinimizedThreshold = 5 }, "minimized_threshold"},
		{"bad color", func(c *Config) { c.Color = "rainbow" }, "color"},
	}
	for _, c := range cases {
		cfg := DefaultConfig()
		c.mutate(cfg)
		err := cfg.Validate()
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("%s: expected *ValidationError, got %v", c.name, err)
			continue
		}
		if verr.Path != c.path {
			t.Errorf("%s: expected path %q, got %q", c.name, c.path, verr.Path)
		}
	}
}
