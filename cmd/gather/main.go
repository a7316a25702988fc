package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/barbatron/gather/internal/config"
	"github.com/barbatron/gather/internal/console"
	"github.com/barbatron/gather/internal/gather"
	"github.com/barbatron/gather/internal/logging"
	"github.com/barbatron/gather/internal/platform"
)

const prog = "gather"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type flags struct {
	configPath string
	dryRun     bool
	verbose    bool
	rest       []string
}

func parseFlags(args []string, stderr io.Writer) (flags, error) {
	var f flags
	fs := flag.NewFlagSet(prog, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		gather.PrintUsage(stderr, prog)
	}
	fs.StringVar(&f.configPath, "config", "", "Config file path")
	fs.BoolVar(&f.dryRun, "dry-run", false, "Show what would move without touching any window")
	fs.BoolVar(&f.verbose, "verbose", false, "Log diagnostics at debug level")
	if err := fs.Parse(args); err != nil {
		return flags{}, err
	}
	f.rest = fs.Args()
	return f, nil
}

func loadConfig(path string) (*config.LoadResult, error) {
	if path != "" {
		return config.LoadFromPath(path)
	}
	return config.Load()
}

func screenDefaults(cfg *config.Config) (gather.Defaults, error) {
	var d gather.Defaults
	to, err := gather.ParseScreenRefs(cfg.DefaultTo)
	if err != nil {
		return d, fmt.Errorf("default_to: %w", err)
	}
	d.To = to[0]
	if len(cfg.DefaultFrom) > 0 {
		from, err := gather.ParseScreenRefs(cfg.DefaultFrom.String())
		if err != nil {
			return d, fmt.Errorf("default_from: %w", err)
		}
		d.From = from
	}
	return d, nil
}

func run(args []string, stdout, stderr io.Writer) int {
	f, err := parseFlags(args, stderr)
	if err != nil {
		if err == flag.ErrHelp {
			return gather.ExitOK
		}
		return gather.ExitUsage
	}

	res, err := loadConfig(f.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Config error: %v\n", err)
		return gather.ExitUsage
	}
	cfg := res.Config

	defaults, err := screenDefaults(cfg)
	if err != nil {
		fmt.Fprintf(stderr, "Config error: %s: %v\n", res.Path, err)
		return gather.ExitUsage
	}

	logger, closeLog, err := logging.New(logging.Options{
		Level:   cfg.Log.Level,
		File:    cfg.Log.File,
		Verbose: f.verbose,
		Stderr:  stderr,
	})
	if err != nil {
		fmt.Fprintf(stderr, "Logging error: %v\n", err)
		return gather.ExitRuntime
	}
	defer closeLog()
	logger.Debug("config loaded", "path", res.Path, "loaded", res.Loaded)

	app := &gather.App{
		Connect: platform.Open,
		Console: console.New(stdout, stderr, cfg.Color),
		Logger:  logger,
		Options: gather.Options{
			Prog:            prog,
			Defaults:        defaults,
			Threshold:       cfg.MinimizedThreshold,
			StrictOptions:   cfg.StrictOptions,
			ContinueOnError: cfg.ContinueOnError,
			DryRun:          f.dryRun,
		},
	}
	return app.Run(f.rest)
}
