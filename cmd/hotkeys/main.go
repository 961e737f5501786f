// Package main is the entry point for the hotkeys daemon.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dshills/hotkeys/internal/app"
	"github.com/dshills/hotkeys/internal/input/key"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// cliOptions are the flags that select a mode rather than configure the
// daemon.
type cliOptions struct {
	capture        bool
	captureKeyDown bool
	captureTimeout time.Duration
	dump           bool
	keys           bool
}

func main() {
	os.Exit(run())
}

func run() int {
	opts, cli := parseFlags()

	if cli.keys {
		for _, name := range key.KeyNames() {
			fmt.Println(name)
		}
		return 0
	}

	application, err := app.New(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	defer application.Shutdown()

	if cli.dump {
		for _, e := range application.Entries() {
			fmt.Println(e.String())
		}
		return 0
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cli.capture {
		if cli.captureTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, cli.captureTimeout)
			defer cancel()
		}
		hk, err := application.Capture(ctx, cli.captureKeyDown)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		fmt.Println(hk)
		return 0
	}

	log := application.Logger()
	log.Info("hotkeys %s running with %d entries", version, len(application.Entries()))

	if err := application.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	log.Info("shutting down: %s", application.Stats())
	return 0
}

func parseFlags() (app.Options, cliOptions) {
	var opts app.Options
	var cli cliOptions
	var showVersion bool
	var showHelp bool

	flag.StringVar(&opts.ConfigPath, "config", "", "Path to configuration file")
	flag.StringVar(&opts.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&opts.BindingsPath, "bindings", "", "Path to bindings file (toml, yaml or json) or directory of them")
	flag.StringVar(&opts.BindingsPath, "b", "", "Path to bindings file (shorthand)")
	flag.StringVar(&opts.SourceKind, "source", "", "Event source (native, terminal)")
	flag.StringVar(&opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.BoolVar(&cli.capture, "capture", false, "Print the next hotkey pressed and exit")
	flag.BoolVar(&cli.captureKeyDown, "capture-keydown", false, "Let key-down events satisfy -capture")
	flag.DurationVar(&cli.captureTimeout, "capture-timeout", 0, "Give up on -capture after this long")
	flag.BoolVar(&cli.dump, "dump", false, "Print the registered hotkeys and exit")
	flag.BoolVar(&cli.keys, "keys", false, "Print the named keys usable in bindings and exit")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "hotkeys - global hotkey daemon\n\n")
		fmt.Fprintf(os.Stderr, "Usage: hotkeys [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  hotkeys -b ~/.config/hotkeys/bindings.toml   Run with a bindings file\n")
		fmt.Fprintf(os.Stderr, "  hotkeys -source terminal -b bindings.yaml    Use the terminal instead of the system hook\n")
		fmt.Fprintf(os.Stderr, "  hotkeys -capture                              Print the next hotkey pressed\n")
		fmt.Fprintf(os.Stderr, "  hotkeys -dump -b bindings.json                List parsed bindings\n")
		fmt.Fprintf(os.Stderr, "  hotkeys -dump -b ~/.config/hotkeys/bindings.d Load every bindings file in a directory\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("hotkeys %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	switch opts.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", opts.LogLevel)
		os.Exit(1)
	}

	if flag.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "Error: unexpected arguments: %v\n", flag.Args())
		os.Exit(1)
	}

	return opts, cli
}
