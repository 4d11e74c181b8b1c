// Package main is the entry point for keychord.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dshills/keychord/internal/app"
	"github.com/dshills/keychord/internal/config"
	"github.com/dshills/keychord/internal/logging"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// flags holds command line overrides. Zero values leave the loaded
// configuration untouched.
type flags struct {
	configPath string
	keymapPath string
	scriptPath string
	timeout    time.Duration
	logLevel   string
	logFile    string
	noWatch    bool
}

func main() {
	os.Exit(run())
}

func run() int {
	f := parseFlags()

	path := f.configPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	f.apply(&cfg)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	// Logs never go to the terminal, which tcell owns while running
	out, closeLog, err := logging.OpenOutput(cfg.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer func() { _ = closeLog() }()

	level, _ := logging.ParseLevel(cfg.LogLevel)
	format, _ := logging.ParseFormat(cfg.LogFormat)
	logger := logging.New(logging.Config{Level: level, Format: format, Output: out})

	application, err := app.New(app.Options{Config: cfg, Logger: logger})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}

	// Ensure cleanup on all exit paths
	defer application.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := application.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func parseFlags() flags {
	var f flags
	var showVersion bool
	var showHelp bool

	flag.StringVar(&f.configPath, "config", "", "Path to configuration file")
	flag.StringVar(&f.configPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&f.keymapPath, "keymap", "", "Keymap file (json, yaml or toml) layered over the defaults")
	flag.StringVar(&f.keymapPath, "k", "", "Keymap file (shorthand)")
	flag.StringVar(&f.scriptPath, "script", "", "Lua script adding bindings and commands")
	flag.DurationVar(&f.timeout, "timeout", 0, "How long an ambiguous chord waits for more keys")
	flag.StringVar(&f.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.StringVar(&f.logFile, "log-file", "", "Write logs to this file")
	flag.BoolVar(&f.noWatch, "no-watch", false, "Do not reload bindings when files change")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "keychord - keyboard chord dispatcher\n\n")
		fmt.Fprintf(os.Stderr, "Usage: keychord [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEnvironment variables KEYCHORD_TIMEOUT, KEYCHORD_KEYMAP, KEYCHORD_SCRIPT,\n")
		fmt.Fprintf(os.Stderr, "KEYCHORD_LOG_LEVEL, KEYCHORD_LOG_FORMAT, KEYCHORD_LOG_FILE and KEYCHORD_WATCH\n")
		fmt.Fprintf(os.Stderr, "override the configuration file. Flags override both.\n")
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  keychord                          Default bindings\n")
		fmt.Fprintf(os.Stderr, "  keychord -k keys.yaml             Layer a keymap file\n")
		fmt.Fprintf(os.Stderr, "  keychord -script init.lua         Load a Lua script\n")
		fmt.Fprintf(os.Stderr, "  keychord -timeout 500ms -log-file /tmp/kc.log -log-level debug\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("keychord %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	if f.logLevel != "" {
		if _, err := logging.ParseLevel(f.logLevel); err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", f.logLevel)
			os.Exit(1)
		}
	}

	return f
}

// apply copies the flags that were set onto cfg.
func (f flags) apply(cfg *config.Config) {
	if f.keymapPath != "" {
		cfg.KeymapPath = f.keymapPath
	}
	if f.scriptPath != "" {
		cfg.ScriptPath = f.scriptPath
	}
	if f.timeout != 0 {
		cfg.Timeout = config.Duration(f.timeout)
	}
	if f.logLevel != "" {
		cfg.LogLevel = f.logLevel
	}
	if f.logFile != "" {
		cfg.LogFile = f.logFile
	}
	if f.noWatch {
		cfg.Watch = false
	}
}
