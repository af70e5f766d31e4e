// Duopoly plots best responses and solves Cournot, Stackelberg and
// collusion equilibria, interactively or over HTTP.
// Usage: duopoly [--version] [--config <file>] [--plain] [--script <file>] [--trace] [--serve]
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/nathoo/duopoly/api"
	"github.com/nathoo/duopoly/cli"
	"github.com/nathoo/duopoly/config"
	"github.com/nathoo/duopoly/engine"
	"github.com/nathoo/duopoly/logging"
	"github.com/nathoo/duopoly/tui"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const usage = "Usage: duopoly [--version] [--config <file>] [--plain] [--script <file>] [--trace] [--serve]\n"

func main() {
	plain := false
	trace := false
	serve := false
	var configFile string
	var scriptFile string

	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--version":
			fmt.Printf("duopoly %s (commit %s, built %s)\n", version, commit, date)
			return
		case "--plain":
			plain = true
		case "--trace":
			trace = true
		case "--serve":
			serve = true
		case "--script", "--config":
			if i+1 >= len(args) {
				fmt.Fprintf(os.Stderr, "%s requires a file path\n", args[i])
				os.Exit(1)
			}
			if args[i] == "--script" {
				scriptFile = args[i+1]
			} else {
				configFile = args[i+1]
			}
			i++
		case "-h", "--help":
			fmt.Print(usage)
			return
		default:
			fmt.Fprintf(os.Stderr, "unknown argument %q\n%s", args[i], usage)
			os.Exit(1)
		}
	}

	cfg, err := config.Load(configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	interactive := !serve && scriptFile == "" && !plain && isTerminal()

	// The TUI owns the screen, so it always logs to a file.
	logFile := cfg.Log.File
	if interactive && logFile == "" {
		logFile = filepath.Join(os.TempDir(), "duopoly.log")
	}
	logger, closeLog, err := logging.Open(cfg.Log.Level, logFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening log: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()
	slog.SetDefault(logger)

	if serve {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		srv := api.New(cfg.Server, cfg.Market.State(), logger)
		if err := srv.Run(ctx); err != nil {
			logger.Error("server failed", "err", err)
			os.Exit(1)
		}
		return
	}

	eng := engine.New(cfg.Market.State(), logger)
	defer eng.Close()

	// Script mode: open file, force plain, echo commands.
	if scriptFile != "" {
		f, err := os.Open(scriptFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening script: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		c := newCLI(eng, cfg)
		c.In = f
		c.EchoInput = true
		c.Trace = trace
		c.Run()
		return
	}

	// Use plain CLI if --plain flag or stdout is not a terminal.
	if !interactive {
		c := newCLI(eng, cfg)
		c.Color = isTerminal()
		c.Trace = trace
		c.Run()
		return
	}

	if err := tui.Run(eng, cfg.SaveDir); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newCLI(eng *engine.Engine, cfg *config.Config) *cli.CLI {
	c := cli.New(eng)
	if cfg.SaveDir != "" {
		c.SaveDir = cfg.SaveDir
	}
	return c
}

// isTerminal returns true if stdout is a terminal (not piped/redirected).
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
