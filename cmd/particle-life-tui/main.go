// Command particle-life-tui runs the simulation inside a terminal.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/gdamore/tcell/v2"

	"github.com/olivierh59500/particle-life/internal/config"
	"github.com/olivierh59500/particle-life/internal/life"
	"github.com/olivierh59500/particle-life/internal/logging"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "particle-life-tui: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Resolve("particle-life-tui", os.Args[1:], os.Getenv)
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	// The screen owns the terminal, so logs go to a file or nowhere.
	var out io.Writer = io.Discard
	if path := os.Getenv("PLIFE_LOG_FILE"); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		out = f
	}
	logger := logging.NewWithWriter(cfg.Log.Level, out)

	simCfg, err := cfg.EngineConfig()
	if err != nil {
		return fmt.Errorf("simulation config: %w", err)
	}
	engine, err := life.NewEngine(simCfg, life.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("engine: %w", err)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("screen init: %w", err)
	}
	defer screen.Fini()

	NewViewer(screen, engine, logger).Run(cfg.Terminal.TickInterval)
	return nil
}
