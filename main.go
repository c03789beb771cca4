package main

import (
	"errors"
	"flag"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/olivierh59500/particle-life/internal/config"
	"github.com/olivierh59500/particle-life/internal/life"
	"github.com/olivierh59500/particle-life/internal/logging"
)

func main() {
	cfg, err := config.Resolve("particle-life", os.Args[1:], os.Getenv)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.New(cfg.Log.Level)

	simCfg, err := cfg.EngineConfig()
	if err != nil {
		logger.Fatalf("simulation config: %v", err)
	}
	engine, err := life.NewEngine(simCfg, life.WithLogger(logger))
	if err != nil {
		logger.Fatalf("engine: %v", err)
	}

	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(cfg.Window.TPS)

	game := NewGame(engine, logger, cfg.Simulation.RelationsFile)
	if err := ebiten.RunGame(game); err != nil && !isTermination(err) {
		logger.Fatalf("run: %v", err)
	}
}
