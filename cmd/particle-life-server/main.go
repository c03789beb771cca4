// Command particle-life-server runs the simulation headless and streams
// frames to websocket viewers.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/olivierh59500/particle-life/internal/config"
	"github.com/olivierh59500/particle-life/internal/life"
	"github.com/olivierh59500/particle-life/internal/logging"
	"github.com/olivierh59500/particle-life/internal/stream"
)

func main() {
	cfg, err := config.Resolve("particle-life-server", os.Args[1:], os.Getenv)
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := stream.NewHub(engine, logger)
	go hub.Run(ctx)
	go runSimulation(ctx, engine, hub, cfg.Server.TickInterval, logger)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           NewServer(engine, hub, logger).Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Errorf("shutdown: %v", err)
		}
	}()

	logger.Infof("particle-life-server listening on %s (tick every %v)", cfg.Server.Addr, cfg.Server.TickInterval)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalf("listen: %v", err)
	}
	logger.Infof("stopped")
}

// runSimulation advances the engine on every tick and offers the frame to
// connected viewers. Frames are skipped while nobody is watching.
func runSimulation(ctx context.Context, e *life.Engine, hub *stream.Hub, interval time.Duration, logger *logging.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.Tick()
			if hub.Clients() == 0 {
				continue
			}
			if _, err := hub.BroadcastFrame(e.Snapshot()); err != nil {
				logger.Errorf("encode frame: %v", err)
			}
		}
	}
}
