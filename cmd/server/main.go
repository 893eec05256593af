package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"nivix-bridge-go/internal/api"
	"nivix-bridge-go/internal/common"
	"nivix-bridge-go/internal/config"
	"nivix-bridge-go/internal/journal"
	"nivix-bridge-go/internal/sweeper"

	"go.uber.org/zap"
)

// journalProbe reports health by touching the pending-sync journal.
type journalProbe struct {
	journal *journal.Service
}

func (p *journalProbe) Probe(ctx context.Context) error {
	_, err := p.journal.CountPending(ctx)
	return err
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		_, _ = zap.NewProduction()
		zap.L().Fatal("Failed to load configuration", zap.Error(err))
	}

	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	zap.L().Info("Starting bridge coordinator")

	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	sw := sweeper.NewSweeper(sweeper.Config{
		Journal:         services.Journal,
		Syncer:          services.Coordinator,
		PollingInterval: cfg.Sweeper.PollingInterval,
		CleanupInterval: cfg.Sweeper.CleanupInterval,
		Retention:       cfg.Sweeper.Retention,
		BatchSize:       cfg.Sweeper.BatchSize,
	})
	if err := sw.Start(ctx); err != nil {
		zap.L().Fatal("Failed to start reconciliation sweeper", zap.Error(err))
	}

	router := api.NewRouter(api.RouterDependencies{
		Health:   &journalProbe{journal: services.Journal},
		Handlers: api.NewHandlers(services.Coordinator, services.FabricService, services.SolanaService),
	})
	server := api.NewServer(cfg.Server, router)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigChan:
		zap.L().Info("Shutdown signal received")
	case err := <-serverErr:
		if err != nil {
			zap.L().Error("HTTP server failed", zap.Error(err))
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zap.L().Warn("HTTP shutdown did not complete cleanly", zap.Error(err))
	}

	done := make(chan struct{})
	go func() {
		sw.Stop()
		close(done)
	}()

	select {
	case <-done:
		zap.L().Info("Bridge coordinator stopped gracefully")
	case <-shutdownCtx.Done():
		zap.L().Warn("Forced shutdown after timeout")
	}
}
