// Package main starts the idle garden HTTP service.
package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/osse101/IdleGarden_Go/internal/bootstrap"
	"github.com/osse101/IdleGarden_Go/internal/catalog"
	"github.com/osse101/IdleGarden_Go/internal/config"
	"github.com/osse101/IdleGarden_Go/internal/garden"
	"github.com/osse101/IdleGarden_Go/internal/handler"
	"github.com/osse101/IdleGarden_Go/internal/scheduler"
	"github.com/osse101/IdleGarden_Go/internal/server"
	"github.com/osse101/IdleGarden_Go/internal/session"
	"github.com/osse101/IdleGarden_Go/internal/sse"
	"github.com/osse101/IdleGarden_Go/internal/worker"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logFile, err := bootstrap.SetupLogger(cfg)
	if err != nil {
		log.Fatalf("setup logger: %v", err)
	}
	if logFile != nil {
		defer logFile.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("Idle garden exited with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	handler.InitValidator()

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return err
	}
	slog.Info("Catalog loaded", "version", cat.Version(), "path", cfg.CatalogPath)
	for _, cycle := range cat.EvolutionCycles() {
		slog.Warn("Evolution cycle in catalog", "assets", cycle)
	}

	stores, err := bootstrap.InitializeStores(ctx, cfg)
	if err != nil {
		return err
	}

	bus := bootstrap.InitializeEventSystem()
	hub := sse.NewHub()
	hub.Start()
	sse.NewSubscriber(hub, bus).Subscribe()

	engine := garden.NewEngine(cat, cfg.CatchUpLimits())
	manager := session.NewManager(engine, stores.Gardens, stores.Ledger, bus, session.Options{
		TickInterval:     cfg.TickInterval,
		StartingCurrency: cfg.StartingCurrency,
	})

	pool := worker.NewPool(cfg.WorkerCount, cfg.WorkerQueueSize)
	pool.Start()
	sched := scheduler.New(pool)
	sched.Schedule(cfg.SaveDebounce, session.FlushJob{Manager: manager})
	sched.Schedule(cfg.WeatherInterval, session.WeatherJob{Manager: manager})

	srv := server.NewServer(server.Options{
		Port:           cfg.Port,
		APIKey:         cfg.APIKey,
		TrustedProxies: cfg.TrustedProxies,
		MaxBodyBytes:   cfg.MaxBodyBytes,
	}, manager, cat, stores.Pinger, hub)

	serveErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case err, ok := <-serveErr:
		if ok {
			runErr = err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	bootstrap.GracefulShutdown(shutdownCtx, bootstrap.ShutdownComponents{
		Events:    hub,
		Server:    srv,
		Scheduler: sched,
		Pool:      pool,
		Sessions:  manager,
		Stores:    stores,
	})
	return runErr
}
