package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"laundry-cycle-backend/config"
	"laundry-cycle-backend/internal/api"
	"laundry-cycle-backend/internal/auth"
	"laundry-cycle-backend/internal/db"
	"laundry-cycle-backend/internal/events"
	"laundry-cycle-backend/internal/laundry"
	"laundry-cycle-backend/internal/store"
	"laundry-cycle-backend/internal/watcher"
)

func main() {
	log := logger.New("main")

	if err := godotenv.Load(); err != nil {
		log.Debug(".env file not found, using environment variables")
	}

	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Er("failed to load configuration", err, "path", configPath)
		os.Exit(1)
	}
	log.Info("Configuration loaded", "path", configPath)

	if cfg.Watcher.Enabled && (cfg.Push.PublicKey == "" || cfg.Push.PrivateKey == "") {
		log.Error("VAPID keys must be configured when the watcher is enabled")
		os.Exit(1)
	}

	// Initialize database
	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		log.Er("failed to initialize database", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	appStore := store.NewGormStore(gormDB)

	bus := events.NewBus(uuid.NewString())
	publisher := events.Multi{bus}
	if cfg.Events.RedisAddr != "" {
		client, err := events.NewRedisClient(cfg.Events.RedisAddr)
		if err != nil {
			log.Er("failed to connect to redis", err, "addr", cfg.Events.RedisAddr)
			os.Exit(1)
		}
		defer client.Close()

		remote := events.NewRedisPublisher(client, cfg.Events.Channel, bus.Origin())
		publisher = append(publisher, remote)
		go func() {
			if err := remote.Listen(ctx, bus); err != nil {
				log.Er("remote event listener stopped", err)
			}
		}()
	}

	manager := laundry.NewManager(appStore, cfg.Laundry, publisher)

	watcherSvc := watcher.NewService(cfg, appStore)
	watcherDone := make(chan struct{})
	go func() {
		defer close(watcherDone)
		if err := watcherSvc.Run(ctx); err != nil {
			log.Er("watcher stopped", err)
		}
	}()

	router := api.NewRouter(cfg, manager, appStore, bus, auth.NewResolver(cfg.Auth))
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.Info("HTTP server starting", "port", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Er("HTTP server failed", err)
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info("Shutdown signal received, stopping services")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Er("HTTP server shutdown failed", err)
	}
	<-watcherDone

	if sqlDB, err := gormDB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Er("failed to close database", err)
		}
	}

	log.Info("Server gracefully stopped")
}
