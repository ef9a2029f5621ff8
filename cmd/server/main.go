package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/lesser-scholar/internal/accesslog"
	"github.com/lesser-scholar/internal/api"
	"github.com/lesser-scholar/internal/catalog"
	"github.com/lesser-scholar/internal/config"
	"github.com/lesser-scholar/internal/markdown"
	"github.com/lesser-scholar/internal/repository"
	"github.com/lesser-scholar/internal/service"
	"github.com/lesser-scholar/internal/store"
	"github.com/lesser-scholar/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log := logger.New("info", "json")
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	log.Info().Str("data_dir", cfg.Storage.DataDir).Msg("Starting Lesser Scholar server...")

	// Open the data directory
	st, err := store.New(cfg.Storage.DataDir, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open data directory")
	}

	// Initialize repositories
	repos, err := repository.New(st, cfg.Storage.PublishedCacheSize)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize repositories")
	}

	cat, err := catalog.Load(cfg.Storage.MetaPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load article catalog")
	}
	if cat.Empty() {
		log.Warn().Str("meta_path", cfg.Storage.MetaPath).Msg("Article catalog is empty, accepting comments on any article")
	}

	// Access log for today; a restart always opens a fresh file
	accessLog, err := accesslog.NewWriter(st.Path(accesslog.Dir), nil, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open access log")
	}
	defer accessLog.Close()

	// Initialize services
	services := service.NewServices(service.Dependencies{
		Repos:     repos,
		Catalog:   cat,
		Renderer:  markdown.New(),
		AccessLog: accessLog,
		Compactor: accesslog.NewCompactor(st, log),
	}, cfg, log)

	// Initialize router
	router := api.NewRouter(services, cfg, log)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.ReadTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
		return
	}

	log.Info().Msg("Server exited gracefully")
}
