package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"log/slog"

	"github.com/workdeck/workdeck/internal/alerts"
	"github.com/workdeck/workdeck/internal/config"
	"github.com/workdeck/workdeck/internal/jobs"
	"github.com/workdeck/workdeck/pkg/airtable"
	"github.com/workdeck/workdeck/web"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	var configPath = flag.String("config", "", "Path to config YAML file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)
	airtable.SetLogger(logger)
	web.SetLogger(logger)

	log.Printf("Starting workdeck version %s (built at %s)", version, buildTime)

	// The store client stays nil when no credentials are configured; the
	// repository then serves typed errors and pages degrade to empty lists.
	var source jobs.Source
	var store *airtable.Client
	if cfg.Store.Configured() {
		store, err = airtable.NewDefaultClient(cfg.Store)
		if err != nil {
			log.Fatalf("Failed to build store client: %v", err)
		}
		source = store
	} else {
		logger.Warn("job store credentials missing, site will render without jobs")
	}

	repo := jobs.NewRepository(source, logger)
	alertSvc := alerts.NewService(cfg.Alerts, nil, logger)

	srv, err := web.NewServer(cfg, repo, alertSvc, version, buildTime)
	if err != nil {
		log.Fatalf("Failed to build server: %v", err)
	}

	// Warm the snapshot before accepting traffic, then keep it fresh.
	warmCtx, warmCancel := context.WithTimeout(context.Background(), cfg.APITimeout)
	_ = srv.Snapshot().Refresh(warmCtx)
	warmCancel()
	srv.Snapshot().Start(cfg.RevalidateEvery)

	handler := web.SetupRoutes(srv)

	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.APITimeout,
		WriteTimeout: cfg.APITimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on %s", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	if err := srv.Close(); err != nil {
		log.Printf("Error closing server resources: %v", err)
	}
	if store != nil {
		if err := store.Close(); err != nil {
			log.Printf("Error closing store client: %v", err)
		}
	}

	log.Println("Server exited")
}
