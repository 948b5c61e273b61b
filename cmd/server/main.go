package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"studyroulette/internal/config"
	"studyroulette/internal/jobs"
	"studyroulette/internal/lookup"
	"studyroulette/internal/metrics"
	"studyroulette/internal/server"
	"studyroulette/internal/studies"
)

func main() {
	cfg := config.Load()
	setupLogging(cfg)

	// Initialize lookup store
	store, err := lookup.NewDir(cfg.LookupDir)
	if err != nil {
		log.Fatalf("Failed to open lookup directory: %v", err)
	}

	// Register Prometheus collectors
	metrics.Init()

	// Validate the studies file up front. A broken file is only a warning;
	// the server still starts so /health can report the problem.
	if res, err := studies.Load(cfg.StudiesFile); err != nil {
		log.Printf("Warning: %v", err)
		metrics.SetConfigErrors(1)
	} else {
		for _, msg := range res.Errors {
			log.Printf("Warning: %s", msg)
		}
		metrics.SetConfigErrors(len(res.Errors))
		log.Printf("Loaded %d studies from %s", len(res.Studies), cfg.StudiesFile)
	}

	s := server.New(cfg)
	s.RegisterRoutes(store)

	// Background studies checker
	jobsCtx, cancelJobs := context.WithCancel(context.Background())
	defer cancelJobs()
	if cfg.StudiesCheckInterval > 0 {
		checker := jobs.NewStudiesChecker(store, cfg.StudiesFile, cfg.StudiesCheckInterval)
		go checker.Start(jobsCtx)
	}

	// Graceful shutdown
	go func() {
		if err := s.Start(); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("Server started on %s", cfg.ServerAddr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	cancelJobs()
	if err := s.Shutdown(); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exited")
}

// setupLogging routes slog through a text handler during development and
// JSON everywhere else.
func setupLogging(cfg *config.Config) {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	var handler slog.Handler
	if cfg.IsDev() {
		handler = slog.NewTextHandler(os.Stderr, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}
