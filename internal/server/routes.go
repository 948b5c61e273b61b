package server

import (
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"studyroulette/internal/handlers"
	"studyroulette/internal/lookup"
	"studyroulette/internal/redirect"
	"studyroulette/internal/roulette"
)

// RegisterRoutes registers all application routes.
func (s *Server) RegisterRoutes(store lookup.Store) {
	// Initialize handlers
	resolver := redirect.NewResolver(store, roulette.Pool(s.Cfg.StudiesFile))
	redirectHandler := handlers.NewRedirectHandler(resolver, store, s.Cfg)
	healthHandler := handlers.NewHealthHandler(store, s.Cfg)
	probeHandler := handlers.NewProbeHandler(store)

	// Operational endpoints
	s.App.Get("/health", healthHandler.Check)
	s.App.Get("/healthz", probeHandler.Liveness)
	s.App.Get("/readyz", probeHandler.Readiness)
	s.App.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Redirect routes, on both the bare root and the /sr alias
	s.App.Get("/", redirectHandler.Resolve)
	s.App.Get("/sr", redirectHandler.Resolve)
}
