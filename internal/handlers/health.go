package handlers

import (
	"github.com/gofiber/fiber/v3"

	"studyroulette/internal/config"
	"studyroulette/internal/lookup"
	"studyroulette/internal/metrics"
	"studyroulette/internal/roulette"
)

// HealthHandler reports studies file and lookup store health.
type HealthHandler struct {
	store lookup.Store
	cfg   *config.Config
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(store lookup.Store, cfg *config.Config) *HealthHandler {
	return &HealthHandler{store: store, cfg: cfg}
}

// Check runs the full validation and answers with the report: the parsed
// studies with their selection percentages, plus every problem found.
// Healthy deployments answer 200, broken ones 500.
func (h *HealthHandler) Check(c fiber.Ctx) error {
	report := roulette.Check(h.store, h.cfg.StudiesFile)
	metrics.RecordHealthCheck(report.Status)
	return c.Status(report.HTTPStatus()).JSON(report)
}
