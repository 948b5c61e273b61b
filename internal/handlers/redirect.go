package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"studyroulette/internal/config"
	"studyroulette/internal/lookup"
	"studyroulette/internal/metrics"
	"studyroulette/internal/models"
	"studyroulette/internal/redirect"
	"studyroulette/internal/roulette"
)

// RedirectHandler resolves incoming requests to their assigned study URL.
type RedirectHandler struct {
	resolver *redirect.Resolver
	store    lookup.Store
	cfg      *config.Config
}

// NewRedirectHandler creates a new redirect handler.
func NewRedirectHandler(resolver *redirect.Resolver, store lookup.Store, cfg *config.Config) *RedirectHandler {
	return &RedirectHandler{resolver: resolver, store: store, cfg: cfg}
}

// Resolve fingerprints the request parameters and redirects to the
// destination assigned to that fingerprint. The first request with a
// given fingerprint draws a study; every repeat lands on the same URL.
func (h *RedirectHandler) Resolve(c fiber.Ctx) error {
	params, err := queryParams(c)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "malformed query string")
	}

	res, err := h.resolver.Resolve(c.Context(), params)
	if err != nil {
		if errors.Is(err, redirect.ErrNoParams) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"errors": []string{"no parameters specified"},
			})
		}

		slog.Error("failed to resolve redirect", "error", err)
		metrics.RecordResolution("error")

		// Resolution failed. Answer with the full health report plus the
		// failure, so the caller sees what is actually broken.
		report := roulette.Check(h.store, h.cfg.StudiesFile)
		report.Status = models.StatusError
		report.Errors = append(report.Errors, err.Error())
		return c.Status(fiber.StatusInternalServerError).JSON(report)
	}

	metrics.RecordResolution(res.Outcome)
	if res.Study != "" {
		metrics.RecordSelection(res.Study)
	}

	return c.Redirect().Status(fiber.StatusFound).To(res.URL)
}
