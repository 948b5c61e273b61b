package jobs

import (
	"context"
	"log"
	"time"

	"studyroulette/internal/lookup"
	"studyroulette/internal/metrics"
	"studyroulette/internal/studies"
)

// StudiesChecker periodically revalidates the studies file and the lookup
// directory so config problems show up in logs and metrics before they
// break a redirect.
type StudiesChecker struct {
	store       lookup.Store
	studiesFile string
	interval    time.Duration
}

// NewStudiesChecker creates a new studies checker.
func NewStudiesChecker(store lookup.Store, studiesFile string, interval time.Duration) *StudiesChecker {
	return &StudiesChecker{store: store, studiesFile: studiesFile, interval: interval}
}

// Start begins the background validation loop.
func (s *StudiesChecker) Start(ctx context.Context) {
	log.Printf("Studies checker started (interval: %v)", s.interval)

	// Run immediately on start
	s.check()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Studies checker stopped")
			return
		case <-ticker.C:
			s.check()
		}
	}
}

// check revalidates the studies file and updates the error gauge.
func (s *StudiesChecker) check() {
	if err := s.store.HealthCheck(); err != nil {
		log.Printf("Studies checker: %v", err)
	}

	res, err := studies.Load(s.studiesFile)
	if err != nil {
		log.Printf("Studies checker: %v", err)
		metrics.SetConfigErrors(1)
		return
	}

	metrics.SetConfigErrors(len(res.Errors))
	if len(res.Errors) == 0 {
		log.Printf("Studies checker: %d studies valid", len(res.Studies))
		return
	}
	for _, msg := range res.Errors {
		log.Printf("Studies checker: %s", msg)
	}
}
