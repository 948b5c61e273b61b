package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	resolutions  *prometheus.CounterVec
	selections   *prometheus.CounterVec
	healthChecks *prometheus.CounterVec
	configErrors prometheus.Gauge

	initOnce sync.Once
)

// Init registers the collectors. Must be called once at startup.
func Init() {
	initOnce.Do(func() {
		resolutions = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "studyroulette_resolutions_total",
			Help: "Total resolved redirects by outcome",
		}, []string{"outcome"})
		selections = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "studyroulette_study_selections_total",
			Help: "Total study draws by study URL",
		}, []string{"study"})
		healthChecks = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "studyroulette_health_checks_total",
			Help: "Total health check runs by status",
		}, []string{"status"})
		configErrors = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "studyroulette_config_errors",
			Help: "Validation errors in the current studies file",
		})
		prometheus.MustRegister(resolutions, selections, healthChecks, configErrors)
	})
}

// RecordResolution counts one resolved redirect by outcome.
func RecordResolution(outcome string) {
	if resolutions == nil {
		return
	}
	resolutions.WithLabelValues(outcome).Inc()
}

// RecordSelection counts one study draw. Only fresh assignments draw a
// study; cache hits never reach the wheel.
func RecordSelection(study string) {
	if selections == nil {
		return
	}
	selections.WithLabelValues(study).Inc()
}

// RecordHealthCheck counts one health check run by resulting status.
func RecordHealthCheck(status string) {
	if healthChecks == nil {
		return
	}
	healthChecks.WithLabelValues(status).Inc()
}

// SetConfigErrors records how many validation errors the studies file
// currently carries.
func SetConfigErrors(n int) {
	if configErrors == nil {
		return
	}
	configErrors.Set(float64(n))
}
