package identity

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the identity module.
type Metrics struct {
	RegistryLookupDuration *prometheus.HistogramVec
	Registrations          prometheus.Counter
	LoginFailures          prometheus.Counter
}

// NewMetrics registers identity metrics on the default registry.
func NewMetrics() *Metrics {
	return &Metrics{
		RegistryLookupDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sufragio_registry_lookup_duration_seconds",
			Help:    "Duration of external identity registry lookups by outcome",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"outcome"}),
		Registrations: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sufragio_voter_registrations_total",
			Help: "Total successful voter registrations",
		}),
		LoginFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sufragio_login_failures_total",
			Help: "Total failed login attempts",
		}),
	}
}

func (m *Metrics) ObserveLookup(outcome string, d time.Duration) {
	if m != nil {
		m.RegistryLookupDuration.WithLabelValues(outcome).Observe(d.Seconds())
	}
}

func (m *Metrics) IncrementRegistrations() {
	if m != nil {
		m.Registrations.Inc()
	}
}

func (m *Metrics) IncrementLoginFailures() {
	if m != nil {
		m.LoginFailures.Inc()
	}
}
