package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the org module: registrations and
// verification workflow outcomes.
type Metrics struct {
	OrganizationsRegistered prometheus.Counter
	VerificationTransitions *prometheus.CounterVec
	SetVerificationDuration prometheus.Histogram
}

// New creates a Metrics instance with all org module metrics registered.
func New() *Metrics {
	return &Metrics{
		OrganizationsRegistered: promauto.NewCounter(prometheus.CounterOpts{
			Name: "chorale_organizations_registered_total",
			Help: "Total number of organizations registered",
		}),
		VerificationTransitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "chorale_verification_transitions_total",
			Help: "Verification workflow transitions by outcome",
		}, []string{"to"}),
		SetVerificationDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "chorale_set_verification_duration_seconds",
			Help:    "Duration of SetVerification operations (org + admin update)",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// IncrementRegistered records a successful organization registration.
func (m *Metrics) IncrementRegistered() {
	m.OrganizationsRegistered.Inc()
}

// IncrementTransition records a verification transition to the given status.
func (m *Metrics) IncrementTransition(to string) {
	m.VerificationTransitions.WithLabelValues(to).Inc()
}

// ObserveSetVerification records the duration of a SetVerification operation.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveSetVerification(start time.Time) {
	m.SetVerificationDuration.Observe(time.Since(start).Seconds())
}
