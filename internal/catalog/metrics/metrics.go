package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the catalog module.
type Metrics struct {
	ContentCreated   *prometheus.CounterVec
	MutationsDenied  *prometheus.CounterVec
	CounterFailures  prometheus.Counter
	ListDuration     prometheus.Histogram
	MutationDuration prometheus.Histogram
}

// New creates a Metrics instance with all catalog module metrics registered.
func New() *Metrics {
	return &Metrics{
		ContentCreated: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "chorale_content_created_total",
			Help: "Content created, by kind and whether it was forced into draft",
		}, []string{"kind", "draft"}),
		MutationsDenied: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "chorale_mutations_denied_total",
			Help: "Mutations denied by the authorization guard, by reason",
		}, []string{"reason"}),
		CounterFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "chorale_counter_maintenance_failures_total",
			Help: "Best-effort stats counter updates that failed and were swallowed",
		}),
		ListDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "chorale_list_duration_seconds",
			Help:    "Duration of catalog listing operations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		MutationDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "chorale_mutation_duration_seconds",
			Help:    "Duration of catalog mutation operations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// IncrementCreated records a content creation.
func (m *Metrics) IncrementCreated(kind string, draft bool) {
	label := "false"
	if draft {
		label = "true"
	}
	m.ContentCreated.WithLabelValues(kind, label).Inc()
}

// IncrementDenied records a guard denial with its reason.
func (m *Metrics) IncrementDenied(reason string) {
	m.MutationsDenied.WithLabelValues(reason).Inc()
}

// IncrementCounterFailure records a swallowed stats update failure.
func (m *Metrics) IncrementCounterFailure() {
	m.CounterFailures.Inc()
}

// ObserveList records the duration of a listing operation.
func (m *Metrics) ObserveList(start time.Time) {
	m.ListDuration.Observe(time.Since(start).Seconds())
}

// ObserveMutation records the duration of a mutation operation.
func (m *Metrics) ObserveMutation(start time.Time) {
	m.MutationDuration.Observe(time.Since(start).Seconds())
}
