package waiter

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records wait outcomes. A nil *Metrics records nothing.
type Metrics struct {
	outcomes *prometheus.CounterVec
	attempts *prometheus.HistogramVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates the waiter collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		outcomes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "storagelab",
				Subsystem: "waiter",
				Name:      "outcomes_total",
				Help:      "Total number of finished waits by operation and outcome",
			},
			[]string{"operation", "outcome"},
		),
		attempts: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "storagelab",
				Subsystem: "waiter",
				Name:      "attempts",
				Help:      "Number of probe calls per finished wait",
				Buckets:   prometheus.ExponentialBuckets(1, 2, 8), // 1 to 128
			},
			[]string{"operation"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "storagelab",
				Subsystem: "waiter",
				Name:      "duration_seconds",
				Help:      "Duration of finished waits in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.5, 2, 12), // 500ms to ~17min
			},
			[]string{"operation"},
		),
	}

	for _, c := range []prometheus.Collector{m.outcomes, m.attempts, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) record(operation string, kind Kind, attempts int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.outcomes.WithLabelValues(operation, kind.String()).Inc()
	m.attempts.WithLabelValues(operation).Observe(float64(attempts))
	m.duration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

func (m *Metrics) observeProbeError(operation string) {
	if m == nil {
		return
	}
	m.outcomes.WithLabelValues(operation, "probe_error").Inc()
}
