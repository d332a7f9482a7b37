package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the process-local Prometheus collectors the dispatcher
// updates on every request. There is no CloudWatch or other remote sink:
// this emulator runs on a developer's machine, so /metrics is scraped
// locally rather than pushed anywhere.
type Metrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewMetrics registers the emulator's collectors against reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ddblocal",
			Name:      "requests_total",
			Help:      "Total number of DynamoDB operations handled, by operation and outcome.",
		}, []string{"operation", "outcome"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "ddblocal",
			Name:      "request_duration_seconds",
			Help:      "Latency of DynamoDB operations, by operation.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}
	reg.MustRegister(m.requestsTotal, m.requestDuration)
	return m
}

// ObserveRequest records one completed operation. outcome is "Success" or
// the error Kind string.
func (m *Metrics) ObserveRequest(operation, outcome string, duration time.Duration) {
	m.requestsTotal.WithLabelValues(operation, outcome).Inc()
	m.requestDuration.WithLabelValues(operation).Observe(duration.Seconds())
}
