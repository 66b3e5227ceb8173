package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Provisioning outcomes.
const (
	OutcomeCreated    = "created"
	OutcomeReused     = "reused"
	OutcomeToppedUp   = "topped_up"
	OutcomeRejected   = "rejected"
	OutcomeIncomplete = "incomplete"
)

// Metrics groups the collectors exported on /metrics. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	provisioning *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "globaldent",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "globaldent",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		provisioning: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "globaldent",
			Name:      "odontogram_provisioning_total",
			Help:      "Clinical history provisioning runs by outcome.",
		}, []string{"outcome"}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpDuration,
		m.provisioning,
	)
	return m
}

func (m *Metrics) ObserveRequest(method, route, status string, seconds float64) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, status).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(seconds)
}

func (m *Metrics) Provisioned(outcome string) {
	if m == nil {
		return
	}
	m.provisioning.WithLabelValues(outcome).Inc()
}

// ProvisioningCounter exposes the provisioning counter for outcome.
func (m *Metrics) ProvisioningCounter(outcome string) prometheus.Counter {
	return m.provisioning.WithLabelValues(outcome)
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
