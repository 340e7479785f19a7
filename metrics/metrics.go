package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the dashboard's Prometheus collectors. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	Mutations      *prometheus.CounterVec
	StorageErrors  *prometheus.CounterVec
	RequestSeconds *prometheus.HistogramVec
	Sessions       prometheus.Gauge
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fittrack_mutations_total",
			Help: "State mutations applied, by operation.",
		}, []string{"op"}),
		StorageErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fittrack_storage_errors_total",
			Help: "Session storage failures that were logged and swallowed.",
		}, []string{"op"}),
		RequestSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fittrack_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		Sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fittrack_sessions_active",
			Help: "Sessions currently held in memory.",
		}),
	}
	reg.MustRegister(m.Mutations, m.StorageErrors, m.RequestSeconds, m.Sessions)
	return m
}

func (m *Metrics) Mutation(op string) {
	if m == nil {
		return
	}
	m.Mutations.WithLabelValues(op).Inc()
}

func (m *Metrics) StorageError(op string) {
	if m == nil {
		return
	}
	m.StorageErrors.WithLabelValues(op).Inc()
}

func (m *Metrics) ObserveRequest(method, route, status string, seconds float64) {
	if m == nil {
		return
	}
	m.RequestSeconds.WithLabelValues(method, route, status).Observe(seconds)
}

func (m *Metrics) SessionStarted() {
	if m == nil {
		return
	}
	m.Sessions.Inc()
}

func (m *Metrics) SessionEnded() {
	if m == nil {
		return
	}
	m.Sessions.Dec()
}
