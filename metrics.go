package aadauth

import (
	"slices"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/portalinsights/aadauth/jwks"
)

// Metric names recorded by the Gate. jwks.RefreshCounter and
// jwks.RefreshDuration are recorded by the key cache.
const (
	AuthenticationsCounter = "aadauth_authentications_total"
	AuthenticationDuration = "aadauth_authentication_duration_seconds"
)

// Metrics is a generic metrics interface for the gate. It matches
// jwks.Metrics, so one implementation can serve both.
type Metrics interface {
	IncCounter(name string, tags map[string]string)
	ObserveHistogram(name string, value float64, tags map[string]string)
}

var _ jwks.Metrics = (Metrics)(nil)

// NoopMetrics is a default metrics implementation that does nothing.
type NoopMetrics struct{}

func (m *NoopMetrics) IncCounter(name string, tags map[string]string)                      {}
func (m *NoopMetrics) ObserveHistogram(name string, value float64, tags map[string]string) {}

var metricHelp = map[string]string{
	AuthenticationsCounter: "Authentication attempts by result (success or failure kind).",
	AuthenticationDuration: "Time spent authenticating a request, in seconds.",
	jwks.RefreshCounter:    "JWKS refreshes from the identity provider by result.",
	jwks.RefreshDuration:   "Time spent refreshing the JWKS, in seconds.",
}

// PrometheusMetrics implements Metrics using Prometheus. Vectors are created
// and registered on first use of each name.
type PrometheusMetrics struct {
	registerer prometheus.Registerer

	mu         sync.Mutex
	counters   map[string]*prometheus.CounterVec
	histograms map[string]*prometheus.HistogramVec
}

// NewPrometheusMetrics returns a Metrics implementation backed by Prometheus
// that registers with reg. A nil reg means prometheus.DefaultRegisterer.
func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	return &PrometheusMetrics{
		registerer: reg,
		counters:   make(map[string]*prometheus.CounterVec),
		histograms: make(map[string]*prometheus.HistogramVec),
	}
}

func (m *PrometheusMetrics) IncCounter(name string, tags map[string]string) {
	m.mu.Lock()
	vec, ok := m.counters[name]
	if !ok {
		vec = prometheus.NewCounterVec(prometheus.CounterOpts{Name: name, Help: help(name, "counter")}, keys(tags))
		m.registerer.MustRegister(vec)
		m.counters[name] = vec
	}
	m.mu.Unlock()

	vec.With(tags).Inc()
}

func (m *PrometheusMetrics) ObserveHistogram(name string, value float64, tags map[string]string) {
	m.mu.Lock()
	vec, ok := m.histograms[name]
	if !ok {
		vec = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    name,
			Help:    help(name, "histogram"),
			Buckets: prometheus.DefBuckets,
		}, keys(tags))
		m.registerer.MustRegister(vec)
		m.histograms[name] = vec
	}
	m.mu.Unlock()

	vec.With(tags).Observe(value)
}

func help(name, kind string) string {
	if h, ok := metricHelp[name]; ok {
		return h
	}
	return name + " " + kind
}

func keys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
