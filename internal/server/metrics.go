package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spacesedan/sentilens/internal/models"
)

type Metrics struct {
	registry             *prometheus.Registry
	requests             *prometheus.CounterVec
	units                *prometheus.CounterVec
	translationFallbacks prometheus.Counter
	duration             prometheus.Histogram
}

// NewMetrics registers the service collectors on a private registry so
// several servers can live in one process.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sentilens_analyze_requests_total",
			Help: "Analyze requests by response status",
		}, []string{"status"}),
		units: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sentilens_review_units_total",
			Help: "Review units classified, by label",
		}, []string{"label"}),
		translationFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sentilens_translation_fallbacks_total",
			Help: "Review units scored in their original language after translation failed",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "sentilens_analyze_duration_seconds",
			Help:    "Time spent serving analyze requests",
			Buckets: prometheus.DefBuckets,
		}),
	}

	m.registry.MustRegister(
		m.requests,
		m.units,
		m.translationFallbacks,
		m.duration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) TranslationFallback() {
	m.translationFallbacks.Inc()
}

func (m *Metrics) observeCounts(counts models.SentimentCounts) {
	for _, label := range models.Labels {
		m.units.WithLabelValues(string(label)).Add(float64(counts.Get(label)))
	}
}
