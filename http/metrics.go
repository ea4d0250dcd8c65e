package http

import (
	"net/http"
	"time"

	"github.com/gogibeta/pageharvest"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics records extraction outcomes for the /metrics endpoint.
type Metrics struct {
	registry    *prometheus.Registry
	extractions *prometheus.CounterVec
	pages       prometheus.Histogram
	duration    prometheus.Histogram
}

// NewMetrics creates and registers the extraction collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		extractions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pageharvest_extractions_total",
			Help: "Extractions by outcome.",
		}, []string{"outcome"}),
		pages: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "pageharvest_pages_found",
			Help:    "Distinct pages found per successful extraction.",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250, 500},
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "pageharvest_extraction_duration_seconds",
			Help:    "Wall-clock duration of extractions.",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
		}),
	}
	m.registry.MustRegister(m.extractions, m.pages, m.duration)
	return m
}

// ObserveExtraction records one extraction outcome.
func (m *Metrics) ObserveExtraction(result *pageharvest.Result, err error, elapsed time.Duration) {
	m.duration.Observe(elapsed.Seconds())

	switch {
	case err != nil:
		m.extractions.WithLabelValues("error").Inc()
	case !result.Success:
		m.extractions.WithLabelValues("failure").Inc()
	case len(result.Pages) == 0:
		m.extractions.WithLabelValues("empty").Inc()
	default:
		m.extractions.WithLabelValues("success").Inc()
		m.pages.Observe(float64(len(result.Pages)))
	}
}

// Handler serves the registered collectors.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
