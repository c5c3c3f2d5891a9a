package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// forecast refresh loop and the geocoding path.
type Metrics struct {
	RefreshTotal    *prometheus.CounterVec // labels: outcome={success,error}
	RefreshDuration prometheus.Histogram

	// Derived snow state, updated after every successful refresh.
	SnowAccumulation prometheus.Gauge
	StatusLevel      prometheus.Gauge

	NotificationsSent prometheus.Counter

	GeocodeRequests  *prometheus.CounterVec // labels: outcome={success,error,empty}
	GeocodeCacheHits prometheus.Counter
}

// NewMetrics creates and registers all metrics with the default Prometheus
// registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		RefreshTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "snowwatch",
			Name:      "refresh_total",
			Help:      "Forecast refresh attempts by outcome.",
		}, []string{"outcome"}),
		RefreshDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "snowwatch",
			Name:      "refresh_duration_seconds",
			Help:      "Duration of a complete fetch-normalize-store cycle.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		SnowAccumulation: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "snowwatch",
			Name:      "snow_accumulation_mm",
			Help:      "Expected snowfall over the status window, in millimeters.",
		}),
		StatusLevel: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "snowwatch",
			Name:      "status_level",
			Help:      "Clearing status: 0 normal, 1 warning, 2 critical.",
		}),
		NotificationsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "snowwatch",
			Name:      "notifications_sent_total",
			Help:      "Snowfall alerts handed to the notification backend.",
		}),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "snowwatch",
			Name:      "geocode_requests_total",
			Help:      "Place searches by outcome.",
		}, []string{"outcome"}),
		GeocodeCacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "snowwatch",
			Name:      "geocode_cache_hits_total",
			Help:      "Place searches served from the in-memory cache.",
		}),
	}

	prometheus.MustRegister(
		m.RefreshTotal,
		m.RefreshDuration,
		m.SnowAccumulation,
		m.StatusLevel,
		m.NotificationsSent,
		m.GeocodeRequests,
		m.GeocodeCacheHits,
	)

	return m
}

// NewMetricsForTesting creates Metrics with unregistered collectors to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		RefreshTotal:      prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "snowwatch", Name: "refresh_total"}, []string{"outcome"}),
		RefreshDuration:   prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "snowwatch", Name: "refresh_duration_seconds"}),
		SnowAccumulation:  prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "snowwatch", Name: "snow_accumulation_mm"}),
		StatusLevel:       prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "snowwatch", Name: "status_level"}),
		NotificationsSent: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "snowwatch", Name: "notifications_sent_total"}),
		GeocodeRequests:   prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "snowwatch", Name: "geocode_requests_total"}, []string{"outcome"}),
		GeocodeCacheHits:  prometheus.NewCounter(prometheus.CounterOpts{Namespace: "snowwatch", Name: "geocode_cache_hits_total"}),
	}
}
