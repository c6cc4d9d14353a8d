package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "apod"

// Metrics groups the service collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	providerRequests   *prometheus.CounterVec
	providerLatency    *prometheus.HistogramVec
	cacheLookups       *prometheus.CounterVec
	resolutions        *prometheus.CounterVec
	wallpaperDownloads *prometheus.CounterVec
	pollerTicks        *prometheus.CounterVec
	pollerLastRun      prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		providerRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "provider_requests_total",
				Help:      "Requests sent to the picture provider by endpoint and result",
			},
			[]string{"endpoint", "result"},
		),
		providerLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "provider_request_seconds",
				Help:      "Provider request latency",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"endpoint"},
		),
		cacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_lookups_total",
				Help:      "Result cache lookups by fingerprint class and outcome",
			},
			[]string{"class", "result"},
		),
		resolutions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "resolutions_total",
				Help:      "Entry resolutions by source (store, provider) and result",
			},
			[]string{"source", "result"},
		),
		wallpaperDownloads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "wallpaper_downloads_total",
				Help:      "Wallpaper image downloads by result",
			},
			[]string{"result"},
		),
		pollerTicks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "poller_ticks_total",
				Help:      "Refresh poller ticks by result (created, skipped, failed)",
			},
			[]string{"result"},
		),
		pollerLastRun: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "poller_last_run_timestamp_seconds",
				Help:      "Unix time of the last completed poller tick",
			},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.providerRequests,
		m.providerLatency,
		m.cacheLookups,
		m.resolutions,
		m.wallpaperDownloads,
		m.pollerTicks,
		m.pollerLastRun,
	)
	return m
}

// Handler exposes the registry in the prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry is exposed for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) ObserveProviderRequest(endpoint, result string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.providerRequests.WithLabelValues(endpoint, result).Inc()
	m.providerLatency.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveCacheLookup(class string, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(class, result).Inc()
}

func (m *Metrics) ObserveResolution(source, result string) {
	if m == nil {
		return
	}
	m.resolutions.WithLabelValues(source, result).Inc()
}

func (m *Metrics) ObserveWallpaperDownload(result string) {
	if m == nil {
		return
	}
	m.wallpaperDownloads.WithLabelValues(result).Inc()
}

func (m *Metrics) ObservePollerTick(result string, at time.Time) {
	if m == nil {
		return
	}
	m.pollerTicks.WithLabelValues(result).Inc()
	m.pollerLastRun.Set(float64(at.Unix()))
}
