package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/tedpecoulas/claude-skills-mcp/internal/domain"
)

type PrometheusMetrics struct {
	requestDuration *prometheus.HistogramVec
	fetchDuration   *prometheus.HistogramVec
	cacheLookups    *prometheus.CounterVec
}

func NewPrometheusMetrics(registerer prometheus.Registerer) *PrometheusMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registerer)

	return &PrometheusMetrics{
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "skillsgate_request_duration_seconds",
				Help:    "Duration of protocol request handling in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "status"},
		),
		fetchDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "skillsgate_fetch_duration_seconds",
				Help:    "Duration of remote skill content fetches in seconds",
				Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"skill", "status"},
		),
		cacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "skillsgate_cache_lookups_total",
				Help: "Total number of content cache lookups",
			},
			[]string{"skill", "result"},
		),
	}
}

func (p *PrometheusMetrics) ObserveRequest(method string, duration time.Duration, err error) {
	p.requestDuration.WithLabelValues(method, statusLabel(err)).Observe(duration.Seconds())
}

func (p *PrometheusMetrics) ObserveFetch(skill string, duration time.Duration, err error) {
	p.fetchDuration.WithLabelValues(skill, statusLabel(err)).Observe(duration.Seconds())
}

func (p *PrometheusMetrics) ObserveCacheLookup(skill string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	p.cacheLookups.WithLabelValues(skill, result).Inc()
}

func statusLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

var _ domain.Metrics = (*PrometheusMetrics)(nil)
