package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the collectors exported on /metrics. Each instance owns its
// registry so tests can create as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	RequestCounter  *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	SessionsStarted  *prometheus.CounterVec
	SessionsFinished *prometheus.CounterVec
	ActiveSessions   prometheus.Gauge
	ResultsRecorded  *prometheus.CounterVec
	JobsProcessed    *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RequestCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests",
				Buckets: []float64{0.005, 0.025, 0.1, 0.5, 1, 2, 5},
			},
			[]string{"method", "endpoint"},
		),
		SessionsStarted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "practice_sessions_started_total",
				Help: "Practice tests started, by mode",
			},
			[]string{"mode"},
		),
		SessionsFinished: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "practice_sessions_finished_total",
				Help: "Practice tests that reached results or were abandoned, by mode and status",
			},
			[]string{"mode", "status"},
		),
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "practice_sessions_active",
			Help: "Live practice sessions held in memory",
		}),
		ResultsRecorded: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "practice_results_recorded_total",
				Help: "Test history writes, by outcome (inserted, duplicate, error, dropped)",
			},
			[]string{"outcome"},
		),
		JobsProcessed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "worker_jobs_processed_total",
				Help: "Background jobs run by the worker pool",
			},
			[]string{"job", "result"},
		),
	}

	m.registry.MustRegister(
		m.RequestCounter,
		m.RequestDuration,
		m.SessionsStarted,
		m.SessionsFinished,
		m.ActiveSessions,
		m.ResultsRecorded,
		m.JobsProcessed,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry exposes the underlying registry, mostly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveRequest records one served request under its route pattern.
func (m *Metrics) ObserveRequest(method, endpoint string, status int, elapsed time.Duration) {
	if endpoint == "" {
		endpoint = "unmatched"
	}
	m.RequestCounter.WithLabelValues(method, endpoint, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(method, endpoint).Observe(elapsed.Seconds())
}

// TrackQueueDepth exports depth as the pending-job gauge of the named pool.
// It is read on every scrape and may only be registered once per pool.
func (m *Metrics) TrackQueueDepth(pool string, depth func() int) {
	m.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name:        "worker_queue_depth",
			Help:        "Jobs waiting in the worker pool queue",
			ConstLabels: prometheus.Labels{"pool": pool},
		},
		func() float64 { return float64(depth()) },
	))
}

// ObserveJob is the worker pool's hook.
func (m *Metrics) ObserveJob(name string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.JobsProcessed.WithLabelValues(name, result).Inc()
}
