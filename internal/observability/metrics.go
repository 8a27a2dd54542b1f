package observability

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics stores Prometheus collectors used by the API and import flows.
type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal        *prometheus.CounterVec
	httpRequestDuration      *prometheus.HistogramVec
	importsStartedTotal      prometheus.Counter
	importsFinishedTotal     *prometheus.CounterVec
	importRecordsTotal       *prometheus.CounterVec
	importBatchDuration      prometheus.Histogram
	progressPublishDrops     prometheus.Counter
	progressSubscribersGauge prometheus.Gauge
}

func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "catalog",
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests processed by method, path, and status.",
			},
			[]string{"method", "path", "status"},
		),
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "catalog",
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds by method and path.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		importsStartedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "catalog",
				Name:      "imports_started_total",
				Help:      "Total number of bulk import jobs accepted.",
			},
		),
		importsFinishedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "catalog",
				Name:      "imports_finished_total",
				Help:      "Total number of bulk import jobs finished, by terminal status.",
			},
			[]string{"status"},
		),
		importRecordsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "catalog",
				Name:      "import_records_total",
				Help:      "Total number of import records processed, by outcome.",
			},
			[]string{"outcome"},
		),
		importBatchDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "catalog",
				Name:      "import_batch_duration_seconds",
				Help:      "Bulk insert duration per batch in seconds.",
				Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
			},
		),
		progressPublishDrops: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "catalog",
				Name:      "progress_publish_drops_total",
				Help:      "Total number of progress snapshots that could not be delivered.",
			},
		),
		progressSubscribersGauge: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "catalog",
				Name:      "progress_subscribers",
				Help:      "Current number of connected progress websocket clients.",
			},
		),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.importsStartedTotal,
		m.importsFinishedTotal,
		m.importRecordsTotal,
		m.importBatchDuration,
		m.progressPublishDrops,
		m.progressSubscribersGauge,
	)

	return m
}

func (m *Metrics) Handler() http.Handler {
	if m == nil || m.registry == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) HTTPMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		path := routePath(c)
		// Avoid self-scrape noise for request counters.
		if path == "/metrics" {
			return err
		}

		m.recordHTTPRequest(c.Method(), path, statusFromResult(c, err), time.Since(start))
		return err
	}
}

func (m *Metrics) IncImportStarted() {
	if m == nil {
		return
	}
	m.importsStartedTotal.Inc()
}

func (m *Metrics) IncImportFinished(status string) {
	if m == nil {
		return
	}
	normalized := strings.TrimSpace(strings.ToLower(status))
	if normalized == "" {
		normalized = "unknown"
	}
	m.importsFinishedTotal.WithLabelValues(normalized).Inc()
}

func (m *Metrics) AddImportRecords(outcome string, count int) {
	if m == nil || count <= 0 {
		return
	}
	m.importRecordsTotal.WithLabelValues(outcome).Add(float64(count))
}

func (m *Metrics) ObserveImportBatchDuration(duration time.Duration) {
	if m == nil {
		return
	}
	seconds := duration.Seconds()
	if seconds < 0 {
		seconds = 0
	}
	m.importBatchDuration.Observe(seconds)
}

func (m *Metrics) IncProgressPublishDrop() {
	if m == nil {
		return
	}
	m.progressPublishDrops.Inc()
}

func (m *Metrics) IncProgressSubscribers() {
	if m == nil {
		return
	}
	m.progressSubscribersGauge.Inc()
}

func (m *Metrics) DecProgressSubscribers() {
	if m == nil {
		return
	}
	m.progressSubscribersGauge.Dec()
}

// ProgressSubscribersGauge exposes the subscriber gauge for assertions.
func (m *Metrics) ProgressSubscribersGauge() prometheus.Gauge {
	if m == nil {
		return nil
	}
	return m.progressSubscribersGauge
}

func (m *Metrics) recordHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

func routePath(c *fiber.Ctx) string {
	if c == nil {
		return "unmatched"
	}

	if route := c.Route(); route != nil {
		if path := strings.TrimSpace(route.Path); path != "" {
			return path
		}
	}
	return "unmatched"
}

func statusFromResult(c *fiber.Ctx, err error) int {
	if err != nil {
		if fiberErr, ok := err.(*fiber.Error); ok {
			return fiberErr.Code
		}
		return fiber.StatusInternalServerError
	}

	if c == nil {
		return fiber.StatusOK
	}

	status := c.Response().StatusCode()
	if status == 0 {
		return fiber.StatusOK
	}
	return status
}
