// Package iometrics collects Prometheus metrics of pipeline runs and of
// the read API. Every Metrics value owns its registry.
package iometrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kpilake/kpilake/pkg/dag"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/push"
)

const namespace = "kpilake"

// Metrics holds the collectors. A nil *Metrics records nothing.
type Metrics struct {
	reg *prometheus.Registry

	dateNulls    *prometheus.CounterVec
	rowsWritten  *prometheus.CounterVec
	docsExported *prometheus.CounterVec
	taskDuration *prometheus.HistogramVec

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// New creates Metrics with a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		reg: reg,
		dateNulls: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "date_parse_nulls_total",
				Help:      "Date values that could not be parsed and became null.",
			},
			[]string{"dataset", "column"},
		),
		rowsWritten: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rows_written_total",
				Help:      "Rows written to the object store.",
			},
			[]string{"bucket", "object"},
		),
		docsExported: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "documents_exported_total",
				Help:      "Documents exported to the serving store.",
			},
			[]string{"collection"},
		),
		taskDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "task_duration_seconds",
				Help:      "Duration of flow tasks including retries.",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"flow", "task", "status"},
		),
		httpRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "HTTP requests of the read API.",
			},
			[]string{"method", "endpoint", "status_code"},
		),
		httpDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests of the read API.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),
	}
}

// DateParseNulls counts unparsable dates of a dataset column.
func (m *Metrics) DateParseNulls(dataset, column string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.dateNulls.WithLabelValues(dataset, column).Add(float64(n))
}

// RowsWritten counts rows of a written object.
func (m *Metrics) RowsWritten(bucket, object string, n int) {
	if m == nil {
		return
	}
	m.rowsWritten.WithLabelValues(bucket, object).Add(float64(n))
}

// DocumentsExported counts documents of an exported collection.
func (m *Metrics) DocumentsExported(coll string, n int) {
	if m == nil {
		return
	}
	m.docsExported.WithLabelValues(coll).Add(float64(n))
}

// ObserveTask records the duration of a finished task.
func (m *Metrics) ObserveTask(flow string, r dag.Result) {
	if m == nil {
		return
	}
	status := "succeeded"
	if r.Err != nil {
		status = "failed"
	}
	m.taskDuration.WithLabelValues(flow, r.Name, status).
		Observe(r.Duration.Seconds())
}

// Middleware records requests served by gin.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unknown"
		}
		m.httpRequests.WithLabelValues(
			c.Request.Method,
			endpoint,
			strconv.Itoa(c.Writer.Status()),
		).Inc()
		m.httpDuration.WithLabelValues(c.Request.Method, endpoint).
			Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}

// Gatherer gives access to the collected metrics.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.reg
}

// Push sends the collected metrics to a Prometheus Pushgateway. Batch
// commands use it since they do not live long enough to be scraped.
func (m *Metrics) Push(ctx context.Context, url, job string) error {
	if m == nil || url == "" {
		return nil
	}
	err := push.New(url, job).Gatherer(m.reg).PushContext(ctx)
	if err != nil {
		return PushError(url, err)
	}
	return nil
}
