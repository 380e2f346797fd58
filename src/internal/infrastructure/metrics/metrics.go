package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/jackyeh168/cartquest/src/internal/domain/coins"
	"github.com/jackyeh168/cartquest/src/internal/domain/shared"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ===========================
// Prometheus 指標
// ===========================

const namespace = "cartquest"

// Metrics 服務指標（每個實例一個 Registry，測試可各自建立）
type Metrics struct {
	registry *prometheus.Registry

	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	ledgerAppends   *prometheus.CounterVec
	ledgerRejected  *prometheus.CounterVec
	ledgerRetries   prometheus.Counter
	eventsPublished *prometheus.CounterVec
}

// New 建立並註冊所有指標
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		ledgerAppends: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ledger_appends_total",
				Help:      "Committed ledger entries by kind",
			},
			[]string{"kind"},
		),
		ledgerRejected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ledger_rejections_total",
				Help:      "Rejected ledger operations by error code",
			},
			[]string{"code"},
		),
		ledgerRetries: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ledger_append_retries_total",
				Help:      "Ledger transactions retried after a concurrent append",
			},
		),
		eventsPublished: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "domain_events_total",
				Help:      "Domain events published by type",
			},
			[]string{"type"},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpDuration,
		m.ledgerAppends,
		m.ledgerRejected,
		m.ledgerRetries,
		m.eventsPublished,
	)
	return m
}

// Registry 給測試讀取數值
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler /metrics
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveHTTP 記錄一次 HTTP 請求
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// AppendCommitted 分錄已提交
func (m *Metrics) AppendCommitted(kind coins.EntryKind) {
	m.ledgerAppends.WithLabelValues(kind.String()).Inc()
}

// AppendRejected 帳本操作被拒絕
func (m *Metrics) AppendRejected(code shared.ErrorCode) {
	m.ledgerRejected.WithLabelValues(string(code)).Inc()
}

// AppendRetried 因並發衝突重試事務
func (m *Metrics) AppendRetried() {
	m.ledgerRetries.Inc()
}

// EventPublished 事件已發布
func (m *Metrics) EventPublished(eventType string) {
	m.eventsPublished.WithLabelValues(eventType).Inc()
}
