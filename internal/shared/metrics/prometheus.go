// Package metrics 暴露 racetrack 管理操作和 HTTP 接口的 Prometheus 指标。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const resultSuccess = "success"

// Metrics 持有全部指标。nil *Metrics 的所有方法都是 no-op。
type Metrics struct {
	registry *prometheus.Registry

	opTotal      *prometheus.CounterVec
	opDuration   *prometheus.HistogramVec
	batchSize    *prometheus.HistogramVec
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

func New(opts ...Option) *Metrics {
	o := options{
		namespace: "racetrack",
		subsystem: "admin",
		buckets:   prometheus.DefBuckets,
	}
	for _, opt := range opts {
		opt(&o)
	}
	reg := o.registry
	if reg == nil {
		reg = prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}

	m := &Metrics{
		registry: reg,
		opTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: o.namespace,
			Subsystem: o.subsystem,
			Name:      "operations_total",
			Help:      "Store operations by name and result (success or failure reason).",
		}, []string{"op", "result"}),
		opDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: o.namespace,
			Subsystem: o.subsystem,
			Name:      "operation_duration_seconds",
			Help:      "Store operation latency.",
			Buckets:   o.buckets,
		}, []string{"op"}),
		batchSize: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: o.namespace,
			Subsystem: o.subsystem,
			Name:      "batch_uids",
			Help:      "Number of player ids handled by one batch call.",
			Buckets:   []float64{1, 5, 10, 50, 100, 500, 1000},
		}, []string{"op"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: o.namespace,
			Subsystem: o.subsystem,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: o.namespace,
			Subsystem: o.subsystem,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   o.buckets,
		}, []string{"route", "method"}),
	}
	reg.MustRegister(m.opTotal, m.opDuration, m.batchSize, m.httpRequests, m.httpDuration)
	return m
}

// ObserveOp 记录一次操作；reason 为空表示成功，否则记为失败原因码。
func (m *Metrics) ObserveOp(op, reason string, d time.Duration) {
	if m == nil {
		return
	}
	result := resultSuccess
	if reason != "" {
		result = reason
	}
	m.opTotal.WithLabelValues(op, result).Inc()
	m.opDuration.WithLabelValues(op).Observe(d.Seconds())
}

func (m *Metrics) ObserveBatch(op string, n int) {
	if m == nil {
		return
	}
	m.batchSize.WithLabelValues(op).Observe(float64(n))
}

func (m *Metrics) ObserveHTTP(route, method string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(route, method).Observe(d.Seconds())
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler 返回 /metrics 的 http.Handler。
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
