package metrics

import "github.com/prometheus/client_golang/prometheus"

type options struct {
	namespace string
	subsystem string
	buckets   []float64
	registry  *prometheus.Registry
}

// Option 调整 Metrics 的命名和注册表。
type Option func(*options)

func WithNamespace(ns string) Option {
	return func(o *options) { o.namespace = ns }
}

func WithSubsystem(sub string) Option {
	return func(o *options) { o.subsystem = sub }
}

func WithHistogramBuckets(b []float64) Option {
	return func(o *options) {
		if len(b) > 0 {
			o.buckets = b
		}
	}
}

// WithRegistry 使用外部注册表，测试里每个用例一个，避免重复注册。
func WithRegistry(r *prometheus.Registry) Option {
	return func(o *options) {
		if r != nil {
			o.registry = r
		}
	}
}
