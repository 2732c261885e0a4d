package objbus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// dispatchMetrics 调度指标
//
// 所有方法对 nil 接收者都是空操作，未启用指标时调用方无需判空。
type dispatchMetrics struct {
	handled  prometheus.Counter
	failed   prometheus.Counter
	missed   prometheus.Counter
	duration prometheus.Histogram
}

func newDispatchMetrics(reg prometheus.Registerer) *dispatchMetrics {
	factory := promauto.With(reg)
	return &dispatchMetrics{
		handled: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "objbus",
			Name:      "dispatch_handled_total",
			Help:      "Method calls dispatched to a handler successfully.",
		}),
		failed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "objbus",
			Name:      "dispatch_errors_total",
			Help:      "Method calls answered with a protocol error reply.",
		}),
		missed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "objbus",
			Name:      "dispatch_misses_total",
			Help:      "Method calls whose path did not match any node.",
		}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "objbus",
			Name:      "dispatch_duration_seconds",
			Help:      "Handler invocation latency.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}

func (m *dispatchMetrics) success(d time.Duration) {
	if m == nil {
		return
	}
	m.handled.Inc()
	m.duration.Observe(d.Seconds())
}

func (m *dispatchMetrics) failure(d time.Duration) {
	if m == nil {
		return
	}
	m.failed.Inc()
	m.duration.Observe(d.Seconds())
}

func (m *dispatchMetrics) miss() {
	if m == nil {
		return
	}
	m.missed.Inc()
}
