package metrics

import (
	"strconv"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	pkgif "github.com/dep2p/go-eventbus/pkg/interfaces"
)

// Collector 基于 Prometheus 的 Reporter
//
// Collector 同时实现 prometheus.Collector，注册一次即可导出全部指标。
type Collector struct {
	posted    *prometheus.CounterVec
	unhandled prometheus.Counter
	delivered *prometheus.CounterVec
	failed    *prometheus.CounterVec
	dropped   *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	depth     prometheus.GaugeFunc

	// queueLen 协调执行器队列长度，未绑定时为 nil
	queueLen atomic.Pointer[func() int]
}

var _ Reporter = (*Collector)(nil)
var _ prometheus.Collector = (*Collector)(nil)

// NewCollector 创建指标收集器
func NewCollector(namespace string) *Collector {
	c := &Collector{
		posted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_posted_total",
			Help:      "Events posted to the bus.",
		}, []string{"sticky"}),
		unhandled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_unhandled_total",
			Help:      "Posted events that had no registered subscriber.",
		}),
		delivered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deliveries_total",
			Help:      "Subscriber invocations that completed without error.",
		}, []string{"mode"}),
		failed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "delivery_failures_total",
			Help:      "Subscriber invocations that returned an error or panicked.",
		}, []string{"mode", "reason"}),
		dropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deliveries_dropped_total",
			Help:      "Deliveries rejected by a closed executor.",
		}, []string{"mode"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "handler_duration_seconds",
			Help:      "Subscriber invocation latency.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"mode"}),
	}
	c.depth = prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "main_queue_depth",
		Help:      "Deliveries waiting on the coordination executor.",
	}, func() float64 {
		if fn := c.queueLen.Load(); fn != nil {
			return float64((*fn)())
		}
		return 0
	})
	return c
}

// BindQueue 绑定协调执行器的队列长度
func (c *Collector) BindQueue(queueLen func() int) {
	if queueLen == nil {
		c.queueLen.Store(nil)
		return
	}
	c.queueLen.Store(&queueLen)
}

// EventPosted 实现 Reporter
func (c *Collector) EventPosted(sticky bool) {
	c.posted.WithLabelValues(strconv.FormatBool(sticky)).Inc()
}

// EventUnhandled 实现 Reporter
func (c *Collector) EventUnhandled() {
	c.unhandled.Inc()
}

// Delivered 实现 Reporter
func (c *Collector) Delivered(mode pkgif.ThreadMode, elapsed time.Duration) {
	c.delivered.WithLabelValues(mode.String()).Inc()
	c.duration.WithLabelValues(mode.String()).Observe(elapsed.Seconds())
}

// DeliveryFailed 实现 Reporter
func (c *Collector) DeliveryFailed(mode pkgif.ThreadMode, panicked bool, elapsed time.Duration) {
	reason := ReasonError
	if panicked {
		reason = ReasonPanic
	}
	c.failed.WithLabelValues(mode.String(), reason).Inc()
	c.duration.WithLabelValues(mode.String()).Observe(elapsed.Seconds())
}

// DeliveryDropped 实现 Reporter
func (c *Collector) DeliveryDropped(mode pkgif.ThreadMode) {
	c.dropped.WithLabelValues(mode.String()).Inc()
}

// Describe 实现 prometheus.Collector
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	c.posted.Describe(ch)
	c.unhandled.Describe(ch)
	c.delivered.Describe(ch)
	c.failed.Describe(ch)
	c.dropped.Describe(ch)
	c.duration.Describe(ch)
	c.depth.Describe(ch)
}

// Collect 实现 prometheus.Collector
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.posted.Collect(ch)
	c.unhandled.Collect(ch)
	c.delivered.Collect(ch)
	c.failed.Collect(ch)
	c.dropped.Collect(ch)
	c.duration.Collect(ch)
	c.depth.Collect(ch)
}
