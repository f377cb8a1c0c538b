// Package metrics 提供事件投递指标
//
// 基于 Prometheus client_golang 实现 Reporter：
//   - events_posted_total{sticky}: 发布的事件数
//   - events_unhandled_total: 没有订阅者的事件数
//   - deliveries_total{mode}: 成功投递数
//   - delivery_failures_total{mode,reason}: 调用失败数（error / panic）
//   - deliveries_dropped_total{mode}: 执行器拒绝的投递数
//   - handler_duration_seconds{mode}: 订阅方法耗时
//   - main_queue_depth: 协调执行器排队任务数
//
// # 快速开始
//
//	c := metrics.NewCollector("eventbus")
//	prometheus.MustRegister(c)
//
//	bus, _ := eventbus.New(eventbus.WithReporter(c))
//
// 未启用指标时使用 Nop()。
package metrics
