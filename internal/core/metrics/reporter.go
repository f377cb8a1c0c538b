package metrics

import (
	"time"

	pkgif "github.com/dep2p/go-eventbus/pkg/interfaces"
)

// 失败原因标签
const (
	ReasonError = "error"
	ReasonPanic = "panic"
)

// Reporter 记录事件投递指标
type Reporter interface {
	// EventPosted 记录一次发布
	EventPosted(sticky bool)

	// EventUnhandled 记录一次没有订阅者的发布
	EventUnhandled()

	// Delivered 记录一次成功投递及耗时
	Delivered(mode pkgif.ThreadMode, elapsed time.Duration)

	// DeliveryFailed 记录一次失败投递及耗时
	DeliveryFailed(mode pkgif.ThreadMode, panicked bool, elapsed time.Duration)

	// DeliveryDropped 记录一次被执行器拒绝的投递
	DeliveryDropped(mode pkgif.ThreadMode)
}

// nopReporter 丢弃所有指标
type nopReporter struct{}

func (nopReporter) EventPosted(bool)                                     {}
func (nopReporter) EventUnhandled()                                      {}
func (nopReporter) Delivered(pkgif.ThreadMode, time.Duration)            {}
func (nopReporter) DeliveryFailed(pkgif.ThreadMode, bool, time.Duration) {}
func (nopReporter) DeliveryDropped(pkgif.ThreadMode)                     {}

// Nop 返回不记录任何指标的 Reporter
func Nop() Reporter {
	return nopReporter{}
}
