package eventbus

import (
	"reflect"

	"github.com/dep2p/go-eventbus/internal/core/dispatch"
	"github.com/dep2p/go-eventbus/internal/core/subscriber"
	pkgif "github.com/dep2p/go-eventbus/pkg/interfaces"
)

// ════════════════════════════════════════════════════════════════════════════
//                              类型别名
// ════════════════════════════════════════════════════════════════════════════

type (
	// EventBus 事件总线接口
	EventBus = pkgif.EventBus

	// Subscriber 声明订阅方法的订阅者
	Subscriber = pkgif.Subscriber

	// MethodSpec 订阅声明
	MethodSpec = pkgif.MethodSpec

	// MethodOpt 订阅声明选项
	MethodOpt = pkgif.MethodOpt

	// ThreadMode 投递线程模式
	ThreadMode = pkgif.ThreadMode

	// Executor 投递执行器
	Executor = pkgif.Executor

	// ErrorHandler 接收订阅方法调用失败
	ErrorHandler = dispatch.ErrorHandler

	// SerialExecutor 单消费者执行器，即协调线程
	SerialExecutor = dispatch.SerialExecutor
)

const (
	// ThreadPosting 在发布者 goroutine 上同步投递
	ThreadPosting = pkgif.ThreadPosting

	// ThreadMain 在协调线程上异步投递
	ThreadMain = pkgif.ThreadMain
)

// ════════════════════════════════════════════════════════════════════════════
//                              订阅声明
// ════════════════════════════════════════════════════════════════════════════

// On 声明一个 func(E) 订阅方法
//
// E 是订阅的精确事件类型：On(func(T)) 与 On(func(*T)) 订阅不同的事件。
func On[E any](fn func(E), opts ...MethodOpt) MethodSpec {
	return subscriber.On(fn, opts...)
}

// OnE 声明一个 func(E) error 订阅方法
//
// 返回的错误按调用失败处理。
func OnE[E any](fn func(E) error, opts ...MethodOpt) MethodSpec {
	return subscriber.OnE(fn, opts...)
}

// WithThreadMode 设置投递线程模式
func WithThreadMode(mode ThreadMode) MethodOpt {
	return pkgif.WithThreadMode(mode)
}

// MainThread 在协调线程上投递
func MainThread() MethodOpt {
	return pkgif.MainThread()
}

// Sticky 粘性订阅，注册时补发最近一次粘性事件
func Sticky() MethodOpt {
	return pkgif.Sticky()
}

// Named 设置日志中显示的方法名
func Named(name string) MethodOpt {
	return pkgif.Named(name)
}

// GetSticky 返回类型 E 最近一次的粘性事件
func GetSticky[E any](bus EventBus) (E, bool) {
	var zero E
	v, ok := bus.StickyEvent(reflect.TypeFor[E]())
	if !ok {
		return zero, false
	}
	e, ok := v.(E)
	if !ok {
		return zero, false
	}
	return e, true
}

// NewSerialExecutor 创建协调执行器
//
// capacity 为队列初始容量，不限制队列长度；0 使用默认值。
func NewSerialExecutor(capacity ...int) *SerialExecutor {
	var opts []dispatch.SerialOption
	if len(capacity) > 0 {
		opts = append(opts, dispatch.WithQueueCapacity(capacity[0]))
	}
	return dispatch.NewSerialExecutor(opts...)
}
