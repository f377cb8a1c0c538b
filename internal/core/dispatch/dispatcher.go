package dispatch

import (
	"fmt"
	"runtime/debug"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/dep2p/go-eventbus/internal/core/metrics"
	"github.com/dep2p/go-eventbus/internal/core/subscriber"
	pkgif "github.com/dep2p/go-eventbus/pkg/interfaces"
)

// ErrorHandler 接收调用失败
type ErrorHandler func(*InvocationError)

// Dispatcher 事件投递器
//
// 构造后只读，可被多个 goroutine 并发使用。
type Dispatcher struct {
	executors     map[pkgif.ThreadMode]pkgif.Executor
	reporter      metrics.Reporter
	clock         clock.Clock
	slowThreshold time.Duration
	onError       ErrorHandler
}

// Option Dispatcher 选项
type Option func(*Dispatcher)

// WithExecutor 为线程模式绑定执行器
func WithExecutor(mode pkgif.ThreadMode, exec pkgif.Executor) Option {
	return func(d *Dispatcher) {
		d.executors[mode] = exec
	}
}

// WithReporter 设置指标记录器
func WithReporter(r metrics.Reporter) Option {
	return func(d *Dispatcher) {
		if r != nil {
			d.reporter = r
		}
	}
}

// WithClock 设置计时时钟
func WithClock(c clock.Clock) Option {
	return func(d *Dispatcher) {
		if c != nil {
			d.clock = c
		}
	}
}

// WithSlowThreshold 设置慢订阅者警告阈值，0 表示关闭
func WithSlowThreshold(threshold time.Duration) Option {
	return func(d *Dispatcher) {
		d.slowThreshold = threshold
	}
}

// WithErrorHandler 设置调用失败回调
func WithErrorHandler(h ErrorHandler) Option {
	return func(d *Dispatcher) {
		d.onError = h
	}
}

// New 创建投递器
//
// ThreadPosting 默认绑定 InlineExecutor；ThreadMain 必须显式绑定。
func New(opts ...Option) (*Dispatcher, error) {
	d := &Dispatcher{
		executors: map[pkgif.ThreadMode]pkgif.Executor{
			pkgif.ThreadPosting: InlineExecutor{},
		},
		reporter: metrics.Nop(),
		clock:    clock.New(),
	}
	for _, opt := range opts {
		opt(d)
	}

	for _, mode := range []pkgif.ThreadMode{pkgif.ThreadPosting, pkgif.ThreadMain} {
		if d.executors[mode] == nil {
			return nil, fmt.Errorf("%w: %v", ErrMissingExecutor, mode)
		}
	}
	return d, nil
}

// Dispatch 按列表顺序投递事件
func (d *Dispatcher) Dispatch(methods []*subscriber.Method, event any) {
	for _, m := range methods {
		d.Deliver(m, event)
	}
}

// Deliver 把事件投递给单个描述符
func (d *Dispatcher) Deliver(m *subscriber.Method, event any) {
	exec := d.executors[m.ThreadMode]
	if exec == nil {
		logger.Error("delivery dropped",
			"method", m.String(),
			"mode", m.ThreadMode,
			"err", ErrMissingExecutor)
		d.reporter.DeliveryDropped(m.ThreadMode)
		return
	}

	if err := exec.Execute(func() { d.invoke(m, event) }); err != nil {
		logger.Warn("delivery dropped",
			"method", m.String(),
			"mode", m.ThreadMode,
			"err", err)
		d.reporter.DeliveryDropped(m.ThreadMode)
	}
}

// invoke 调用订阅方法并隔离失败
func (d *Dispatcher) invoke(m *subscriber.Method, event any) {
	start := d.clock.Now()
	panicked, stack, err := call(m, event)
	elapsed := d.clock.Since(start)

	if err != nil {
		d.reporter.DeliveryFailed(m.ThreadMode, panicked, elapsed)
		d.fail(&InvocationError{
			Method:   m,
			Event:    event,
			Err:      err,
			Panicked: panicked,
			Stack:    stack,
		})
	} else {
		d.reporter.Delivered(m.ThreadMode, elapsed)
	}

	if d.slowThreshold > 0 && elapsed > d.slowThreshold {
		logger.Warn("slow subscriber",
			"method", m.String(),
			"id", m.ID,
			"elapsed", elapsed,
			"threshold", d.slowThreshold)
	}
}

// fail 记录调用失败并通知 ErrorHandler
func (d *Dispatcher) fail(ie *InvocationError) {
	args := []any{
		"method", ie.Method.String(),
		"id", ie.Method.ID,
		"mode", ie.Method.ThreadMode,
		"err", ie.Err,
	}
	if ie.Panicked {
		args = append(args, "stack", string(ie.Stack))
	}
	logger.Error("subscriber invocation failed", args...)

	if d.onError == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			logger.Error("error handler panicked", "panic", r)
		}
	}()
	d.onError(ie)
}

// call 调用订阅方法，把 panic 转换为错误
func call(m *subscriber.Method, event any) (panicked bool, stack []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			panicked = true
			stack = debug.Stack()
			err = panicError(r)
		}
	}()
	return false, nil, m.Invoke(event)
}
