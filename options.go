package eventbus

import (
	"fmt"

	"github.com/benbjohnson/clock"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dep2p/go-eventbus/config"
	"github.com/dep2p/go-eventbus/internal/core/metrics"
)

// Option 用户配置选项函数
type Option func(*options) error

// options 内部选项结构
type options struct {
	config *config.Config

	// 投递执行器
	executors map[ThreadMode]Executor

	// 计时
	clock clock.Clock

	// 指标
	registerer prometheus.Registerer
	reporter   metrics.Reporter

	// 失败回调
	errorHandler ErrorHandler
}

// newOptions 创建默认选项
func newOptions() *options {
	return &options{
		config:    config.NewConfig(),
		executors: make(map[ThreadMode]Executor),
	}
}

// ════════════════════════════════════════════════════════════════════════════
//                              选项函数
// ════════════════════════════════════════════════════════════════════════════

// WithConfig 使用完整配置
//
// 配置在 New 中校验。
func WithConfig(cfg *config.Config) Option {
	return func(o *options) error {
		if cfg == nil {
			return fmt.Errorf("%w: nil config", ErrInvalidOption)
		}
		o.config = config.CloneConfig(cfg)
		return nil
	}
}

// WithMainExecutor 设置协调执行器
//
// 未设置时总线创建并持有一个 SerialExecutor，Close 时关闭。
// 调用方提供的执行器由调用方负责关闭。
func WithMainExecutor(exec Executor) Option {
	return WithExecutor(ThreadMain, exec)
}

// WithExecutor 为线程模式绑定执行器
func WithExecutor(mode ThreadMode, exec Executor) Option {
	return func(o *options) error {
		if !mode.Valid() {
			return fmt.Errorf("%w: unknown thread mode %v", ErrInvalidOption, mode)
		}
		if exec == nil {
			return fmt.Errorf("%w: nil executor for %v", ErrInvalidOption, mode)
		}
		o.executors[mode] = exec
		return nil
	}
}

// WithClock 设置订阅方法计时使用的时钟
func WithClock(c clock.Clock) Option {
	return func(o *options) error {
		if c == nil {
			return fmt.Errorf("%w: nil clock", ErrInvalidOption)
		}
		o.clock = c
		return nil
	}
}

// WithRegisterer 把投递指标注册到 Prometheus
//
// Metrics.Enabled 为 false 时忽略。
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *options) error {
		o.registerer = reg
		return nil
	}
}

// WithReporter 使用自定义指标记录器，优先于 WithRegisterer
func WithReporter(r metrics.Reporter) Option {
	return func(o *options) error {
		o.reporter = r
		return nil
	}
}

// WithErrorHandler 设置订阅方法调用失败回调
//
// 回调在执行该订阅方法的 goroutine 上同步调用，回调自身的 panic 会被恢复。
func WithErrorHandler(h ErrorHandler) Option {
	return func(o *options) error {
		o.errorHandler = h
		return nil
	}
}
