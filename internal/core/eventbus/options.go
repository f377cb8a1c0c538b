package eventbus

import (
	"github.com/benbjohnson/clock"

	"github.com/dep2p/go-eventbus/config"
	"github.com/dep2p/go-eventbus/internal/core/dispatch"
	"github.com/dep2p/go-eventbus/internal/core/metrics"
	"github.com/dep2p/go-eventbus/internal/core/subscriber"
	pkgif "github.com/dep2p/go-eventbus/pkg/interfaces"
)

// ============================================================================
// 构造选项
// ============================================================================

// Option 总线构造选项
type Option func(*settings)

// WithConfig 设置配置，nil 时使用默认配置
func WithConfig(cfg *config.Config) Option {
	return func(s *settings) {
		if cfg != nil {
			s.cfg = cfg
		}
	}
}

// WithExecutor 为线程模式绑定执行器
//
// 调用方提供的执行器由调用方负责关闭。
func WithExecutor(mode pkgif.ThreadMode, exec pkgif.Executor) Option {
	return func(s *settings) {
		if exec != nil {
			s.executors[mode] = exec
		}
	}
}

// WithMainExecutor 设置协调执行器
//
// 未设置时总线创建并持有一个 SerialExecutor。
func WithMainExecutor(exec pkgif.Executor) Option {
	return WithExecutor(pkgif.ThreadMain, exec)
}

// WithReporter 设置指标记录器
func WithReporter(r metrics.Reporter) Option {
	return func(s *settings) {
		if r != nil {
			s.reporter = r
		}
	}
}

// WithClock 设置计时时钟
func WithClock(c clock.Clock) Option {
	return func(s *settings) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithErrorHandler 设置调用失败回调
func WithErrorHandler(h dispatch.ErrorHandler) Option {
	return func(s *settings) {
		s.errorHandler = h
	}
}

// WithFinderOptions 设置方法发现选项
func WithFinderOptions(opts ...subscriber.FinderOption) Option {
	return func(s *settings) {
		s.finderOpts = append(s.finderOpts, opts...)
	}
}
