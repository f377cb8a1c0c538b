package eventbus

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"

	core "github.com/dep2p/go-eventbus/internal/core/eventbus"
	"github.com/dep2p/go-eventbus/internal/core/metrics"
	"github.com/dep2p/go-eventbus/pkg/lib/log"
)

var logger = log.Logger("eventbus")

// ════════════════════════════════════════════════════════════════════════════
//                              Bus
// ════════════════════════════════════════════════════════════════════════════

// Bus 事件总线实例
//
// 所有方法可被多个 goroutine 并发调用，也可以在订阅方法内部重入调用。
type Bus struct {
	bus *core.Bus
}

var _ EventBus = (*Bus)(nil)

// New 创建独立的事件总线实例
//
// 适用于测试与依赖注入；进程内共享的实例使用 Default。
func New(opts ...Option) (*Bus, error) {
	o := newOptions()
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, fmt.Errorf("apply option: %w", err)
		}
	}

	reporter := o.reporter
	if reporter == nil && o.registerer != nil {
		r, err := metrics.NewReporterFromParams(metrics.Params{
			UnifiedCfg: o.config,
			Registerer: o.registerer,
		})
		if err != nil {
			return nil, fmt.Errorf("register metrics: %w", err)
		}
		reporter = r
	}

	coreOpts := []core.Option{
		core.WithConfig(o.config),
		core.WithReporter(reporter),
		core.WithClock(o.clock),
		core.WithErrorHandler(o.errorHandler),
	}
	for mode, exec := range o.executors {
		coreOpts = append(coreOpts, core.WithExecutor(mode, exec))
	}

	b, err := core.NewBus(coreOpts...)
	if err != nil {
		return nil, err
	}
	return &Bus{bus: b}, nil
}

// Register 注册订阅者的全部订阅方法
//
// 订阅者必须可比较（通常是指针），并实现 Subscriber；未实现时为空操作。
// 订阅者以相等判定身份，不同订阅者须互不相等；指向零大小类型的指针可能相等，
// 不宜作为订阅者。
// 声明无效时返回 *ConfigurationError 且不注册任何方法；
// 重复注册返回 ErrAlreadyRegistered。
func (b *Bus) Register(subscriber any) error {
	return b.bus.Register(subscriber)
}

// RegisterMethods 以显式声明表注册订阅者
//
// 用于不实现 Subscriber 的值，例如在函数内用闭包订阅。
func (b *Bus) RegisterMethods(subscriber any, methods ...MethodSpec) error {
	return b.bus.RegisterMethods(subscriber, methods...)
}

// Unregister 注销订阅者，未注册时为空操作
func (b *Bus) Unregister(subscriber any) {
	b.bus.Unregister(subscriber)
}

// IsRegistered 订阅者当前是否已注册
func (b *Bus) IsRegistered(subscriber any) bool {
	return b.bus.IsRegistered(subscriber)
}

// Post 发布事件
//
// POSTING 订阅方法在 Post 返回前依注册顺序同步执行；
// MAIN 订阅方法提交给协调线程后立即返回。
func (b *Bus) Post(event any) {
	b.bus.Post(event)
}

// PostSticky 发布事件并缓存为该类型最近一次的粘性事件
func (b *Bus) PostSticky(event any) {
	b.bus.PostSticky(event)
}

// HasSubscribers 指定事件类型是否有订阅者
func (b *Bus) HasSubscribers(eventType reflect.Type) bool {
	return b.bus.HasSubscribers(eventType)
}

// StickyEvent 返回指定类型最近一次的粘性事件
func (b *Bus) StickyEvent(eventType reflect.Type) (any, bool) {
	return b.bus.StickyEvent(eventType)
}

// Close 关闭事件总线
//
// 已提交的 MAIN 投递会执行完毕，等待时间受 ctx 约束。
// 在 MAIN 订阅方法中调用时只能等到 ctx 到期并返回 ctx.Err()，剩余投递仍会执行。
func (b *Bus) Close(ctx context.Context) error {
	return b.bus.Close(ctx)
}

// ════════════════════════════════════════════════════════════════════════════
//                              默认实例
// ════════════════════════════════════════════════════════════════════════════

var (
	defaultBus atomic.Pointer[Bus]
	defaultMu  sync.Mutex
)

// Default 返回进程内共享的事件总线
//
// 首次调用时以默认配置创建，并发首次调用只会创建一个实例。默认实例不会被关闭。
func Default() *Bus {
	if b := defaultBus.Load(); b != nil {
		return b
	}

	defaultMu.Lock()
	defer defaultMu.Unlock()

	if b := defaultBus.Load(); b != nil {
		return b
	}
	b, err := New()
	if err != nil {
		// 默认配置总是有效
		panic(fmt.Sprintf("eventbus: create default instance: %v", err))
	}
	defaultBus.Store(b)
	logger.Debug("default eventbus created")
	return b
}

// InstallDefault 以指定选项创建默认实例
//
// 必须在首次调用 Default 之前调用，否则返回 ErrDefaultInstalled。
func InstallDefault(opts ...Option) (*Bus, error) {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultBus.Load() != nil {
		return nil, ErrDefaultInstalled
	}
	b, err := New(opts...)
	if err != nil {
		return nil, err
	}
	defaultBus.Store(b)
	logger.Debug("default eventbus installed")
	return b, nil
}
