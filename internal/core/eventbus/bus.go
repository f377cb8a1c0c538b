package eventbus

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"go.uber.org/multierr"

	"github.com/dep2p/go-eventbus/config"
	"github.com/dep2p/go-eventbus/internal/core/dispatch"
	"github.com/dep2p/go-eventbus/internal/core/registry"
	"github.com/dep2p/go-eventbus/internal/core/sticky"
	"github.com/dep2p/go-eventbus/internal/core/subscriber"
	pkgif "github.com/dep2p/go-eventbus/pkg/interfaces"
	"github.com/dep2p/go-eventbus/pkg/lib/log"
)

var logger = log.Logger("core/eventbus")

// ============================================================================
// Bus 实现
// ============================================================================

// Bus 事件总线
//
// 一把互斥锁同时保护订阅表与粘性缓存；投递总是在锁外对快照进行，
// 订阅方法可以在回调中重入 Register / Unregister / Post。
type Bus struct {
	mu       sync.Mutex
	registry *registry.Registry
	sticky   *sticky.Cache
	closed   bool

	finder     *subscriber.Finder
	dispatcher *dispatch.Dispatcher
	settings   *settings

	// owned 由总线创建、随 Close 关闭的执行器
	owned []*dispatch.SerialExecutor
}

var _ pkgif.EventBus = (*Bus)(nil)

// replay 注册时待补发的粘性事件
type replay struct {
	method  *subscriber.Method
	event   any
	version uint64
}

// queueBinder 可观测协调队列深度的指标记录器
type queueBinder interface {
	BindQueue(queueLen func() int)
}

// NewBus 创建事件总线
//
// 未通过 WithMainExecutor 提供协调执行器时，创建并启动一个 SerialExecutor，
// 由 Close 负责关闭。
func NewBus(opts ...Option) (*Bus, error) {
	s := defaultSettings()
	for _, opt := range opts {
		opt(s)
	}

	if err := config.ValidateAll(s.cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	cache, err := sticky.New(s.cfg.Sticky.MaxEntries)
	if err != nil {
		return nil, fmt.Errorf("create sticky cache: %w", err)
	}

	b := &Bus{
		registry: registry.New(),
		sticky:   cache,
		finder:   subscriber.NewFinder(s.finderOpts...),
		settings: s,
	}

	if s.executors[pkgif.ThreadMain] == nil {
		serial := dispatch.NewSerialExecutor(
			dispatch.WithQueueCapacity(s.cfg.Dispatch.MainQueueCapacity),
		)
		if err := serial.Start(); err != nil {
			return nil, err
		}
		s.executors[pkgif.ThreadMain] = serial
		b.owned = append(b.owned, serial)

		if qb, ok := s.reporter.(queueBinder); ok {
			qb.BindQueue(serial.Len)
		}
	}

	dopts := []dispatch.Option{
		dispatch.WithReporter(s.reporter),
		dispatch.WithClock(s.clock),
		dispatch.WithSlowThreshold(s.cfg.Dispatch.SlowHandlerThreshold.Duration()),
		dispatch.WithErrorHandler(s.errorHandler),
	}
	for mode, exec := range s.executors {
		dopts = append(dopts, dispatch.WithExecutor(mode, exec))
	}

	b.dispatcher, err = dispatch.New(dopts...)
	if err != nil {
		_ = b.closeOwned(context.Background())
		return nil, err
	}

	return b, nil
}

// ============================================================================
// EventBus 接口实现
// ============================================================================

// Register 注册订阅者的全部订阅方法
//
// 未声明订阅方法的订阅者为空操作；重复注册返回 ErrAlreadyRegistered。
// 订阅者以相等判定身份，指向零大小类型的指针可能彼此相等。
// 粘性订阅方法立即收到对应类型最近一次的粘性事件；补发前该类型已有更新的
// 粘性事件时不再补发旧值。
func (b *Bus) Register(sub any) error {
	methods, err := b.finder.Find(sub)
	if err != nil {
		return err
	}
	return b.register(sub, methods)
}

// RegisterMethods 以显式声明表注册订阅者
func (b *Bus) RegisterMethods(sub any, specs ...pkgif.MethodSpec) error {
	methods, err := b.finder.FindMethods(sub, specs...)
	if err != nil {
		return err
	}
	return b.register(sub, methods)
}

func (b *Bus) register(sub any, methods []*subscriber.Method) error {
	replays, err := b.add(sub, methods)
	if err != nil || len(methods) == 0 {
		return err
	}

	logger.Debug("subscriber registered",
		"subscriber", fmt.Sprintf("%T", sub),
		"methods", len(methods),
		"replays", len(replays))

	for _, r := range replays {
		if !b.replayable(sub, r) {
			continue
		}
		b.dispatcher.Deliver(r.method, r.event)
	}
	return nil
}

// add 在临界区内登记订阅方法，并收集需要补发的粘性事件
func (b *Bus) add(sub any, methods []*subscriber.Method) ([]replay, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, ErrClosed
	}
	if len(methods) == 0 {
		return nil, nil
	}
	if b.registry.Contains(sub) {
		return nil, fmt.Errorf("%w: %T", ErrAlreadyRegistered, sub)
	}

	var replays []replay
	for _, m := range methods {
		b.registry.Add(m)
		if !m.Sticky {
			continue
		}
		if event, version, ok := b.sticky.GetVersion(m.EventType); ok {
			replays = append(replays, replay{method: m, event: event, version: version})
		}
	}
	return replays, nil
}

// replayable 补发前复核：缓存值已被覆盖或订阅者已注销时放弃补发
//
// 较早的补发可能重入发布同类型的粘性事件，新值已经通过普通投递送达。
func (b *Bus) replayable(sub any, r replay) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sticky.Current(r.method.EventType, r.version) && b.registry.Contains(sub)
}

// Unregister 注销订阅者，未注册时为空操作
func (b *Bus) Unregister(sub any) {
	if !subscriber.Comparable(sub) {
		return
	}

	b.mu.Lock()
	n := b.registry.Remove(sub)
	b.mu.Unlock()

	if n > 0 {
		logger.Debug("subscriber unregistered",
			"subscriber", fmt.Sprintf("%T", sub),
			"methods", n)
	}
}

// IsRegistered 订阅者当前是否已注册
func (b *Bus) IsRegistered(sub any) bool {
	if !subscriber.Comparable(sub) {
		return false
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	return b.registry.Contains(sub)
}

// Post 发布事件
//
// 按注册顺序投递给订阅了事件精确类型的全部方法。nil 事件与关闭后的发布被忽略。
func (b *Bus) Post(event any) {
	b.post(event, false)
}

// PostSticky 发布并缓存粘性事件
//
// 缓存与订阅快照在同一临界区内完成，同一订阅方法不会重复收到该事件。
func (b *Bus) PostSticky(event any) {
	b.post(event, true)
}

func (b *Bus) post(event any, isSticky bool) {
	if event == nil {
		logger.Warn("post ignored", "err", ErrNilEvent)
		return
	}
	typ := reflect.TypeOf(event)

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		logger.Warn("post ignored", "type", typ, "err", ErrClosed)
		return
	}
	if isSticky {
		b.sticky.Put(event)
	}
	methods := b.registry.Lookup(typ)
	b.mu.Unlock()

	reporter := b.settings.reporter
	reporter.EventPosted(isSticky)
	if len(methods) == 0 {
		reporter.EventUnhandled()
		logger.Debug("no subscribers", "type", typ)
		return
	}

	b.dispatcher.Dispatch(methods, event)
}

// HasSubscribers 指定事件类型是否有订阅者
func (b *Bus) HasSubscribers(eventType reflect.Type) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.registry.HasSubscribers(eventType)
}

// StickyEvent 返回指定类型最近一次的粘性事件
func (b *Bus) StickyEvent(eventType reflect.Type) (any, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sticky.Get(eventType)
}

// ============================================================================
// 生命周期
// ============================================================================

// Close 关闭事件总线
//
// 之后 Register 返回 ErrClosed，Post 被忽略。总线创建的协调执行器会排空队列后退出，
// 等待时间受 ctx 约束；在协调执行器的任务中调用时总是等到 ctx 到期。重复调用为空操作。
func (b *Bus) Close(ctx context.Context) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	b.mu.Unlock()

	return b.closeOwned(ctx)
}

func (b *Bus) closeOwned(ctx context.Context) error {
	var err error
	for _, exec := range b.owned {
		err = multierr.Append(err, exec.Close(ctx))
	}
	return err
}

// Closed 总线是否已关闭
func (b *Bus) Closed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}

// Verify 检查订阅表双向映射是否一致
func (b *Bus) Verify() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.registry.Verify()
}
