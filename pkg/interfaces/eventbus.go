// Package interfaces 定义事件总线公共接口
//
// 本文件定义 EventBus、Subscriber、Executor 接口以及订阅声明（MethodSpec）。
package interfaces

import (
	"fmt"
	"reflect"
)

// ============================================================================
// 线程模式
// ============================================================================

// ThreadMode 订阅方法的投递线程模式
type ThreadMode int

const (
	// ThreadPosting 在发布者所在的 goroutine 上同步调用（默认）
	ThreadPosting ThreadMode = iota

	// ThreadMain 提交到唯一的协调执行器，按提交顺序异步调用
	ThreadMain
)

// String 返回线程模式名称
func (m ThreadMode) String() string {
	switch m {
	case ThreadPosting:
		return "posting"
	case ThreadMain:
		return "main"
	default:
		return fmt.Sprintf("ThreadMode(%d)", int(m))
	}
}

// Valid 检查线程模式是否为已知取值
func (m ThreadMode) Valid() bool {
	return m == ThreadPosting || m == ThreadMain
}

// ============================================================================
// 订阅声明
// ============================================================================

// Handler 单参数调用目标
//
// 事件总线只会用 EventType 精确匹配的事件调用它。
type Handler func(event any) error

// MethodSpec 订阅方法声明（订阅标记）
//
// 通常通过 eventbus.On / eventbus.OnE 构造，而不是手写。
type MethodSpec struct {
	// Name 方法名，仅用于日志和错误信息
	Name string

	// EventType 订阅的事件类型（精确的运行时类型）
	EventType reflect.Type

	// Handler 调用目标
	Handler Handler

	// ThreadMode 投递线程模式，默认 ThreadPosting
	ThreadMode ThreadMode

	// Sticky 注册时是否回放该类型最近一次的粘性事件
	Sticky bool
}

// MethodOpt 订阅声明选项
type MethodOpt func(*MethodSpec)

// WithThreadMode 设置投递线程模式
func WithThreadMode(mode ThreadMode) MethodOpt {
	return func(s *MethodSpec) {
		s.ThreadMode = mode
	}
}

// MainThread 在协调执行器上投递
func MainThread() MethodOpt {
	return WithThreadMode(ThreadMain)
}

// Sticky 标记为粘性订阅
func Sticky() MethodOpt {
	return func(s *MethodSpec) {
		s.Sticky = true
	}
}

// Named 设置方法名
func Named(name string) MethodOpt {
	return func(s *MethodSpec) {
		s.Name = name
	}
}

// Subscriber 订阅者
//
// 实现该接口的值通过 SubscriberMethods 暴露自己的订阅方法。
// 未实现该接口的值视为没有任何订阅方法。
type Subscriber interface {
	SubscriberMethods() []MethodSpec
}

// ============================================================================
// 执行器
// ============================================================================

// Executor 投递执行器
//
// Execute 不得阻塞等待 task 完成（内联执行器除外）。
// 单消费者执行器必须保证 task 按提交顺序执行。
type Executor interface {
	Execute(task func()) error
}

// ============================================================================
// 事件总线
// ============================================================================

// EventBus 定义事件总线接口
type EventBus interface {
	// Register 注册订阅者的全部订阅方法
	Register(subscriber any) error

	// RegisterMethods 以显式声明表注册订阅者
	RegisterMethods(subscriber any, methods ...MethodSpec) error

	// Unregister 注销订阅者，未注册时为空操作
	Unregister(subscriber any)

	// IsRegistered 订阅者当前是否已注册
	IsRegistered(subscriber any) bool

	// Post 发布事件
	Post(event any)

	// PostSticky 发布并缓存粘性事件
	PostSticky(event any)

	// HasSubscribers 指定事件类型是否有订阅者
	HasSubscribers(eventType reflect.Type) bool

	// StickyEvent 返回指定类型最近一次的粘性事件
	StickyEvent(eventType reflect.Type) (any, bool)
}
