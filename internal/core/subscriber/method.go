package subscriber

import (
	"fmt"
	"reflect"

	pkgif "github.com/dep2p/go-eventbus/pkg/interfaces"
)

// Method 订阅方法描述符
//
// 每个 (订阅者, 订阅声明) 在注册时生成唯一一个 Method。
// Subscriber 为强引用，注销前不会释放。
type Method struct {
	// ID 描述符唯一标识，用于日志
	ID string

	// Subscriber 订阅者实例
	Subscriber any

	// Name 方法名
	Name string

	// EventType 订阅的精确事件类型
	EventType reflect.Type

	// Handler 调用目标
	Handler pkgif.Handler

	// ThreadMode 投递线程模式
	ThreadMode pkgif.ThreadMode

	// Sticky 是否粘性订阅
	Sticky bool
}

// Invoke 调用订阅方法
func (m *Method) Invoke(event any) error {
	return m.Handler(event)
}

// String 返回描述符的可读形式
func (m *Method) String() string {
	return fmt.Sprintf("%T.%s(%v)", m.Subscriber, m.Name, m.EventType)
}

// On 声明一个 func(E) 订阅方法
func On[E any](fn func(E), opts ...pkgif.MethodOpt) pkgif.MethodSpec {
	if fn == nil {
		return OnE[E](nil, opts...)
	}
	return OnE(func(event E) error {
		fn(event)
		return nil
	}, opts...)
}

// OnE 声明一个 func(E) error 订阅方法
//
// 返回的错误与 panic 一样被视为调用失败，记录日志但不影响其他订阅者。
func OnE[E any](fn func(E) error, opts ...pkgif.MethodOpt) pkgif.MethodSpec {
	spec := pkgif.MethodSpec{
		EventType: reflect.TypeFor[E](),
	}
	if fn != nil {
		eventType := spec.EventType
		spec.Handler = func(event any) error {
			e, ok := event.(E)
			if !ok {
				return fmt.Errorf("%w: got %T, want %v", ErrEventTypeMismatch, event, eventType)
			}
			return fn(e)
		}
	}
	for _, opt := range opts {
		opt(&spec)
	}
	return spec
}
