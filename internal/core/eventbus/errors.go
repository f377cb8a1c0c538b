package eventbus

import "errors"

// ============================================================================
// 错误定义
// ============================================================================

var (
	// ErrClosed 事件总线已关闭
	ErrClosed = errors.New("eventbus closed")

	// ErrAlreadyRegistered 订阅者已注册
	ErrAlreadyRegistered = errors.New("subscriber already registered")

	// ErrNilEvent 发布了 nil 事件
	ErrNilEvent = errors.New("nil event")
)
