package eventbus

import (
	"errors"

	"github.com/dep2p/go-eventbus/internal/core/dispatch"
	core "github.com/dep2p/go-eventbus/internal/core/eventbus"
	"github.com/dep2p/go-eventbus/internal/core/subscriber"
)

// 公共错误定义
var (
	// ────────────────────────────────────────────────────────────────────────
	// 注册错误
	// ────────────────────────────────────────────────────────────────────────

	// ErrConfiguration 订阅声明无效，注册失败且不注册任何方法
	ErrConfiguration = subscriber.ErrConfiguration

	// ErrAlreadyRegistered 订阅者已注册
	ErrAlreadyRegistered = core.ErrAlreadyRegistered

	// ErrClosed 事件总线已关闭
	ErrClosed = core.ErrClosed

	// ────────────────────────────────────────────────────────────────────────
	// 投递错误（只通过 ErrorHandler 与日志暴露）
	// ────────────────────────────────────────────────────────────────────────

	// ErrInvocation 订阅方法调用失败
	ErrInvocation = dispatch.ErrInvocation

	// ErrExecutorClosed 执行器已关闭
	ErrExecutorClosed = dispatch.ErrExecutorClosed

	// ErrNilEvent 发布了 nil 事件
	ErrNilEvent = core.ErrNilEvent

	// ────────────────────────────────────────────────────────────────────────
	// 实例错误
	// ────────────────────────────────────────────────────────────────────────

	// ErrDefaultInstalled 默认实例已存在
	ErrDefaultInstalled = errors.New("default eventbus already installed")

	// ErrInvalidOption 无效的构造选项
	ErrInvalidOption = errors.New("invalid option")
)

// ConfigurationError 订阅声明错误
type ConfigurationError = subscriber.ConfigurationError

// InvocationError 订阅方法调用失败
type InvocationError = dispatch.InvocationError
