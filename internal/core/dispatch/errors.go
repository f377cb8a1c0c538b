package dispatch

import (
	"errors"
	"fmt"

	"github.com/dep2p/go-eventbus/internal/core/subscriber"
)

var (
	// ErrExecutorClosed 执行器已关闭
	ErrExecutorClosed = errors.New("executor closed")

	// ErrAlreadyRunning 消费循环已在运行
	ErrAlreadyRunning = errors.New("executor loop already running")

	// ErrMissingExecutor 线程模式未绑定执行器
	ErrMissingExecutor = errors.New("no executor for thread mode")

	// ErrInvocation 订阅方法调用失败
	ErrInvocation = errors.New("subscriber invocation failed")
)

// InvocationError 订阅方法调用失败
//
// 只在投递边界内部产生，通过日志、指标与 ErrorHandler 暴露。
type InvocationError struct {
	// Method 出错的描述符
	Method *subscriber.Method

	// Event 正在投递的事件
	Event any

	// Err 订阅方法返回的错误，或由 panic 转换的错误
	Err error

	// Panicked 是否由 panic 引起
	Panicked bool

	// Stack panic 时的调用栈
	Stack []byte
}

// Error 实现 error 接口
func (e *InvocationError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrInvocation, e.Method, e.Err)
}

// Unwrap 返回底层错误
func (e *InvocationError) Unwrap() error {
	return e.Err
}

// Is 使 errors.Is(err, ErrInvocation) 成立
func (e *InvocationError) Is(target error) bool {
	return target == ErrInvocation
}

// panicError 把 recover 的值转换为 error
func panicError(r any) error {
	if err, ok := r.(error); ok {
		return fmt.Errorf("panic: %w", err)
	}
	return fmt.Errorf("panic: %v", r)
}
