package subscriber

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration 订阅声明无效
	ErrConfiguration = errors.New("invalid subscriber configuration")

	// ErrEventTypeMismatch 调用目标收到了不匹配的事件类型
	ErrEventTypeMismatch = errors.New("event type mismatch")
)

// ConfigurationError 订阅声明错误
//
// 在注册阶段返回，该订阅者的所有方法都不会被注册。
type ConfigurationError struct {
	// SubscriberType 订阅者的动态类型
	SubscriberType string

	// Method 出错的方法名，订阅者级错误为空
	Method string

	// Reason 原因
	Reason string
}

// Error 实现 error 接口
func (e *ConfigurationError) Error() string {
	if e.Method == "" {
		return fmt.Sprintf("%s: subscriber %s: %s", ErrConfiguration, e.SubscriberType, e.Reason)
	}
	return fmt.Sprintf("%s: subscriber %s method %s: %s", ErrConfiguration, e.SubscriberType, e.Method, e.Reason)
}

// Is 使 errors.Is(err, ErrConfiguration) 成立
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}
