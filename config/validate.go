package config

import (
	"errors"
	"fmt"
)

// ValidateAll 验证整个配置的有效性
//
// 与 Config.Validate 相同，但接受 nil。
func ValidateAll(c *Config) error {
	if c == nil {
		return errors.New("config is nil")
	}
	return c.Validate()
}

// ValidateAndFix 验证配置并修复可修复的问题
//
// 可修复的问题：
//   - 负的慢订阅者阈值 -> 关闭警告
//   - 负的协调队列容量 -> 默认值
//   - 负的粘性缓存上限 -> 不限制
//   - 空的指标命名空间 -> 默认值
//
// 修复在副本上进行，c 不会被修改。
func ValidateAndFix(c *Config) (*Config, error) {
	if c == nil {
		return NewConfig(), nil
	}
	fixed := CloneConfig(c)

	if fixed.Dispatch.SlowHandlerThreshold < 0 {
		fixed.Dispatch.SlowHandlerThreshold = 0
	}
	if fixed.Dispatch.MainQueueCapacity < 0 {
		fixed.Dispatch.MainQueueCapacity = DefaultDispatchConfig().MainQueueCapacity
	}
	if fixed.Sticky.MaxEntries < 0 {
		fixed.Sticky.MaxEntries = 0
	}
	if fixed.Metrics.Namespace == "" {
		fixed.Metrics.Namespace = DefaultMetricsConfig().Namespace
	}

	if err := fixed.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed after fixes: %w", err)
	}
	return fixed, nil
}

// MustValidate 验证配置，如果失败则 panic
//
// 仅用于初始化阶段或测试代码。
func MustValidate(c *Config) {
	if err := ValidateAll(c); err != nil {
		panic(fmt.Sprintf("config validation failed: %v", err))
	}
}
