package config

import "errors"

// DispatchConfig 投递配置
type DispatchConfig struct {
	// SlowHandlerThreshold 订阅方法执行超过该时长时输出警告日志
	// 0 表示关闭
	SlowHandlerThreshold Duration `json:"slow_handler_threshold"`

	// MainQueueCapacity 协调执行器队列的初始容量
	// 队列本身无上限，该值只影响预分配
	MainQueueCapacity int `json:"main_queue_capacity"`
}

// DefaultDispatchConfig 返回默认投递配置
func DefaultDispatchConfig() DispatchConfig {
	return DispatchConfig{
		SlowHandlerThreshold: 0,
		MainQueueCapacity:    64,
	}
}

// Validate 验证投递配置
func (c DispatchConfig) Validate() error {
	if c.SlowHandlerThreshold < 0 {
		return errors.New("slow handler threshold must not be negative")
	}
	if c.MainQueueCapacity < 0 {
		return errors.New("main queue capacity must not be negative")
	}
	return nil
}
