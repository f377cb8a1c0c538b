// Package config 提供事件总线的统一配置管理
//
// 本包采用混合配置模式：
//   - 主 Config 结构体嵌入所有子配置
//   - 每个子配置在独立文件中定义，带 Default* 构造函数与 Validate
//   - 支持从 JSON 加载和保存配置
//
// 使用示例：
//
//	cfg := config.NewConfig()
//	cfg.Sticky.MaxEntries = 256
//	cfg.Dispatch.SlowHandlerThreshold = config.Duration(50 * time.Millisecond)
//
//	bus, err := eventbus.New(eventbus.WithConfig(cfg))
package config

import "fmt"

// Config 是事件总线的完整配置结构
//
//   - Dispatch: 投递与执行器
//   - Sticky: 粘性事件缓存
//   - Metrics: Prometheus 指标
type Config struct {
	// Dispatch 投递配置
	Dispatch DispatchConfig `json:"dispatch"`

	// Sticky 粘性事件缓存配置
	Sticky StickyConfig `json:"sticky"`

	// Metrics 指标配置
	Metrics MetricsConfig `json:"metrics"`
}

// NewConfig 创建默认配置
func NewConfig() *Config {
	return &Config{
		Dispatch: DefaultDispatchConfig(),
		Sticky:   DefaultStickyConfig(),
		Metrics:  DefaultMetricsConfig(),
	}
}

// Validate 验证配置的有效性
func (c *Config) Validate() error {
	if err := c.Dispatch.Validate(); err != nil {
		return fmt.Errorf("dispatch: %w", err)
	}
	if err := c.Sticky.Validate(); err != nil {
		return fmt.Errorf("sticky: %w", err)
	}
	if err := c.Metrics.Validate(); err != nil {
		return fmt.Errorf("metrics: %w", err)
	}
	return nil
}
