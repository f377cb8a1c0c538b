package config

import (
	"encoding/json"
	"fmt"
)

// FromJSON 从 JSON 数据创建配置
//
// 未出现的字段保留默认值，解析后会执行 Validate。
//
// 示例 JSON:
//
//	{
//	  "dispatch": {"slow_handler_threshold": "50ms"},
//	  "sticky": {"max_entries": 128},
//	  "metrics": {"enabled": false}
//	}
func FromJSON(data []byte) (*Config, error) {
	cfg := NewConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// ToJSON 将配置序列化为 JSON
func ToJSON(cfg *Config) ([]byte, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}
	return json.MarshalIndent(cfg, "", "  ")
}

// CloneConfig 克隆配置
//
// 所有子配置都是值类型，浅拷贝即深拷贝。
func CloneConfig(cfg *Config) *Config {
	if cfg == nil {
		return nil
	}
	cloned := *cfg
	return &cloned
}
