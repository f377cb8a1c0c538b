package config

import "errors"

// StickyConfig 粘性事件缓存配置
type StickyConfig struct {
	// MaxEntries 最多缓存的事件类型数
	//
	// 0 表示不限制（默认），每种类型的粘性事件在进程内一直保留。
	// 大于 0 时按最近写入淘汰最久未写入的类型。
	MaxEntries int `json:"max_entries"`
}

// DefaultStickyConfig 返回默认粘性缓存配置
func DefaultStickyConfig() StickyConfig {
	return StickyConfig{MaxEntries: 0}
}

// Validate 验证粘性缓存配置
func (c StickyConfig) Validate() error {
	if c.MaxEntries < 0 {
		return errors.New("max entries must not be negative")
	}
	return nil
}
