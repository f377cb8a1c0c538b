package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"

	"github.com/dep2p/go-eventbus/config"
)

// Params Metrics 依赖参数
type Params struct {
	fx.In

	UnifiedCfg *config.Config        `optional:"true"`
	Registerer prometheus.Registerer `optional:"true"`
}

// Module 是 metrics 的 Fx 模块
var Module = fx.Module("metrics",
	fx.Provide(NewReporterFromParams),
)

// NewReporterFromParams 从参数创建 Reporter
//
// 指标关闭时返回 Nop()；提供了 Registerer 时自动注册收集器。
func NewReporterFromParams(p Params) (Reporter, error) {
	cfg := config.DefaultMetricsConfig()
	if p.UnifiedCfg != nil {
		cfg = p.UnifiedCfg.Metrics
	}
	if !cfg.Enabled {
		return Nop(), nil
	}

	c := NewCollector(cfg.Namespace)
	if p.Registerer != nil {
		if err := p.Registerer.Register(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}
