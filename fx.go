package eventbus

import (
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	core "github.com/dep2p/go-eventbus/internal/core/eventbus"
	"github.com/dep2p/go-eventbus/internal/core/metrics"
)

// Module 返回事件总线的 Fx 模块
//
// 提供 *Bus 与 EventBus，应用停止时关闭总线。可选依赖：
//   - *config.Config：总线配置
//   - prometheus.Registerer：注册投递指标
//   - Executor，标签 `name:"main_executor"`：协调执行器
//   - ErrorHandler：调用失败回调
func Module() fx.Option {
	return fx.Module("eventbus",
		metrics.Module,
		core.Module(),
		fx.Provide(wrapEngine),
		// 禁用 Fx 日志输出（避免干扰用户日志）
		fx.WithLogger(func() fxevent.Logger {
			return &fxevent.ZapLogger{Logger: zap.NewNop()}
		}),
	)
}

// wrapEngine 以公共类型包装引擎
func wrapEngine(b *core.Bus) *Bus {
	return &Bus{bus: b}
}
