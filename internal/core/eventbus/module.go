package eventbus

import (
	"context"

	"go.uber.org/fx"

	"github.com/dep2p/go-eventbus/config"
	"github.com/dep2p/go-eventbus/internal/core/dispatch"
	"github.com/dep2p/go-eventbus/internal/core/metrics"
	pkgif "github.com/dep2p/go-eventbus/pkg/interfaces"
)

// ============================================================================
// Fx 模块
// ============================================================================

// Params Fx 模块输入参数
type Params struct {
	fx.In

	LC           fx.Lifecycle
	UnifiedCfg   *config.Config        `optional:"true"`
	Reporter     metrics.Reporter      `optional:"true"`
	MainExecutor pkgif.Executor        `name:"main_executor" optional:"true"`
	ErrorHandler dispatch.ErrorHandler `optional:"true"`
}

// Result Fx 模块输出结果
type Result struct {
	fx.Out

	Bus      *Bus
	EventBus pkgif.EventBus
}

// Module 返回 Fx 模块
func Module() fx.Option {
	return fx.Module("eventbus",
		fx.Provide(ProvideEventBus),
	)
}

// ProvideEventBus 提供 EventBus 实例，并在应用停止时关闭
func ProvideEventBus(p Params) (Result, error) {
	bus, err := NewBus(
		WithConfig(p.UnifiedCfg),
		WithReporter(p.Reporter),
		WithMainExecutor(p.MainExecutor),
		WithErrorHandler(p.ErrorHandler),
	)
	if err != nil {
		return Result{}, err
	}

	p.LC.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return bus.Close(ctx)
		},
	})

	return Result{Bus: bus, EventBus: bus}, nil
}

// ============================================================================
// 模块元信息
// ============================================================================

const (
	// Version 模块版本
	Version = "1.0.0"
	// Name 模块名称
	Name = "eventbus"
	// Description 模块描述
	Description = "进程内事件总线，按事件精确类型同步或经协调线程投递"
)
