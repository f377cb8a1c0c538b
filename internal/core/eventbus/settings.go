package eventbus

import (
	"github.com/benbjohnson/clock"

	"github.com/dep2p/go-eventbus/config"
	"github.com/dep2p/go-eventbus/internal/core/dispatch"
	"github.com/dep2p/go-eventbus/internal/core/metrics"
	"github.com/dep2p/go-eventbus/internal/core/subscriber"
	pkgif "github.com/dep2p/go-eventbus/pkg/interfaces"
)

// settings 总线构造参数
type settings struct {
	cfg          *config.Config
	executors    map[pkgif.ThreadMode]pkgif.Executor
	reporter     metrics.Reporter
	clock        clock.Clock
	errorHandler dispatch.ErrorHandler
	finderOpts   []subscriber.FinderOption
}

func defaultSettings() *settings {
	return &settings{
		cfg:       config.NewConfig(),
		executors: make(map[pkgif.ThreadMode]pkgif.Executor),
		reporter:  metrics.Nop(),
		clock:     clock.New(),
	}
}
