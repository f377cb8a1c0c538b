package eventbus

import (
	"context"
	"io"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-eventbus/internal/core/subscriber"
	"github.com/dep2p/go-eventbus/internal/mocks"
	pkgif "github.com/dep2p/go-eventbus/pkg/interfaces"
	"github.com/dep2p/go-eventbus/pkg/lib/log"
)

// ============================================================================
// 测试事件
// ============================================================================

type loginEvent struct{ User string }

type configEvent struct{ Version int }

// ============================================================================
// 测试订阅者
// ============================================================================

// recorder 并发安全地记录收到的事件
type recorder struct {
	mu  sync.Mutex
	got []any
}

func (r *recorder) add(e any) {
	r.mu.Lock()
	r.got = append(r.got, e)
	r.mu.Unlock()
}

func (r *recorder) events() []any {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]any(nil), r.got...)
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.got)
}

// loginListener 订阅 loginEvent
type loginListener struct {
	recorder
}

func (l *loginListener) SubscriberMethods() []pkgif.MethodSpec {
	return []pkgif.MethodSpec{
		subscriber.On(func(e loginEvent) { l.add(e) }, pkgif.Named("OnLogin")),
	}
}

// configListener 粘性订阅 configEvent
type configListener struct {
	recorder
	mode pkgif.ThreadMode
}

func (l *configListener) SubscriberMethods() []pkgif.MethodSpec {
	return []pkgif.MethodSpec{
		subscriber.On(func(e configEvent) { l.add(e) },
			pkgif.Named("OnConfig"), pkgif.Sticky(), pkgif.WithThreadMode(l.mode)),
	}
}

// ============================================================================
// 辅助函数
// ============================================================================

// newTestBus 创建以 MockExecutor 作为协调执行器的总线
func newTestBus(t *testing.T, opts ...Option) (*Bus, *mocks.MockExecutor) {
	t.Helper()
	main := mocks.NewMockExecutor()
	bus, err := NewBus(append([]Option{WithMainExecutor(main)}, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = bus.Close(context.Background()) })
	return bus, main
}

// quietLogs 丢弃测试期间的日志输出
func quietLogs(t *testing.T) {
	t.Helper()
	log.SetOutput(io.Discard)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })
}
