package eventbus

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/dep2p/go-eventbus/internal/core/subscriber"
	pkgif "github.com/dep2p/go-eventbus/pkg/interfaces"
)

// ============================================================================
// 并发测试
// ============================================================================

// TestConcurrent_RegisterUnregisterPost 测试并发注册、注销与发布
func TestConcurrent_RegisterUnregisterPost(t *testing.T) {
	bus, _ := newTestBus(t)

	const (
		posters    = 8
		perPoster  = 200
		churners   = 8
		perChurner = 100
	)

	// 全程注册的订阅者必须恰好收到每个事件一次
	var stable atomic.Int64
	anchor := &struct{ n int }{0}
	require.NoError(t, bus.RegisterMethods(anchor,
		subscriber.On(func(loginEvent) { stable.Add(1) })))

	var g errgroup.Group
	for i := 0; i < posters; i++ {
		g.Go(func() error {
			for j := 0; j < perPoster; j++ {
				bus.Post(loginEvent{})
			}
			return nil
		})
	}
	for i := 0; i < churners; i++ {
		g.Go(func() error {
			for j := 0; j < perChurner; j++ {
				sub := &loginListener{}
				if err := bus.Register(sub); err != nil {
					return err
				}
				bus.Unregister(sub)
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.EqualValues(t, posters*perPoster, stable.Load())
	assert.NoError(t, bus.Verify())
	assert.Equal(t, 1, bus.registry.Len())
	assert.True(t, bus.IsRegistered(anchor))
}

// TestConcurrent_SnapshotExactlyOnce 测试快照中的订阅者恰好收到一次
func TestConcurrent_SnapshotExactlyOnce(t *testing.T) {
	bus, _ := newTestBus(t)

	const subs = 50
	listeners := make([]*loginListener, subs)

	var g errgroup.Group
	for i := range listeners {
		l := &loginListener{}
		listeners[i] = l
		g.Go(func() error { return bus.Register(l) })
	}
	require.NoError(t, g.Wait())

	bus.Post(loginEvent{User: "once"})

	for _, l := range listeners {
		assert.Equal(t, 1, l.count())
	}
}

// TestConcurrent_StickyNoDuplicate 测试粘性发布与注册并发时不重复投递
func TestConcurrent_StickyNoDuplicate(t *testing.T) {
	for round := 0; round < 50; round++ {
		bus, _ := newTestBus(t)
		l := &configListener{}

		var g errgroup.Group
		g.Go(func() error {
			bus.PostSticky(configEvent{Version: 1})
			return nil
		})
		g.Go(func() error { return bus.Register(l) })
		require.NoError(t, g.Wait())

		// 要么由补发收到，要么由发布快照收到，不会两者都有
		assert.Equal(t, 1, l.count(), "round %d", round)
	}
}

// TestConcurrent_MainOrder 测试协调线程按提交顺序执行
func TestConcurrent_MainOrder(t *testing.T) {
	bus, err := NewBus()
	require.NoError(t, err)

	const producers, perProducer = 4, 250

	var (
		mu  sync.Mutex
		got = make(map[int][]int)
	)
	type seqEvent struct{ Producer, Seq int }
	sub := &struct{ n int }{1}
	require.NoError(t, bus.RegisterMethods(sub, subscriber.On(func(e seqEvent) {
		mu.Lock()
		got[e.Producer] = append(got[e.Producer], e.Seq)
		mu.Unlock()
	}, pkgif.MainThread())))

	var g errgroup.Group
	for p := 0; p < producers; p++ {
		g.Go(func() error {
			for i := 0; i < perProducer; i++ {
				bus.Post(seqEvent{Producer: p, Seq: i})
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, bus.Close(ctx))

	mu.Lock()
	defer mu.Unlock()
	for p := 0; p < producers; p++ {
		seq := got[p]
		require.Len(t, seq, perProducer)
		for i, v := range seq {
			assert.Equal(t, i, v)
		}
	}
}

// TestConcurrent_MainSingleGoroutine 测试 MAIN 回调不并发执行
func TestConcurrent_MainSingleGoroutine(t *testing.T) {
	bus, err := NewBus()
	require.NoError(t, err)

	var (
		active  atomic.Int32
		overlap atomic.Bool
		calls   atomic.Int32
	)
	sub := &struct{ n int }{1}
	require.NoError(t, bus.RegisterMethods(sub, subscriber.On(func(configEvent) {
		if active.Add(1) > 1 {
			overlap.Store(true)
		}
		calls.Add(1)
		active.Add(-1)
	}, pkgif.MainThread())))

	var g errgroup.Group
	for i := 0; i < 8; i++ {
		g.Go(func() error {
			for j := 0; j < 100; j++ {
				bus.Post(configEvent{Version: j})
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
	require.NoError(t, bus.Close(context.Background()))

	assert.False(t, overlap.Load())
	assert.EqualValues(t, 800, calls.Load())
}
