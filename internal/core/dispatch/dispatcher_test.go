package dispatch

import (
	"bytes"
	"errors"
	"os"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-eventbus/internal/core/subscriber"
	"github.com/dep2p/go-eventbus/internal/mocks"
	pkgif "github.com/dep2p/go-eventbus/pkg/interfaces"
	"github.com/dep2p/go-eventbus/pkg/lib/log"
)

type pingEvent struct{ N int }

// recordingReporter 记录指标调用
type recordingReporter struct {
	mu        sync.Mutex
	delivered []pkgif.ThreadMode
	failed    []bool
	dropped   []pkgif.ThreadMode
	elapsed   []time.Duration
}

func (r *recordingReporter) EventPosted(bool) {}
func (r *recordingReporter) EventUnhandled()  {}

func (r *recordingReporter) Delivered(mode pkgif.ThreadMode, d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.delivered = append(r.delivered, mode)
	r.elapsed = append(r.elapsed, d)
}

func (r *recordingReporter) DeliveryFailed(_ pkgif.ThreadMode, panicked bool, d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failed = append(r.failed, panicked)
	r.elapsed = append(r.elapsed, d)
}

func (r *recordingReporter) DeliveryDropped(mode pkgif.ThreadMode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dropped = append(r.dropped, mode)
}

func newMethod(t *testing.T, name string, spec pkgif.MethodSpec) *subscriber.Method {
	t.Helper()
	spec.Name = name
	methods, err := subscriber.NewFinder().FindMethods(&struct{ name string }{name}, spec)
	require.NoError(t, err)
	require.Len(t, methods, 1)
	return methods[0]
}

func newDispatcher(t *testing.T, opts ...Option) (*Dispatcher, *mocks.MockExecutor) {
	t.Helper()
	main := mocks.NewMockExecutor()
	d, err := New(append([]Option{WithExecutor(pkgif.ThreadMain, main)}, opts...)...)
	require.NoError(t, err)
	return d, main
}

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	log.SetOutput(buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })
	return buf
}

// ============================================================================
// 构造
// ============================================================================

// TestNew_RequiresMainExecutor 测试缺少协调执行器
func TestNew_RequiresMainExecutor(t *testing.T) {
	_, err := New()
	assert.ErrorIs(t, err, ErrMissingExecutor)
}

// ============================================================================
// POSTING
// ============================================================================

// TestDispatch_PostingSynchronousInOrder 测试同步按序投递
func TestDispatch_PostingSynchronousInOrder(t *testing.T) {
	d, main := newDispatcher(t)

	var order []string
	m1 := newMethod(t, "first", subscriber.On(func(e pingEvent) { order = append(order, "first") }))
	m2 := newMethod(t, "second", subscriber.On(func(e pingEvent) { order = append(order, "second") }))

	d.Dispatch([]*subscriber.Method{m1, m2}, pingEvent{N: 1})

	assert.Equal(t, []string{"first", "second"}, order)
	assert.Equal(t, 0, main.ExecuteCalls)
}

// TestDispatch_FailureIsolation 测试失败不影响后续订阅者
func TestDispatch_FailureIsolation(t *testing.T) {
	captureLog(t)
	reporter := &recordingReporter{}

	var failures []*InvocationError
	d, _ := newDispatcher(t,
		WithReporter(reporter),
		WithErrorHandler(func(ie *InvocationError) { failures = append(failures, ie) }),
	)

	boom := errors.New("boom")
	reached := false
	methods := []*subscriber.Method{
		newMethod(t, "panics", subscriber.On(func(pingEvent) { panic("kaboom") })),
		newMethod(t, "errors", subscriber.OnE(func(pingEvent) error { return boom })),
		newMethod(t, "ok", subscriber.On(func(pingEvent) { reached = true })),
	}

	assert.NotPanics(t, func() { d.Dispatch(methods, pingEvent{}) })
	assert.True(t, reached)

	require.Len(t, failures, 2)
	assert.True(t, failures[0].Panicked)
	assert.NotEmpty(t, failures[0].Stack)
	assert.Contains(t, failures[0].Err.Error(), "kaboom")
	assert.ErrorIs(t, failures[0], ErrInvocation)

	assert.False(t, failures[1].Panicked)
	assert.ErrorIs(t, failures[1], boom)
	assert.Equal(t, pingEvent{}, failures[1].Event)
	assert.Equal(t, "errors", failures[1].Method.Name)

	assert.Equal(t, []bool{true, false}, reporter.failed)
	assert.Equal(t, []pkgif.ThreadMode{pkgif.ThreadPosting}, reporter.delivered)
}

// TestDispatch_PanicWithError 测试 panic(error) 可被 errors.Is 识别
func TestDispatch_PanicWithError(t *testing.T) {
	captureLog(t)
	sentinel := errors.New("sentinel")

	var got *InvocationError
	d, _ := newDispatcher(t, WithErrorHandler(func(ie *InvocationError) { got = ie }))
	d.Deliver(newMethod(t, "p", subscriber.On(func(pingEvent) { panic(sentinel) })), pingEvent{})

	require.NotNil(t, got)
	assert.ErrorIs(t, got, sentinel)
}

// TestDispatch_FailureLogged 测试失败写入日志
func TestDispatch_FailureLogged(t *testing.T) {
	buf := captureLog(t)
	d, _ := newDispatcher(t)

	d.Deliver(newMethod(t, "onPing", subscriber.OnE(func(pingEvent) error { return errors.New("nope") })), pingEvent{})

	out := buf.String()
	assert.Contains(t, out, "subscriber invocation failed")
	assert.Contains(t, out, "onPing")
	assert.Contains(t, out, "nope")
}

// TestDispatch_ErrorHandlerPanic 测试 ErrorHandler panic 被隔离
func TestDispatch_ErrorHandlerPanic(t *testing.T) {
	captureLog(t)
	d, _ := newDispatcher(t, WithErrorHandler(func(*InvocationError) { panic("handler") }))

	reached := false
	methods := []*subscriber.Method{
		newMethod(t, "bad", subscriber.OnE(func(pingEvent) error { return errors.New("x") })),
		newMethod(t, "good", subscriber.On(func(pingEvent) { reached = true })),
	}
	assert.NotPanics(t, func() { d.Dispatch(methods, pingEvent{}) })
	assert.True(t, reached)
}

// ============================================================================
// MAIN
// ============================================================================

// TestDispatch_MainAsync 测试协调执行器异步投递
func TestDispatch_MainAsync(t *testing.T) {
	reporter := &recordingReporter{}
	d, main := newDispatcher(t, WithReporter(reporter))

	var got []int
	m := newMethod(t, "main", subscriber.On(func(e pingEvent) { got = append(got, e.N) }, pkgif.MainThread()))

	d.Deliver(m, pingEvent{N: 1})
	d.Deliver(m, pingEvent{N: 2})

	assert.Empty(t, got, "main delivery must not run on the posting goroutine")
	assert.Equal(t, 2, main.Pending())

	assert.Equal(t, 2, main.RunAll())
	assert.Equal(t, []int{1, 2}, got)
	assert.Equal(t, []pkgif.ThreadMode{pkgif.ThreadMain, pkgif.ThreadMain}, reporter.delivered)
}

// TestDispatch_MainFailureIsolated 测试协调执行器上的失败隔离
func TestDispatch_MainFailureIsolated(t *testing.T) {
	captureLog(t)
	d, main := newDispatcher(t)

	reached := false
	d.Dispatch([]*subscriber.Method{
		newMethod(t, "bad", subscriber.On(func(pingEvent) { panic("main") }, pkgif.MainThread())),
		newMethod(t, "good", subscriber.On(func(pingEvent) { reached = true }, pkgif.MainThread())),
	}, pingEvent{})

	assert.NotPanics(t, func() { main.RunAll() })
	assert.True(t, reached)
}

// TestDispatch_Dropped 测试执行器拒绝投递
func TestDispatch_Dropped(t *testing.T) {
	buf := captureLog(t)
	reporter := &recordingReporter{}
	d, main := newDispatcher(t, WithReporter(reporter))
	main.Close()

	d.Deliver(newMethod(t, "m", subscriber.On(func(pingEvent) {}, pkgif.MainThread())), pingEvent{})

	assert.Equal(t, []pkgif.ThreadMode{pkgif.ThreadMain}, reporter.dropped)
	assert.Contains(t, buf.String(), "delivery dropped")
}

// TestDispatch_CustomExecutor 测试替换 POSTING 执行器
func TestDispatch_CustomExecutor(t *testing.T) {
	posting := mocks.NewMockExecutor()
	d, _ := newDispatcher(t, WithExecutor(pkgif.ThreadPosting, posting))

	called := false
	d.Deliver(newMethod(t, "p", subscriber.On(func(pingEvent) { called = true })), pingEvent{})

	assert.False(t, called)
	posting.RunAll()
	assert.True(t, called)
}

// TestDispatch_UnboundMode 测试未绑定执行器的线程模式
func TestDispatch_UnboundMode(t *testing.T) {
	captureLog(t)
	reporter := &recordingReporter{}
	d, _ := newDispatcher(t, WithReporter(reporter))

	m := &subscriber.Method{
		Name:       "odd",
		Subscriber: &struct{}{},
		EventType:  reflect.TypeOf(pingEvent{}),
		Handler:    func(any) error { return nil },
		ThreadMode: pkgif.ThreadMode(42),
	}
	d.Deliver(m, pingEvent{})

	assert.Equal(t, []pkgif.ThreadMode{pkgif.ThreadMode(42)}, reporter.dropped)
}

// ============================================================================
// 计时
// ============================================================================

// TestDispatch_SlowSubscriber 测试慢订阅者警告
func TestDispatch_SlowSubscriber(t *testing.T) {
	buf := captureLog(t)
	mock := clock.NewMock()
	reporter := &recordingReporter{}

	d, _ := newDispatcher(t,
		WithClock(mock),
		WithReporter(reporter),
		WithSlowThreshold(50*time.Millisecond),
	)

	d.Deliver(newMethod(t, "fast", subscriber.On(func(pingEvent) { mock.Add(10 * time.Millisecond) })), pingEvent{})
	assert.NotContains(t, buf.String(), "slow subscriber")

	d.Deliver(newMethod(t, "slow", subscriber.On(func(pingEvent) { mock.Add(80 * time.Millisecond) })), pingEvent{})
	assert.Contains(t, buf.String(), "slow subscriber")

	assert.Equal(t, []time.Duration{10 * time.Millisecond, 80 * time.Millisecond}, reporter.elapsed)
}

// TestInvocationError_Message 测试错误信息
func TestInvocationError_Message(t *testing.T) {
	m := newMethod(t, "onPing", subscriber.On(func(pingEvent) {}))
	ie := &InvocationError{Method: m, Err: errors.New("bad")}

	assert.Contains(t, ie.Error(), "subscriber invocation failed")
	assert.Contains(t, ie.Error(), "onPing")
	assert.Contains(t, ie.Error(), "bad")
}
