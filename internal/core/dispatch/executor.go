package dispatch

import (
	"context"
	"runtime/debug"
	"sync"
	"sync/atomic"

	pkgif "github.com/dep2p/go-eventbus/pkg/interfaces"
	"github.com/dep2p/go-eventbus/pkg/lib/log"
)

var logger = log.Logger("core/dispatch")

// ============================================================================
// InlineExecutor
// ============================================================================

// InlineExecutor 在调用者 goroutine 上同步执行
type InlineExecutor struct{}

var _ pkgif.Executor = InlineExecutor{}

// Execute 立即执行 task
func (InlineExecutor) Execute(task func()) error {
	task()
	return nil
}

// ============================================================================
// SerialExecutor
// ============================================================================

// SerialExecutor 单消费者执行器
type SerialExecutor struct {
	mu       sync.Mutex
	queue    []func()
	capacity int
	closed   bool

	// notify 容量为 1，合并多次唤醒
	notify  chan struct{}
	done    chan struct{}
	running atomic.Bool
}

var _ pkgif.Executor = (*SerialExecutor)(nil)

// SerialOption SerialExecutor 选项
type SerialOption func(*SerialExecutor)

// WithQueueCapacity 设置队列初始容量
func WithQueueCapacity(n int) SerialOption {
	return func(e *SerialExecutor) {
		if n > 0 {
			e.capacity = n
		}
	}
}

// NewSerialExecutor 创建单消费者执行器
//
// 创建后需调用 Start 或 Run 启动消费循环。
func NewSerialExecutor(opts ...SerialOption) *SerialExecutor {
	e := &SerialExecutor{
		notify: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.queue = make([]func(), 0, e.capacity)
	return e
}

// Execute 入队 task，从不阻塞
func (e *SerialExecutor) Execute(task func()) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrExecutorClosed
	}
	e.queue = append(e.queue, task)
	e.mu.Unlock()

	select {
	case e.notify <- struct{}{}:
	default:
	}
	return nil
}

// Len 返回排队中的任务数
func (e *SerialExecutor) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.queue)
}

// Start 在专用 goroutine 上运行消费循环
func (e *SerialExecutor) Start() error {
	if !e.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	go e.loop(context.Background())
	return nil
}

// Run 在当前 goroutine 上运行消费循环
//
// 执行器关闭且队列排空后返回 nil；ctx 取消时立即返回 ctx.Err()，
// 剩余任务留在队列中。
func (e *SerialExecutor) Run(ctx context.Context) error {
	if !e.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	return e.loop(ctx)
}

// Close 停止接收新任务，等待已入队任务执行完毕
//
// 消费循环从未启动时直接返回。ctx 到期时返回 ctx.Err()，循环继续排空。
// 在本执行器的任务中调用时，循环须等该任务返回才能退出，因此总是等到 ctx 到期；
// 此时应传入带超时的 ctx，或改在任务之外调用。
func (e *SerialExecutor) Close(ctx context.Context) error {
	e.mu.Lock()
	e.closed = true
	e.mu.Unlock()

	select {
	case e.notify <- struct{}{}:
	default:
	}

	if !e.running.Load() {
		return nil
	}

	select {
	case <-e.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (e *SerialExecutor) loop(ctx context.Context) error {
	defer close(e.done)

	for {
		task, ok, closed := e.next()
		if ok {
			e.runTask(task)
			continue
		}
		if closed {
			return nil
		}

		select {
		case <-e.notify:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// next 弹出队首任务
func (e *SerialExecutor) next() (task func(), ok bool, closed bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.queue) == 0 {
		return nil, false, e.closed
	}
	task = e.queue[0]
	e.queue[0] = nil
	e.queue = e.queue[1:]
	if len(e.queue) == 0 {
		e.queue = make([]func(), 0, e.capacity)
	}
	return task, true, e.closed
}

// runTask 执行任务，panic 不会终止消费循环
func (e *SerialExecutor) runTask(task func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("task panicked on serial executor",
				"panic", r,
				"stack", string(debug.Stack()))
		}
	}()
	task()
}
