package mocks

import (
	"sync"

	pkgif "github.com/dep2p/go-eventbus/pkg/interfaces"
)

// MockExecutor 模拟 Executor 接口实现
//
// 默认只把任务排队，由测试调用 RunAll / RunNext 在当前 goroutine 上执行，
// 用于模拟"协调线程"而不引入真实的后台 goroutine。
type MockExecutor struct {
	mu sync.Mutex

	// 存储
	pending []func()
	closed  bool

	// 可覆盖的方法
	ExecuteFunc func(task func()) error

	// 调用记录
	ExecuteCalls int
}

var _ pkgif.Executor = (*MockExecutor)(nil)

// NewMockExecutor 创建 MockExecutor
func NewMockExecutor() *MockExecutor {
	return &MockExecutor{}
}

// Execute 记录并排队任务
func (m *MockExecutor) Execute(task func()) error {
	m.mu.Lock()
	m.ExecuteCalls++
	fn := m.ExecuteFunc
	closed := m.closed
	m.mu.Unlock()

	if fn != nil {
		return fn(task)
	}
	if closed {
		return ErrMockClosed
	}

	m.mu.Lock()
	m.pending = append(m.pending, task)
	m.mu.Unlock()
	return nil
}

// ============================================================================
// 测试辅助方法
// ============================================================================

// Pending 返回排队中的任务数
func (m *MockExecutor) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}

// RunNext 执行队首任务，队列为空时返回 false
func (m *MockExecutor) RunNext() bool {
	m.mu.Lock()
	if len(m.pending) == 0 {
		m.mu.Unlock()
		return false
	}
	task := m.pending[0]
	m.pending = m.pending[1:]
	m.mu.Unlock()

	task()
	return true
}

// RunAll 按提交顺序执行所有任务（包括执行过程中新提交的），返回执行数量
func (m *MockExecutor) RunAll() int {
	n := 0
	for m.RunNext() {
		n++
	}
	return n
}

// Close 之后 Execute 返回 ErrMockClosed
func (m *MockExecutor) Close() {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
}
