package mocks

import (
	"sync"
	"time"

	"github.com/dep2p/go-eventbus/internal/core/metrics"
	pkgif "github.com/dep2p/go-eventbus/pkg/interfaces"
)

// MockReporter 模拟 metrics.Reporter 接口实现
type MockReporter struct {
	mu sync.Mutex

	// 可覆盖的方法
	DeliveredFunc func(mode pkgif.ThreadMode, elapsed time.Duration)

	// 调用记录
	PostedCalls    int
	StickyCalls    int
	UnhandledCalls int
	DeliveredCalls map[pkgif.ThreadMode]int
	FailedCalls    map[pkgif.ThreadMode]int
	PanickedCalls  int
	DroppedCalls   map[pkgif.ThreadMode]int
}

var _ metrics.Reporter = (*MockReporter)(nil)

// NewMockReporter 创建 MockReporter
func NewMockReporter() *MockReporter {
	return &MockReporter{
		DeliveredCalls: make(map[pkgif.ThreadMode]int),
		FailedCalls:    make(map[pkgif.ThreadMode]int),
		DroppedCalls:   make(map[pkgif.ThreadMode]int),
	}
}

// EventPosted 记录发布
func (m *MockReporter) EventPosted(sticky bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PostedCalls++
	if sticky {
		m.StickyCalls++
	}
}

// EventUnhandled 记录无订阅者的发布
func (m *MockReporter) EventUnhandled() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UnhandledCalls++
}

// Delivered 记录成功投递
func (m *MockReporter) Delivered(mode pkgif.ThreadMode, elapsed time.Duration) {
	m.mu.Lock()
	m.DeliveredCalls[mode]++
	fn := m.DeliveredFunc
	m.mu.Unlock()

	if fn != nil {
		fn(mode, elapsed)
	}
}

// DeliveryFailed 记录失败投递
func (m *MockReporter) DeliveryFailed(mode pkgif.ThreadMode, panicked bool, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FailedCalls[mode]++
	if panicked {
		m.PanickedCalls++
	}
}

// DeliveryDropped 记录被拒绝的投递
func (m *MockReporter) DeliveryDropped(mode pkgif.ThreadMode) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DroppedCalls[mode]++
}

// Snapshot 在锁内读取计数
func (m *MockReporter) Snapshot(fn func(r *MockReporter)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fn(m)
}
