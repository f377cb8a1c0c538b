package mocks

import "errors"

// ErrMockClosed MockExecutor 已关闭
var ErrMockClosed = errors.New("mock executor closed")
