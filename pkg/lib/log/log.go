// Package log 提供事件总线统一日志接口
//
// 基于 Go 标准库 log/slog 封装，按组件（子系统）区分日志级别，
// 级别与格式由 EVENTBUS_LOG_LEVEL / EVENTBUS_LOG_FORMAT 环境变量控制。
package log

import (
	"context"
	"io"
	"log/slog"

	"github.com/dep2p/go-eventbus/internal/util/logger"
)

// 日志级别常量（从 slog 导出，方便使用）
const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

// ============================================================================
//                              LazyLogger
// ============================================================================

// LazyLogger 懒加载 logger
//
// 包级变量初始化时不创建 handler，首次输出日志时才解析环境变量。
//
// 使用方式：
//
//	var logger = log.Logger("core/registry")
//	logger.Debug("subscriber registered", "methods", n)
type LazyLogger struct {
	component string
}

// Logger 返回带组件名的 LazyLogger
func Logger(component string) *LazyLogger {
	return &LazyLogger{component: component}
}

func (l *LazyLogger) get() *slog.Logger {
	return logger.Logger(l.component)
}

// Component 返回组件名
func (l *LazyLogger) Component() string {
	return l.component
}

// Debug 输出 Debug 级别日志
func (l *LazyLogger) Debug(msg string, args ...any) {
	l.get().Debug(msg, args...)
}

// Info 输出 Info 级别日志
func (l *LazyLogger) Info(msg string, args ...any) {
	l.get().Info(msg, args...)
}

// Warn 输出 Warn 级别日志
func (l *LazyLogger) Warn(msg string, args ...any) {
	l.get().Warn(msg, args...)
}

// Error 输出 Error 级别日志
func (l *LazyLogger) Error(msg string, args ...any) {
	l.get().Error(msg, args...)
}

// ErrorContext 带 context 的 Error 日志
func (l *LazyLogger) ErrorContext(ctx context.Context, msg string, args ...any) {
	l.get().ErrorContext(ctx, msg, args...)
}

// Enabled 检查指定级别是否会输出
func (l *LazyLogger) Enabled(level slog.Level) bool {
	return l.get().Enabled(context.Background(), level)
}

// With 添加额外的属性
func (l *LazyLogger) With(args ...any) *slog.Logger {
	return l.get().With(args...)
}

// ============================================================================
//                              全局设置
// ============================================================================

// SetOutput 设置日志输出目标
//
// 已创建的组件 logger 也会重定向到 w。
func SetOutput(w io.Writer) {
	logger.SetOutput(w)
}

// SetLevel 设置指定组件的日志级别
func SetLevel(component string, level slog.Level) {
	logger.SetLevel(component, level)
}

// SetGlobalLevel 设置所有已创建组件的日志级别
//
// 之后才首次使用的组件仍按环境变量配置。
func SetGlobalLevel(level slog.Level) {
	logger.SetGlobalLevel(level)
}
