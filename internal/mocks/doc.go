// Package mocks 提供测试用的手写模拟实现
//
// 每个模拟都带有可覆盖的 XxxFunc 字段与调用记录。
package mocks
