// Package interfaces 定义事件总线的公共接口
//
// 接口与实现分离，实现位于 internal/core：
//   - eventbus.go       - EventBus、Subscriber、Executor 接口与订阅声明 MethodSpec
//
// # 订阅声明
//
// 订阅者通过实现 Subscriber 返回一组 MethodSpec，每条声明给出精确事件类型、
// 回调、线程模式与是否粘性。声明通常由根包的 On / OnE 泛型函数构造，
// 从而在编译期保证回调只有一个参数。
//
// # 执行器
//
// Executor 是线程模式到执行位置的绑定：
//   - ThreadPosting 默认绑定同步执行器，回调在发布者 goroutine 上执行
//   - ThreadMain 绑定协调执行器，所有提交按顺序在同一个 goroutine 上执行
package interfaces
