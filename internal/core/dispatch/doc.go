// Package dispatch 实现事件投递
//
// Dispatcher 按描述符的线程模式选择执行器：
//   - ThreadPosting → InlineExecutor，在发布者 goroutine 上同步调用
//   - ThreadMain → 注入的单消费者执行器（通常为 SerialExecutor）
//
// 执行器按线程模式可插拔（WithExecutor），新增线程亲和性无需修改
// Dispatcher。
//
// # 失败隔离
//
// 每次调用都在 recover 保护下执行。返回的错误与 panic 都会转换为
// *InvocationError：记录日志、计入指标、交给可选的 ErrorHandler，
// 但从不返回给发布者，也不会中断对其余订阅者的投递。
//
// # SerialExecutor
//
// 无上限 FIFO 队列 + 通知通道 + 单一消费循环。Execute 从不阻塞；
// 来自任意 goroutine 的任务按提交顺序全序执行。循环可以运行在
// 专用 goroutine（Start）上，也可以运行在宿主自己的 goroutine（Run）上。
package dispatch
