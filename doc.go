// Package eventbus 提供进程内发布/订阅事件总线
//
// 组件之间通过事件解耦：订阅者声明关心的事件类型，发布者只需 Post，
// 总线按事件的精确运行时类型找到订阅方法并投递。
//
// # 核心概念
//
//   - Subscriber: 实现 SubscriberMethods() 的任意可比较值
//   - MethodSpec: 一条订阅声明，由 On / OnE 构造
//   - ThreadMode: POSTING 在发布者 goroutine 同步执行，MAIN 交给协调线程
//   - Sticky: 粘性事件被缓存，之后注册的粘性订阅方法立即收到最近一次
//
// # 快速开始
//
//	type Session struct{ recv int }
//
//	func (s *Session) SubscriberMethods() []eventbus.MethodSpec {
//	    return []eventbus.MethodSpec{
//	        eventbus.On(s.onLogin, eventbus.Named("onLogin")),
//	        eventbus.On(s.onTheme, eventbus.Sticky(), eventbus.MainThread()),
//	    }
//	}
//
//	bus := eventbus.Default()
//	s := &Session{}
//	if err := bus.Register(s); err != nil {
//	    log.Fatal(err)
//	}
//	defer bus.Unregister(s)
//
//	bus.Post(UserLoggedIn{Name: "alice"})
//	bus.PostSticky(Theme{Dark: true})
//
// # 协调线程
//
// 默认实例与 New 创建的实例各自持有一个 SerialExecutor，在专用 goroutine 上按提交顺序
// 执行 MAIN 投递。拥有自己主循环的宿主可以在首次使用前注入执行器：
//
//	exec := eventbus.NewSerialExecutor()
//	bus, _ := eventbus.InstallDefault(eventbus.WithMainExecutor(exec))
//	go producer(bus)
//	_ = exec.Run(ctx) // 在当前 goroutine 上运行协调线程
//
// # 失败隔离
//
// 订阅方法 panic 或返回错误时，失败被记录日志、计入指标并交给 WithErrorHandler
// 设置的回调，不会传播给发布者，也不会影响后续订阅者。
//
// # 引用与释放
//
// 总线持有订阅者的强引用。需要释放的订阅者必须调用 Unregister。
package eventbus
