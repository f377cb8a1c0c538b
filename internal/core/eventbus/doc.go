// Package eventbus 实现进程内事件总线引擎
//
// 组合方法发现（subscriber）、订阅表（registry）、粘性缓存（sticky）
// 与投递器（dispatch），提供：
//   - 按事件精确运行时类型分发
//   - POSTING 同步投递与 MAIN 协调线程投递
//   - 粘性事件缓存与注册时补发
//   - 订阅方法失败隔离
//
// # 快速开始
//
//	bus, _ := eventbus.NewBus()
//	defer bus.Close(context.Background())
//
//	type listener struct{}
//
//	l := &listener{}
//	_ = bus.RegisterMethods(l,
//	    subscriber.On(func(e UserLoggedIn) { ... }),
//	    subscriber.On(func(e Config) { ... }, pkgif.Sticky(), pkgif.MainThread()),
//	)
//
//	bus.Post(UserLoggedIn{Name: "alice"})
//	bus.Unregister(l)
//
// # Fx 模块
//
//	app := fx.New(
//	    metrics.Module,
//	    eventbus.Module(),
//	    fx.Invoke(func(bus pkgif.EventBus) { ... }),
//	)
//
// 协调执行器可通过 `name:"main_executor"` 注入；未注入时总线自建 SerialExecutor，
// 应用停止时排空并关闭。
//
// # 并发安全
//
// 一把 sync.Mutex 保护订阅表与粘性缓存，投递在锁外对快照进行：
//   - 发布时已注册的订阅方法恰好收到一次
//   - PostSticky 的缓存与快照在同一临界区
//   - 回调中可以重入 Register / Unregister / Post
//
// 订阅表持有订阅者强引用，需要释放的订阅者必须显式 Unregister。
package eventbus
