// Package subscriber 实现订阅方法发现
//
// 订阅者不再通过运行时反射扫描注解，而是显式声明订阅表：
//
//	func (v *View) SubscriberMethods() []interfaces.MethodSpec {
//	    return []interfaces.MethodSpec{
//	        subscriber.On(v.onLogin, interfaces.MainThread()),
//	        subscriber.OnE(v.onConfig, interfaces.Sticky()),
//	    }
//	}
//
// On / OnE 在编译期固定了"恰好一个参数"的约束；Finder 负责把声明
// 转换为绑定订阅者实例的 Method 描述符，并拒绝无效声明。
//
// # 架构定位
//
// Tier: Core Layer Level 1（无依赖）
//
// 依赖关系：
//   - 依赖：pkg/interfaces
//   - 被依赖：registry, dispatch, eventbus
package subscriber
