// Package registry 实现订阅者注册表
//
// 注册表维护两个方向的索引：
//   - 事件类型 → 描述符列表（按注册顺序，即投递顺序）
//   - 订阅者 → 已注册的事件类型集合（用于对称清理）
//
// 不变量：描述符出现在其事件类型列表中，当且仅当
// (订阅者, 事件类型) 出现在反向索引中。
//
// # 并发安全
//
// Registry 本身不加锁，由事件总线在同一个临界区内访问注册表与粘性缓存。
package registry

import (
	"fmt"
	"reflect"

	"github.com/dep2p/go-eventbus/internal/core/subscriber"
)

// Registry 订阅者注册表
type Registry struct {
	// byType 事件类型 → 描述符列表
	byType map[reflect.Type][]*subscriber.Method

	// bySubscriber 订阅者 → 事件类型集合
	bySubscriber map[any]map[reflect.Type]struct{}
}

// New 创建注册表
func New() *Registry {
	return &Registry{
		byType:       make(map[reflect.Type][]*subscriber.Method),
		bySubscriber: make(map[any]map[reflect.Type]struct{}),
	}
}

// Add 追加描述符
func (r *Registry) Add(m *subscriber.Method) {
	r.byType[m.EventType] = append(r.byType[m.EventType], m)

	types, ok := r.bySubscriber[m.Subscriber]
	if !ok {
		types = make(map[reflect.Type]struct{})
		r.bySubscriber[m.Subscriber] = types
	}
	types[m.EventType] = struct{}{}
}

// Remove 移除订阅者的全部描述符，返回移除数量
//
// 未注册的订阅者返回 0。
func (r *Registry) Remove(sub any) int {
	types, ok := r.bySubscriber[sub]
	if !ok {
		return 0
	}

	removed := 0
	for typ := range types {
		methods := r.byType[typ]
		kept := methods[:0]
		for _, m := range methods {
			if m.Subscriber == sub {
				removed++
				continue
			}
			kept = append(kept, m)
		}
		// 清空尾部，避免底层数组继续引用已移除的订阅者
		for i := len(kept); i < len(methods); i++ {
			methods[i] = nil
		}
		if len(kept) == 0 {
			delete(r.byType, typ)
		} else {
			r.byType[typ] = kept
		}
	}
	delete(r.bySubscriber, sub)
	return removed
}

// Lookup 返回事件类型的描述符列表副本
func (r *Registry) Lookup(typ reflect.Type) []*subscriber.Method {
	methods := r.byType[typ]
	if len(methods) == 0 {
		return nil
	}
	out := make([]*subscriber.Method, len(methods))
	copy(out, methods)
	return out
}

// Contains 订阅者是否已注册
func (r *Registry) Contains(sub any) bool {
	_, ok := r.bySubscriber[sub]
	return ok
}

// HasSubscribers 事件类型是否有描述符
func (r *Registry) HasSubscribers(typ reflect.Type) bool {
	return len(r.byType[typ]) > 0
}

// EventTypes 返回订阅者注册的事件类型
func (r *Registry) EventTypes(sub any) []reflect.Type {
	types := r.bySubscriber[sub]
	if len(types) == 0 {
		return nil
	}
	out := make([]reflect.Type, 0, len(types))
	for typ := range types {
		out = append(out, typ)
	}
	return out
}

// Len 返回已注册的订阅者数量
func (r *Registry) Len() int {
	return len(r.bySubscriber)
}

// MethodCount 返回描述符总数
func (r *Registry) MethodCount() int {
	n := 0
	for _, methods := range r.byType {
		n += len(methods)
	}
	return n
}

// Verify 检查双向索引的一致性
func (r *Registry) Verify() error {
	for typ, methods := range r.byType {
		if len(methods) == 0 {
			return fmt.Errorf("event type %v has an empty method list", typ)
		}
		for _, m := range methods {
			if m.EventType != typ {
				return fmt.Errorf("method %s listed under %v", m, typ)
			}
			if _, ok := r.bySubscriber[m.Subscriber][typ]; !ok {
				return fmt.Errorf("method %s missing from reverse index", m)
			}
		}
	}

	for sub, types := range r.bySubscriber {
		if len(types) == 0 {
			return fmt.Errorf("subscriber %T has an empty event type set", sub)
		}
		for typ := range types {
			found := false
			for _, m := range r.byType[typ] {
				if m.Subscriber == sub {
					found = true
					break
				}
			}
			if !found {
				return fmt.Errorf("subscriber %T recorded for %v without a method", sub, typ)
			}
		}
	}
	return nil
}
