// Package sticky 实现粘性事件缓存
//
// 每种事件类型最多保留一个最近发布的粘性事件，新值覆盖旧值，
// 从不累积历史。Cache 不加锁，由事件总线负责同步。
package sticky

import (
	"fmt"
	"reflect"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Cache 粘性事件缓存
//
// 每次写入分配一个递增版本号，调用方据此判断读到的值是否已被覆盖。
type Cache struct {
	// events 无上限模式
	events map[reflect.Type]entry

	// bounded 有上限模式，按最近写入淘汰
	bounded *lru.Cache[reflect.Type, entry]

	// version 最近一次写入的版本号
	version uint64
}

type entry struct {
	event   any
	version uint64
}

// New 创建缓存
//
// maxEntries 为 0 时不限制事件类型数量。
func New(maxEntries int) (*Cache, error) {
	if maxEntries < 0 {
		return nil, fmt.Errorf("sticky: negative max entries %d", maxEntries)
	}
	if maxEntries == 0 {
		return &Cache{events: make(map[reflect.Type]entry)}, nil
	}
	bounded, err := lru.New[reflect.Type, entry](maxEntries)
	if err != nil {
		return nil, fmt.Errorf("sticky: %w", err)
	}
	return &Cache{bounded: bounded}, nil
}

// Put 以事件的精确运行时类型保存事件，覆盖旧值，返回该类型
func (c *Cache) Put(event any) reflect.Type {
	typ := reflect.TypeOf(event)
	c.version++
	e := entry{event: event, version: c.version}
	if c.bounded != nil {
		c.bounded.Add(typ, e)
	} else {
		c.events[typ] = e
	}
	return typ
}

// Get 返回事件类型最近一次的粘性事件
func (c *Cache) Get(typ reflect.Type) (any, bool) {
	e, ok := c.lookup(typ)
	return e.event, ok
}

// GetVersion 返回事件类型最近一次的粘性事件及其版本号
func (c *Cache) GetVersion(typ reflect.Type) (any, uint64, bool) {
	e, ok := c.lookup(typ)
	return e.event, e.version, ok
}

// Current 版本号为 version 的写入是否仍是该类型的当前值
func (c *Cache) Current(typ reflect.Type, version uint64) bool {
	e, ok := c.lookup(typ)
	return ok && e.version == version
}

func (c *Cache) lookup(typ reflect.Type) (entry, bool) {
	if c.bounded != nil {
		// Peek 不刷新最近使用顺序，淘汰只取决于写入
		return c.bounded.Peek(typ)
	}
	e, ok := c.events[typ]
	return e, ok
}

// Len 返回缓存的事件类型数量
func (c *Cache) Len() int {
	if c.bounded != nil {
		return c.bounded.Len()
	}
	return len(c.events)
}
