package subscriber

import (
	"fmt"
	"reflect"

	"github.com/google/uuid"

	pkgif "github.com/dep2p/go-eventbus/pkg/interfaces"
)

// Finder 订阅方法发现器
type Finder struct {
	newID func() string
}

// FinderOption Finder 选项
type FinderOption func(*Finder)

// WithIDGenerator 设置描述符 ID 生成函数
func WithIDGenerator(gen func() string) FinderOption {
	return func(f *Finder) {
		if gen != nil {
			f.newID = gen
		}
	}
}

// NewFinder 创建发现器
func NewFinder(opts ...FinderOption) *Finder {
	f := &Finder{newID: uuid.NewString}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Find 发现订阅者的全部订阅方法
//
// 未实现 pkgif.Subscriber 的值没有订阅方法，返回空列表。
func (f *Finder) Find(sub any) ([]*Method, error) {
	if sub == nil {
		return nil, &ConfigurationError{SubscriberType: "<nil>", Reason: "subscriber is nil"}
	}
	s, ok := sub.(pkgif.Subscriber)
	if !ok {
		return nil, nil
	}
	return f.FindMethods(sub, s.SubscriberMethods()...)
}

// FindMethods 把显式声明表转换为绑定 sub 的描述符
//
// 任一声明无效时返回 *ConfigurationError，且不返回任何描述符。
func (f *Finder) FindMethods(sub any, specs ...pkgif.MethodSpec) ([]*Method, error) {
	if sub == nil {
		return nil, &ConfigurationError{SubscriberType: "<nil>", Reason: "subscriber is nil"}
	}
	if len(specs) == 0 {
		return nil, nil
	}

	subType := reflect.TypeOf(sub)
	if !Comparable(sub) {
		return nil, &ConfigurationError{
			SubscriberType: subType.String(),
			Reason:         "subscriber type is not comparable, use a pointer",
		}
	}

	methods := make([]*Method, 0, len(specs))
	for i, spec := range specs {
		name := spec.Name
		if name == "" {
			name = fmt.Sprintf("method[%d]", i)
		}
		if reason := validate(spec); reason != "" {
			return nil, &ConfigurationError{
				SubscriberType: subType.String(),
				Method:         name,
				Reason:         reason,
			}
		}
		methods = append(methods, &Method{
			ID:         f.newID(),
			Subscriber: sub,
			Name:       name,
			EventType:  spec.EventType,
			Handler:    spec.Handler,
			ThreadMode: spec.ThreadMode,
			Sticky:     spec.Sticky,
		})
	}
	return methods, nil
}

// validate 返回声明无效的原因，有效时返回空串
func validate(spec pkgif.MethodSpec) string {
	switch {
	case spec.Handler == nil:
		return "handler is nil"
	case spec.EventType == nil:
		return "event type is nil"
	case spec.EventType.Kind() == reflect.Interface:
		return fmt.Sprintf("event type %v is an interface, events are matched by exact type", spec.EventType)
	case !spec.ThreadMode.Valid():
		return fmt.Sprintf("unknown thread mode %v", spec.ThreadMode)
	}
	return ""
}

// Comparable 订阅者能否作为注册表键
//
// 按动态值判断：字段类型为 any 的结构体只有在其中的值也可比较时才可比较。
func Comparable(sub any) bool {
	return sub != nil && reflect.ValueOf(sub).Comparable()
}
