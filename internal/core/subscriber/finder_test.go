package subscriber

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgif "github.com/dep2p/go-eventbus/pkg/interfaces"
)

type loginEvent struct{ User string }

type configEvent struct{ Key string }

type stringer interface{ String() string }

// boxedSubscriber 类型可比较，但 Value 中的值不一定可比较
type boxedSubscriber struct{ Value any }

// testView 测试用订阅者
type testView struct {
	logins []string
	specs  []pkgif.MethodSpec
}

func (v *testView) onLogin(e loginEvent) { v.logins = append(v.logins, e.User) }

func (v *testView) SubscriberMethods() []pkgif.MethodSpec {
	if v.specs != nil {
		return v.specs
	}
	return []pkgif.MethodSpec{
		On(v.onLogin, pkgif.Named("onLogin")),
		OnE(func(configEvent) error { return nil }, pkgif.MainThread(), pkgif.Sticky(), pkgif.Named("onConfig")),
	}
}

// ============================================================================
// On / OnE
// ============================================================================

// TestOn_TypedInvocation 测试 On 生成的调用目标
func TestOn_TypedInvocation(t *testing.T) {
	var got []string
	spec := On(func(e loginEvent) { got = append(got, e.User) })

	assert.Equal(t, reflect.TypeOf(loginEvent{}), spec.EventType)
	assert.Equal(t, pkgif.ThreadPosting, spec.ThreadMode)
	assert.False(t, spec.Sticky)

	require.NoError(t, spec.Handler(loginEvent{User: "alice"}))
	assert.Equal(t, []string{"alice"}, got)
}

// TestOnE_ReturnsHandlerError 测试 OnE 透传错误
func TestOnE_ReturnsHandlerError(t *testing.T) {
	boom := errors.New("boom")
	spec := OnE(func(configEvent) error { return boom })

	assert.ErrorIs(t, spec.Handler(configEvent{}), boom)
}

// TestOn_TypeMismatch 测试错误类型的事件不会触发调用
func TestOn_TypeMismatch(t *testing.T) {
	called := false
	spec := On(func(loginEvent) { called = true })

	err := spec.Handler(&loginEvent{})
	assert.ErrorIs(t, err, ErrEventTypeMismatch)
	assert.False(t, called)
}

// TestOn_Options 测试声明选项
func TestOn_Options(t *testing.T) {
	spec := On(func(int) {}, pkgif.MainThread(), pkgif.Sticky(), pkgif.Named("count"))

	assert.Equal(t, pkgif.ThreadMain, spec.ThreadMode)
	assert.True(t, spec.Sticky)
	assert.Equal(t, "count", spec.Name)
}

// TestOn_NilFunc 测试 nil 回调保持 nil Handler
func TestOn_NilFunc(t *testing.T) {
	assert.Nil(t, On[loginEvent](nil).Handler)
	assert.Nil(t, OnE[loginEvent](nil).Handler)
}

// ============================================================================
// Finder
// ============================================================================

// TestFinder_Find 测试发现订阅方法
func TestFinder_Find(t *testing.T) {
	n := 0
	f := NewFinder(WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}))
	view := &testView{}

	methods, err := f.Find(view)
	require.NoError(t, err)
	require.Len(t, methods, 2)

	assert.Equal(t, "id-1", methods[0].ID)
	assert.Same(t, view, methods[0].Subscriber)
	assert.Equal(t, "onLogin", methods[0].Name)
	assert.Equal(t, reflect.TypeOf(loginEvent{}), methods[0].EventType)
	assert.Equal(t, pkgif.ThreadPosting, methods[0].ThreadMode)
	assert.False(t, methods[0].Sticky)

	assert.Equal(t, "onConfig", methods[1].Name)
	assert.Equal(t, pkgif.ThreadMain, methods[1].ThreadMode)
	assert.True(t, methods[1].Sticky)

	require.NoError(t, methods[0].Invoke(loginEvent{User: "bob"}))
	assert.Equal(t, []string{"bob"}, view.logins)
}

// TestFinder_Find_UniqueIDs 测试默认使用 uuid
func TestFinder_Find_UniqueIDs(t *testing.T) {
	methods, err := NewFinder().Find(&testView{})
	require.NoError(t, err)
	require.Len(t, methods, 2)

	assert.NotEmpty(t, methods[0].ID)
	assert.NotEqual(t, methods[0].ID, methods[1].ID)
}

// TestFinder_Find_NotSubscriber 测试没有订阅方法的值
func TestFinder_Find_NotSubscriber(t *testing.T) {
	methods, err := NewFinder().Find(&struct{ X int }{})
	assert.NoError(t, err)
	assert.Empty(t, methods)
}

// TestFinder_Find_EmptyTable 测试空声明表
func TestFinder_Find_EmptyTable(t *testing.T) {
	methods, err := NewFinder().Find(&testView{specs: []pkgif.MethodSpec{}})
	assert.NoError(t, err)
	assert.Empty(t, methods)
}

// TestFinder_ConfigurationErrors 测试无效声明
func TestFinder_ConfigurationErrors(t *testing.T) {
	valid := On(func(loginEvent) {})

	tests := []struct {
		name   string
		sub    any
		specs  []pkgif.MethodSpec
		reason string
	}{
		{
			name:   "NilSubscriber",
			sub:    nil,
			specs:  []pkgif.MethodSpec{valid},
			reason: "subscriber is nil",
		},
		{
			name:   "NotComparable",
			sub:    map[string]int{},
			specs:  []pkgif.MethodSpec{valid},
			reason: "not comparable",
		},
		{
			name:   "HiddenUncomparableValue",
			sub:    boxedSubscriber{Value: []int{1}},
			specs:  []pkgif.MethodSpec{valid},
			reason: "not comparable",
		},
		{
			name:   "NilHandler",
			sub:    &testView{},
			specs:  []pkgif.MethodSpec{valid, On[loginEvent](nil)},
			reason: "handler is nil",
		},
		{
			name:   "NilEventType",
			sub:    &testView{},
			specs:  []pkgif.MethodSpec{{Handler: valid.Handler}},
			reason: "event type is nil",
		},
		{
			name:   "InterfaceEventType",
			sub:    &testView{},
			specs:  []pkgif.MethodSpec{On(func(stringer) {})},
			reason: "is an interface",
		},
		{
			name:   "UnknownThreadMode",
			sub:    &testView{},
			specs:  []pkgif.MethodSpec{On(func(loginEvent) {}, pkgif.WithThreadMode(pkgif.ThreadMode(9)))},
			reason: "unknown thread mode",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			methods, err := NewFinder().FindMethods(tt.sub, tt.specs...)
			require.Error(t, err)
			assert.Nil(t, methods)

			var cfgErr *ConfigurationError
			require.ErrorAs(t, err, &cfgErr)
			assert.ErrorIs(t, err, ErrConfiguration)
			assert.Contains(t, cfgErr.Reason, tt.reason)
		})
	}
}

// TestConfigurationError_Message 测试错误信息
func TestConfigurationError_Message(t *testing.T) {
	err := &ConfigurationError{SubscriberType: "*ui.View", Method: "onLogin", Reason: "handler is nil"}
	assert.Equal(t, "invalid subscriber configuration: subscriber *ui.View method onLogin: handler is nil", err.Error())

	err = &ConfigurationError{SubscriberType: "<nil>", Reason: "subscriber is nil"}
	assert.Equal(t, "invalid subscriber configuration: subscriber <nil>: subscriber is nil", err.Error())
}

// TestComparable 测试按动态值判断可比较性
func TestComparable(t *testing.T) {
	assert.True(t, Comparable(&testView{}))
	assert.True(t, Comparable(boxedSubscriber{Value: 1}))
	assert.False(t, Comparable(boxedSubscriber{Value: []int{1}}))
	assert.False(t, Comparable(map[string]int{}))
	assert.False(t, Comparable(nil))
}
