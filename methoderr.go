package objbus

import "fmt"

// ErrKind 调度错误类别
//
// 每一类错误对应一个固定的协议级错误名；Tree.Dispatch 是唯一把
// MethodErr 转换为线上错误回复的地方。
type ErrKind uint8

// 调度错误类别常量
const (
	// KindFailed 通用失败
	KindFailed ErrKind = iota

	// KindNoSuchInterface 接口不存在
	KindNoSuchInterface

	// KindNoSuchMethod 方法不存在
	KindNoSuchMethod

	// KindNoSuchProperty 属性不存在
	KindNoSuchProperty

	// KindPropertyNotReadable 属性不可读
	KindPropertyNotReadable

	// KindPropertyNotWritable 属性不可写
	KindPropertyNotWritable

	// KindInvalidArgument 参数缺失或类型错误
	KindInvalidArgument
)

// MethodErr 调度过程中的结构化错误
//
// 携带协议级错误名与人类可读描述，实现 error 接口。
// 调度中的任何查找失败都以 MethodErr 形式向上返回，绝不 panic。
type MethodErr struct {
	kind ErrKind
	name string
	desc string
}

// Kind 返回错误类别
func (e *MethodErr) Kind() ErrKind { return e.kind }

// ErrorName 返回协议级错误名
func (e *MethodErr) ErrorName() string { return e.name }

// Description 返回人类可读描述
func (e *MethodErr) Description() string { return e.desc }

func (e *MethodErr) Error() string {
	return e.name + ": " + e.desc
}

// NoSuchInterface 接口不存在
func NoSuchInterface(iface string) *MethodErr {
	return &MethodErr{
		kind: KindNoSuchInterface,
		name: "org.freedesktop.DBus.Error.UnknownInterface",
		desc: fmt.Sprintf("Unknown interface %q", iface),
	}
}

// NoSuchMethod 方法不存在
func NoSuchMethod(member string) *MethodErr {
	return &MethodErr{
		kind: KindNoSuchMethod,
		name: "org.freedesktop.DBus.Error.UnknownMethod",
		desc: fmt.Sprintf("Unknown method %q", member),
	}
}

// NoSuchProperty 属性不存在
func NoSuchProperty(prop string) *MethodErr {
	return &MethodErr{
		kind: KindNoSuchProperty,
		name: "org.freedesktop.DBus.Error.UnknownProperty",
		desc: fmt.Sprintf("Unknown property %q", prop),
	}
}

// PropertyNotReadable 属性不可读
func PropertyNotReadable(prop string) *MethodErr {
	return &MethodErr{
		kind: KindPropertyNotReadable,
		name: "org.freedesktop.DBus.Error.AccessDenied",
		desc: fmt.Sprintf("Property %q is not readable", prop),
	}
}

// PropertyNotWritable 属性不可写
func PropertyNotWritable(prop string) *MethodErr {
	return &MethodErr{
		kind: KindPropertyNotWritable,
		name: "org.freedesktop.DBus.Error.PropertyReadOnly",
		desc: fmt.Sprintf("Property %q is not writable", prop),
	}
}

// InvalidArgument 第 index 个参数缺失或类型错误
func InvalidArgument(index int) *MethodErr {
	return &MethodErr{
		kind: KindInvalidArgument,
		name: "org.freedesktop.DBus.Error.InvalidArgs",
		desc: fmt.Sprintf("Invalid argument at position %d", index),
	}
}

// Failed 通用失败
func Failed(desc string) *MethodErr {
	return &MethodErr{
		kind: KindFailed,
		name: "org.freedesktop.DBus.Error.Failed",
		desc: desc,
	}
}
