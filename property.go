package objbus

import (
	"sync"

	"github.com/dep2p/go-objbus/pkg/types"
)

// Access 属性访问模式
type Access uint8

// 属性访问模式常量
const (
	// AccessRead 只读
	AccessRead Access = iota

	// AccessWrite 只写
	AccessWrite

	// AccessReadWrite 读写
	AccessReadWrite
)

func (a Access) String() string {
	switch a {
	case AccessWrite:
		return "write"
	case AccessReadWrite:
		return "readwrite"
	default:
		return "read"
	}
}

// PropInfo 一次属性访问的请求上下文
type PropInfo[D any] struct {
	// Msg 入站方法调用消息
	Msg *types.Message

	// Tree 所属对象树
	Tree *Tree[D]

	// Node 解析出的目标节点
	Node *Node[D]

	// Iface 解析出的接口
	Iface *Interface[D]

	// Prop 解析出的属性
	Prop *Property[D]
}

// GetHandler 自定义属性读取处理器
type GetHandler[D any] func(*PropInfo[D]) (types.Variant, *MethodErr)

// SetHandler 自定义属性写入处理器
//
// 返回写入引发的副作用消息（如变更通知信号）。
type SetHandler[D any] func(types.Variant, *PropInfo[D]) ([]*types.Message, *MethodErr)

// Property 属性描述符
//
// 结构字段（名称、签名、访问模式、注解）在共享后不可变；
// 当前值存放在独立的可变单元中，由读写锁保护，因此共享的
// 描述符在并发调度下读写值是安全的。
type Property[D any] struct {
	name   string
	sig    types.Signature
	access Access
	anns   annotations
	data   D

	mu    sync.RWMutex
	value types.Variant

	onGet GetHandler[D]
	onSet SetHandler[D]
}

// NewProperty 创建属性描述符
//
// 签名由初始值推断，默认访问模式为只读。
func NewProperty[D any](name string, initial any, data D) *Property[D] {
	return &Property[D]{
		name:   name,
		sig:    types.SignatureOf(initial),
		access: AccessRead,
		anns:   make(annotations),
		data:   data,
		value:  types.NewVariant(initial),
	}
}

// WithAccess 设置访问模式并返回属性自身
func (p *Property[D]) WithAccess(a Access) *Property[D] {
	p.access = a
	return p
}

// OnGet 设置自定义读取处理器并返回属性自身
func (p *Property[D]) OnGet(h GetHandler[D]) *Property[D] {
	p.onGet = h
	return p
}

// OnSet 设置自定义写入处理器并返回属性自身
func (p *Property[D]) OnSet(h SetHandler[D]) *Property[D] {
	p.onSet = h
	return p
}

// Annotate 添加注解并返回属性自身
func (p *Property[D]) Annotate(name, value string) *Property[D] {
	p.anns.set(name, value)
	return p
}

// Deprecated 标记本属性已弃用
func (p *Property[D]) Deprecated() *Property[D] {
	return p.Annotate(deprecatedAnnotation, "true")
}

// Name 返回属性名
func (p *Property[D]) Name() string { return p.name }

// Data 返回关联的用户数据
func (p *Property[D]) Data() D { return p.data }

// AccessMode 返回访问模式
func (p *Property[D]) AccessMode() Access { return p.access }

// Value 返回当前值
func (p *Property[D]) Value() types.Variant {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.value
}

// SetValue 直接写入当前值（不经过访问检查）
func (p *Property[D]) SetValue(v types.Variant) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.value = v
}

// CanGet 校验属性是否可读
func (p *Property[D]) CanGet() *MethodErr {
	if p.access == AccessWrite {
		return PropertyNotReadable(p.name)
	}
	return nil
}

// GetVariant 读取属性值
//
// 配置了 OnGet 时委托给处理器，否则返回存储的当前值。
func (p *Property[D]) GetVariant(pi *PropInfo[D]) (types.Variant, *MethodErr) {
	if p.onGet != nil {
		return p.onGet(pi)
	}
	return p.Value(), nil
}

// CanSet 在消费值参数之前校验属性是否可写
func (p *Property[D]) CanSet(v *types.Variant) *MethodErr {
	if p.access == AccessRead {
		return PropertyNotWritable(p.name)
	}
	return nil
}

// SetVariant 写入属性值
//
// 配置了 OnSet 时委托给处理器，返回其产生的副作用消息；
// 否则写入存储单元且无副作用。
func (p *Property[D]) SetVariant(v types.Variant, pi *PropInfo[D]) ([]*types.Message, *MethodErr) {
	if p.onSet != nil {
		return p.onSet(v, pi)
	}
	p.SetValue(v)
	return nil, nil
}

func (p *Property[D]) xmlName() string { return "property" }

func (p *Property[D]) xmlParams() string {
	return ` type="` + string(p.sig) + `" access="` + p.access.String() + `"`
}

func (p *Property[D]) xmlContents() string {
	return p.anns.introspect("      ")
}
