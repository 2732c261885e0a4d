package objbus

import "github.com/dep2p/go-objbus/pkg/types"

// MethodInfo 一次方法调用的请求上下文
//
// 携带入站消息以及解析出的树、节点、接口与方法，供处理器使用。
type MethodInfo[D any] struct {
	// Msg 入站方法调用消息
	Msg *types.Message

	// Tree 所属对象树
	Tree *Tree[D]

	// Node 解析出的目标节点
	Node *Node[D]

	// Iface 解析出的接口
	Iface *Interface[D]

	// Method 解析出的方法
	Method *Method[D]
}

// ToPropInfo 转换为属性访问上下文
func (mi *MethodInfo[D]) ToPropInfo(iface *Interface[D], prop *Property[D]) *PropInfo[D] {
	return &PropInfo[D]{
		Msg:   mi.Msg,
		Tree:  mi.Tree,
		Node:  mi.Node,
		Iface: iface,
		Prop:  prop,
	}
}

// HandlerFunc 方法处理器
//
// 返回零个或多个待发送的回复消息；失败时返回结构化错误。
// 处理器以闭包形式捕获应用状态。
type HandlerFunc[D any] func(*MethodInfo[D]) ([]*types.Message, *MethodErr)

// Method 方法描述符
//
// 持有处理器闭包与出入参签名元数据；放入接口后视为不可变。
type Method[D any] struct {
	name    string
	handler HandlerFunc[D]
	inArgs  []Argument
	outArgs []Argument
	anns    annotations
	data    D
}

// NewMethod 创建方法描述符
func NewMethod[D any](name string, data D, handler HandlerFunc[D]) *Method[D] {
	return &Method[D]{
		name:    name,
		handler: handler,
		anns:    make(annotations),
		data:    data,
	}
}

// In 追加一个入参并返回方法自身
func (m *Method[D]) In(name string, sig types.Signature) *Method[D] {
	m.inArgs = append(m.inArgs, Argument{Name: name, Type: sig, direction: "in"})
	return m
}

// Out 追加一个出参并返回方法自身
func (m *Method[D]) Out(name string, sig types.Signature) *Method[D] {
	m.outArgs = append(m.outArgs, Argument{Name: name, Type: sig, direction: "out"})
	return m
}

// Annotate 添加注解并返回方法自身
func (m *Method[D]) Annotate(name, value string) *Method[D] {
	m.anns.set(name, value)
	return m
}

// Deprecated 标记本方法已弃用
func (m *Method[D]) Deprecated() *Method[D] {
	return m.Annotate(deprecatedAnnotation, "true")
}

// Name 返回方法名
func (m *Method[D]) Name() string { return m.name }

// Data 返回关联的用户数据
func (m *Method[D]) Data() D { return m.data }

// Call 调用处理器
func (m *Method[D]) Call(mi *MethodInfo[D]) ([]*types.Message, *MethodErr) {
	if m.handler == nil {
		return nil, Failed("method not implemented")
	}
	return m.handler(mi)
}

func (m *Method[D]) xmlName() string { return "method" }

func (m *Method[D]) xmlParams() string { return "" }

func (m *Method[D]) xmlContents() string {
	return introspectArgs(m.inArgs, "      ") +
		introspectArgs(m.outArgs, "      ") +
		m.anns.introspect("      ")
}
