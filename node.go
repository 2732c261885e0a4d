package objbus

import (
	"strings"

	"github.com/dep2p/go-objbus/pkg/types"
)

// 标准内置接口名
const (
	// IntrospectableIface 标准自省接口
	IntrospectableIface = "org.freedesktop.DBus.Introspectable"

	// PropertiesIface 标准属性子协议接口
	PropertiesIface = "org.freedesktop.DBus.Properties"
)

// Node 以绝对层级路径标识的可寻址服务对象
//
// 持有按名称索引的接口集合（内置接口经由 Cache 共享）与不透明的
// 用户数据。接口名冲突时静默覆盖（后写者胜）。插入 Tree 之后视为
// 不可变，调度阶段只读。
type Node[D any] struct {
	path   types.ObjectPath
	ifaces map[string]*Interface[D]
	cache  *Cache[D]
	data   D
}

// NewNode 创建节点
//
// cache 用于构建自动安装的内置接口；同一棵树的节点应共享同一个
// 缓存（经由同一个 Factory 创建即可）。
func NewNode[D any](path types.ObjectPath, data D, cache *Cache[D]) *Node[D] {
	return &Node[D]{
		path:   path,
		ifaces: make(map[string]*Interface[D]),
		cache:  cache,
		data:   data,
	}
}

// Path 返回对象路径
func (n *Node[D]) Path() types.ObjectPath { return n.path }

// Data 返回关联的用户数据
func (n *Node[D]) Data() D { return n.data }

// Iface 按名称查找接口
func (n *Node[D]) Iface(name string) (*Interface[D], bool) {
	i, ok := n.ifaces[name]
	return i, ok
}

// Add 添加接口并返回节点自身
//
// 接口含有属性时先确保属性子协议接口已安装（幂等）。
func (n *Node[D]) Add(i *Interface[D]) *Node[D] {
	if len(i.properties) > 0 {
		n.addPropertyHandler()
	}
	n.ifaces[i.name] = i
	return n
}

// Introspectable 为节点安装标准自省接口
//
// 暴露单个方法 Introspect() -> (xml_data s)，渲染本节点的自省文档。
func (n *Node[D]) Introspectable() *Node[D] {
	z := n.cache.GetOrBuild(IntrospectableIface, func(i *Interface[D]) *Interface[D] {
		var zero D
		return i.AddMethod(
			NewMethod(introspectMember, zero, func(mi *MethodInfo[D]) ([]*types.Message, *MethodErr) {
				xml := mi.Tree.Introspection(mi.Node)
				return []*types.Message{mi.Msg.MethodReturn(types.NewVariant(xml))}, nil
			}).Out("xml_data", "s"),
		)
	})
	return n.Add(z)
}

const introspectMember = "Introspect"

// addPropertyHandler 安装标准属性子协议接口
//
// 已安装时为空操作；Get/GetAll/Set 三个处理器均转发到节点自身的
// 属性访问实现。
func (n *Node[D]) addPropertyHandler() {
	if _, ok := n.ifaces[PropertiesIface]; ok {
		return
	}
	var zero D
	z := n.cache.GetOrBuild(PropertiesIface, func(i *Interface[D]) *Interface[D] {
		return i.AddMethod(
			NewMethod("Get", zero, func(mi *MethodInfo[D]) ([]*types.Message, *MethodErr) {
				return mi.Node.propGet(mi)
			}).In("interface_name", "s").In("property_name", "s").Out("value", "v"),
		).AddMethod(
			NewMethod("GetAll", zero, func(mi *MethodInfo[D]) ([]*types.Message, *MethodErr) {
				return mi.Node.propGetAll(mi)
			}).In("interface_name", "s").Out("props", "a{sv}"),
		).AddMethod(
			NewMethod("Set", zero, func(mi *MethodInfo[D]) ([]*types.Message, *MethodErr) {
				return mi.Node.propSet(mi)
			}).In("interface_name", "s").In("property_name", "s").In("value", "v"),
		)
	})
	n.ifaces[PropertiesIface] = z
}

// Handle 把消息解析到方法并调用
//
// 解析失败返回结构化错误（未知接口/未知方法），绝不 panic。
func (n *Node[D]) Handle(m *types.Message, t *Tree[D]) ([]*types.Message, *MethodErr) {
	iface, ok := n.ifaces[m.Interface]
	if !ok {
		return nil, NoSuchInterface(m.Interface)
	}
	method, ok := iface.methods[m.Member]
	if !ok {
		return nil, NoSuchMethod(m.Member)
	}
	mi := &MethodInfo[D]{Msg: m, Tree: t, Node: n, Iface: iface, Method: method}
	return method.Call(mi)
}

// getIface 从消息的位置参数解析接口
func (n *Node[D]) getIface(m *types.Message, index int) (*Interface[D], *MethodErr) {
	name, ok := m.StringArg(index)
	if !ok {
		return nil, InvalidArgument(index)
	}
	iface, ok := n.ifaces[name]
	if !ok {
		return nil, NoSuchInterface(name)
	}
	return iface, nil
}

// propGet 属性子协议 Get(interface_name, property_name) -> value
func (n *Node[D]) propGet(mi *MethodInfo[D]) ([]*types.Message, *MethodErr) {
	iface, merr := n.getIface(mi.Msg, 0)
	if merr != nil {
		return nil, merr
	}
	propName, ok := mi.Msg.StringArg(1)
	if !ok {
		return nil, InvalidArgument(1)
	}
	prop, ok := iface.properties[propName]
	if !ok {
		return nil, NoSuchProperty(propName)
	}
	if merr := prop.CanGet(); merr != nil {
		return nil, merr
	}

	v, merr := prop.GetVariant(mi.ToPropInfo(iface, prop))
	if merr != nil {
		return nil, merr
	}
	reply := mi.Msg.MethodReturn(types.NewVariantSig(types.SignatureVariant, v))
	return []*types.Message{reply}, nil
}

// propGetAll 属性子协议 GetAll(interface_name) -> dict<name, value>
//
// 不可读属性被静默跳过，不算错误。
func (n *Node[D]) propGetAll(mi *MethodInfo[D]) ([]*types.Message, *MethodErr) {
	iface, merr := n.getIface(mi.Msg, 0)
	if merr != nil {
		return nil, merr
	}

	props := make(map[string]types.Variant, len(iface.properties))
	for name, prop := range iface.properties {
		if prop.CanGet() != nil {
			continue
		}
		v, merr := prop.GetVariant(mi.ToPropInfo(iface, prop))
		if merr != nil {
			return nil, merr
		}
		props[name] = v
	}

	reply := mi.Msg.MethodReturn(types.NewVariantSig(types.SignaturePropMap, props))
	return []*types.Message{reply}, nil
}

// propSet 属性子协议 Set(interface_name, property_name, value) -> ()
//
// 先校验可写性再消费值参数；写入产生的副作用消息（如变更通知）
// 排在方法自身的空成功回复之前。
func (n *Node[D]) propSet(mi *MethodInfo[D]) ([]*types.Message, *MethodErr) {
	iface, merr := n.getIface(mi.Msg, 0)
	if merr != nil {
		return nil, merr
	}
	propName, ok := mi.Msg.StringArg(1)
	if !ok {
		return nil, InvalidArgument(1)
	}
	prop, ok := iface.properties[propName]
	if !ok {
		return nil, NoSuchProperty(propName)
	}

	v, ok := mi.Msg.Arg(2)
	if !ok {
		return nil, InvalidArgument(2)
	}
	if merr := prop.CanSet(&v); merr != nil {
		return nil, merr
	}
	// 值参数按惯例以变体包装传入，解开一层
	if v.Signature() == types.SignatureVariant {
		if inner, isVariant := v.Value().(types.Variant); isVariant {
			v = inner
		}
	}

	msgs, merr := prop.SetVariant(v, mi.ToPropInfo(iface, prop))
	if merr != nil {
		return nil, merr
	}
	replies := append(msgs, mi.Msg.MethodReturn())
	return replies, nil
}

// Introspect 渲染本节点的自省文档
//
// 文档包含 DOCTYPE 头、本节点的全部接口以及所属树中每个直接子节点
// 的自闭合 node 元素（名称为去掉本节点路径与分隔符后的后缀）。
func (n *Node[D]) Introspect(t *Tree[D]) string {
	ifacestr := introspectMap(n.ifaces, "  ")

	var childstr strings.Builder
	if t != nil {
		for _, c := range t.Children(n, true) {
			suffix, _ := types.ChildSuffix(n.path, c.path)
			childstr.WriteString(`  <node name="`)
			childstr.WriteString(suffix)
			childstr.WriteString(`"/>` + "\n")
		}
	}

	return docType + "\n" +
		`<node name="` + string(n.path) + `">` + "\n" +
		ifacestr + childstr.String() +
		`</node>`
}
