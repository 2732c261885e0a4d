// Package objbus 实现服务端对象模型与请求调度
//
// 对象树把对象路径映射到节点，节点持有接口描述符（方法、属性、
// 信号及其注解），并自动提供自省与属性子协议两个内置接口。
// 入站方法调用经 Tree.Dispatch 路由到对应处理器，产生回复或
// 标准错误回复；Tree.Serve 把树包装为事件序列上的透传适配器。
//
// 基本用法:
//
//	factory := objbus.NewFactory[any]()
//	tree := factory.Tree()
//	iface := factory.Interface("com.example.Echo", nil).
//		AddMethod(factory.Method("Echo", nil, handler))
//	tree.Add(factory.Node("/example", nil).Add(iface))
//	replies, handled := tree.Dispatch(msg)
package objbus
