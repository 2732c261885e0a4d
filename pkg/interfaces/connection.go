package interfaces

import "github.com/dep2p/go-objbus/pkg/types"

// Connection 传输连接
//
// 对象树通过该接口向传输层注册可服务的对象路径并发送回复消息。
// 连接的建立、握手与消息编组均由具体实现负责，对象模型不关心。
type Connection interface {
	// RegisterPath 向传输层注册对象路径
	//
	// 重复注册同一路径应返回错误。
	RegisterPath(path types.ObjectPath) error

	// UnregisterPath 注销对象路径
	//
	// 注销不存在的路径是空操作。
	UnregisterPath(path types.ObjectPath)

	// Send 发送消息
	//
	// 调度适配器会忽略 Send 的错误（对端可能已断开）。
	Send(msg *types.Message) error
}

// EventSource 入站事件拉取源
//
// Next 阻塞等待下一个事件；事件源关闭后返回 ok == false。
// 至少要能区分"方法调用消息"与其他事件类型。
type EventSource interface {
	// Next 拉取下一个入站事件
	Next() (ev types.Event, ok bool)
}
