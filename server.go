package objbus

import (
	"github.com/dep2p/go-objbus/pkg/interfaces"
	"github.com/dep2p/go-objbus/pkg/types"
)

// Server 调度适配器
//
// 包装传输层的入站事件序列：命中树中节点的方法调用事件被就地
// 处理并消费（回复经连接发回），其余事件原样透传给调用方。
// 单线程拉取循环，无内部并发。
type Server[D any] struct {
	tree *Tree[D]
	conn interfaces.Connection
	src  interfaces.EventSource
}

var _ interfaces.EventSource = (*Server[any])(nil)

// Next 拉取下一个未被处理的事件
//
// 方法调用事件命中树时在内部处理并继续拉取；产生的回复逐条发送，
// 发送错误被忽略（对端可能在处理期间已断开）。事件源耗尽时
// ok 为 false。
func (s *Server[D]) Next() (types.Event, bool) {
	for {
		ev, ok := s.src.Next()
		if !ok {
			return types.Event{}, false
		}
		if ev.Kind == types.EventMethodCall && ev.Msg != nil {
			if replies, handled := s.tree.Dispatch(ev.Msg); handled {
				for _, r := range replies {
					// 忽略发送错误：对端可能已断开
					_ = s.conn.Send(r)
				}
				continue
			}
		}
		return ev, true
	}
}
