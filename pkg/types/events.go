package types

// EventKind 传输事件类型
type EventKind uint8

// 传输事件类型常量
const (
	// EventInvalid 无效事件
	EventInvalid EventKind = iota

	// EventMethodCall 方法调用消息
	EventMethodCall

	// EventMethodReturn 方法返回消息
	EventMethodReturn

	// EventSignal 信号消息
	EventSignal

	// EventError 错误回复消息
	EventError

	// EventDisconnected 连接断开
	EventDisconnected
)

func (k EventKind) String() string {
	switch k {
	case EventMethodCall:
		return "method_call"
	case EventMethodReturn:
		return "method_return"
	case EventSignal:
		return "signal"
	case EventError:
		return "error"
	case EventDisconnected:
		return "disconnected"
	default:
		return "invalid"
	}
}

// Event 传输层上抛的入站事件
//
// 调度层只区分"方法调用消息"与其他事件；后者原样透传给应用。
type Event struct {
	// Kind 事件类型
	Kind EventKind

	// Msg 关联消息（断开事件为 nil）
	Msg *Message
}

// EventFromMessage 将入站消息包装为事件
func EventFromMessage(m *Message) Event {
	if m == nil {
		return Event{Kind: EventInvalid}
	}
	switch m.Type {
	case MessageMethodCall:
		return Event{Kind: EventMethodCall, Msg: m}
	case MessageMethodReturn:
		return Event{Kind: EventMethodReturn, Msg: m}
	case MessageSignal:
		return Event{Kind: EventSignal, Msg: m}
	case MessageError:
		return Event{Kind: EventError, Msg: m}
	default:
		return Event{Kind: EventInvalid, Msg: m}
	}
}
