package types

import (
	"time"

	"github.com/google/uuid"
)

// MessageType 消息类型
type MessageType uint8

// 消息类型常量
const (
	// MessageInvalid 无效消息
	MessageInvalid MessageType = iota

	// MessageMethodCall 方法调用
	MessageMethodCall

	// MessageMethodReturn 方法返回
	MessageMethodReturn

	// MessageError 错误回复
	MessageError

	// MessageSignal 信号
	MessageSignal
)

func (t MessageType) String() string {
	switch t {
	case MessageMethodCall:
		return "method_call"
	case MessageMethodReturn:
		return "method_return"
	case MessageError:
		return "error"
	case MessageSignal:
		return "signal"
	default:
		return "invalid"
	}
}

// Message 协议消息
//
// 本层只处理已解码的消息对象，参数以 Variant 列表承载；
// 线上编组由传输层负责（见 internal/transport）。
type Message struct {
	// Type 消息类型
	Type MessageType

	// Serial 消息序列号（uuid）
	Serial string

	// ReplySerial 被回复消息的序列号（回复与错误消息使用）
	ReplySerial string

	// Path 目标对象路径（方法调用与信号使用）
	Path ObjectPath

	// Interface 接口名
	Interface string

	// Member 成员名（方法名或信号名）
	Member string

	// ErrorName 协议级错误名（错误消息使用）
	ErrorName string

	// Sender 发送方标识
	Sender string

	// Destination 接收方标识
	Destination string

	// Body 参数列表
	Body []Variant

	// Timestamp 传输层收到消息的时间
	Timestamp time.Time
}

// NewMethodCall 创建方法调用消息
func NewMethodCall(dest string, path ObjectPath, iface, member string, body ...Variant) *Message {
	return &Message{
		Type:        MessageMethodCall,
		Serial:      uuid.New().String(),
		Destination: dest,
		Path:        path,
		Interface:   iface,
		Member:      member,
		Body:        body,
	}
}

// NewSignal 创建信号消息
func NewSignal(path ObjectPath, iface, member string, body ...Variant) *Message {
	return &Message{
		Type:      MessageSignal,
		Serial:    uuid.New().String(),
		Path:      path,
		Interface: iface,
		Member:    member,
		Body:      body,
	}
}

// MethodReturn 创建针对本消息的成功回复
//
// 回复消息的 ReplySerial 指向本消息，收发方对调。
func (m *Message) MethodReturn(body ...Variant) *Message {
	return &Message{
		Type:        MessageMethodReturn,
		Serial:      uuid.New().String(),
		ReplySerial: m.Serial,
		Sender:      m.Destination,
		Destination: m.Sender,
		Body:        body,
	}
}

// ErrorReply 创建针对本消息的错误回复
//
// name 为协议级错误名，desc 为人类可读描述（作为第一个参数携带）。
func (m *Message) ErrorReply(name, desc string) *Message {
	return &Message{
		Type:        MessageError,
		Serial:      uuid.New().String(),
		ReplySerial: m.Serial,
		ErrorName:   name,
		Sender:      m.Destination,
		Destination: m.Sender,
		Body:        []Variant{NewVariant(desc)},
	}
}

// Append 追加参数并返回消息自身
func (m *Message) Append(body ...Variant) *Message {
	m.Body = append(m.Body, body...)
	return m
}

// Arg 返回第 i 个参数
func (m *Message) Arg(i int) (Variant, bool) {
	if i < 0 || i >= len(m.Body) {
		return Variant{}, false
	}
	return m.Body[i], true
}

// StringArg 返回第 i 个参数的字符串值
//
// 参数缺失或不是字符串时 ok 为 false。
func (m *Message) StringArg(i int) (string, bool) {
	v, ok := m.Arg(i)
	if !ok {
		return "", false
	}
	s, ok := v.Value().(string)
	return s, ok
}
