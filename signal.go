package objbus

import "github.com/dep2p/go-objbus/pkg/types"

// Signal 信号描述符
//
// 仅承载签名元数据，用于自省文档与信号消息的构造；
// 本层不负责信号的投递。
type Signal[D any] struct {
	name string
	args []Argument
	anns annotations
	data D
}

// NewSignal 创建信号描述符
func NewSignal[D any](name string, data D) *Signal[D] {
	return &Signal[D]{
		name: name,
		anns: make(annotations),
		data: data,
	}
}

// Arg 追加一个参数并返回信号自身
func (s *Signal[D]) Arg(name string, sig types.Signature) *Signal[D] {
	s.args = append(s.args, Argument{Name: name, Type: sig})
	return s
}

// Annotate 添加注解并返回信号自身
func (s *Signal[D]) Annotate(name, value string) *Signal[D] {
	s.anns.set(name, value)
	return s
}

// Deprecated 标记本信号已弃用
func (s *Signal[D]) Deprecated() *Signal[D] {
	return s.Annotate(deprecatedAnnotation, "true")
}

// Name 返回信号名
func (s *Signal[D]) Name() string { return s.name }

// Data 返回关联的用户数据
func (s *Signal[D]) Data() D { return s.data }

// Msg 构造一条本信号的发射消息
//
// iface 为信号所属接口名（描述符本身不持有所属接口的引用）。
func (s *Signal[D]) Msg(path types.ObjectPath, iface string, body ...types.Variant) *types.Message {
	return types.NewSignal(path, iface, s.name, body...)
}

func (s *Signal[D]) xmlName() string { return "signal" }

func (s *Signal[D]) xmlParams() string { return "" }

func (s *Signal[D]) xmlContents() string {
	return introspectArgs(s.args, "      ") +
		s.anns.introspect("      ")
}
