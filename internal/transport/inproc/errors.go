package inproc

import "errors"

// 错误定义
var (
	// ErrClosed 端点已关闭
	ErrClosed = errors.New("inproc: endpoint closed")

	// ErrPathExists 对象路径已注册
	ErrPathExists = errors.New("inproc: path already registered")

	// ErrInvalidPath 对象路径不合法
	ErrInvalidPath = errors.New("inproc: invalid object path")

	// ErrInboxFull 对端接收缓冲已满
	ErrInboxFull = errors.New("inproc: peer inbox full")

	// ErrNilMessage 消息为 nil
	ErrNilMessage = errors.New("inproc: message is nil")
)
