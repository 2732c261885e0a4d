package netconn

import "errors"

// 错误定义
var (
	// ErrClosed 连接已关闭
	ErrClosed = errors.New("netconn: connection closed")

	// ErrPathExists 对象路径已注册
	ErrPathExists = errors.New("netconn: path already registered")

	// ErrInvalidPath 对象路径不合法
	ErrInvalidPath = errors.New("netconn: invalid object path")

	// ErrNilMessage 消息为 nil
	ErrNilMessage = errors.New("netconn: message is nil")

	// ErrFrameTooLarge 帧超出大小上限
	ErrFrameTooLarge = errors.New("netconn: frame exceeds size limit")

	// ErrBadFrame 帧格式损坏
	ErrBadFrame = errors.New("netconn: malformed frame")
)
