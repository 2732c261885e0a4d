package objbus

import "errors"

// 错误定义
var (
	// ErrNilConnection 连接为 nil
	ErrNilConnection = errors.New("objbus: connection is nil")

	// ErrInvalidPath 对象路径不合法
	ErrInvalidPath = errors.New("objbus: invalid object path")
)
