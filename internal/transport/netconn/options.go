package netconn

import "github.com/benbjohnson/clock"

// Config 连接配置
type Config struct {
	// Compress 是否对帧负载做 s2 压缩
	Compress bool

	// MaxFrameSize 单帧负载大小上限（字节）
	MaxFrameSize int

	// BufferSize 入站事件缓冲大小
	BufferSize int

	// Clock 消息时间戳时钟
	Clock clock.Clock
}

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		Compress:     false,
		MaxFrameSize: 1 << 20, // 1 MiB
		BufferSize:   16,
		Clock:        clock.New(),
	}
}

// Option 配置选项函数
type Option func(*Config)

// WithCompression 启用帧负载压缩
func WithCompression() Option {
	return func(c *Config) {
		c.Compress = true
	}
}

// WithMaxFrameSize 设置单帧负载大小上限
func WithMaxFrameSize(n int) Option {
	return func(c *Config) {
		c.MaxFrameSize = n
	}
}

// WithBufferSize 设置入站事件缓冲大小
func WithBufferSize(n int) Option {
	return func(c *Config) {
		c.BufferSize = n
	}
}

// WithClock 设置时间戳时钟
func WithClock(clk clock.Clock) Option {
	return func(c *Config) {
		c.Clock = clk
	}
}
