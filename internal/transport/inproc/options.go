package inproc

import "github.com/benbjohnson/clock"

// Config 端点对配置
type Config struct {
	// BufferSize 每个端点的接收缓冲大小
	BufferSize int

	// Clock 消息时间戳时钟（测试注入 mock 时钟）
	Clock clock.Clock
}

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		BufferSize: 16,
		Clock:      clock.New(),
	}
}

// Option 配置选项函数
type Option func(*Config)

// WithBufferSize 设置接收缓冲大小
func WithBufferSize(size int) Option {
	return func(c *Config) {
		c.BufferSize = size
	}
}

// WithClock 设置时间戳时钟
func WithClock(clk clock.Clock) Option {
	return func(c *Config) {
		c.Clock = clk
	}
}
