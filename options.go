package objbus

import "github.com/prometheus/client_golang/prometheus"

// Config 对象树配置
type Config struct {
	// IntrospectionCacheSize 自省文档 LRU 缓存容量
	//
	// 为 0 时禁用缓存，每次自省都重新渲染。
	IntrospectionCacheSize int

	// Registerer 调度指标注册器
	//
	// 为 nil 时不采集指标。
	Registerer prometheus.Registerer
}

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		IntrospectionCacheSize: 128,
	}
}

// Option 配置选项函数
type Option func(*Config)

// WithIntrospectionCacheSize 设置自省文档缓存容量
func WithIntrospectionCacheSize(size int) Option {
	return func(c *Config) {
		c.IntrospectionCacheSize = size
	}
}

// WithMetrics 启用调度指标并指定注册器
func WithMetrics(reg prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registerer = reg
	}
}
