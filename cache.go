package objbus

import "sync"

// Cache 内置接口描述符缓存
//
// 很多节点会共享同一批内置接口（自省、属性子协议）；缓存按名称
// 惰性构建并复用同一个描述符实例，节点数量增长时内存开销有界。
type Cache[D any] struct {
	mu     sync.Mutex
	ifaces map[string]*Interface[D]
}

// NewCache 创建接口缓存
func NewCache[D any]() *Cache[D] {
	return &Cache[D]{
		ifaces: make(map[string]*Interface[D]),
	}
}

// GetOrBuild 返回 name 对应的共享描述符
//
// 不存在时以零值用户数据创建接口并调用 build 填充成员。构建与插入
// 在同一个临界区内完成：并发首次访问同一名称时最多只有一次构建，
// 其余调用方拿到胜者的实例。临界区内只执行 build 闭包本身，
// 不会调用任何其他用户处理器代码。
func (c *Cache[D]) GetOrBuild(name string, build func(*Interface[D]) *Interface[D]) *Interface[D] {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i, ok := c.ifaces[name]; ok {
		return i
	}

	var zero D
	i := build(NewInterface[D](name, zero))
	c.ifaces[name] = i
	return i
}

// Len 返回缓存中的接口数量
func (c *Cache[D]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.ifaces)
}
