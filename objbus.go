package objbus

import (
	"fmt"

	"github.com/dep2p/go-objbus/pkg/types"
)

// Factory 对象模型构造工厂
//
// 工厂持有共享的接口缓存与树配置；同一个工厂创建的所有节点
// 复用同一批内置接口描述符（自省、属性子协议各只分配一次）。
// 类型参数 D 是整棵树统一的不透明用户数据类型，不需要携带
// 数据时用 any 并传 nil 即可。
type Factory[D any] struct {
	cache *Cache[D]
	opts  []Option
}

// NewFactory 创建工厂
func NewFactory[D any](opts ...Option) *Factory[D] {
	return &Factory[D]{
		cache: NewCache[D](),
		opts:  opts,
	}
}

// Cache 返回工厂持有的共享接口缓存
func (f *Factory[D]) Cache() *Cache[D] { return f.cache }

// Tree 创建对象树
func (f *Factory[D]) Tree() *Tree[D] {
	return NewTree[D](f.opts...)
}

// Node 创建节点
//
// 路径不合法时 panic（构建期编程错误，与 regexp.MustCompile 同理）。
func (f *Factory[D]) Node(path types.ObjectPath, data D) *Node[D] {
	if !path.IsValid() {
		panic(fmt.Sprintf("%v: %q", ErrInvalidPath, path))
	}
	return NewNode(path, data, f.cache)
}

// Interface 创建接口描述符
func (f *Factory[D]) Interface(name string, data D) *Interface[D] {
	return NewInterface(name, data)
}

// Method 创建方法描述符
func (f *Factory[D]) Method(name string, data D, handler HandlerFunc[D]) *Method[D] {
	return NewMethod(name, data, handler)
}

// Property 创建属性描述符（签名由初始值推断，默认只读）
func (f *Factory[D]) Property(name string, initial any, data D) *Property[D] {
	return NewProperty(name, initial, data)
}

// Signal 创建信号描述符
func (f *Factory[D]) Signal(name string, data D) *Signal[D] {
	return NewSignal(name, data)
}
