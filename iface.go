package objbus

// Interface 节点暴露的一组命名成员（方法、属性、信号）
//
// 通过建造者方法链式构造；放入 Cache 或添加到 Node 之后视为不可变，
// 调度阶段只读，无需加锁。同名成员的重复添加会静默覆盖前一个条目
// （后写者胜，保留原实现行为，未做唯一性校验）。
type Interface[D any] struct {
	name       string
	methods    map[string]*Method[D]
	properties map[string]*Property[D]
	signals    map[string]*Signal[D]
	anns       annotations
	data       D
}

// NewInterface 创建接口描述符
func NewInterface[D any](name string, data D) *Interface[D] {
	return &Interface[D]{
		name:       name,
		methods:    make(map[string]*Method[D]),
		properties: make(map[string]*Property[D]),
		signals:    make(map[string]*Signal[D]),
		anns:       make(annotations),
		data:       data,
	}
}

// AddMethod 添加方法并返回接口自身
func (i *Interface[D]) AddMethod(m *Method[D]) *Interface[D] {
	i.methods[m.name] = m
	return i
}

// AddSignal 添加信号并返回接口自身
func (i *Interface[D]) AddSignal(s *Signal[D]) *Interface[D] {
	i.signals[s.name] = s
	return i
}

// AddProperty 添加属性并返回接口自身
func (i *Interface[D]) AddProperty(p *Property[D]) *Interface[D] {
	i.properties[p.name] = p
	return i
}

// Annotate 添加注解并返回接口自身
func (i *Interface[D]) Annotate(name, value string) *Interface[D] {
	i.anns.set(name, value)
	return i
}

// Deprecated 标记本接口已弃用
func (i *Interface[D]) Deprecated() *Interface[D] {
	return i.Annotate(deprecatedAnnotation, "true")
}

// Name 返回接口名
func (i *Interface[D]) Name() string { return i.name }

// Data 返回关联的用户数据
func (i *Interface[D]) Data() D { return i.data }

// Method 按名称查找方法
func (i *Interface[D]) Method(name string) (*Method[D], bool) {
	m, ok := i.methods[name]
	return m, ok
}

// Property 按名称查找属性
func (i *Interface[D]) Property(name string) (*Property[D], bool) {
	p, ok := i.properties[name]
	return p, ok
}

// Signal 按名称查找信号
func (i *Interface[D]) Signal(name string) (*Signal[D], bool) {
	s, ok := i.signals[name]
	return s, ok
}

func (i *Interface[D]) xmlName() string { return "interface" }

func (i *Interface[D]) xmlParams() string { return "" }

// xmlContents 按方法、属性、信号、注解的顺序渲染子元素
func (i *Interface[D]) xmlContents() string {
	return introspectMap(i.methods, "    ") +
		introspectMap(i.properties, "    ") +
		introspectMap(i.signals, "    ") +
		i.anns.introspect("    ")
}
