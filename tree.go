package objbus

import (
	"sort"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/dep2p/go-objbus/pkg/interfaces"
	"github.com/dep2p/go-objbus/pkg/lib/log"
	"github.com/dep2p/go-objbus/pkg/types"
)

var logger = log.Logger("objbus/tree")

// Tree 对象路径到节点的集合，消息调度的唯一入口
//
// 树的构建（Add/Remove）与读多写少的调度阶段是两个独立阶段：
// 构建完成后树在调度期间只读，查找无需加锁。自省文档按路径
// 缓存在 LRU 中，任何树结构变更都会清空缓存。
type Tree[D any] struct {
	paths      map[types.ObjectPath]*Node[D]
	introCache *lru.Cache[types.ObjectPath, string]
	metrics    *dispatchMetrics
}

// NewTree 创建对象树
func NewTree[D any](opts ...Option) *Tree[D] {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	t := &Tree[D]{
		paths: make(map[types.ObjectPath]*Node[D]),
	}
	if cfg.IntrospectionCacheSize > 0 {
		// 大小为正时 lru.New 不会失败
		t.introCache, _ = lru.New[types.ObjectPath, string](cfg.IntrospectionCacheSize)
	}
	if cfg.Registerer != nil {
		t.metrics = newDispatchMetrics(cfg.Registerer)
	}
	return t
}

// Add 插入节点并返回树自身
//
// 同路径的重复插入会静默覆盖。插入不与传输层交互：树已注册时
// 调用方需要自行注册新路径。
func (t *Tree[D]) Add(n *Node[D]) *Tree[D] {
	t.paths[n.path] = n
	t.invalidate()
	return t
}

// Remove 按路径移除节点
//
// 返回被移除的节点，不存在时返回 nil。移除同样不与传输层交互，
// 注销路径是调用方的独立步骤。
func (t *Tree[D]) Remove(p types.ObjectPath) *Node[D] {
	n, ok := t.paths[p]
	if !ok {
		return nil
	}
	delete(t.paths, p)
	t.invalidate()
	return n
}

// Node 按路径查找节点
func (t *Tree[D]) Node(p types.ObjectPath) *Node[D] {
	return t.paths[p]
}

// Len 返回树中的节点数量
func (t *Tree[D]) Len() int { return len(t.paths) }

// SetRegistered 批量注册或注销树中全部对象路径
//
// 启用时按路径顺序逐个注册；任何一次注册失败都会把本次调用中
// 已注册的路径按逆序回滚注销，并返回原始错误。禁用时逐个注销，
// 不关心单次注销的结果。
func (t *Tree[D]) SetRegistered(conn interfaces.Connection, enable bool) error {
	if conn == nil {
		return ErrNilConnection
	}

	if !enable {
		for _, p := range t.sortedPaths() {
			conn.UnregisterPath(p)
		}
		logger.Info("对象路径已全部注销", "count", len(t.paths))
		return nil
	}

	registered := make([]types.ObjectPath, 0, len(t.paths))
	for _, p := range t.sortedPaths() {
		if err := conn.RegisterPath(p); err != nil {
			logger.Warn("路径注册失败，回滚本次已注册路径",
				"path", p, "registered", len(registered), "error", err)
			for i := len(registered) - 1; i >= 0; i-- {
				conn.UnregisterPath(registered[i])
			}
			return err
		}
		registered = append(registered, p)
	}
	logger.Info("对象路径已全部注册", "count", len(registered))
	return nil
}

// Dispatch 调度一条入站消息
//
// 消息不是方法调用、或目标路径不在树中时返回 (nil, false)，表示
// "不归我管"，不是错误。命中节点后委托给 Node.Handle；结构化错误
// 在这里统一转换为一条回给调用方的协议错误回复。
func (t *Tree[D]) Dispatch(m *types.Message) ([]*types.Message, bool) {
	if m == nil || m.Type != types.MessageMethodCall {
		return nil, false
	}
	n, ok := t.paths[m.Path]
	if !ok {
		t.metrics.miss()
		return nil, false
	}

	start := time.Now()
	replies, merr := n.Handle(m, t)
	if merr != nil {
		logger.Debug("方法调用失败",
			"path", m.Path, "interface", m.Interface, "member", m.Member, "error", merr)
		t.metrics.failure(time.Since(start))
		return []*types.Message{m.ErrorReply(merr.ErrorName(), merr.Description())}, true
	}
	t.metrics.success(time.Since(start))
	return replies, true
}

// Children 返回节点的子节点视图
//
// directOnly 为 true 时只返回直接子节点，否则返回全部后代。
// 结果按路径排序。
func (t *Tree[D]) Children(n *Node[D], directOnly bool) []*Node[D] {
	var out []*Node[D]
	for _, p := range t.sortedPaths() {
		suffix, ok := types.ChildSuffix(n.path, p)
		if !ok {
			continue
		}
		if directOnly && strings.Contains(suffix, "/") {
			continue
		}
		out = append(out, t.paths[p])
	}
	return out
}

// Introspection 返回节点自省文档（带缓存）
//
// 文档按节点路径缓存；树结构变更时整体失效。
func (t *Tree[D]) Introspection(n *Node[D]) string {
	if t == nil {
		return n.Introspect(nil)
	}
	if t.introCache != nil {
		if doc, ok := t.introCache.Get(n.path); ok {
			return doc
		}
	}
	doc := n.Introspect(t)
	if t.introCache != nil {
		t.introCache.Add(n.path, doc)
	}
	return doc
}

// Serve 创建调度适配器
//
// 适配器拦截并处理命中本树的方法调用事件，其余事件透传。
func (t *Tree[D]) Serve(conn interfaces.Connection, src interfaces.EventSource) *Server[D] {
	return &Server[D]{tree: t, conn: conn, src: src}
}

func (t *Tree[D]) invalidate() {
	if t.introCache != nil {
		t.introCache.Purge()
	}
}

func (t *Tree[D]) sortedPaths() []types.ObjectPath {
	paths := make([]types.ObjectPath, 0, len(t.paths))
	for p := range t.paths {
		paths = append(paths, p)
	}
	sort.Slice(paths, func(i, j int) bool { return paths[i] < paths[j] })
	return paths
}
