package inproc

import (
	"sync"

	"github.com/benbjohnson/clock"

	"github.com/dep2p/go-objbus/pkg/interfaces"
	"github.com/dep2p/go-objbus/pkg/lib/log"
	"github.com/dep2p/go-objbus/pkg/types"
)

var logger = log.Logger("transport/inproc")

// Endpoint 进程内传输端点
//
// 同时实现连接（发送、路径注册）与事件源（接收）两个角色。
// Send 为消息盖上接收时间戳并投递到对端的接收缓冲；缓冲满时
// 立即报错而不阻塞，端点关闭后收发都返回 ErrClosed。
type Endpoint struct {
	peer *Endpoint
	clk  clock.Clock

	mu         sync.Mutex
	registered map[types.ObjectPath]struct{}
	inbox      chan types.Event
	closed     bool
}

var (
	_ interfaces.Connection  = (*Endpoint)(nil)
	_ interfaces.EventSource = (*Endpoint)(nil)
)

// Pair 创建一对互联的端点
func Pair(opts ...Option) (*Endpoint, *Endpoint) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	a := newEndpoint(cfg)
	b := newEndpoint(cfg)
	a.peer, b.peer = b, a
	return a, b
}

func newEndpoint(cfg *Config) *Endpoint {
	return &Endpoint{
		clk:        cfg.Clock,
		registered: make(map[types.ObjectPath]struct{}),
		inbox:      make(chan types.Event, cfg.BufferSize),
	}
}

// RegisterPath 注册对象路径
//
// 路径不合法或已注册时返回错误。
func (e *Endpoint) RegisterPath(path types.ObjectPath) error {
	if !path.IsValid() {
		return ErrInvalidPath
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	if _, ok := e.registered[path]; ok {
		return ErrPathExists
	}
	e.registered[path] = struct{}{}
	return nil
}

// UnregisterPath 注销对象路径（未注册时为空操作）
func (e *Endpoint) UnregisterPath(path types.ObjectPath) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.registered, path)
}

// Registered 报告路径是否已注册
func (e *Endpoint) Registered(path types.ObjectPath) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.registered[path]
	return ok
}

// Send 把消息投递给对端
func (e *Endpoint) Send(m *types.Message) error {
	if m == nil {
		return ErrNilMessage
	}

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrClosed
	}
	e.mu.Unlock()

	m.Timestamp = e.clk.Now()
	return e.peer.deliver(types.EventFromMessage(m))
}

// Next 取出下一个入站事件
//
// 端点关闭且缓冲排空后 ok 为 false。
func (e *Endpoint) Next() (types.Event, bool) {
	ev, ok := <-e.inbox
	if !ok {
		return types.Event{}, false
	}
	return ev, true
}

// Close 关闭端点
//
// 本端的事件序列在残留事件排空后结束；对端收到一个断开事件。
// 重复关闭返回 ErrClosed。
func (e *Endpoint) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrClosed
	}
	e.closed = true
	close(e.inbox)
	e.mu.Unlock()

	// 对端可能已先行关闭，投递失败不算错误
	if err := e.peer.deliver(types.Event{Kind: types.EventDisconnected}); err != nil {
		logger.Debug("断开事件投递失败", "error", err)
	}
	return nil
}

// deliver 投递事件到本端接收缓冲
func (e *Endpoint) deliver(ev types.Event) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	select {
	case e.inbox <- ev:
		return nil
	default:
		return ErrInboxFull
	}
}
