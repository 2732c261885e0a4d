package netconn

import (
	"bufio"
	"errors"
	"io"
	"net"
	"sync"

	"github.com/benbjohnson/clock"

	"github.com/dep2p/go-objbus/pkg/interfaces"
	"github.com/dep2p/go-objbus/pkg/lib/log"
	"github.com/dep2p/go-objbus/pkg/types"
)

var logger = log.Logger("transport/netconn")

// Conn 字节流连接上的消息端点
//
// 写路径由互斥锁串行化，帧不会交错；读路径由独立的读循环驱动，
// 解码出的消息进入事件缓冲。连接断开时事件序列以一个断开事件
// 收尾后结束。
type Conn struct {
	raw   net.Conn
	codec *Codec
	clk   clock.Clock

	writeMu sync.Mutex
	w       *bufio.Writer

	mu         sync.Mutex
	registered map[types.ObjectPath]struct{}
	closed     bool

	events chan types.Event
}

var (
	_ interfaces.Connection  = (*Conn)(nil)
	_ interfaces.EventSource = (*Conn)(nil)
)

// New 包装一条已建立的字节流连接
//
// 立即启动读循环；两端必须使用相同的压缩配置。
func New(raw net.Conn, opts ...Option) *Conn {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	c := &Conn{
		raw:        raw,
		codec:      NewCodec(opts...),
		clk:        cfg.Clock,
		w:          bufio.NewWriter(raw),
		registered: make(map[types.ObjectPath]struct{}),
		events:     make(chan types.Event, cfg.BufferSize),
	}
	go c.readLoop()
	return c
}

// RegisterPath 注册对象路径
func (c *Conn) RegisterPath(path types.ObjectPath) error {
	if !path.IsValid() {
		return ErrInvalidPath
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if _, ok := c.registered[path]; ok {
		return ErrPathExists
	}
	c.registered[path] = struct{}{}
	return nil
}

// UnregisterPath 注销对象路径（未注册时为空操作）
func (c *Conn) UnregisterPath(path types.ObjectPath) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.registered, path)
}

// Send 编码并发送消息
func (c *Conn) Send(m *types.Message) error {
	if m == nil {
		return ErrNilMessage
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.mu.Unlock()

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := c.codec.WriteMessage(c.w, m); err != nil {
		return err
	}
	return c.w.Flush()
}

// Next 取出下一个入站事件
//
// 连接关闭且缓冲排空后 ok 为 false。
func (c *Conn) Next() (types.Event, bool) {
	ev, ok := <-c.events
	if !ok {
		return types.Event{}, false
	}
	return ev, true
}

// Close 关闭连接
//
// 读循环随底层连接关闭而退出。重复关闭返回 ErrClosed。
func (c *Conn) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.closed = true
	c.mu.Unlock()

	return c.raw.Close()
}

// readLoop 读循环
//
// 逐帧解码并投递事件；读错误即视为连接结束，正常对端关闭不告警。
func (c *Conn) readLoop() {
	defer close(c.events)

	r := bufio.NewReader(c.raw)
	for {
		m, err := c.codec.ReadMessage(r)
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, net.ErrClosed) && !errors.Is(err, io.ErrClosedPipe) {
				logger.Warn("读取消息失败，连接结束", "error", err)
			}
			// 无人消费时不阻塞收尾
			select {
			case c.events <- types.Event{Kind: types.EventDisconnected}:
			default:
			}
			return
		}
		m.Timestamp = c.clk.Now()
		c.events <- types.EventFromMessage(m)
	}
}
