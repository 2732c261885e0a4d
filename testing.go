package objbus

import (
	"fmt"
	"sync"

	"github.com/dep2p/go-objbus/pkg/interfaces"
	"github.com/dep2p/go-objbus/pkg/types"
)

// fakeConn 测试用连接实现
//
// 记录注册路径与发出的消息；failOn 中的路径在注册时返回错误，
// 用于验证注册回滚。
type fakeConn struct {
	mu         sync.Mutex
	registered map[types.ObjectPath]bool
	sent       []*types.Message
	failOn     map[types.ObjectPath]error
	sendErr    error
}

var _ interfaces.Connection = (*fakeConn)(nil)

func newFakeConn() *fakeConn {
	return &fakeConn{
		registered: make(map[types.ObjectPath]bool),
		failOn:     make(map[types.ObjectPath]error),
	}
}

func (c *fakeConn) RegisterPath(path types.ObjectPath) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err, ok := c.failOn[path]; ok {
		return err
	}
	if c.registered[path] {
		return fmt.Errorf("fakeconn: path %q already registered", path)
	}
	c.registered[path] = true
	return nil
}

func (c *fakeConn) UnregisterPath(path types.ObjectPath) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.registered, path)
}

func (c *fakeConn) Send(m *types.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sendErr != nil {
		return c.sendErr
	}
	c.sent = append(c.sent, m)
	return nil
}

func (c *fakeConn) registeredPaths() []types.ObjectPath {
	c.mu.Lock()
	defer c.mu.Unlock()
	paths := make([]types.ObjectPath, 0, len(c.registered))
	for p := range c.registered {
		paths = append(paths, p)
	}
	return paths
}

func (c *fakeConn) sentMessages() []*types.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*types.Message, len(c.sent))
	copy(out, c.sent)
	return out
}

// sliceEvents 按序弹出固定事件序列的事件源
type sliceEvents struct {
	events []types.Event
	next   int
}

var _ interfaces.EventSource = (*sliceEvents)(nil)

func (s *sliceEvents) Next() (types.Event, bool) {
	if s.next >= len(s.events) {
		return types.Event{}, false
	}
	ev := s.events[s.next]
	s.next++
	return ev, true
}
