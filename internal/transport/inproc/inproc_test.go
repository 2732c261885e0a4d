package inproc

import (
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	objbus "github.com/dep2p/go-objbus"
	"github.com/dep2p/go-objbus/pkg/types"
)

// TestPair_SendReceive 测试双端收发
func TestPair_SendReceive(t *testing.T) {
	a, b := Pair()
	defer a.Close()
	defer b.Close()

	m := types.NewMethodCall("server", "/svc", "com.example.x", "Ping")
	require.NoError(t, a.Send(m))

	ev, ok := b.Next()
	require.True(t, ok)
	assert.Equal(t, types.EventMethodCall, ev.Kind)
	assert.Same(t, m, ev.Msg)
}

// TestSend_Timestamp 测试发送时盖接收时间戳
func TestSend_Timestamp(t *testing.T) {
	mock := clock.NewMock()
	mock.Set(time.Unix(1700000000, 0))

	a, b := Pair(WithClock(mock))
	defer a.Close()
	defer b.Close()

	m := types.NewSignal("/svc", "com.example.x", "Tick")
	require.NoError(t, a.Send(m))

	ev, _ := b.Next()
	assert.Equal(t, mock.Now(), ev.Msg.Timestamp)
}

// TestRegisterPath 测试路径注册规则
func TestRegisterPath(t *testing.T) {
	a, b := Pair()
	defer a.Close()
	defer b.Close()

	require.NoError(t, a.RegisterPath("/svc"))
	assert.True(t, a.Registered("/svc"))

	assert.ErrorIs(t, a.RegisterPath("/svc"), ErrPathExists)
	assert.ErrorIs(t, a.RegisterPath("not/absolute"), ErrInvalidPath)

	a.UnregisterPath("/svc")
	assert.False(t, a.Registered("/svc"))
	require.NoError(t, a.RegisterPath("/svc"))
}

// TestClose 测试关闭语义
func TestClose(t *testing.T) {
	a, b := Pair()

	require.NoError(t, a.Close())
	assert.ErrorIs(t, a.Close(), ErrClosed)
	assert.ErrorIs(t, a.Send(types.NewSignal("/x", "i", "m")), ErrClosed)
	assert.ErrorIs(t, a.RegisterPath("/x"), ErrClosed)

	// 对端收到断开事件
	ev, ok := b.Next()
	require.True(t, ok)
	assert.Equal(t, types.EventDisconnected, ev.Kind)

	// 本端事件序列结束
	_, ok = a.Next()
	assert.False(t, ok)
}

// TestSend_InboxFull 测试缓冲满时立即报错
func TestSend_InboxFull(t *testing.T) {
	a, b := Pair(WithBufferSize(1))
	defer a.Close()
	defer b.Close()

	require.NoError(t, a.Send(types.NewSignal("/x", "i", "m")))
	assert.ErrorIs(t, a.Send(types.NewSignal("/x", "i", "m")), ErrInboxFull)
}

// TestEndToEndDispatch 测试经由对象树的端到端调度
func TestEndToEndDispatch(t *testing.T) {
	f := objbus.NewFactory[any]()
	n := f.Node("/echo", nil).Add(f.Interface("com.example.echo", nil).
		AddMethod(f.Method("Echo", nil, func(mi *objbus.MethodInfo[any]) ([]*types.Message, *objbus.MethodErr) {
			s, ok := mi.Msg.StringArg(0)
			if !ok {
				return nil, objbus.InvalidArgument(0)
			}
			return []*types.Message{mi.Msg.MethodReturn(types.NewVariant(s))}, nil
		})))
	tree := f.Tree().Add(n)

	client, server := Pair()
	require.NoError(t, tree.SetRegistered(server, true))

	srv := tree.Serve(server, server)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, ok := srv.Next(); !ok {
				return
			}
		}
	}()

	call := types.NewMethodCall("server", "/echo", "com.example.echo", "Echo",
		types.NewVariant("hello"))
	require.NoError(t, client.Send(call))

	ev, ok := client.Next()
	require.True(t, ok)
	assert.Equal(t, types.EventMethodReturn, ev.Kind)
	assert.Equal(t, call.Serial, ev.Msg.ReplySerial)
	s, _ := ev.Msg.StringArg(0)
	assert.Equal(t, "hello", s)

	require.NoError(t, client.Close())
	require.NoError(t, server.Close())
	<-done
}
