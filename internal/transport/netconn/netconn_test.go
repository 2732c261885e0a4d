package netconn

import (
	"bytes"
	"math"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	objbus "github.com/dep2p/go-objbus"
	"github.com/dep2p/go-objbus/pkg/types"
)

// TestCodec_RoundTrip 测试消息编解码保留类型信息
func TestCodec_RoundTrip(t *testing.T) {
	codec := NewCodec()

	m := types.NewMethodCall("server", "/svc", "com.example.x", "Configure",
		types.NewVariant("name"),
		types.NewVariant(int32(-7)),
		types.NewVariant(true),
		types.NewVariant(3.5),
		types.NewVariant([]string{"a", "b"}),
		types.NewVariant([]byte{0x01, 0x02}),
		types.NewVariant(types.ObjectPath("/other")),
		types.NewVariant(types.NewVariant(uint64(42))),
		types.NewVariantSig(types.SignaturePropMap, map[string]types.Variant{
			"Count": types.NewVariant(int32(9)),
		}),
	)
	m.Sender = "client"

	data, err := codec.Encode(m)
	require.NoError(t, err)

	got, err := codec.Decode(data)
	require.NoError(t, err)

	assert.Equal(t, m.Type, got.Type)
	assert.Equal(t, m.Serial, got.Serial)
	assert.Equal(t, m.Path, got.Path)
	assert.Equal(t, m.Interface, got.Interface)
	assert.Equal(t, m.Member, got.Member)
	assert.Equal(t, m.Sender, got.Sender)
	assert.Equal(t, m.Destination, got.Destination)
	require.Len(t, got.Body, len(m.Body))

	assert.Equal(t, "name", got.Body[0].Value())
	assert.Equal(t, int32(-7), got.Body[1].Value())
	assert.Equal(t, true, got.Body[2].Value())
	assert.Equal(t, 3.5, got.Body[3].Value())
	assert.Equal(t, []string{"a", "b"}, got.Body[4].Value())
	assert.Equal(t, []byte{0x01, 0x02}, got.Body[5].Value())
	assert.Equal(t, types.ObjectPath("/other"), got.Body[6].Value())

	inner, ok := got.Body[7].Value().(types.Variant)
	require.True(t, ok)
	assert.Equal(t, uint64(42), inner.Value())

	props, ok := got.Body[8].Value().(map[string]types.Variant)
	require.True(t, ok)
	assert.Equal(t, int32(9), props["Count"].Value())
}

// TestCodec_RoundTrip_Int64Exact 测试超出 float64 精确范围的 64 位整数精确往返
func TestCodec_RoundTrip_Int64Exact(t *testing.T) {
	codec := NewCodec()

	m := types.NewSignal("/svc", "com.example.x", "Counted",
		types.NewVariant(uint64(1<<60+1)),
		types.NewVariant(int64(-(1<<60)-1)),
		types.NewVariant(uint64(math.MaxUint64)),
		types.NewVariant(int64(math.MinInt64)),
	)

	data, err := codec.Encode(m)
	require.NoError(t, err)
	got, err := codec.Decode(data)
	require.NoError(t, err)
	require.Len(t, got.Body, 4)

	assert.Equal(t, uint64(1152921504606846977), got.Body[0].Value())
	assert.Equal(t, int64(-1152921504606846977), got.Body[1].Value())
	assert.Equal(t, uint64(math.MaxUint64), got.Body[2].Value())
	assert.Equal(t, int64(math.MinInt64), got.Body[3].Value())
}

// TestCodec_Decode_BadFrame 测试字段类型不符的帧被拒绝
func TestCodec_Decode_BadFrame(t *testing.T) {
	codec := NewCodec()

	encode := func(t *testing.T, fields map[string]any) []byte {
		t.Helper()
		st, err := structpb.NewStruct(fields)
		require.NoError(t, err)
		data, err := proto.Marshal(st)
		require.NoError(t, err)
		return data
	}

	valid := map[string]any{
		"type": float64(types.MessageSignal), "serial": "1", "reply_serial": "",
		"path": "/svc", "interface": "com.example.x", "member": "Tick",
		"error_name": "", "sender": "", "destination": "",
	}

	t.Run("TypeNotNumber", func(t *testing.T) {
		fields := map[string]any{}
		for k, v := range valid {
			fields[k] = v
		}
		fields["type"] = "signal"
		_, err := codec.Decode(encode(t, fields))
		assert.ErrorIs(t, err, ErrBadFrame)
	})

	t.Run("SerialNotString", func(t *testing.T) {
		fields := map[string]any{}
		for k, v := range valid {
			fields[k] = v
		}
		fields["serial"] = float64(1)
		_, err := codec.Decode(encode(t, fields))
		assert.ErrorIs(t, err, ErrBadFrame)
	})

	t.Run("VariantValWrongType", func(t *testing.T) {
		fields := map[string]any{}
		for k, v := range valid {
			fields[k] = v
		}
		fields["body"] = []any{map[string]any{"sig": "t", "val": float64(42)}}
		_, err := codec.Decode(encode(t, fields))
		assert.ErrorIs(t, err, ErrBadFrame)
	})

	t.Run("Int64NotDecimal", func(t *testing.T) {
		fields := map[string]any{}
		for k, v := range valid {
			fields[k] = v
		}
		fields["body"] = []any{map[string]any{"sig": "x", "val": "not-a-number"}}
		_, err := codec.Decode(encode(t, fields))
		assert.ErrorIs(t, err, ErrBadFrame)
	})
}

// TestCodec_Framing 测试帧读写与压缩
func TestCodec_Framing(t *testing.T) {
	for _, compress := range []bool{false, true} {
		opts := []Option{}
		if compress {
			opts = append(opts, WithCompression())
		}
		codec := NewCodec(opts...)

		var buf bytes.Buffer
		m := types.NewSignal("/svc", "com.example.x", "Tick", types.NewVariant("payload"))
		require.NoError(t, codec.WriteMessage(&buf, m))

		got, err := codec.ReadMessage(&buf)
		require.NoError(t, err)
		assert.Equal(t, m.Serial, got.Serial)
		assert.Equal(t, m.Member, got.Member)
	}
}

// TestCodec_FrameTooLarge 测试超限帧被拒绝
func TestCodec_FrameTooLarge(t *testing.T) {
	codec := NewCodec(WithMaxFrameSize(8))

	var buf bytes.Buffer
	m := types.NewSignal("/svc", "com.example.x", "Tick", types.NewVariant("oversized payload"))
	assert.ErrorIs(t, codec.WriteMessage(&buf, m), ErrFrameTooLarge)
}

// TestConn_EndToEnd 测试经由管道连接的端到端调度
func TestConn_EndToEnd(t *testing.T) {
	f := objbus.NewFactory[any]()
	n := f.Node("/echo", nil).Add(f.Interface("com.example.echo", nil).
		AddMethod(f.Method("Echo", nil, func(mi *objbus.MethodInfo[any]) ([]*types.Message, *objbus.MethodErr) {
			s, _ := mi.Msg.StringArg(0)
			return []*types.Message{mi.Msg.MethodReturn(types.NewVariant(s))}, nil
		})))
	tree := f.Tree().Add(n)

	clientRaw, serverRaw := net.Pipe()
	client := New(clientRaw)
	server := New(serverRaw)

	require.NoError(t, tree.SetRegistered(server, true))

	srv := tree.Serve(server, server)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			ev, ok := srv.Next()
			if !ok || ev.Kind == types.EventDisconnected {
				return
			}
		}
	}()

	call := types.NewMethodCall("server", "/echo", "com.example.echo", "Echo",
		types.NewVariant("over the wire"))
	require.NoError(t, client.Send(call))

	ev, ok := client.Next()
	require.True(t, ok)
	require.Equal(t, types.EventMethodReturn, ev.Kind)
	assert.Equal(t, call.Serial, ev.Msg.ReplySerial)
	s, _ := ev.Msg.StringArg(0)
	assert.Equal(t, "over the wire", s)

	require.NoError(t, client.Close())
	<-done
	_ = server.Close()
}

// TestConn_RegisterPath 测试路径注册规则
func TestConn_RegisterPath(t *testing.T) {
	a, b := net.Pipe()
	conn := New(a)
	peer := New(b)
	defer conn.Close()
	defer peer.Close()

	require.NoError(t, conn.RegisterPath("/svc"))
	assert.ErrorIs(t, conn.RegisterPath("/svc"), ErrPathExists)
	assert.ErrorIs(t, conn.RegisterPath("bad"), ErrInvalidPath)

	conn.UnregisterPath("/svc")
	require.NoError(t, conn.RegisterPath("/svc"))
}
