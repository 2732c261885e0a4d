package objbus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-objbus/pkg/types"
)

const testIface = "com.example.test"

func newPropNode(t *testing.T, f *Factory[any], props ...*Property[any]) (*Tree[any], *Node[any]) {
	t.Helper()
	iface := f.Interface(testIface, nil)
	for _, p := range props {
		iface.AddProperty(p)
	}
	n := f.Node("/test", nil).Add(iface)
	return f.Tree().Add(n), n
}

// TestNode_AutoInstallProperties 测试含属性接口自动安装属性子协议
func TestNode_AutoInstallProperties(t *testing.T) {
	f := NewFactory[any]()

	noProps := f.Node("/a", nil).Add(f.Interface("com.example.a", nil))
	_, ok := noProps.Iface(PropertiesIface)
	assert.False(t, ok, "无属性接口不应安装属性子协议")

	_, withProps := newPropNode(t, f, f.Property("Count", int32(1), nil))
	_, ok = withProps.Iface(PropertiesIface)
	assert.True(t, ok)

	// 幂等：重复添加含属性接口不改变接口数量
	before := len(withProps.ifaces)
	withProps.Add(f.Interface("com.example.other", nil).
		AddProperty(f.Property("Name", "x", nil)))
	assert.Equal(t, before+1, len(withProps.ifaces))
}

// TestNode_SharedBuiltinIfaces 测试同一工厂的节点共享内置接口实例
func TestNode_SharedBuiltinIfaces(t *testing.T) {
	f := NewFactory[any]()
	a := f.Node("/a", nil).Introspectable()
	b := f.Node("/b", nil).Introspectable()

	ia, _ := a.Iface(IntrospectableIface)
	ib, _ := b.Iface(IntrospectableIface)
	assert.Same(t, ia, ib)
}

// TestNode_Handle 测试方法解析的错误路径
func TestNode_Handle(t *testing.T) {
	f := NewFactory[any]()
	n := f.Node("/test", nil).Add(f.Interface(testIface, nil).
		AddMethod(f.Method("Ping", nil, func(mi *MethodInfo[any]) ([]*types.Message, *MethodErr) {
			return []*types.Message{mi.Msg.MethodReturn(types.NewVariant("pong"))}, nil
		})))
	tree := f.Tree().Add(n)

	t.Run("UnknownInterface", func(t *testing.T) {
		m := types.NewMethodCall("dest", "/test", "com.example.nope", "Ping")
		_, merr := n.Handle(m, tree)
		require.NotNil(t, merr)
		assert.Equal(t, KindNoSuchInterface, merr.Kind())
	})

	t.Run("UnknownMethod", func(t *testing.T) {
		m := types.NewMethodCall("dest", "/test", testIface, "Nope")
		_, merr := n.Handle(m, tree)
		require.NotNil(t, merr)
		assert.Equal(t, KindNoSuchMethod, merr.Kind())
	})

	t.Run("Success", func(t *testing.T) {
		m := types.NewMethodCall("dest", "/test", testIface, "Ping")
		replies, merr := n.Handle(m, tree)
		require.Nil(t, merr)
		require.Len(t, replies, 1)
		s, ok := replies[0].StringArg(0)
		require.True(t, ok)
		assert.Equal(t, "pong", s)
	})

	t.Run("NilHandler", func(t *testing.T) {
		n.Add(f.Interface("com.example.stub", nil).
			AddMethod(f.Method("Placeholder", nil, nil)))
		m := types.NewMethodCall("dest", "/test", "com.example.stub", "Placeholder")
		_, merr := n.Handle(m, tree)
		require.NotNil(t, merr)
		assert.Equal(t, KindFailed, merr.Kind())
	})
}

func propCall(member string, args ...types.Variant) *types.Message {
	return types.NewMethodCall("dest", "/test", PropertiesIface, member, args...)
}

// TestProperties_Get 测试属性读取子协议
func TestProperties_Get(t *testing.T) {
	f := NewFactory[any]()
	tree, n := newPropNode(t, f,
		f.Property("Count", int32(42), nil),
		f.Property("Secret", "hidden", nil).WithAccess(AccessWrite),
	)

	t.Run("OK", func(t *testing.T) {
		m := propCall("Get", types.NewVariant(testIface), types.NewVariant("Count"))
		replies, merr := n.Handle(m, tree)
		require.Nil(t, merr)
		require.Len(t, replies, 1)

		v, ok := replies[0].Arg(0)
		require.True(t, ok)
		assert.Equal(t, types.SignatureVariant, v.Signature())
		inner, isVariant := v.Value().(types.Variant)
		require.True(t, isVariant)
		assert.Equal(t, int32(42), inner.Value())
	})

	t.Run("UnknownInterface", func(t *testing.T) {
		m := propCall("Get", types.NewVariant("com.example.nope"), types.NewVariant("Count"))
		_, merr := n.Handle(m, tree)
		require.NotNil(t, merr)
		assert.Equal(t, KindNoSuchInterface, merr.Kind())
	})

	t.Run("UnknownProperty", func(t *testing.T) {
		m := propCall("Get", types.NewVariant(testIface), types.NewVariant("Nope"))
		_, merr := n.Handle(m, tree)
		require.NotNil(t, merr)
		assert.Equal(t, KindNoSuchProperty, merr.Kind())
	})

	t.Run("WriteOnly", func(t *testing.T) {
		m := propCall("Get", types.NewVariant(testIface), types.NewVariant("Secret"))
		_, merr := n.Handle(m, tree)
		require.NotNil(t, merr)
		assert.Equal(t, KindPropertyNotReadable, merr.Kind())
	})

	t.Run("MissingArg", func(t *testing.T) {
		m := propCall("Get", types.NewVariant(testIface))
		_, merr := n.Handle(m, tree)
		require.NotNil(t, merr)
		assert.Equal(t, KindInvalidArgument, merr.Kind())
	})
}

// TestProperties_GetAll 测试批量读取跳过不可读属性
func TestProperties_GetAll(t *testing.T) {
	f := NewFactory[any]()
	tree, n := newPropNode(t, f,
		f.Property("Count", int32(7), nil),
		f.Property("Name", "echo", nil),
		f.Property("Secret", "hidden", nil).WithAccess(AccessWrite),
	)

	m := propCall("GetAll", types.NewVariant(testIface))
	replies, merr := n.Handle(m, tree)
	require.Nil(t, merr)
	require.Len(t, replies, 1)

	v, ok := replies[0].Arg(0)
	require.True(t, ok)
	assert.Equal(t, types.SignaturePropMap, v.Signature())
	props, isMap := v.Value().(map[string]types.Variant)
	require.True(t, isMap)

	assert.Len(t, props, 2)
	assert.Equal(t, int32(7), props["Count"].Value())
	assert.Equal(t, "echo", props["Name"].Value())
	_, ok = props["Secret"]
	assert.False(t, ok, "只写属性应被静默跳过")
}

// TestProperties_Set 测试属性写入子协议
func TestProperties_Set(t *testing.T) {
	f := NewFactory[any]()

	t.Run("OK", func(t *testing.T) {
		prop := f.Property("Level", int32(1), nil).WithAccess(AccessReadWrite)
		tree, n := newPropNode(t, f, prop)

		m := propCall("Set",
			types.NewVariant(testIface),
			types.NewVariant("Level"),
			types.NewVariant(types.NewVariant(int32(5))))
		replies, merr := n.Handle(m, tree)
		require.Nil(t, merr)
		require.Len(t, replies, 1)
		assert.Equal(t, types.MessageMethodReturn, replies[0].Type)
		assert.Equal(t, int32(5), prop.Value().Value())
	})

	t.Run("ReadOnly", func(t *testing.T) {
		prop := f.Property("Fixed", int32(1), nil)
		tree, n := newPropNode(t, f, prop)

		m := propCall("Set",
			types.NewVariant(testIface),
			types.NewVariant("Fixed"),
			types.NewVariant(types.NewVariant(int32(5))))
		_, merr := n.Handle(m, tree)
		require.NotNil(t, merr)
		assert.Equal(t, KindPropertyNotWritable, merr.Kind())
		assert.Equal(t, int32(1), prop.Value().Value())
	})

	t.Run("SideEffects", func(t *testing.T) {
		sig := f.Signal("Changed", nil).Arg("value", "i")
		prop := f.Property("Level", int32(1), nil).
			WithAccess(AccessReadWrite).
			OnSet(func(v types.Variant, pi *PropInfo[any]) ([]*types.Message, *MethodErr) {
				pi.Prop.SetValue(v)
				return []*types.Message{sig.Msg(pi.Node.Path(), testIface, v)}, nil
			})
		tree, n := newPropNode(t, f, prop)

		m := propCall("Set",
			types.NewVariant(testIface),
			types.NewVariant("Level"),
			types.NewVariant(types.NewVariant(int32(9))))
		replies, merr := n.Handle(m, tree)
		require.Nil(t, merr)
		require.Len(t, replies, 2)
		// 副作用消息排在成功回复之前
		assert.Equal(t, types.MessageSignal, replies[0].Type)
		assert.Equal(t, "Changed", replies[0].Member)
		assert.Equal(t, types.MessageMethodReturn, replies[1].Type)
		assert.Equal(t, int32(9), prop.Value().Value())
	})

	t.Run("OnGetHandler", func(t *testing.T) {
		calls := 0
		prop := f.Property("Dynamic", int32(0), nil).
			OnGet(func(pi *PropInfo[any]) (types.Variant, *MethodErr) {
				calls++
				return types.NewVariant(int32(calls)), nil
			})
		tree, n := newPropNode(t, f, prop)

		m := propCall("Get", types.NewVariant(testIface), types.NewVariant("Dynamic"))
		replies, merr := n.Handle(m, tree)
		require.Nil(t, merr)
		v, _ := replies[0].Arg(0)
		inner := v.Value().(types.Variant)
		assert.Equal(t, int32(1), inner.Value())
		assert.Equal(t, 1, calls)
	})
}
