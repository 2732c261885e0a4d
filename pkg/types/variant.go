package types

import "fmt"

// Signature 协议类型签名
//
// 采用 D-Bus 的单字符类型码（"s" 字符串、"i" int32、"v" 变体等），
// 仅作为自省文档与 Variant 的类型标签使用，本层不做编组。
type Signature string

// 常用签名常量
const (
	SignatureString  Signature = "s"
	SignatureInt32   Signature = "i"
	SignatureVariant Signature = "v"
	SignaturePropMap Signature = "a{sv}"
)

// SignatureOf 推断 Go 值对应的协议签名
//
// 覆盖基础类型与常见容器；无法识别的类型回退为变体签名 "v"。
func SignatureOf(v any) Signature {
	switch v.(type) {
	case byte:
		return "y"
	case bool:
		return "b"
	case int16:
		return "n"
	case uint16:
		return "q"
	case int32:
		return "i"
	case uint32:
		return "u"
	case int64:
		return "x"
	case uint64:
		return "t"
	case float64:
		return "d"
	case string:
		return "s"
	case ObjectPath:
		return "o"
	case Signature:
		return "g"
	case Variant:
		return "v"
	case []string:
		return "as"
	case []byte:
		return "ay"
	case map[string]Variant:
		return "a{sv}"
	default:
		return "v"
	}
}

// Variant 带运行时类型标签的协议值
//
// 属性读写子协议（Get/GetAll/Set）以 Variant 传递属性值。
// 零值 Variant 的签名为空、值为 nil。
type Variant struct {
	sig   Signature
	value any
}

// NewVariant 创建 Variant，签名由值类型推断
func NewVariant(v any) Variant {
	return Variant{sig: SignatureOf(v), value: v}
}

// NewVariantSig 创建指定签名的 Variant
func NewVariantSig(sig Signature, v any) Variant {
	return Variant{sig: sig, value: v}
}

// Signature 返回签名
func (v Variant) Signature() Signature { return v.sig }

// Value 返回承载的值
func (v Variant) Value() any { return v.value }

// Empty 报告是否为零值 Variant
func (v Variant) Empty() bool { return v.sig == "" && v.value == nil }

func (v Variant) String() string {
	return fmt.Sprintf("variant(%s: %v)", v.sig, v.value)
}
