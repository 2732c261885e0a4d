package netconn

import (
	"encoding/base64"
	"fmt"
	"io"
	"strconv"

	"github.com/klauspost/compress/s2"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/dep2p/go-objbus/pkg/types"
)

// 帧负载编码标志
const (
	flagRaw        = 0x00
	flagCompressed = 0x01
)

// Codec 消息编解码器
//
// 消息被映射为 protobuf Struct 后序列化；Variant 以 {sig, val}
// 两字段对象承载，解码端按签名把 JSON 风格的宽类型收窄回原类型。
// 64 位整数与字节串无法精确通过 float64，分别以十进制与
// base64 字符串承载。
type Codec struct {
	compress     bool
	maxFrameSize int
}

// NewCodec 创建编解码器
func NewCodec(opts ...Option) *Codec {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return &Codec{
		compress:     cfg.Compress,
		maxFrameSize: cfg.MaxFrameSize,
	}
}

// Encode 编码消息为字节流
func (c *Codec) Encode(m *types.Message) ([]byte, error) {
	if m == nil {
		return nil, ErrNilMessage
	}

	body := make([]any, 0, len(m.Body))
	for _, v := range m.Body {
		val, err := variantToValue(v)
		if err != nil {
			return nil, err
		}
		body = append(body, val)
	}

	st, err := structpb.NewStruct(map[string]any{
		"type":         float64(m.Type),
		"serial":       m.Serial,
		"reply_serial": m.ReplySerial,
		"path":         string(m.Path),
		"interface":    m.Interface,
		"member":       m.Member,
		"error_name":   m.ErrorName,
		"sender":       m.Sender,
		"destination":  m.Destination,
		"body":         body,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build message struct: %w", err)
	}

	data, err := proto.Marshal(st)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal message: %w", err)
	}
	return data, nil
}

// Decode 解码字节流为消息
func (c *Codec) Decode(data []byte) (*types.Message, error) {
	st := &structpb.Struct{}
	if err := proto.Unmarshal(data, st); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadFrame, err)
	}
	fields := st.AsMap()

	typ, err := asNumber(fields["type"])
	if err != nil {
		return nil, fmt.Errorf("type: %w", err)
	}
	m := &types.Message{Type: types.MessageType(typ)}

	var path string
	for _, f := range []struct {
		key string
		dst *string
	}{
		{"serial", &m.Serial},
		{"reply_serial", &m.ReplySerial},
		{"path", &path},
		{"interface", &m.Interface},
		{"member", &m.Member},
		{"error_name", &m.ErrorName},
		{"sender", &m.Sender},
		{"destination", &m.Destination},
	} {
		s, err := asString(fields[f.key])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.key, err)
		}
		*f.dst = s
	}
	m.Path = types.ObjectPath(path)

	rawBody, ok := fields["body"].([]any)
	if !ok && fields["body"] != nil {
		return nil, fmt.Errorf("%w: body is not a list", ErrBadFrame)
	}
	for i, raw := range rawBody {
		v, err := valueToVariant(raw)
		if err != nil {
			return nil, fmt.Errorf("body[%d]: %w", i, err)
		}
		m.Body = append(m.Body, v)
	}
	return m, nil
}

// WriteMessage 把消息以帧形式写入流
//
// 帧格式: 1 字节编码标志 + uvarint 负载长度 + 负载。
func (c *Codec) WriteMessage(w io.Writer, m *types.Message) error {
	payload, err := c.Encode(m)
	if err != nil {
		return err
	}
	flag := byte(flagRaw)
	if c.compress {
		payload = s2.Encode(nil, payload)
		flag = flagCompressed
	}
	if len(payload) > c.maxFrameSize {
		return ErrFrameTooLarge
	}

	if _, err := w.Write([]byte{flag}); err != nil {
		return fmt.Errorf("failed to write frame flag: %w", err)
	}
	if err := writeUvarint(w, uint64(len(payload))); err != nil {
		return fmt.Errorf("failed to write frame length: %w", err)
	}
	if _, err := w.Write(payload); err != nil {
		return fmt.Errorf("failed to write frame payload: %w", err)
	}
	return nil
}

// ReadMessage 从流中读取一帧并解码
func (c *Codec) ReadMessage(r io.Reader) (*types.Message, error) {
	var flag [1]byte
	if _, err := io.ReadFull(r, flag[:]); err != nil {
		return nil, err
	}
	if flag[0] != flagRaw && flag[0] != flagCompressed {
		return nil, ErrBadFrame
	}

	length, err := readUvarint(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read frame length: %w", err)
	}
	if length > uint64(c.maxFrameSize) {
		return nil, ErrFrameTooLarge
	}

	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, fmt.Errorf("failed to read frame payload: %w", err)
	}

	if flag[0] == flagCompressed {
		payload, err = s2.Decode(nil, payload)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadFrame, err)
		}
	}
	return c.Decode(payload)
}

// variantToValue 把 Variant 映射为 {sig, val} 对象
func variantToValue(v types.Variant) (map[string]any, error) {
	val, err := wireValue(v.Value())
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"sig": string(v.Signature()),
		"val": val,
	}, nil
}

// wireValue 把 Go 值转换为 structpb 可表示的宽类型
func wireValue(v any) (any, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case bool, string, float64:
		return x, nil
	case byte:
		return float64(x), nil
	case int16:
		return float64(x), nil
	case uint16:
		return float64(x), nil
	case int32:
		return float64(x), nil
	case uint32:
		return float64(x), nil
	// 64 位整数超出 float64 的精确范围，以十进制字符串承载
	case int64:
		return strconv.FormatInt(x, 10), nil
	case uint64:
		return strconv.FormatUint(x, 10), nil
	case types.ObjectPath:
		return string(x), nil
	case types.Signature:
		return string(x), nil
	case []byte:
		return base64.StdEncoding.EncodeToString(x), nil
	case []string:
		out := make([]any, len(x))
		for i, s := range x {
			out[i] = s
		}
		return out, nil
	case types.Variant:
		return variantToValue(x)
	case map[string]types.Variant:
		out := make(map[string]any, len(x))
		for k, inner := range x {
			val, err := variantToValue(inner)
			if err != nil {
				return nil, err
			}
			out[k] = val
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported variant value type %T", v)
	}
}

// valueToVariant 按签名把宽类型收窄回 Variant
func valueToVariant(raw any) (types.Variant, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return types.Variant{}, fmt.Errorf("%w: variant is not an object", ErrBadFrame)
	}
	rawSig, err := asString(obj["sig"])
	if err != nil {
		return types.Variant{}, fmt.Errorf("sig: %w", err)
	}
	sig := types.Signature(rawSig)
	val, err := narrowValue(sig, obj["val"])
	if err != nil {
		return types.Variant{}, err
	}
	return types.NewVariantSig(sig, val), nil
}

func narrowValue(sig types.Signature, val any) (any, error) {
	switch sig {
	case "y":
		n, err := asNumber(val)
		if err != nil {
			return nil, err
		}
		return byte(n), nil
	case "b":
		b, ok := val.(bool)
		if !ok {
			return nil, fmt.Errorf("%w: expected bool, got %T", ErrBadFrame, val)
		}
		return b, nil
	case "n":
		n, err := asNumber(val)
		if err != nil {
			return nil, err
		}
		return int16(n), nil
	case "q":
		n, err := asNumber(val)
		if err != nil {
			return nil, err
		}
		return uint16(n), nil
	case "i":
		n, err := asNumber(val)
		if err != nil {
			return nil, err
		}
		return int32(n), nil
	case "u":
		n, err := asNumber(val)
		if err != nil {
			return nil, err
		}
		return uint32(n), nil
	case "x":
		s, err := asString(val)
		if err != nil {
			return nil, err
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid int64 %q", ErrBadFrame, s)
		}
		return n, nil
	case "t":
		s, err := asString(val)
		if err != nil {
			return nil, err
		}
		n, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid uint64 %q", ErrBadFrame, s)
		}
		return n, nil
	case "d":
		return asNumber(val)
	case "s":
		return asString(val)
	case "o":
		s, err := asString(val)
		if err != nil {
			return nil, err
		}
		return types.ObjectPath(s), nil
	case "g":
		s, err := asString(val)
		if err != nil {
			return nil, err
		}
		return types.Signature(s), nil
	case "ay":
		s, err := asString(val)
		if err != nil {
			return nil, err
		}
		b, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadFrame, err)
		}
		return b, nil
	case "as":
		items, ok := val.([]any)
		if !ok {
			return nil, fmt.Errorf("%w: expected list, got %T", ErrBadFrame, val)
		}
		out := make([]string, len(items))
		for i, item := range items {
			s, err := asString(item)
			if err != nil {
				return nil, err
			}
			out[i] = s
		}
		return out, nil
	case types.SignaturePropMap:
		entries, ok := val.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: expected object, got %T", ErrBadFrame, val)
		}
		out := make(map[string]types.Variant, len(entries))
		for k, entry := range entries {
			inner, err := valueToVariant(entry)
			if err != nil {
				return nil, err
			}
			out[k] = inner
		}
		return out, nil
	case types.SignatureVariant:
		inner, err := valueToVariant(val)
		if err != nil {
			return types.Variant{}, err
		}
		return inner, nil
	default:
		return val, nil
	}
}

func asString(v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: expected string, got %T", ErrBadFrame, v)
	}
	return s, nil
}

func asNumber(v any) (float64, error) {
	f, ok := v.(float64)
	if !ok {
		return 0, fmt.Errorf("%w: expected number, got %T", ErrBadFrame, v)
	}
	return f, nil
}

// writeUvarint 写入可变长度整数
func writeUvarint(w io.Writer, v uint64) error {
	buf := make([]byte, 0, 10)
	for v >= 0x80 {
		buf = append(buf, byte(v)|0x80)
		v >>= 7
	}
	buf = append(buf, byte(v))
	_, err := w.Write(buf)
	return err
}

// readUvarint 读取可变长度整数
func readUvarint(r io.Reader) (uint64, error) {
	var x uint64
	var s uint
	var b [1]byte
	for i := 0; i < 10; i++ {
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return 0, err
		}
		if b[0] < 0x80 {
			if i == 9 && b[0] > 1 {
				return 0, fmt.Errorf("%w: varint overflow", ErrBadFrame)
			}
			return x | uint64(b[0])<<s, nil
		}
		x |= uint64(b[0]&0x7f) << s
		s += 7
	}
	return 0, fmt.Errorf("%w: varint too long", ErrBadFrame)
}
