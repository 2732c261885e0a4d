package objbus

import (
	"sort"
	"strings"

	"github.com/dep2p/go-objbus/pkg/types"
)

// docType 自省文档的 DOCTYPE 头
const docType = `<!DOCTYPE node PUBLIC "-//freedesktop//DTD D-BUS Object Introspection 1.0//EN" "http://www.freedesktop.org/standards/dbus/1.0/introspect.dtd">`

// xmlEntity 可渲染为自省 XML 元素的实体
//
// 元素名、附加属性与子内容由实体自身决定（递归结构化渲染）。
type xmlEntity interface {
	xmlName() string
	xmlParams() string
	xmlContents() string
}

// introspectMap 按名称排序渲染一组实体
//
// 无子内容的实体渲染为自闭合元素。排序保证文档稳定可比对。
func introspectMap[T xmlEntity](m map[string]T, indent string) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		v := m[k]
		contents := v.xmlContents()
		b.WriteString(indent)
		b.WriteString("<")
		b.WriteString(v.xmlName())
		b.WriteString(` name="`)
		b.WriteString(k)
		b.WriteString(`"`)
		b.WriteString(v.xmlParams())
		if len(contents) > 0 {
			b.WriteString(">\n")
			b.WriteString(contents)
			b.WriteString(indent)
			b.WriteString("</")
			b.WriteString(v.xmlName())
			b.WriteString(">\n")
		} else {
			b.WriteString("/>\n")
		}
	}
	return b.String()
}

// annotations 注解集合
type annotations map[string]string

// deprecatedAnnotation 标准弃用注解名
const deprecatedAnnotation = "org.freedesktop.DBus.Deprecated"

func (a annotations) set(name, value string) {
	a[name] = value
}

// introspect 按名称排序渲染注解元素
func (a annotations) introspect(indent string) string {
	if len(a) == 0 {
		return ""
	}
	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		b.WriteString(indent)
		b.WriteString(`<annotation name="`)
		b.WriteString(k)
		b.WriteString(`" value="`)
		b.WriteString(a[k])
		b.WriteString(`"/>` + "\n")
	}
	return b.String()
}

// Argument 方法或信号的参数签名元数据
type Argument struct {
	// Name 参数名（可为空）
	Name string

	// Type 参数类型签名
	Type types.Signature

	// direction 方向属性（"in"/"out"，信号参数为空）
	direction string
}

// introspect 渲染单个 arg 元素
func (a Argument) introspect(indent string) string {
	var b strings.Builder
	b.WriteString(indent)
	b.WriteString("<arg")
	if a.Name != "" {
		b.WriteString(` name="`)
		b.WriteString(a.Name)
		b.WriteString(`"`)
	}
	b.WriteString(` type="`)
	b.WriteString(string(a.Type))
	b.WriteString(`"`)
	if a.direction != "" {
		b.WriteString(` direction="`)
		b.WriteString(a.direction)
		b.WriteString(`"`)
	}
	b.WriteString("/>\n")
	return b.String()
}

// introspectArgs 按声明顺序渲染参数列表
func introspectArgs(args []Argument, indent string) string {
	var b strings.Builder
	for _, a := range args {
		b.WriteString(a.introspect(indent))
	}
	return b.String()
}
