package types

import "strings"

// ObjectPath 可寻址对象的绝对层级路径
//
// 合法路径以 "/" 开头、以 "/" 分隔，除根路径外不以 "/" 结尾，
// 路径元素只允许 [A-Za-z0-9_]。
type ObjectPath string

// IsValid 报告路径是否符合协议规则
func (p ObjectPath) IsValid() bool {
	if p == "/" {
		return true
	}
	if len(p) == 0 || p[0] != '/' || p[len(p)-1] == '/' {
		return false
	}
	for _, elem := range strings.Split(string(p[1:]), "/") {
		if len(elem) == 0 {
			return false
		}
		for _, c := range elem {
			if !isPathChar(c) {
				return false
			}
		}
	}
	return true
}

func (p ObjectPath) String() string { return string(p) }

// ChildSuffix 返回 child 相对 parent 的路径后缀
//
// 仅当 child 以 parent + "/" 开头时 ok 为 true。后缀不含分隔符时
// child 是 parent 的直接子节点，否则是更深层的后代。
// 注意根路径 "/" 的前缀为 "//"，因此根路径没有子节点（保留原实现行为）。
func ChildSuffix(parent, child ObjectPath) (suffix string, ok bool) {
	prefix := string(parent) + "/"
	if !strings.HasPrefix(string(child), prefix) {
		return "", false
	}
	rest := string(child)[len(prefix):]
	if rest == "" {
		return "", false
	}
	return rest, true
}

func isPathChar(c rune) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}
