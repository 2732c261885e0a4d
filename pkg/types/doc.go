// Package types 定义 objbus 的基础值类型
//
// 包含对象路径（ObjectPath）、类型签名（Signature）、带类型标签的
// 协议值（Variant）、协议消息（Message）以及传输事件（Event）。
// 这些类型不依赖任何上层组件，供对象模型与传输实现共同使用。
package types
