// Package interfaces 定义 objbus 与传输层之间的边界接口
//
// 对象树（Tree）只依赖 Connection 与 EventSource 两个小接口：
// 前者提供路径注册与消息发送，后者提供入站事件的拉取循环。
// internal/transport 下提供进程内与网络连接两种参考实现。
package interfaces
