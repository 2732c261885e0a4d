// Package inproc 实现进程内双端消息传输
//
// 提供成对创建的内存端点，一端发送的消息经由通道出现在对端的
// 事件序列中，用于测试与同进程内的客户端/服务端拼装。
package inproc
