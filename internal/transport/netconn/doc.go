// Package netconn 实现基于字节流连接的消息传输
//
// 消息经 protobuf 结构体编码、可选 s2 压缩后以长度前缀帧写入
// net.Conn；读循环把入站帧解码为事件序列。适用于 TCP 或任何
// 实现 net.Conn 的可靠字节流。
package netconn
