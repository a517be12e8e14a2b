// Package actor 提供最小的本地 actor 运行时
//
// System 负责本地节点标识、actor 标识分配和本地 actor 注册表；
// Mailbox 是基于带缓冲 channel 的 actor，主要用作 resolve 的 listener
// 和测试中的消息接收方。
//
// 调度、监督树等运行时语义不在本包范围内。
package actor
