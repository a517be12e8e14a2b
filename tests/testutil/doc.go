// Package testutil 提供测试辅助
//
//   - RemotePeer: 在登记项的第一个端点上逐帧模拟对端
//   - RemoteNode: 在第一个端点上运行完整的对端协议栈
//   - WaitForCondition / Eventually: 轮询等待
//   - Receive: 从邮箱取一条消息
package testutil
