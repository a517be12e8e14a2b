// Package mocks 提供统一的测试 Mock 实现
//
// # 核心 Mock
//
//   - MockActor: 模拟 interfaces.Actor，记录收到的消息
//   - MockActorSystem: 模拟 interfaces.ActorSystem
//   - MockPacketWriter: 模拟 interfaces.PacketWriter，记录写出的帧
//   - MockEndpointManager: 模拟 interfaces.EndpointManager
//   - MockMultiplexer: 模拟 interfaces.Multiplexer，记录注册/注销
//   - MockProxyRegistry: 模拟 interfaces.ProxyRegistry
//   - MockSocketPairFactory: 模拟 interfaces.SocketPairFactory
//   - MockMiddleman: 模拟 interfaces.Middleman
//
// # 设计原则
//
// 1. 函数式注入: 每个 Mock 都支持通过 XxxFunc 字段注入自定义行为
// 2. 调用记录: 关键 Mock 记录调用历史，便于验证测试行为
// 3. 并发安全: 调用记录由互斥锁保护，可在读循环中使用
//
// # 使用示例
//
//	mpx := mocks.NewMockMultiplexer()
//	b := loopback.New(mm, loopback.WithMultiplexer(mpx))
//	b.Peer(nid)
//	if len(mpx.Registered()) != 1 {
//	    t.Error("expected one registration")
//	}
package mocks
