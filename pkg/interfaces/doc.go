// Package interfaces 定义 go-actornet 的公共接口
//
// 一个接口文件对应一个实现目录：
//   - actor.go       - Actor / ActorSystem（internal/core/actor）
//   - middleman.go   - Middleman（internal/core/middleman）
//   - backend.go     - Backend 后端契约（internal/core/backend/...）
//   - endpoint.go    - EndpointManager / Application / PacketWriter
//     （internal/core/endpoint, internal/core/basp）
//   - multiplexer.go - Multiplexer I/O 驱动（internal/core/multiplexer）
//   - proxy.go       - ProxyRegistry / ProxyFactory（internal/core/proxy）
//   - socket.go      - SocketPairFactory（internal/core/socket）
//
// # 依赖方向
//
//	Middleman → Backend → (EndpointManager, Multiplexer, ProxyRegistry) → Application
//
// 组件之间通过本包的接口协作；后端实现可直接组合下层实现包
// （endpoint、basp、proxy、socket）来装配通道。
package interfaces
