// Package basp 实现运行在托管通道之上的 actor 消息协议
//
// 每个帧负载是一条 Message，字段按 protobuf wire 格式编码
// （google.golang.org/protobuf/encoding/protowire），不依赖生成代码。
//
// # 会话
//
// 通道初始化时双方各写出一个 Handshake；收到对端握手之前，
// 除 Handshake 以外的帧都会导致通道关闭（ErrMissingHandshake）。
//
//	awaitingHandshake --Handshake--> ready
//
// # 消息类型
//
//   - Handshake: 节点标识 + 应用标识，双方至少共享一个应用标识
//   - ResolveRequest / ResolveResponse: 按路径解析远程 actor
//     （"id/<n>" 或 "name/<注册名>"）
//   - ActorMessage: actor 之间的字节负载，超过阈值时 s2 压缩
//   - Heartbeat: 保活，无内容
package basp
