// Package types 定义 go-actornet 的公共数据结构
//
// 这是整个系统的最底层包，不依赖任何其他内部包。
// 所有类型都是纯值类型，用于在各模块间传递数据。
//
// # 文件组织
//
//   - ids.go     - NodeID, ActorID, ActorAddr
//   - uri.go     - URI 定位符及 authority 提取
//   - message.go - Envelope, ResolveResult
//   - errors.go  - 公共错误定义
//
// # NodeID 派生
//
// 远程节点的身份由定位符的 authority 部分派生：
//
//	u, _ := types.ParseURI("test://node-1:4242/id/7")
//	auth, _ := u.AuthorityOnly()   // test://node-1:4242
//	id := types.MakeNodeID(auth)   // SHA256("test://node-1:4242")
//
// 相同 authority 总是得到相同的 NodeID。
package types
