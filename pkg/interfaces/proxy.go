package interfaces

import "github.com/dep2p/go-actornet/pkg/types"

// ProxyFactory 代理工厂，通常由后端实现
type ProxyFactory interface {
	MakeProxy(nid types.NodeID, aid types.ActorID) (Actor, error)
}

// ProxyRegistry 共享的代理解析表
//
// 按 (节点, actor) 记录已创建的代理，保证同一远程 actor 只有一个代理。
type ProxyRegistry interface {
	// Get 返回已有代理，不存在时返回 nil
	Get(nid types.NodeID, aid types.ActorID) Actor

	// GetOrPut 返回已有代理或通过工厂创建
	GetOrPut(nid types.NodeID, aid types.ActorID) (Actor, error)

	// Erase 终止并移除节点的所有代理
	Erase(nid types.NodeID)

	// EraseActor 终止并移除单个代理
	EraseActor(nid types.NodeID, aid types.ActorID)

	// Count 返回节点的代理数量
	Count(nid types.NodeID) int
}
