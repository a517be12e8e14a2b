package interfaces

import "github.com/dep2p/go-actornet/pkg/types"

// Actor 可接收消息的 actor 句柄
//
// 本地 actor 和远程 actor 的代理都实现此接口，
// 调用方无法区分二者。
type Actor interface {
	// ID 返回节点内标识
	ID() types.ActorID

	// Node 返回所在节点
	Node() types.NodeID

	// Enqueue 投递消息，actor 已终止或投递失败时返回 false
	Enqueue(env *types.Envelope) bool
}

// ActorSystem actor 运行时
type ActorSystem interface {
	// NodeID 返回本地节点标识
	NodeID() types.NodeID

	// NextActorID 分配新的 actor 标识
	NextActorID() types.ActorID

	// Lookup 按标识查找本地 actor
	Lookup(id types.ActorID) (Actor, bool)

	// LookupName 按注册名查找本地 actor
	LookupName(name string) (Actor, bool)

	// Render 返回错误的可读描述
	Render(err error) string
}
