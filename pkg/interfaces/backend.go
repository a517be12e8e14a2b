package interfaces

import "github.com/dep2p/go-actornet/pkg/types"

// Backend 可插拔的传输后端契约
//
// Middleman 对所有后端一视同仁：测试后端与真实网络后端
// 实现相同的方法集合。
type Backend interface {
	// Name 返回后端名称，同时作为定位符 scheme
	Name() string

	// Init 初始化后端
	Init() error

	// Stop 释放所有通道和代理记录，关闭时调用且只调用一次
	Stop()

	// Peer 返回到指定节点的通道
	Peer(id types.NodeID) EndpointManager

	// GetOrConnect 返回到定位符所在节点的通道，必要时建立连接
	GetOrConnect(locator types.URI) (EndpointManager, error)

	// Resolve 解析定位符，结果异步投递给 listener
	Resolve(locator types.URI, listener Actor)

	// MakeProxy 为远程 actor 创建本地代理
	MakeProxy(nid types.NodeID, aid types.ActorID) (Actor, error)

	// SetLastHop 记录最后一跳
	SetLastHop(hop *types.NodeID)

	// Port 返回监听端口，不监听时为 0
	Port() uint16
}
