package proxy

import (
	"sync/atomic"

	"github.com/dep2p/go-actornet/pkg/interfaces"
	"github.com/dep2p/go-actornet/pkg/lib/log"
	"github.com/dep2p/go-actornet/pkg/types"
)

var logger = log.Logger("core/proxy")

// Killer 可被终止的代理
type Killer interface {
	Kill()
}

// ActorProxy 远程 actor 的本地代理
type ActorProxy struct {
	id     types.ActorID
	node   types.NodeID
	system interfaces.ActorSystem
	mgr    interfaces.EndpointManager
	killed atomic.Bool
}

var (
	_ interfaces.Actor = (*ActorProxy)(nil)
	_ Killer           = (*ActorProxy)(nil)
)

// NewActorProxy 创建绑定到托管通道的代理
func NewActorProxy(aid types.ActorID, nid types.NodeID, system interfaces.ActorSystem, mgr interfaces.EndpointManager) (*ActorProxy, error) {
	if !aid.IsValid() {
		return nil, ErrInvalidActorID
	}
	if nid.IsEmpty() {
		return nil, ErrInvalidNode
	}
	if mgr == nil {
		return nil, ErrNoChannel
	}
	return &ActorProxy{id: aid, node: nid, system: system, mgr: mgr}, nil
}

// ID 返回远程 actor 标识
func (p *ActorProxy) ID() types.ActorID {
	return p.id
}

// Node 返回远程节点
func (p *ActorProxy) Node() types.NodeID {
	return p.node
}

// Channel 返回所属托管通道
func (p *ActorProxy) Channel() interfaces.EndpointManager {
	return p.mgr
}

// Enqueue 通过托管通道转发消息
//
// 接收方地址被改写为远程 actor，调用方的信封不被修改。
func (p *ActorProxy) Enqueue(env *types.Envelope) bool {
	if p.killed.Load() {
		return false
	}

	out := *env
	out.Receiver = types.ActorAddr{Node: p.node, ID: p.id}
	if err := p.mgr.Enqueue(&out); err != nil {
		logger.Debug("代理转发失败",
			"node", p.node.ShortString(),
			"actor", p.id,
			"err", err)
		return false
	}
	return true
}

// Kill 终止代理（幂等）
func (p *ActorProxy) Kill() {
	p.killed.Store(true)
}

// IsKilled 是否已终止
func (p *ActorProxy) IsKilled() bool {
	return p.killed.Load()
}
