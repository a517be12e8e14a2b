package proxy

import (
	"sync"

	"github.com/dep2p/go-actornet/pkg/interfaces"
	"github.com/dep2p/go-actornet/pkg/types"
)

// Registry 共享代理表
type Registry struct {
	mu      sync.Mutex
	factory interfaces.ProxyFactory
	proxies map[types.NodeID]map[types.ActorID]interfaces.Actor
}

var _ interfaces.ProxyRegistry = (*Registry)(nil)

// NewRegistry 创建代理表，factory 可以稍后通过 SetFactory 设置
func NewRegistry(factory interfaces.ProxyFactory) *Registry {
	return &Registry{
		factory: factory,
		proxies: make(map[types.NodeID]map[types.ActorID]interfaces.Actor),
	}
}

// SetFactory 设置代理工厂
func (r *Registry) SetFactory(factory interfaces.ProxyFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factory = factory
}

// Get 返回已有代理，不存在时返回 nil
func (r *Registry) Get(nid types.NodeID, aid types.ActorID) interfaces.Actor {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.proxies[nid][aid]
}

// GetOrPut 返回已有代理或通过工厂创建
//
// 工厂在锁外调用；并发创建时先写入的代理胜出，其余被终止。
func (r *Registry) GetOrPut(nid types.NodeID, aid types.ActorID) (interfaces.Actor, error) {
	r.mu.Lock()
	if p, ok := r.proxies[nid][aid]; ok {
		r.mu.Unlock()
		return p, nil
	}
	factory := r.factory
	r.mu.Unlock()

	if factory == nil {
		return nil, ErrNoFactory
	}
	created, err := factory.MakeProxy(nid, aid)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	byActor, ok := r.proxies[nid]
	if !ok {
		byActor = make(map[types.ActorID]interfaces.Actor)
		r.proxies[nid] = byActor
	}
	if existing, ok := byActor[aid]; ok {
		kill(created)
		return existing, nil
	}
	byActor[aid] = created
	return created, nil
}

// Erase 终止并移除节点的所有代理
func (r *Registry) Erase(nid types.NodeID) {
	r.mu.Lock()
	byActor := r.proxies[nid]
	delete(r.proxies, nid)
	r.mu.Unlock()

	for _, p := range byActor {
		kill(p)
	}
	if len(byActor) > 0 {
		logger.Debug("已移除节点代理", "node", nid.ShortString(), "count", len(byActor))
	}
}

// EraseActor 终止并移除单个代理
func (r *Registry) EraseActor(nid types.NodeID, aid types.ActorID) {
	r.mu.Lock()
	p, ok := r.proxies[nid][aid]
	if ok {
		delete(r.proxies[nid], aid)
		if len(r.proxies[nid]) == 0 {
			delete(r.proxies, nid)
		}
	}
	r.mu.Unlock()

	if ok {
		kill(p)
	}
}

// Count 返回节点的代理数量
func (r *Registry) Count(nid types.NodeID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.proxies[nid])
}

// Nodes 返回有代理记录的节点
func (r *Registry) Nodes() []types.NodeID {
	r.mu.Lock()
	defer r.mu.Unlock()

	nodes := make([]types.NodeID, 0, len(r.proxies))
	for nid := range r.proxies {
		nodes = append(nodes, nid)
	}
	return nodes
}

func kill(a interfaces.Actor) {
	if k, ok := a.(Killer); ok {
		k.Kill()
	}
}
