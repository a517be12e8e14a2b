package mocks

import (
	"sync"

	"github.com/dep2p/go-actornet/pkg/interfaces"
	"github.com/dep2p/go-actornet/pkg/types"
)

// MockProxyRegistry 模拟 ProxyRegistry 接口实现
//
// 未设置 GetOrPutFunc 时为每个 (节点, actor) 创建一个 MockActor。
type MockProxyRegistry struct {
	// 可覆盖的方法
	GetOrPutFunc func(nid types.NodeID, aid types.ActorID) (interfaces.Actor, error)

	mu      sync.Mutex
	proxies map[types.NodeID]map[types.ActorID]interfaces.Actor
	erased  []types.NodeID
}

var _ interfaces.ProxyRegistry = (*MockProxyRegistry)(nil)

// NewMockProxyRegistry 创建 MockProxyRegistry
func NewMockProxyRegistry() *MockProxyRegistry {
	return &MockProxyRegistry{proxies: make(map[types.NodeID]map[types.ActorID]interfaces.Actor)}
}

// Get 返回已有代理
func (m *MockProxyRegistry) Get(nid types.NodeID, aid types.ActorID) interfaces.Actor {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.proxies[nid][aid]
}

// GetOrPut 返回或创建代理
func (m *MockProxyRegistry) GetOrPut(nid types.NodeID, aid types.ActorID) (interfaces.Actor, error) {
	if m.GetOrPutFunc != nil {
		return m.GetOrPutFunc(nid, aid)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	byActor, ok := m.proxies[nid]
	if !ok {
		byActor = make(map[types.ActorID]interfaces.Actor)
		m.proxies[nid] = byActor
	}
	if p, ok := byActor[aid]; ok {
		return p, nil
	}
	p := NewMockActor(nid, aid)
	byActor[aid] = p
	return p, nil
}

// Erase 移除节点的所有代理
func (m *MockProxyRegistry) Erase(nid types.NodeID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.proxies, nid)
	m.erased = append(m.erased, nid)
}

// EraseActor 移除单个代理
func (m *MockProxyRegistry) EraseActor(nid types.NodeID, aid types.ActorID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.proxies[nid], aid)
}

// Count 返回节点的代理数量
func (m *MockProxyRegistry) Count(nid types.NodeID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.proxies[nid])
}

// Erased 返回 Erase 调用记录
func (m *MockProxyRegistry) Erased() []types.NodeID {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]types.NodeID(nil), m.erased...)
}
