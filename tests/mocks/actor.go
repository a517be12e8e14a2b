package mocks

import (
	"sync"

	"github.com/dep2p/go-actornet/pkg/interfaces"
	"github.com/dep2p/go-actornet/pkg/types"
)

// MockActor 模拟 Actor 接口实现
type MockActor struct {
	IDValue   types.ActorID
	NodeValue types.NodeID

	// 可覆盖的方法
	EnqueueFunc func(env *types.Envelope) bool

	mu       sync.Mutex
	received []*types.Envelope
}

var _ interfaces.Actor = (*MockActor)(nil)

// NewMockActor 创建 MockActor
func NewMockActor(node types.NodeID, id types.ActorID) *MockActor {
	return &MockActor{IDValue: id, NodeValue: node}
}

// ID 返回 actor 标识
func (m *MockActor) ID() types.ActorID {
	return m.IDValue
}

// Node 返回所在节点
func (m *MockActor) Node() types.NodeID {
	return m.NodeValue
}

// Enqueue 记录消息
func (m *MockActor) Enqueue(env *types.Envelope) bool {
	m.mu.Lock()
	m.received = append(m.received, env)
	m.mu.Unlock()

	if m.EnqueueFunc != nil {
		return m.EnqueueFunc(env)
	}
	return true
}

// Received 返回收到的消息副本
func (m *MockActor) Received() []*types.Envelope {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*types.Envelope(nil), m.received...)
}

// MockActorSystem 模拟 ActorSystem 接口实现
type MockActorSystem struct {
	NodeIDValue types.NodeID
	Actors      map[types.ActorID]interfaces.Actor
	Names       map[string]interfaces.Actor

	// 可覆盖的方法
	NextActorIDFunc func() types.ActorID
	RenderFunc      func(err error) string

	mu     sync.Mutex
	nextID types.ActorID
}

var _ interfaces.ActorSystem = (*MockActorSystem)(nil)

// NewMockActorSystem 创建 MockActorSystem
func NewMockActorSystem(node types.NodeID) *MockActorSystem {
	return &MockActorSystem{
		NodeIDValue: node,
		Actors:      make(map[types.ActorID]interfaces.Actor),
		Names:       make(map[string]interfaces.Actor),
	}
}

// NodeID 返回本地节点标识
func (m *MockActorSystem) NodeID() types.NodeID {
	return m.NodeIDValue
}

// NextActorID 分配 actor 标识
func (m *MockActorSystem) NextActorID() types.ActorID {
	if m.NextActorIDFunc != nil {
		return m.NextActorIDFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	return m.nextID
}

// Lookup 按标识查找
func (m *MockActorSystem) Lookup(id types.ActorID) (interfaces.Actor, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.Actors[id]
	return a, ok
}

// LookupName 按名称查找
func (m *MockActorSystem) LookupName(name string) (interfaces.Actor, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.Names[name]
	return a, ok
}

// Render 返回错误描述
func (m *MockActorSystem) Render(err error) string {
	if m.RenderFunc != nil {
		return m.RenderFunc(err)
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
