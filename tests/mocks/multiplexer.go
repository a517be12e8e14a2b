package mocks

import (
	"sync"

	"github.com/dep2p/go-actornet/pkg/interfaces"
)

// MockMultiplexer 模拟 Multiplexer 接口实现
//
// 不启动读循环，只记录注册和注销。
type MockMultiplexer struct {
	// 可覆盖的方法
	CloseFunc func() error

	mu           sync.Mutex
	registered   []interfaces.EndpointManager
	deregistered []interfaces.EndpointManager
	active       map[interfaces.EndpointManager]struct{}
}

var _ interfaces.Multiplexer = (*MockMultiplexer)(nil)

// NewMockMultiplexer 创建 MockMultiplexer
func NewMockMultiplexer() *MockMultiplexer {
	return &MockMultiplexer{active: make(map[interfaces.EndpointManager]struct{})}
}

// RegisterReading 记录注册
func (m *MockMultiplexer) RegisterReading(mgr interfaces.EndpointManager) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.registered = append(m.registered, mgr)
	m.active[mgr] = struct{}{}
}

// Deregister 记录注销并关闭通道
func (m *MockMultiplexer) Deregister(mgr interfaces.EndpointManager) {
	m.mu.Lock()
	m.deregistered = append(m.deregistered, mgr)
	delete(m.active, mgr)
	m.mu.Unlock()
	_ = mgr.Close()
}

// Count 返回活动通道数
func (m *MockMultiplexer) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.active)
}

// Close 关闭
func (m *MockMultiplexer) Close() error {
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

// Registered 返回注册记录
func (m *MockMultiplexer) Registered() []interfaces.EndpointManager {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]interfaces.EndpointManager(nil), m.registered...)
}

// Deregistered 返回注销记录
func (m *MockMultiplexer) Deregistered() []interfaces.EndpointManager {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]interfaces.EndpointManager(nil), m.deregistered...)
}
