package mocks

import "github.com/dep2p/go-actornet/pkg/interfaces"

// MockMiddleman 模拟 Middleman 接口实现
type MockMiddleman struct {
	SystemValue      interfaces.ActorSystem
	MultiplexerValue interfaces.Multiplexer
}

var _ interfaces.Middleman = (*MockMiddleman)(nil)

// NewMockMiddleman 创建 MockMiddleman
func NewMockMiddleman(system interfaces.ActorSystem, mpx interfaces.Multiplexer) *MockMiddleman {
	return &MockMiddleman{SystemValue: system, MultiplexerValue: mpx}
}

// System 返回 actor 运行时
func (m *MockMiddleman) System() interfaces.ActorSystem {
	return m.SystemValue
}

// Multiplexer 返回 I/O 驱动
func (m *MockMiddleman) Multiplexer() interfaces.Multiplexer {
	return m.MultiplexerValue
}
