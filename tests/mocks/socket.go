package mocks

import (
	"net"
	"sync"

	"github.com/dep2p/go-actornet/pkg/interfaces"
)

// MockSocketPairFactory 模拟 SocketPairFactory 接口实现
//
// 未设置 MakeFunc 时返回 net.Pipe。
type MockSocketPairFactory struct {
	// 可覆盖的方法
	MakeFunc func() (net.Conn, net.Conn, error)

	mu    sync.Mutex
	calls int
}

var _ interfaces.SocketPairFactory = (*MockSocketPairFactory)(nil)

// MakeStreamSocketPair 返回一对连接
func (m *MockSocketPairFactory) MakeStreamSocketPair() (net.Conn, net.Conn, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if m.MakeFunc != nil {
		return m.MakeFunc()
	}
	first, second := net.Pipe()
	return first, second, nil
}

// Calls 返回调用次数
func (m *MockSocketPairFactory) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
