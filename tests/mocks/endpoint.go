package mocks

import (
	"sync"

	"github.com/google/uuid"

	"github.com/dep2p/go-actornet/pkg/interfaces"
	"github.com/dep2p/go-actornet/pkg/types"
)

// MockPacketWriter 模拟 PacketWriter 接口实现
type MockPacketWriter struct {
	// 可覆盖的方法
	WritePacketFunc func(frame []byte) error

	mu     sync.Mutex
	frames [][]byte
}

var _ interfaces.PacketWriter = (*MockPacketWriter)(nil)

// WritePacket 记录帧
func (m *MockPacketWriter) WritePacket(frame []byte) error {
	if m.WritePacketFunc != nil {
		if err := m.WritePacketFunc(frame); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.frames = append(m.frames, append([]byte(nil), frame...))
	return nil
}

// Frames 返回已写出的帧副本
func (m *MockPacketWriter) Frames() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]byte(nil), m.frames...)
}

// Last 返回最后一帧，没有时返回 nil
func (m *MockPacketWriter) Last() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.frames) == 0 {
		return nil
	}
	return m.frames[len(m.frames)-1]
}

// Reset 清空记录
func (m *MockPacketWriter) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.frames = nil
}

// ResolveCall 记录一次 Resolve 调用
type ResolveCall struct {
	Locator  types.URI
	Listener interfaces.Actor
}

// MockEndpointManager 模拟 EndpointManager 接口实现
//
// 未设置 HandleReadEventFunc 时，HandleReadEvent 阻塞到 Close。
type MockEndpointManager struct {
	IDValue string

	// 可覆盖的方法
	InitFunc            func() error
	HandleReadEventFunc func() error
	EnqueueFunc         func(env *types.Envelope) error
	CloseFunc           func() error

	mu         sync.Mutex
	initCalls  int
	closeCalls int
	resolves   []ResolveCall
	enqueued   []*types.Envelope
	closeOnce  sync.Once
	done       chan struct{}
}

var _ interfaces.EndpointManager = (*MockEndpointManager)(nil)

// NewMockEndpointManager 创建 MockEndpointManager
func NewMockEndpointManager() *MockEndpointManager {
	return &MockEndpointManager{
		IDValue: uuid.NewString(),
		done:    make(chan struct{}),
	}
}

// ID 返回通道标识
func (m *MockEndpointManager) ID() string {
	return m.IDValue
}

// Init 初始化
func (m *MockEndpointManager) Init() error {
	m.mu.Lock()
	m.initCalls++
	m.mu.Unlock()
	if m.InitFunc != nil {
		return m.InitFunc()
	}
	return nil
}

// HandleReadEvent 读事件
func (m *MockEndpointManager) HandleReadEvent() error {
	if m.HandleReadEventFunc != nil {
		return m.HandleReadEventFunc()
	}
	<-m.done
	return errMockClosed
}

// Resolve 记录解析请求
func (m *MockEndpointManager) Resolve(locator types.URI, listener interfaces.Actor) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resolves = append(m.resolves, ResolveCall{Locator: locator, Listener: listener})
}

// Enqueue 记录消息
func (m *MockEndpointManager) Enqueue(env *types.Envelope) error {
	m.mu.Lock()
	m.enqueued = append(m.enqueued, env)
	m.mu.Unlock()
	if m.EnqueueFunc != nil {
		return m.EnqueueFunc(env)
	}
	return nil
}

// Close 关闭（幂等）
func (m *MockEndpointManager) Close() error {
	m.mu.Lock()
	m.closeCalls++
	m.mu.Unlock()
	m.closeOnce.Do(func() { close(m.done) })
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

// InitCalls 返回 Init 调用次数
func (m *MockEndpointManager) InitCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.initCalls
}

// CloseCalls 返回 Close 调用次数
func (m *MockEndpointManager) CloseCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closeCalls
}

// Resolves 返回 Resolve 调用记录
func (m *MockEndpointManager) Resolves() []ResolveCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ResolveCall(nil), m.resolves...)
}

// Enqueued 返回已发送的消息
func (m *MockEndpointManager) Enqueued() []*types.Envelope {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*types.Envelope(nil), m.enqueued...)
}
