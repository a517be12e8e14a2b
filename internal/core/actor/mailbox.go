package actor

import (
	"context"
	"sync"

	"github.com/dep2p/go-actornet/pkg/interfaces"
	"github.com/dep2p/go-actornet/pkg/types"
)

// Mailbox 带缓冲的邮箱 actor
//
// Enqueue 从不阻塞：邮箱满或已关闭时返回 false。
type Mailbox struct {
	id     types.ActorID
	system *System
	ch     chan *types.Envelope

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

var _ interfaces.Actor = (*Mailbox)(nil)

func newMailbox(s *System, id types.ActorID, size int) *Mailbox {
	if size <= 0 {
		size = 1
	}
	return &Mailbox{
		id:     id,
		system: s,
		ch:     make(chan *types.Envelope, size),
		done:   make(chan struct{}),
	}
}

// ID 返回 actor 标识
func (m *Mailbox) ID() types.ActorID {
	return m.id
}

// Node 返回所在节点
func (m *Mailbox) Node() types.NodeID {
	return m.system.NodeID()
}

// Addr 返回 actor 地址
func (m *Mailbox) Addr() types.ActorAddr {
	return types.ActorAddr{Node: m.Node(), ID: m.id}
}

// Enqueue 投递消息
func (m *Mailbox) Enqueue(env *types.Envelope) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return false
	}
	select {
	case m.ch <- env:
		return true
	default:
		logger.Warn("邮箱已满，丢弃消息", "actor", m.id)
		return false
	}
}

// Receive 等待下一条消息
func (m *Mailbox) Receive(ctx context.Context) (*types.Envelope, error) {
	select {
	case env := <-m.ch:
		return env, nil
	default:
	}

	select {
	case env := <-m.ch:
		return env, nil
	case <-m.done:
		return nil, ErrMailboxClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// C 返回消息 channel
func (m *Mailbox) C() <-chan *types.Envelope {
	return m.ch
}

// Len 返回待处理消息数
func (m *Mailbox) Len() int {
	return len(m.ch)
}

// Close 关闭邮箱并从运行时注销（幂等）
func (m *Mailbox) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	close(m.done)
	m.mu.Unlock()

	m.system.Unregister(m.id)
}
