package actor

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/dep2p/go-actornet/config"
	"github.com/dep2p/go-actornet/pkg/interfaces"
	"github.com/dep2p/go-actornet/pkg/lib/log"
	"github.com/dep2p/go-actornet/pkg/types"
)

var logger = log.Logger("core/actor")

// System 本地 actor 运行时
type System struct {
	node        types.NodeID
	mailboxSize int

	nextID atomic.Uint64

	mu     sync.RWMutex
	actors map[types.ActorID]interfaces.Actor
	names  map[string]types.ActorID
}

var _ interfaces.ActorSystem = (*System)(nil)

// NewSystem 创建运行时
//
// node 为空时随机生成。
func NewSystem(node types.NodeID) *System {
	if node.IsEmpty() {
		node = types.RandomNodeID()
	}
	return &System{
		node:        node,
		mailboxSize: config.DefaultMiddlemanConfig().MailboxSize,
		actors:      make(map[types.ActorID]interfaces.Actor),
		names:       make(map[string]types.ActorID),
	}
}

// NewSystemFromConfig 从统一配置创建运行时
func NewSystemFromConfig(cfg *config.Config) (*System, error) {
	if cfg == nil {
		return NewSystem(types.EmptyNodeID), nil
	}

	var node types.NodeID
	if cfg.Middleman.NodeID != "" {
		id, err := types.ParseNodeID(cfg.Middleman.NodeID)
		if err != nil {
			return nil, fmt.Errorf("middleman node id: %w", err)
		}
		node = id
	}

	s := NewSystem(node)
	if cfg.Middleman.MailboxSize > 0 {
		s.mailboxSize = cfg.Middleman.MailboxSize
	}
	logger.Debug("actor 运行时已创建", "node", s.node.ShortString())
	return s, nil
}

// NodeID 返回本地节点标识
func (s *System) NodeID() types.NodeID {
	return s.node
}

// NextActorID 分配新的 actor 标识，从 1 开始递增
func (s *System) NextActorID() types.ActorID {
	return types.ActorID(s.nextID.Add(1))
}

// Register 注册本地 actor
func (s *System) Register(a interfaces.Actor) error {
	if a == nil || !a.ID().IsValid() {
		return ErrInvalidActor
	}
	if a.Node() != s.node {
		return ErrForeignActor
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.actors[a.ID()]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateActor, a.ID())
	}
	s.actors[a.ID()] = a
	return nil
}

// Unregister 注销 actor 及其所有注册名
func (s *System) Unregister(id types.ActorID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.actors, id)
	for name, aid := range s.names {
		if aid == id {
			delete(s.names, name)
		}
	}
}

// Lookup 按标识查找本地 actor
func (s *System) Lookup(id types.ActorID) (interfaces.Actor, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.actors[id]
	return a, ok
}

// RegisterName 为已注册的 actor 绑定名称
func (s *System) RegisterName(name string, id types.ActorID) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidActor)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.actors[id]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownActor, id)
	}
	if cur, ok := s.names[name]; ok && cur != id {
		return fmt.Errorf("%w: %s", ErrNameTaken, name)
	}
	s.names[name] = id
	return nil
}

// UnregisterName 解除名称绑定
func (s *System) UnregisterName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.names, name)
}

// LookupName 按注册名查找本地 actor
func (s *System) LookupName(name string) (interfaces.Actor, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.names[name]
	if !ok {
		return nil, false
	}
	a, ok := s.actors[id]
	return a, ok
}

// Count 返回已注册的 actor 数量
func (s *System) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.actors)
}

// Spawn 创建并注册一个使用默认容量的邮箱
func (s *System) Spawn() *Mailbox {
	return s.SpawnSized(s.mailboxSize)
}

// SpawnSized 创建并注册指定容量的邮箱
func (s *System) SpawnSized(size int) *Mailbox {
	mb := newMailbox(s, s.NextActorID(), size)
	// 新分配的标识不会冲突
	_ = s.Register(mb)
	return mb
}

// Render 返回错误的可读描述
func (s *System) Render(err error) string {
	if err == nil {
		return "none"
	}
	return fmt.Sprintf("error(%s)", err.Error())
}
