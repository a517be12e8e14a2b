package middleman

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/multierr"

	"github.com/dep2p/go-actornet/internal/core/actor"
	"github.com/dep2p/go-actornet/pkg/interfaces"
	"github.com/dep2p/go-actornet/pkg/lib/log"
	"github.com/dep2p/go-actornet/pkg/types"
)

var logger = log.Logger("core/middleman")

// proxyRegistryOwner 持有代理表的后端
type proxyRegistryOwner interface {
	ProxyRegistry() interfaces.ProxyRegistry
}

// Option 选项
type Option func(*Middleman)

// WithConfig 设置中间人配置
func WithConfig(cfg Config) Option {
	return func(m *Middleman) {
		m.cfg = cfg
	}
}

// Middleman 中间人
type Middleman struct {
	cfg    Config
	system *actor.System
	mpx    interfaces.Multiplexer

	mu       sync.RWMutex
	backends map[string]interfaces.Backend
	order    []string

	stopOnce sync.Once
	stopped  bool
}

var _ interfaces.Middleman = (*Middleman)(nil)

// New 创建中间人
func New(system *actor.System, mpx interfaces.Multiplexer, opts ...Option) *Middleman {
	m := &Middleman{
		cfg:      DefaultConfig(),
		system:   system,
		mpx:      mpx,
		backends: make(map[string]interfaces.Backend),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// System 返回 actor 运行时
func (m *Middleman) System() interfaces.ActorSystem {
	return m.system
}

// ActorSystem 返回具体的 actor 运行时
func (m *Middleman) ActorSystem() *actor.System {
	return m.system
}

// Multiplexer 返回 I/O 驱动
func (m *Middleman) Multiplexer() interfaces.Multiplexer {
	return m.mpx
}

// AddBackend 注册后端，名称即 scheme
func (m *Middleman) AddBackend(b interfaces.Backend) error {
	if b == nil {
		return ErrNilBackend
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stopped {
		return ErrStopped
	}
	name := b.Name()
	if _, ok := m.backends[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateBackend, name)
	}
	m.backends[name] = b
	m.order = append(m.order, name)
	logger.Debug("后端已注册", "backend", name)
	return nil
}

// Backend 按 scheme 查找后端
func (m *Middleman) Backend(scheme string) (interfaces.Backend, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.backends[scheme]
	return b, ok
}

// Backends 按注册顺序返回所有后端
func (m *Middleman) Backends() []interfaces.Backend {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]interfaces.Backend, 0, len(m.order))
	for _, name := range m.order {
		out = append(out, m.backends[name])
	}
	return out
}

// Init 按注册顺序初始化所有后端
func (m *Middleman) Init() error {
	var err error
	for _, b := range m.Backends() {
		if e := b.Init(); e != nil {
			err = multierr.Append(err, fmt.Errorf("init backend %s: %w", b.Name(), e))
		}
	}
	if err == nil {
		logger.Info("中间人已启动", "node", m.system.NodeID().ShortString())
	}
	return err
}

// Stop 逆序停止所有后端并关闭 I/O 驱动（只执行一次）
func (m *Middleman) Stop() error {
	var err error
	m.stopOnce.Do(func() {
		m.mu.Lock()
		m.stopped = true
		m.mu.Unlock()

		backends := m.Backends()
		for i := len(backends) - 1; i >= 0; i-- {
			backends[i].Stop()
		}
		err = m.mpx.Close()
		logger.Info("中间人已停止", "backends", len(backends))
	})
	return err
}

// Resolve 把定位符交给对应后端解析，结果异步投递给 listener
func (m *Middleman) Resolve(locator types.URI, listener interfaces.Actor) {
	b, ok := m.Backend(locator.Scheme)
	if !ok {
		actor.AnonSend(listener, fmt.Errorf("%w: %q", ErrNoBackend, locator.Scheme))
		return
	}
	b.Resolve(locator, listener)
}

// Connect 返回到定位符所在节点的通道
func (m *Middleman) Connect(locator types.URI) (interfaces.EndpointManager, error) {
	b, ok := m.Backend(locator.Scheme)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoBackend, locator.Scheme)
	}
	return b.GetOrConnect(locator)
}

// RemoteActor 解析定位符并等待远程 actor 的代理
//
// ctx 没有截止时间时使用配置的 ResolveTimeout。
func (m *Middleman) RemoteActor(ctx context.Context, locator types.URI) (interfaces.Actor, error) {
	if _, ok := ctx.Deadline(); !ok && m.cfg.ResolveTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.cfg.ResolveTimeout)
		defer cancel()
	}

	listener := m.system.Spawn()
	defer listener.Close()

	m.Resolve(locator, listener)

	env, err := listener.Receive(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", locator, err)
	}

	switch c := env.Content.(type) {
	case *types.ResolveResult:
		if proxy, ok := c.Proxy.(interfaces.Actor); ok {
			return proxy, nil
		}
		return nil, fmt.Errorf("%w: proxy %T", ErrUnexpectedResponse, c.Proxy)
	case error:
		return nil, c
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnexpectedResponse, env.Content)
	}
}

// Proxy 返回远程 actor 的代理
//
// 后端持有代理表时复用已有代理，否则直接由后端创建。
func (m *Middleman) Proxy(scheme string, nid types.NodeID, aid types.ActorID) (interfaces.Actor, error) {
	b, ok := m.Backend(scheme)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoBackend, scheme)
	}
	if owner, ok := b.(proxyRegistryOwner); ok {
		return owner.ProxyRegistry().GetOrPut(nid, aid)
	}
	return b.MakeProxy(nid, aid)
}
