package loopback

import (
	"fmt"
	"net"
	"sync"

	"github.com/dep2p/go-actornet/internal/core/actor"
	"github.com/dep2p/go-actornet/internal/core/basp"
	"github.com/dep2p/go-actornet/internal/core/endpoint"
	"github.com/dep2p/go-actornet/internal/core/metrics"
	"github.com/dep2p/go-actornet/internal/core/proxy"
	"github.com/dep2p/go-actornet/internal/core/socket"
	"github.com/dep2p/go-actornet/pkg/interfaces"
	"github.com/dep2p/go-actornet/pkg/lib/log"
	"github.com/dep2p/go-actornet/pkg/types"
)

var logger = log.Logger("core/backend/loopback")

// Name 后端名称，同时是定位符 scheme
const Name = "test"

// PeerEntry 节点登记项
type PeerEntry struct {
	// Socket 端点对的第一个端点，保持原样交给调用方模拟对端
	Socket net.Conn

	// Channel 包装第二个端点的托管通道
	Channel *endpoint.Manager

	// App 通道上的协议处理器
	App *basp.Application
}

// Option 后端选项
type Option func(*Backend)

// WithConfig 设置后端配置
func WithConfig(cfg Config) Option {
	return func(b *Backend) {
		b.cfg = cfg
	}
}

// WithSocketPairFactory 设置回环通道供应者
func WithSocketPairFactory(f interfaces.SocketPairFactory) Option {
	return func(b *Backend) {
		b.sockets = f
	}
}

// WithMetrics 设置指标采集
func WithMetrics(m *metrics.Metrics) Option {
	return func(b *Backend) {
		b.metrics = m
	}
}

// Backend 回环测试后端
type Backend struct {
	mm      interfaces.Middleman
	cfg     Config
	sockets interfaces.SocketPairFactory
	metrics *metrics.Metrics
	proxies *proxy.Registry

	mu      sync.Mutex
	peers   map[types.NodeID]*PeerEntry
	stopped bool
}

var (
	_ interfaces.Backend      = (*Backend)(nil)
	_ interfaces.ProxyFactory = (*Backend)(nil)
)

// New 创建测试后端
//
// 未指定供应者时按配置选择 socketpair 或 pipe。
func New(mm interfaces.Middleman, opts ...Option) (*Backend, error) {
	b := &Backend{
		mm:    mm,
		cfg:   DefaultConfig(),
		peers: make(map[types.NodeID]*PeerEntry),
	}
	for _, opt := range opts {
		opt(b)
	}

	if b.sockets == nil {
		p, err := socket.New(b.cfg.Provisioner)
		if err != nil {
			return nil, err
		}
		b.sockets = p
	}
	b.proxies = proxy.NewRegistry(b)
	return b, nil
}

// Name 返回后端名称
func (b *Backend) Name() string {
	return Name
}

// Init 初始化后端，通道按需供应，无需预先获取资源
func (b *Backend) Init() error {
	return nil
}

// Stop 清空登记表，注销并关闭通道，移除每个节点的代理记录
//
// 登记表在锁内整体换出并标记停止，此后不再供应新节点；
// 通道注销会等待进行中的分发结束，之后才清理代理，
// 因此停止返回后不会残留任何旧节点的代理。
func (b *Backend) Stop() {
	b.mu.Lock()
	b.stopped = true
	peers := b.peers
	b.peers = make(map[types.NodeID]*PeerEntry)
	b.mu.Unlock()

	mpx := b.mm.Multiplexer()
	for _, entry := range peers {
		mpx.Deregister(entry.Channel)
		_ = entry.Socket.Close()
	}
	for nid := range peers {
		b.proxies.Erase(nid)
	}
	b.metrics.SetActivePeers(0)

	logger.Debug("测试后端已停止", "peers", len(peers))
}

// Peer 返回到指定节点的通道，不存在时供应
//
// 后端停止后返回 nil。
func (b *Backend) Peer(nid types.NodeID) interfaces.EndpointManager {
	if e := b.getPeer(nid); e != nil {
		return e.Channel
	}
	return nil
}

// GetOrConnect 返回定位符 authority 对应节点的通道
func (b *Backend) GetOrConnect(locator types.URI) (interfaces.EndpointManager, error) {
	auth, ok := locator.AuthorityOnly()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrConnectingNotImplemented, locator)
	}
	if mgr := b.Peer(types.MakeNodeID(auth)); mgr != nil {
		return mgr, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrStopped, locator)
}

// Resolve 将解析请求转发到定位符所在节点的通道
//
// 定位符缺少 authority 时 listener 收到 basp.ErrInvalidLocator。
func (b *Backend) Resolve(locator types.URI, listener interfaces.Actor) {
	auth, ok := locator.AuthorityOnly()
	if !ok {
		b.metrics.Resolve(metrics.ResultInvalidLocator)
		actor.AnonSend(listener, basp.ErrInvalidLocator)
		return
	}
	mgr := b.Peer(types.MakeNodeID(auth))
	if mgr == nil {
		actor.AnonSend(listener, fmt.Errorf("%w: %s", ErrStopped, locator))
		return
	}
	b.metrics.Resolve(metrics.ResultForwarded)
	mgr.Resolve(locator, listener)
}

// MakeProxy 创建绑定到节点通道的远程 actor 代理
func (b *Backend) MakeProxy(nid types.NodeID, aid types.ActorID) (interfaces.Actor, error) {
	if !aid.IsValid() {
		return nil, proxy.ErrInvalidActorID
	}
	if nid.IsEmpty() {
		return nil, proxy.ErrInvalidNode
	}

	mgr := b.Peer(nid)
	if mgr == nil {
		return nil, ErrStopped
	}
	p, err := proxy.NewActorProxy(aid, nid, b.mm.System(), mgr)
	if err != nil {
		return nil, err
	}
	b.metrics.ProxyCreated()
	return p, nil
}

// SetLastHop 测试后端不记录路由跳
func (b *Backend) SetLastHop(*types.NodeID) {}

// Port 测试后端不监听端口
func (b *Backend) Port() uint16 {
	return 0
}

// Proxies 返回代理表
func (b *Backend) Proxies() *proxy.Registry {
	return b.proxies
}

// ProxyRegistry 以接口形式返回代理表
func (b *Backend) ProxyRegistry() interfaces.ProxyRegistry {
	return b.proxies
}

// Entry 查询登记项，不触发供应
func (b *Backend) Entry(nid types.NodeID) (*PeerEntry, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	e, ok := b.peers[nid]
	return e, ok
}

// PeerCount 返回登记的节点数
func (b *Backend) PeerCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.peers)
}

// Peers 返回登记的节点标识
func (b *Backend) Peers() []types.NodeID {
	b.mu.Lock()
	defer b.mu.Unlock()

	ids := make([]types.NodeID, 0, len(b.peers))
	for nid := range b.peers {
		ids = append(ids, nid)
	}
	return ids
}

// Emplace 用调用方提供的端点对登记节点
//
// 节点已登记时返回 ErrPeerExists，后端已停止时返回 ErrStopped，
// 两种情况下端点仍归调用方所有。
func (b *Backend) Emplace(nid types.NodeID, first, second net.Conn) (*PeerEntry, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.stopped {
		return nil, ErrStopped
	}
	if e, ok := b.peers[nid]; ok {
		return e, ErrPeerExists
	}
	return b.emplaceLocked(nid, first, second), nil
}

func (b *Backend) getPeer(nid types.NodeID) *PeerEntry {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.stopped {
		return nil
	}
	if e, ok := b.peers[nid]; ok {
		return e
	}

	first, second, err := b.sockets.MakeStreamSocketPair()
	if err != nil {
		b.fatal("创建回环端点对失败", nid, err)
	}
	return b.emplaceLocked(nid, first, second)
}

func (b *Backend) emplaceLocked(nid types.NodeID, first, second net.Conn) *PeerEntry {
	if err := socket.SetNonblocking(second, true); err != nil {
		logger.Warn("设置非阻塞失败", "peer", nid.ShortString(), "err", err)
	}

	app := basp.New(b.mm.System(), b.proxies,
		basp.WithConfig(b.cfg.BASP),
		basp.WithPeer(nid))

	opts := []endpoint.Option{endpoint.WithConfig(b.cfg.Endpoint)}
	if b.metrics != nil {
		opts = append(opts, endpoint.WithObserver(b.metrics))
	}
	mgr := endpoint.New(second, app, opts...)

	if err := mgr.Init(); err != nil {
		_ = first.Close()
		b.fatal("通道初始化失败", nid, err)
	}
	b.mm.Multiplexer().RegisterReading(mgr)

	entry := &PeerEntry{Socket: first, Channel: mgr, App: app}
	b.peers[nid] = entry

	b.metrics.PeerProvisioned()
	b.metrics.SetActivePeers(len(b.peers))
	logger.Debug("已供应回环通道", "peer", nid.ShortString(), "manager", mgr.ID())
	return entry
}

// fatal 本地供应失败：记录日志后 panic
func (b *Backend) fatal(msg string, nid types.NodeID, err error) {
	logger.Error(msg, "peer", nid.ShortString(), "err", b.mm.System().Render(err))
	panic(fmt.Errorf("loopback: %s: %w", msg, err))
}
