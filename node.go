package actornet

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/fx"

	"github.com/dep2p/go-actornet/config"
	"github.com/dep2p/go-actornet/internal/core/actor"
	"github.com/dep2p/go-actornet/internal/core/backend/loopback"
	"github.com/dep2p/go-actornet/internal/core/metrics"
	"github.com/dep2p/go-actornet/internal/core/middleman"
	"github.com/dep2p/go-actornet/pkg/interfaces"
	"github.com/dep2p/go-actornet/pkg/lib/log"
	"github.com/dep2p/go-actornet/pkg/types"
)

var logger = log.Logger("actornet")

const (
	// initializeTimeout Fx 应用启动超时
	initializeTimeout = 30 * time.Second

	// closeTimeout Close 的停止超时
	closeTimeout = 10 * time.Second
)

// NodeState 节点状态
type NodeState int

const (
	// StateIdle 空闲状态（已创建，未启动）
	StateIdle NodeState = iota

	// StateStarting 启动中（Fx App 启动中）
	StateStarting

	// StateRunning 运行中
	StateRunning

	// StateStopping 停止中
	StateStopping

	// StateStopped 已停止（不可重新启动）
	StateStopped
)

// String 返回状态的字符串表示
func (s NodeState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Node actor 网络节点
//
// 组件在 New 时由 Fx 构造完毕，访问器在 Start 前即可使用；
// 后端在 Start 时初始化，Stop/Close 时停止并清空 peer 表。
type Node struct {
	config *nodeConfig
	app    *fx.App

	middleman *middleman.Middleman
	backend   *loopback.Backend
	metrics   *metrics.Metrics

	mu      sync.RWMutex
	state   NodeState
	started bool
	closed  bool
}

// ════════════════════════════════════════════════════════════════════════════
//                              构造函数
// ════════════════════════════════════════════════════════════════════════════

// New 创建新节点
//
// 创建节点但不启动，需要调用 Start() 启动。
//
// 示例：
//
//	node, err := actornet.New(ctx,
//	    actornet.WithPreset(config.PresetTest),
//	    actornet.WithNodeID(types.NodeIDFromString("node-a")),
//	)
func New(_ context.Context, opts ...Option) (*Node, error) {
	cfg := newNodeConfig()

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("apply option: %w", err)
		}
	}

	node := &Node{config: cfg}

	var err error
	node.app, err = buildFxApp(cfg, node)
	if err != nil {
		return nil, fmt.Errorf("build fx app: %w", err)
	}
	return node, nil
}

// Start 快捷启动函数
//
// 等价于 New() + Start()。
func Start(ctx context.Context, opts ...Option) (*Node, error) {
	node, err := New(ctx, opts...)
	if err != nil {
		return nil, err
	}
	if err := node.Start(ctx); err != nil {
		return nil, fmt.Errorf("start node: %w", err)
	}
	return node, nil
}

// ════════════════════════════════════════════════════════════════════════════
//                              生命周期
// ════════════════════════════════════════════════════════════════════════════

// Start 启动节点
//
// 调用所有模块的 OnStart：中间人按注册顺序初始化后端。
func (n *Node) Start(ctx context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return ErrNodeClosed
	}
	if n.started {
		return ErrAlreadyStarted
	}

	n.state = StateStarting
	logger.Info("正在启动节点", "node", n.nodeIDLocked().ShortString())

	startCtx, cancel := context.WithTimeout(ctx, initializeTimeout)
	defer cancel()

	if err := n.app.Start(startCtx); err != nil {
		n.state = StateIdle
		logger.Error("节点启动失败", "error", err)
		return fmt.Errorf("initialize failed: %w", err)
	}

	n.started = true
	n.state = StateRunning
	logger.Info("节点已启动")
	return nil
}

// Stop 停止节点
//
// 调用所有模块的 OnStop（反向顺序）：后端清空 peer 表，I/O 驱动关闭。
// 中间人只停止一次，停止后的节点不可重新启动。
func (n *Node) Stop(ctx context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return ErrNodeClosed
	}
	if !n.started {
		return ErrNotStarted
	}
	return n.stopLocked(ctx)
}

// Close 关闭节点并释放所有资源（幂等）
func (n *Node) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return nil
	}
	if !n.started {
		n.closed = true
		n.state = StateStopped
		// 未启动时 OnStop 不会执行，直接停止中间人释放资源
		return n.middleman.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()
	return n.stopLocked(ctx)
}

func (n *Node) stopLocked(ctx context.Context) error {
	n.state = StateStopping
	logger.Info("正在停止节点")

	err := n.app.Stop(ctx)

	// 即使停止出错，也标记为已停止
	n.started = false
	n.closed = true
	n.state = StateStopped
	if err != nil {
		logger.Error("停止节点失败", "error", err)
		return fmt.Errorf("stop fx app: %w", err)
	}
	logger.Info("节点已停止")
	return nil
}

// State 返回节点状态
func (n *Node) State() NodeState {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.state
}

// IsRunning 节点是否在运行
func (n *Node) IsRunning() bool {
	return n.State() == StateRunning
}

// ════════════════════════════════════════════════════════════════════════════
//                              组件访问
// ════════════════════════════════════════════════════════════════════════════

// NodeID 返回本地节点标识
func (n *Node) NodeID() types.NodeID {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.nodeIDLocked()
}

func (n *Node) nodeIDLocked() types.NodeID {
	return n.middleman.ActorSystem().NodeID()
}

// Config 返回节点配置的副本
func (n *Node) Config() *config.Config {
	return config.CloneConfig(n.config.config)
}

// Middleman 返回中间人
func (n *Node) Middleman() *middleman.Middleman {
	return n.middleman
}

// System 返回 actor 运行时
func (n *Node) System() *actor.System {
	return n.middleman.ActorSystem()
}

// Backend 返回回环测试后端
func (n *Node) Backend() *loopback.Backend {
	return n.backend
}

// Metrics 返回指标收集器（未启用时为 nil）
func (n *Node) Metrics() *metrics.Metrics {
	return n.metrics
}

// ════════════════════════════════════════════════════════════════════════════
//                              远程 actor
// ════════════════════════════════════════════════════════════════════════════

// Spawn 创建本地匿名 actor
func (n *Node) Spawn() *actor.Mailbox {
	return n.System().Spawn()
}

// Resolve 异步解析定位符，结果投递给 listener
func (n *Node) Resolve(locator types.URI, listener interfaces.Actor) {
	n.middleman.Resolve(locator, listener)
}

// RemoteActor 解析定位符并返回远程 actor 的代理
func (n *Node) RemoteActor(ctx context.Context, locator types.URI) (interfaces.Actor, error) {
	if !n.IsRunning() {
		return nil, ErrNotStarted
	}
	return n.middleman.RemoteActor(ctx, locator)
}
