package basp

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/dep2p/go-actornet/internal/core/actor"
	"github.com/dep2p/go-actornet/pkg/interfaces"
	"github.com/dep2p/go-actornet/pkg/lib/log"
	"github.com/dep2p/go-actornet/pkg/types"
)

var logger = log.Logger("core/basp")

type state uint8

const (
	stateAwaitingHandshake state = iota
	stateReady
)

type pendingResolve struct {
	locator  types.URI
	listener interfaces.Actor
}

// Interfacer 可选接口：actor 声明自己接受的消息接口
type Interfacer interface {
	Interfaces() []string
}

// Option 协议处理器选项
type Option func(*Application)

// WithConfig 设置协议配置
func WithConfig(cfg Config) Option {
	return func(a *Application) {
		a.cfg = cfg
	}
}

// WithPeer 设置对端节点标识
//
// 设置后代理按该标识登记，握手中的节点标识只用于校验日志。
func WithPeer(nid types.NodeID) Option {
	return func(a *Application) {
		a.peer = nid
	}
}

// Application 单个通道上的协议处理器
type Application struct {
	cfg     Config
	system  interfaces.ActorSystem
	proxies interfaces.ProxyRegistry

	mu      sync.Mutex
	state   state
	peer    types.NodeID
	closed  bool
	nextReq uint64
	pending map[uint64]pendingResolve
}

var _ interfaces.Application = (*Application)(nil)

// New 创建绑定到本地运行时和代理表的协议处理器
func New(system interfaces.ActorSystem, proxies interfaces.ProxyRegistry, opts ...Option) *Application {
	a := &Application{
		cfg:     DefaultConfig(),
		system:  system,
		proxies: proxies,
		pending: make(map[uint64]pendingResolve),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Peer 返回对端节点标识，握手前且未设置时为空
func (a *Application) Peer() types.NodeID {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.peer
}

// Ready 是否已完成握手
func (a *Application) Ready() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state == stateReady
}

// Pending 返回等待响应的 resolve 请求数
func (a *Application) Pending() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.pending)
}

// Init 写出本地握手
func (a *Application) Init(w interfaces.PacketWriter) error {
	if len(a.cfg.AppIdentifiers) == 0 {
		return ErrNoAppIdentifiers
	}
	return write(w, &Message{
		Kind:   KindHandshake,
		Node:   a.system.NodeID(),
		AppIDs: a.cfg.AppIdentifiers,
	})
}

// HandleFrame 处理一个入站帧
func (a *Application) HandleFrame(w interfaces.PacketWriter, frame []byte) error {
	msg, err := Unmarshal(frame)
	if err != nil {
		return err
	}

	if msg.Kind == KindHandshake {
		return a.handleHandshake(msg)
	}
	if !a.Ready() {
		return fmt.Errorf("%w: got %s", ErrMissingHandshake, msg.Kind)
	}

	switch msg.Kind {
	case KindResolveRequest:
		return a.handleResolveRequest(w, msg)
	case KindResolveResponse:
		a.handleResolveResponse(msg)
		return nil
	case KindActorMessage:
		return a.handleActorMessage(msg)
	case KindHeartbeat:
		logger.Debug("收到心跳", "peer", a.Peer().ShortString())
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownMessage, msg.Kind)
	}
}

// Resolve 向对端发送解析请求，结果异步投递给 listener
func (a *Application) Resolve(w interfaces.PacketWriter, locator types.URI, listener interfaces.Actor) {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		actor.AnonSend(listener, ErrChannelClosed)
		return
	}
	a.nextReq++
	id := a.nextReq
	a.pending[id] = pendingResolve{locator: locator, listener: listener}
	a.mu.Unlock()

	err := write(w, &Message{
		Kind:      KindResolveRequest,
		RequestID: id,
		Path:      locator.Path,
	})
	if err == nil {
		return
	}

	a.mu.Lock()
	_, stillPending := a.pending[id]
	delete(a.pending, id)
	a.mu.Unlock()

	// Close 已经通知过 listener
	if stillPending {
		actor.AnonSend(listener, fmt.Errorf("send resolve request: %w", err))
	}
}

// WriteMessage 发送 actor 消息
func (a *Application) WriteMessage(w interfaces.PacketWriter, env *types.Envelope) error {
	payload, ok := env.Content.([]byte)
	if !ok {
		return fmt.Errorf("%w: %T", ErrUnsupportedContent, env.Content)
	}

	payload, compressed := compressPayload(payload, a.cfg.CompressThreshold)
	return write(w, &Message{
		Kind:       KindActorMessage,
		Node:       a.system.NodeID(),
		SrcActor:   env.Sender.ID,
		ActorID:    env.Receiver.ID,
		Payload:    payload,
		Compressed: compressed,
	})
}

// Heartbeat 发送心跳
func (a *Application) Heartbeat(w interfaces.PacketWriter) error {
	return write(w, &Message{Kind: KindHeartbeat})
}

// Close 通知所有等待中的 listener
func (a *Application) Close() {
	a.mu.Lock()
	a.closed = true
	pending := a.pending
	a.pending = make(map[uint64]pendingResolve)
	a.mu.Unlock()

	for _, p := range pending {
		actor.AnonSend(p.listener, ErrChannelClosed)
	}
}

func (a *Application) handleHandshake(msg *Message) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.state == stateReady {
		return ErrDuplicateHandshake
	}
	if !sharesAppID(a.cfg.AppIdentifiers, msg.AppIDs) {
		return fmt.Errorf("%w: local %v, remote %v", ErrAppIDMismatch, a.cfg.AppIdentifiers, msg.AppIDs)
	}

	switch {
	case a.peer.IsEmpty():
		a.peer = msg.Node
	case a.peer != msg.Node:
		logger.Warn("握手节点与通道节点不一致",
			"expected", a.peer.ShortString(),
			"remote", msg.Node.ShortString())
	}
	a.state = stateReady
	logger.Debug("握手完成", "peer", a.peer.ShortString())
	return nil
}

func (a *Application) handleResolveRequest(w interfaces.PacketWriter, msg *Message) error {
	resp := &Message{Kind: KindResolveResponse, RequestID: msg.RequestID}

	target, err := a.lookupPath(msg.Path)
	if err != nil {
		resp.Error = err.Error()
	} else {
		resp.ActorID = target.ID()
		if ifc, ok := target.(Interfacer); ok {
			resp.Ifs = ifc.Interfaces()
		}
	}
	return write(w, resp)
}

func (a *Application) lookupPath(path string) (interfaces.Actor, error) {
	kind, arg, ok := strings.Cut(path, "/")
	if !ok || arg == "" {
		return nil, fmt.Errorf("invalid path %q", path)
	}

	switch kind {
	case "id":
		n, err := strconv.ParseUint(arg, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid actor id %q", arg)
		}
		if target, ok := a.system.Lookup(types.ActorID(n)); ok {
			return target, nil
		}
		return nil, fmt.Errorf("no actor with id %d", n)
	case "name":
		if target, ok := a.system.LookupName(arg); ok {
			return target, nil
		}
		return nil, fmt.Errorf("no actor named %q", arg)
	default:
		return nil, fmt.Errorf("invalid path %q", path)
	}
}

func (a *Application) handleResolveResponse(msg *Message) {
	a.mu.Lock()
	p, ok := a.pending[msg.RequestID]
	delete(a.pending, msg.RequestID)
	peer := a.peer
	a.mu.Unlock()

	if !ok {
		logger.Debug("忽略未知请求的 resolve 响应", "request", msg.RequestID)
		return
	}

	if msg.Error != "" || !msg.ActorID.IsValid() {
		reason := msg.Error
		if reason == "" {
			reason = "invalid actor id"
		}
		actor.AnonSend(p.listener, &ResolveError{Path: p.locator.Path, Reason: reason})
		return
	}

	proxy, err := a.proxies.GetOrPut(peer, msg.ActorID)
	if err != nil {
		actor.AnonSend(p.listener, fmt.Errorf("make proxy: %w", err))
		return
	}
	actor.AnonSend(p.listener, &types.ResolveResult{
		Locator: p.locator,
		Proxy:   proxy,
		Ifs:     msg.Ifs,
	})
}

func (a *Application) handleActorMessage(msg *Message) error {
	payload, err := decompressPayload(msg.Payload, msg.Compressed)
	if err != nil {
		return err
	}

	dst, ok := a.system.Lookup(msg.ActorID)
	if !ok {
		logger.Debug("丢弃发往未知 actor 的消息", "actor", msg.ActorID)
		return nil
	}

	src := msg.Node
	if src.IsEmpty() {
		src = a.Peer()
	}
	dst.Enqueue(&types.Envelope{
		Sender:   types.ActorAddr{Node: src, ID: msg.SrcActor},
		Receiver: types.ActorAddr{Node: a.system.NodeID(), ID: msg.ActorID},
		Content:  payload,
	})
	return nil
}

func write(w interfaces.PacketWriter, msg *Message) error {
	return w.WritePacket(Marshal(msg))
}

func sharesAppID(local, remote []string) bool {
	for _, id := range remote {
		if slices.Contains(local, id) {
			return true
		}
	}
	return false
}
