package multiplexer

import (
	"errors"
	"io"
	"net"
	"sync"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/dep2p/go-actornet/internal/core/endpoint"
	"github.com/dep2p/go-actornet/pkg/interfaces"
	"github.com/dep2p/go-actornet/pkg/lib/log"
)

var logger = log.Logger("core/multiplexer")

// Observer 注册通道数变化观察者
type Observer interface {
	ChannelsChanged(n int)
}

// Option 选项
type Option func(*Multiplexer)

// WithObserver 设置观察者
func WithObserver(o Observer) Option {
	return func(m *Multiplexer) {
		m.observer = o
	}
}

// Multiplexer I/O 驱动
type Multiplexer struct {
	observer Observer

	mu       sync.Mutex
	channels map[string]interfaces.EndpointManager
	loops    map[string]chan struct{}
	closed   bool

	group errgroup.Group
}

var _ interfaces.Multiplexer = (*Multiplexer)(nil)

// New 创建 I/O 驱动
func New(opts ...Option) *Multiplexer {
	m := &Multiplexer{
		channels: make(map[string]interfaces.EndpointManager),
		loops:    make(map[string]chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// RegisterReading 开始驱动通道的读事件
//
// 重复注册同一通道无效果；Close 之后注册的通道被直接关闭。
func (m *Multiplexer) RegisterReading(mgr interfaces.EndpointManager) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		logger.Warn("I/O 驱动已关闭，拒绝注册", "manager", mgr.ID())
		_ = mgr.Close()
		return
	}
	if _, ok := m.channels[mgr.ID()]; ok {
		m.mu.Unlock()
		return
	}
	m.channels[mgr.ID()] = mgr
	n := len(m.channels)
	done := make(chan struct{})
	m.loops[mgr.ID()] = done
	m.group.Go(func() error {
		defer m.loopExited(mgr.ID(), done)
		m.readLoop(mgr)
		return nil
	})
	m.mu.Unlock()

	m.notify(n)
	logger.Debug("通道已注册", "manager", mgr.ID())
}

// Deregister 停止分发并关闭通道
//
// 返回时通道的读循环已退出，不会再有帧交给协议处理器。
// 不能在该通道自身的读分发中调用。
func (m *Multiplexer) Deregister(mgr interfaces.EndpointManager) {
	m.mu.Lock()
	done := m.loops[mgr.ID()]
	m.mu.Unlock()

	if m.remove(mgr) {
		logger.Debug("通道已注销", "manager", mgr.ID())
	}
	_ = mgr.Close()

	if done != nil {
		<-done
	}
}

// Count 返回当前注册的通道数
func (m *Multiplexer) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.channels)
}

// Close 注销所有通道并等待读循环退出
func (m *Multiplexer) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	channels := make([]interfaces.EndpointManager, 0, len(m.channels))
	for _, mgr := range m.channels {
		channels = append(channels, mgr)
	}
	m.channels = make(map[string]interfaces.EndpointManager)
	m.mu.Unlock()

	var err error
	for _, mgr := range channels {
		err = multierr.Append(err, ignoreClosed(mgr.Close()))
	}
	m.notify(0)

	err = multierr.Append(err, m.group.Wait())
	logger.Debug("I/O 驱动已关闭", "channels", len(channels))
	return err
}

func (m *Multiplexer) readLoop(mgr interfaces.EndpointManager) {
	for {
		err := mgr.HandleReadEvent()
		if err == nil {
			continue
		}

		if m.remove(mgr) {
			if isClosed(err) {
				logger.Debug("对端关闭通道", "manager", mgr.ID())
			} else {
				logger.Warn("读事件失败，关闭通道", "manager", mgr.ID(), "err", err)
			}
			_ = mgr.Close()
		}
		return
	}
}

// loopExited 读循环退出后释放完成信号
func (m *Multiplexer) loopExited(id string, done chan struct{}) {
	m.mu.Lock()
	if m.loops[id] == done {
		delete(m.loops, id)
	}
	m.mu.Unlock()
	close(done)
}

// remove 移除分发引用，返回引用是否存在
func (m *Multiplexer) remove(mgr interfaces.EndpointManager) bool {
	m.mu.Lock()
	cur, ok := m.channels[mgr.ID()]
	if ok && cur == mgr {
		delete(m.channels, mgr.ID())
	} else {
		ok = false
	}
	n := len(m.channels)
	m.mu.Unlock()

	if ok {
		m.notify(n)
	}
	return ok
}

func (m *Multiplexer) notify(n int) {
	if m.observer != nil {
		m.observer.ChannelsChanged(n)
	}
}

func isClosed(err error) bool {
	return errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, net.ErrClosed) ||
		errors.Is(err, endpoint.ErrClosed)
}

func ignoreClosed(err error) error {
	if err == nil || isClosed(err) {
		return nil
	}
	return err
}
