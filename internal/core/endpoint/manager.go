package endpoint

import (
	"bufio"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/dep2p/go-actornet/pkg/interfaces"
	"github.com/dep2p/go-actornet/pkg/lib/log"
	"github.com/dep2p/go-actornet/pkg/types"
)

var logger = log.Logger("core/endpoint")

// Observer 帧收发观察者（指标采集使用）
type Observer interface {
	FrameReceived(bytes int)
	FrameSent(bytes int)
}

// Stats 通道统计
type Stats struct {
	FramesIn  uint64
	FramesOut uint64
	BytesIn   uint64
	BytesOut  uint64
}

// Option 通道选项
type Option func(*Manager)

// WithConfig 设置通道配置
func WithConfig(cfg Config) Option {
	return func(m *Manager) {
		m.cfg = cfg
	}
}

// WithObserver 设置帧观察者
func WithObserver(o Observer) Option {
	return func(m *Manager) {
		m.observer = o
	}
}

// Manager 托管通道
type Manager struct {
	id       string
	conn     net.Conn
	app      interfaces.Application
	cfg      Config
	observer Observer

	reader *bufio.Reader
	sendCh chan []byte
	done   chan struct{}

	initialized atomic.Bool
	closed      atomic.Bool
	closeOnce   sync.Once

	framesIn  atomic.Uint64
	framesOut atomic.Uint64
	bytesIn   atomic.Uint64
	bytesOut  atomic.Uint64
}

var (
	_ interfaces.EndpointManager = (*Manager)(nil)
	_ interfaces.PacketWriter    = (*Manager)(nil)
)

// New 用端点和协议处理器创建托管通道
//
// 返回的通道尚未初始化，需要先调用 Init 再注册到 Multiplexer。
func New(conn net.Conn, app interfaces.Application, opts ...Option) *Manager {
	m := &Manager{
		id:   uuid.NewString(),
		conn: conn,
		app:  app,
		cfg:  DefaultConfig(),
		done: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.reader = bufio.NewReaderSize(conn, m.cfg.ReadBufferSize)
	m.sendCh = make(chan []byte, m.cfg.WriteQueueSize)
	return m
}

// ID 返回通道唯一标识
func (m *Manager) ID() string {
	return m.id
}

// Application 返回协议处理器
func (m *Manager) Application() interfaces.Application {
	return m.app
}

// Conn 返回底层端点
func (m *Manager) Conn() net.Conn {
	return m.conn
}

// Done 返回通道关闭信号
func (m *Manager) Done() <-chan struct{} {
	return m.done
}

// IsClosed 通道是否已关闭
func (m *Manager) IsClosed() bool {
	return m.closed.Load()
}

// Init 启动写协程并初始化协议处理器
func (m *Manager) Init() error {
	if m.closed.Load() {
		return ErrClosed
	}
	if !m.initialized.CompareAndSwap(false, true) {
		return ErrAlreadyInitialized
	}

	go m.writeLoop()

	if err := m.app.Init(m); err != nil {
		_ = m.Close()
		return fmt.Errorf("application init: %w", err)
	}
	logger.Debug("通道已初始化", "manager", m.id)
	return nil
}

// HandleReadEvent 读取一个帧并交给协议处理器
func (m *Manager) HandleReadEvent() error {
	if m.closed.Load() {
		return ErrClosed
	}

	frame, err := ReadFrame(m.reader, m.cfg.MaxFrameSize)
	if err != nil {
		if m.closed.Load() {
			return ErrClosed
		}
		return err
	}

	m.framesIn.Add(1)
	m.bytesIn.Add(uint64(len(frame)))
	if m.observer != nil {
		m.observer.FrameReceived(len(frame))
	}

	if err := m.app.HandleFrame(m, frame); err != nil {
		return fmt.Errorf("handle frame: %w", err)
	}
	return nil
}

// WritePacket 将帧放入写队列
func (m *Manager) WritePacket(frame []byte) error {
	if m.closed.Load() {
		return ErrClosed
	}
	select {
	case m.sendCh <- frame:
		return nil
	case <-m.done:
		return ErrClosed
	default:
		return ErrWriteQueueFull
	}
}

// Resolve 将解析请求转交给协议处理器
func (m *Manager) Resolve(locator types.URI, listener interfaces.Actor) {
	m.app.Resolve(m, locator, listener)
}

// Enqueue 通过协议处理器发送 actor 消息
func (m *Manager) Enqueue(env *types.Envelope) error {
	if m.closed.Load() {
		return ErrClosed
	}
	return m.app.WriteMessage(m, env)
}

// Stats 返回统计快照
func (m *Manager) Stats() Stats {
	return Stats{
		FramesIn:  m.framesIn.Load(),
		FramesOut: m.framesOut.Load(),
		BytesIn:   m.bytesIn.Load(),
		BytesOut:  m.bytesOut.Load(),
	}
}

// Close 关闭通道（幂等）
//
// 未写出的帧被丢弃。
func (m *Manager) Close() error {
	var err error
	m.closeOnce.Do(func() {
		m.closed.Store(true)
		close(m.done)
		err = m.conn.Close()
		m.app.Close()
		logger.Debug("通道已关闭", "manager", m.id)
	})
	return err
}

// writeLoop 串行写出队列中的帧
func (m *Manager) writeLoop() {
	for {
		select {
		case <-m.done:
			return
		case frame := <-m.sendCh:
			if err := m.writeFrame(frame); err != nil {
				if !m.closed.Load() {
					logger.Warn("写帧失败，关闭通道", "manager", m.id, "err", err)
					_ = m.Close()
				}
				return
			}
		}
	}
}

func (m *Manager) writeFrame(frame []byte) error {
	if m.cfg.WriteTimeout > 0 {
		_ = m.conn.SetWriteDeadline(time.Now().Add(m.cfg.WriteTimeout))
	}
	if err := WriteFrame(m.conn, frame); err != nil {
		return err
	}
	m.framesOut.Add(1)
	m.bytesOut.Add(uint64(len(frame)))
	if m.observer != nil {
		m.observer.FrameSent(len(frame))
	}
	return nil
}
