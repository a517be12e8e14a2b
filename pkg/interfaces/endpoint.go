package interfaces

import "github.com/dep2p/go-actornet/pkg/types"

// PacketWriter 通道的帧写入能力
type PacketWriter interface {
	// WritePacket 写入一个完整的帧负载（不含长度前缀）
	WritePacket(frame []byte) error
}

// Application 运行在通道之上的协议处理器
type Application interface {
	// Init 通道初始化时调用，通常写出握手帧
	Init(w PacketWriter) error

	// HandleFrame 处理一个入站帧，返回错误时通道被关闭
	HandleFrame(w PacketWriter, frame []byte) error

	// Resolve 发起路径解析请求
	Resolve(w PacketWriter, locator types.URI, listener Actor)

	// WriteMessage 发送 actor 消息
	WriteMessage(w PacketWriter, env *types.Envelope) error

	// Close 通道关闭时调用
	Close()
}

// EndpointManager 托管通道
//
// 持有一个字节流端点和一个 Application，由 Multiplexer 驱动读取。
type EndpointManager interface {
	// ID 返回通道唯一标识
	ID() string

	// Init 初始化通道，失败表示本地装配出错
	Init() error

	// HandleReadEvent 读取并分发一个入站帧
	HandleReadEvent() error

	// Resolve 将解析请求转交给协议层
	Resolve(locator types.URI, listener Actor)

	// Enqueue 发送 actor 消息
	Enqueue(env *types.Envelope) error

	// Close 关闭通道（幂等）
	Close() error
}
