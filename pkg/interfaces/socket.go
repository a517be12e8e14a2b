package interfaces

import "net"

// SocketPairFactory 本地回环通道供应者
type SocketPairFactory interface {
	// MakeStreamSocketPair 返回一对已连接的双向字节流端点
	MakeStreamSocketPair() (first, second net.Conn, err error)
}
