package socket

import (
	"fmt"
	"net"

	"github.com/dep2p/go-actornet/config"
	"github.com/dep2p/go-actornet/pkg/interfaces"
	"github.com/dep2p/go-actornet/pkg/lib/log"
)

var logger = log.Logger("core/socket")

// Provisioner 回环通道供应者
type Provisioner struct {
	kind string
}

var _ interfaces.SocketPairFactory = (*Provisioner)(nil)

// New 创建指定方式的供应者
func New(kind string) (*Provisioner, error) {
	switch kind {
	case config.ProvisionerSocketPair, config.ProvisionerPipe:
		return &Provisioner{kind: kind}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvisioner, kind)
	}
}

// Default 返回 socketpair 供应者
func Default() *Provisioner {
	return &Provisioner{kind: config.ProvisionerSocketPair}
}

// Kind 返回供应方式
func (p *Provisioner) Kind() string {
	return p.kind
}

// MakeStreamSocketPair 创建一对已连接的端点
func (p *Provisioner) MakeStreamSocketPair() (net.Conn, net.Conn, error) {
	if p.kind == config.ProvisionerPipe {
		first, second := net.Pipe()
		return first, second, nil
	}
	first, second, err := makeSocketPair()
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("创建 socketpair", "first", first.LocalAddr(), "second", second.LocalAddr())
	return first, second, nil
}

// SetNonblocking 设置端点的非阻塞标志
//
// 没有底层 fd 的端点（如 net.Pipe）直接返回 nil。
// Go 运行时的网络轮询器要求 fd 处于非阻塞模式，on=false 只应在测试中使用。
func SetNonblocking(conn net.Conn, on bool) error {
	return setNonblocking(conn, on)
}
