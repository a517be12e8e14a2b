package testutil

import (
	"bufio"
	"net"
	"testing"
	"time"

	"github.com/dep2p/go-actornet/internal/core/actor"
	"github.com/dep2p/go-actornet/internal/core/basp"
	"github.com/dep2p/go-actornet/internal/core/endpoint"
	"github.com/dep2p/go-actornet/internal/core/multiplexer"
	"github.com/dep2p/go-actornet/internal/core/proxy"
	"github.com/dep2p/go-actornet/pkg/types"
)

// RemotePeer 逐帧模拟对端
//
// 直接读写回环端点对的第一个端点，用于断言本地通道写出的帧。
type RemotePeer struct {
	t      *testing.T
	conn   net.Conn
	reader *bufio.Reader
	node   types.NodeID
}

// NewRemotePeer 包装端点
func NewRemotePeer(t *testing.T, conn net.Conn, node types.NodeID) *RemotePeer {
	t.Helper()
	return &RemotePeer{
		t:      t,
		conn:   conn,
		reader: bufio.NewReader(conn),
		node:   node,
	}
}

// Node 返回模拟的节点标识
func (p *RemotePeer) Node() types.NodeID {
	return p.node
}

// Next 在 DefaultTimeout 内读取并解码下一帧
func (p *RemotePeer) Next() *basp.Message {
	p.t.Helper()

	if err := p.conn.SetReadDeadline(time.Now().Add(DefaultTimeout)); err != nil {
		p.t.Fatalf("设置读超时失败: %v", err)
	}
	frame, err := endpoint.ReadFrame(p.reader, endpoint.DefaultConfig().MaxFrameSize)
	if err != nil {
		p.t.Fatalf("读取帧失败: %v", err)
	}
	msg, err := basp.Unmarshal(frame)
	if err != nil {
		p.t.Fatalf("解码帧失败: %v", err)
	}
	return msg
}

// Expect 读取下一帧并校验类型
func (p *RemotePeer) Expect(kind basp.Kind) *basp.Message {
	p.t.Helper()

	msg := p.Next()
	if msg.Kind != kind {
		p.t.Fatalf("期望 %s，收到 %s", kind, msg.Kind)
	}
	return msg
}

// Send 编码并写出一帧
func (p *RemotePeer) Send(msg *basp.Message) {
	p.t.Helper()

	if err := p.conn.SetWriteDeadline(time.Now().Add(DefaultTimeout)); err != nil {
		p.t.Fatalf("设置写超时失败: %v", err)
	}
	if err := endpoint.WriteFrame(p.conn, basp.Marshal(msg)); err != nil {
		p.t.Fatalf("写帧失败: %v", err)
	}
}

// Handshake 读取本地握手并回应
func (p *RemotePeer) Handshake() *basp.Message {
	p.t.Helper()

	local := p.Expect(basp.KindHandshake)
	p.Send(&basp.Message{
		Kind:   basp.KindHandshake,
		Node:   p.node,
		AppIDs: basp.DefaultConfig().AppIdentifiers,
	})
	return local
}

// RemoteNode 在端点上运行完整的对端协议栈
type RemoteNode struct {
	System  *actor.System
	Channel *endpoint.Manager
	App     *basp.Application
	mpx     *multiplexer.Multiplexer
}

// StartRemoteNode 用独立的运行时和 I/O 驱动接管端点
//
// 测试结束时自动关闭。
func StartRemoteNode(t *testing.T, conn net.Conn, node types.NodeID) *RemoteNode {
	t.Helper()

	system := actor.NewSystem(node)
	proxies := proxy.NewRegistry(nil)
	app := basp.New(system, proxies)
	mgr := endpoint.New(conn, app)
	if err := mgr.Init(); err != nil {
		t.Fatalf("初始化对端通道失败: %v", err)
	}

	mpx := multiplexer.New()
	mpx.RegisterReading(mgr)

	rn := &RemoteNode{System: system, Channel: mgr, App: app, mpx: mpx}
	t.Cleanup(func() { _ = rn.Close() })
	return rn
}

// Spawn 在对端运行时创建邮箱，name 非空时注册名称
func (n *RemoteNode) Spawn(t *testing.T, name string) *actor.Mailbox {
	t.Helper()

	mb := n.System.Spawn()
	if name != "" {
		if err := n.System.RegisterName(name, mb.ID()); err != nil {
			t.Fatalf("注册名称失败: %v", err)
		}
	}
	return mb
}

// Close 关闭对端
func (n *RemoteNode) Close() error {
	return n.mpx.Close()
}
