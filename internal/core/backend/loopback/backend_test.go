package loopback

import (
	"errors"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-actornet/config"
	"github.com/dep2p/go-actornet/internal/core/actor"
	"github.com/dep2p/go-actornet/internal/core/basp"
	"github.com/dep2p/go-actornet/internal/core/metrics"
	"github.com/dep2p/go-actornet/internal/core/multiplexer"
	"github.com/dep2p/go-actornet/internal/core/proxy"
	"github.com/dep2p/go-actornet/internal/core/socket"
	"github.com/dep2p/go-actornet/pkg/interfaces"
	"github.com/dep2p/go-actornet/pkg/types"
	"github.com/dep2p/go-actornet/tests/mocks"
	"github.com/dep2p/go-actornet/tests/testutil"
)

var (
	n1 = types.NodeIDFromString("N1")
	n2 = types.NodeIDFromString("N2")
)

type fixture struct {
	system  *actor.System
	mpx     interfaces.Multiplexer
	sockets *mocks.MockSocketPairFactory
	backend *Backend
}

func newFixture(t *testing.T, mpx interfaces.Multiplexer, opts ...Option) *fixture {
	t.Helper()

	f := &fixture{
		system:  actor.NewSystem(types.NodeIDFromString("local")),
		mpx:     mpx,
		sockets: &mocks.MockSocketPairFactory{},
	}
	mm := mocks.NewMockMiddleman(f.system, mpx)

	b, err := New(mm, append([]Option{WithSocketPairFactory(f.sockets)}, opts...)...)
	require.NoError(t, err)
	f.backend = b

	t.Cleanup(func() {
		b.Stop()
		_ = mpx.Close()
	})
	return f
}

func nodeOf(t *testing.T, locator string) types.NodeID {
	t.Helper()
	auth, ok := types.MustParseURI(locator).AuthorityOnly()
	require.True(t, ok)
	return types.MakeNodeID(auth)
}

func TestBackend_Metadata(t *testing.T) {
	f := newFixture(t, mocks.NewMockMultiplexer())
	b := f.backend

	assert.Equal(t, "test", b.Name())
	assert.NoError(t, b.Init())
	assert.Equal(t, uint16(0), b.Port())

	b.Peer(n1)
	b.Peer(n2)
	assert.Equal(t, uint16(0), b.Port(), "端口与供应的节点数无关")

	assert.NotPanics(t, func() {
		b.SetLastHop(nil)
		b.SetLastHop(&n1)
	})
	assert.Equal(t, 2, b.PeerCount())
}

func TestBackend_LazyIdempotentLookup(t *testing.T) {
	mpx := mocks.NewMockMultiplexer()
	f := newFixture(t, mpx)
	b := f.backend

	assert.Zero(t, b.PeerCount())
	_, ok := b.Entry(n1)
	assert.False(t, ok, "首次查询前不应有登记项")

	first := b.Peer(n1)
	require.NotNil(t, first)
	assert.Equal(t, 1, b.PeerCount())

	second := b.Peer(n1)
	assert.Same(t, first, second)
	assert.Equal(t, 1, b.PeerCount())
	assert.Equal(t, 1, f.sockets.Calls(), "不应重复供应")
	assert.Len(t, mpx.Registered(), 1, "不应重复注册到 I/O 驱动")

	entry, ok := b.Entry(n1)
	require.True(t, ok)
	assert.Same(t, entry.Channel, first)
	assert.Equal(t, n1, entry.App.Peer())
	assert.Equal(t, []types.NodeID{n1}, b.Peers())

	b.Stop()
	assert.Zero(t, b.PeerCount())

	t.Log("✅ N1: 0 → 1 → 1 → 0")
}

func TestBackend_ProvisionWritesHandshake(t *testing.T) {
	f := newFixture(t, mocks.NewMockMultiplexer())

	f.backend.Peer(n1)
	entry, ok := f.backend.Entry(n1)
	require.True(t, ok)

	remote := testutil.NewRemotePeer(t, entry.Socket, n1)
	hs := remote.Expect(basp.KindHandshake)
	assert.Equal(t, f.system.NodeID(), hs.Node)
	assert.Equal(t, []string{"actornet"}, hs.AppIDs)
}

func TestBackend_ResolveForwardsToPeerChannel(t *testing.T) {
	f := newFixture(t, multiplexer.New())
	b := f.backend
	locator := types.MustParseURI("test://node-b/name/echo")
	nid := nodeOf(t, "test://node-b")
	listener := f.system.Spawn()

	b.Resolve(locator, listener)

	entry, ok := b.Entry(nid)
	require.True(t, ok, "resolve 应按 authority 供应节点")

	remote := testutil.NewRemotePeer(t, entry.Socket, nid)
	remote.Handshake()
	req := remote.Expect(basp.KindResolveRequest)
	assert.Equal(t, "name/echo", req.Path)

	testutil.ExpectNoMessage(t, listener, 50*time.Millisecond)

	remote.Send(&basp.Message{Kind: basp.KindResolveResponse, RequestID: req.RequestID, ActorID: 5})

	env := testutil.Receive(t, listener)
	result, ok := env.Content.(*types.ResolveResult)
	require.True(t, ok, "期望 ResolveResult，得到 %T", env.Content)
	assert.Equal(t, locator, result.Locator)

	p, ok := result.Proxy.(*proxy.ActorProxy)
	require.True(t, ok)
	assert.Equal(t, nid, p.Node())
	assert.Equal(t, types.ActorID(5), p.ID())
	assert.Same(t, entry.Channel, p.Channel())
	assert.Equal(t, 1, b.Proxies().Count(nid))

	t.Log("✅ resolve 经节点通道转发，listener 只收到最终结果")
}

func TestBackend_ResolveInvalidLocator(t *testing.T) {
	f := newFixture(t, mocks.NewMockMultiplexer())
	listener := f.system.Spawn()

	f.backend.Resolve(types.MustParseURI("test:id/7"), listener)

	env := testutil.Receive(t, listener)
	err, ok := env.Content.(error)
	require.True(t, ok)
	assert.ErrorIs(t, err, basp.ErrInvalidLocator)
	assert.True(t, env.IsAnonymous())

	testutil.ExpectNoMessage(t, listener, 50*time.Millisecond)
	assert.Zero(t, f.backend.PeerCount(), "无效定位符不应修改登记表")
	assert.Zero(t, f.sockets.Calls())
}

func TestBackend_GetOrConnect(t *testing.T) {
	f := newFixture(t, mocks.NewMockMultiplexer())
	b := f.backend

	mgr, err := b.GetOrConnect(types.MustParseURI("test://node-b:4242/id/1"))
	require.NoError(t, err)
	assert.Same(t, b.Peer(nodeOf(t, "test://node-b:4242")), mgr)

	again, err := b.GetOrConnect(types.MustParseURI("test://node-b:4242/name/other"))
	require.NoError(t, err)
	assert.Same(t, mgr, again, "同一 authority 复用通道")
	assert.Equal(t, 1, b.PeerCount())

	_, err = b.GetOrConnect(types.MustParseURI("test:id/1"))
	assert.ErrorIs(t, err, ErrConnectingNotImplemented)
	assert.Equal(t, 1, b.PeerCount())
}

func TestBackend_MakeProxy(t *testing.T) {
	f := newFixture(t, mocks.NewMockMultiplexer())
	b := f.backend

	a, err := b.MakeProxy(n1, 42)
	require.NoError(t, err)

	p, ok := a.(*proxy.ActorProxy)
	require.True(t, ok)
	assert.Equal(t, n1, p.Node())
	assert.Equal(t, types.ActorID(42), p.ID())
	assert.Same(t, b.Peer(n1), p.Channel())

	_, err = b.MakeProxy(n2, types.InvalidActorID)
	assert.ErrorIs(t, err, proxy.ErrInvalidActorID)
	_, err = b.MakeProxy(types.EmptyNodeID, 1)
	assert.ErrorIs(t, err, proxy.ErrInvalidNode)
	assert.Equal(t, 1, b.PeerCount(), "失败的代理创建不应供应节点")
}

func TestBackend_StopClearsState(t *testing.T) {
	mpx := mocks.NewMockMultiplexer()
	f := newFixture(t, mpx)
	b := f.backend

	b.Peer(n1)
	b.Peer(n2)
	e1, _ := b.Entry(n1)

	p1, err := b.Proxies().GetOrPut(n1, 1)
	require.NoError(t, err)
	p2, err := b.Proxies().GetOrPut(n2, 1)
	require.NoError(t, err)

	b.Stop()

	assert.Zero(t, b.PeerCount())
	assert.Zero(t, b.Proxies().Count(n1))
	assert.Zero(t, b.Proxies().Count(n2))
	assert.Empty(t, b.Proxies().Nodes())
	assert.True(t, p1.(*proxy.ActorProxy).IsKilled())
	assert.True(t, p2.(*proxy.ActorProxy).IsKilled())

	assert.Len(t, mpx.Deregistered(), 2, "通道应先从 I/O 驱动注销")
	assert.True(t, e1.Channel.IsClosed())
	_, err = e1.Socket.Write([]byte("x"))
	assert.Error(t, err, "第一个端点应被关闭")

	fresh := b.Peer(n1)
	assert.NotSame(t, e1.Channel, fresh, "stop 后重新供应")
	assert.Equal(t, 3, f.sockets.Calls())
	assert.Equal(t, 1, b.PeerCount())

	t.Log("✅ Stop 清空登记表和代理记录")
}

func TestBackend_StopEmpty(t *testing.T) {
	f := newFixture(t, mocks.NewMockMultiplexer())
	assert.NotPanics(t, f.backend.Stop)
	assert.Zero(t, f.backend.PeerCount())
}

func TestBackend_StopNotifiesPendingResolves(t *testing.T) {
	f := newFixture(t, mocks.NewMockMultiplexer())
	listener := f.system.Spawn()

	f.backend.Resolve(types.MustParseURI("test://node-b/id/1"), listener)
	f.backend.Stop()

	env := testutil.Receive(t, listener)
	assert.ErrorIs(t, env.Content.(error), basp.ErrChannelClosed)
}

// hookedMultiplexer 在注销通道前执行回调的 I/O 驱动
type hookedMultiplexer struct {
	*multiplexer.Multiplexer
	beforeDeregister func(mgr interfaces.EndpointManager)
}

func (h *hookedMultiplexer) Deregister(mgr interfaces.EndpointManager) {
	if h.beforeDeregister != nil {
		h.beforeDeregister(mgr)
	}
	h.Multiplexer.Deregister(mgr)
}

func TestBackend_StopWithInFlightResolveResponse(t *testing.T) {
	mpx := &hookedMultiplexer{Multiplexer: multiplexer.New()}
	f := newFixture(t, mpx)
	b := f.backend
	nid := nodeOf(t, "test://node-b")
	listener := f.system.Spawn()

	b.Resolve(types.MustParseURI("test://node-b/id/5"), listener)
	entry, ok := b.Entry(nid)
	require.True(t, ok)

	remote := testutil.NewRemotePeer(t, entry.Socket, nid)
	remote.Handshake()
	req := remote.Expect(basp.KindResolveRequest)

	// 停止过程中对端送达 resolve 响应，分发会尝试为该节点创建代理
	var once sync.Once
	mpx.beforeDeregister = func(interfaces.EndpointManager) {
		once.Do(func() {
			remote.Send(&basp.Message{Kind: basp.KindResolveResponse, RequestID: req.RequestID, ActorID: 5})
			env := testutil.Receive(t, listener)
			err, isErr := env.Content.(error)
			require.True(t, isErr, "期望错误，得到 %T", env.Content)
			assert.ErrorIs(t, err, ErrStopped)
		})
	}

	b.Stop()

	assert.Zero(t, b.PeerCount())
	assert.Zero(t, b.Proxies().Count(nid))
	assert.Empty(t, b.Proxies().Nodes())
	assert.Zero(t, mpx.Count())
	_, ok = b.Entry(nid)
	assert.False(t, ok)
	testutil.ExpectNoMessage(t, listener, 50*time.Millisecond)

	assert.Nil(t, b.Peer(nid), "停止后不再供应节点")
	_, err := b.MakeProxy(nid, 5)
	assert.ErrorIs(t, err, ErrStopped)
	_, err = b.GetOrConnect(types.MustParseURI("test://node-b/id/5"))
	assert.ErrorIs(t, err, ErrStopped)
	_, err = b.Emplace(nid, nil, nil)
	assert.ErrorIs(t, err, ErrStopped)

	b.Resolve(types.MustParseURI("test://node-b/id/5"), listener)
	failure := testutil.Receive(t, listener)
	assert.ErrorIs(t, failure.Content.(error), ErrStopped)
	assert.Zero(t, b.PeerCount())

	t.Log("✅ 停止期间的分发不会复活节点或代理")
}

func TestBackend_PanicsOnProvisioningFailure(t *testing.T) {
	mpx := mocks.NewMockMultiplexer()
	f := newFixture(t, mpx)
	f.sockets.MakeFunc = func() (net.Conn, net.Conn, error) {
		return nil, nil, errors.New("boom")
	}

	assert.PanicsWithError(t, "loopback: 创建回环端点对失败: boom", func() {
		f.backend.Peer(n1)
	})
	assert.Zero(t, f.backend.PeerCount())
	assert.Empty(t, mpx.Registered())
}

func TestBackend_PanicsOnChannelInitFailure(t *testing.T) {
	mpx := mocks.NewMockMultiplexer()
	cfg := DefaultConfig()
	cfg.BASP.AppIdentifiers = nil

	var first net.Conn
	f := newFixture(t, mpx, WithConfig(cfg))
	f.sockets.MakeFunc = func() (net.Conn, net.Conn, error) {
		a, b := net.Pipe()
		first = a
		return a, b, nil
	}

	assert.PanicsWithError(t, "loopback: 通道初始化失败: application init: no app identifiers configured", func() {
		f.backend.Peer(n1)
	})
	assert.Zero(t, f.backend.PeerCount())
	assert.Empty(t, mpx.Registered(), "初始化失败的通道不应注册")

	_, err := first.Write([]byte("x"))
	assert.Error(t, err, "失败时两个端点都应关闭")
}

func TestBackend_ConcurrentGetOrCreate(t *testing.T) {
	mpx := mocks.NewMockMultiplexer()
	f := newFixture(t, mpx)

	const workers = 32
	results := make([]interfaces.EndpointManager, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = f.backend.Peer(n1)
		}(i)
	}
	wg.Wait()

	for _, mgr := range results {
		assert.Same(t, results[0], mgr)
	}
	assert.Equal(t, 1, f.backend.PeerCount())
	assert.Equal(t, 1, f.sockets.Calls())
	assert.Len(t, mpx.Registered(), 1)
}

func TestBackend_Emplace(t *testing.T) {
	f := newFixture(t, mocks.NewMockMultiplexer())
	b := f.backend

	first, second := net.Pipe()
	entry, err := b.Emplace(n1, first, second)
	require.NoError(t, err)
	assert.Same(t, first, entry.Socket)
	assert.Same(t, entry.Channel, b.Peer(n1))
	assert.Zero(t, f.sockets.Calls())

	a, c := net.Pipe()
	defer a.Close()
	defer c.Close()
	existing, err := b.Emplace(n1, a, c)
	assert.ErrorIs(t, err, ErrPeerExists)
	assert.Same(t, entry, existing, "登记项不应被替换")
}

func TestBackend_EndToEnd(t *testing.T) {
	for _, kind := range []string{config.ProvisionerSocketPair, config.ProvisionerPipe} {
		t.Run(kind, func(t *testing.T) {
			provisioner, err := socket.New(kind)
			require.NoError(t, err)

			f := newFixture(t, multiplexer.New(), WithSocketPairFactory(provisioner))
			b := f.backend
			nid := nodeOf(t, "test://node-b")

			b.Peer(nid)
			entry, ok := b.Entry(nid)
			require.True(t, ok)

			remote := testutil.StartRemoteNode(t, entry.Socket, nid)
			echo := remote.Spawn(t, "echo")

			listener := f.system.Spawn()
			b.Resolve(types.MustParseURI("test://node-b/name/echo"), listener)

			env := testutil.Receive(t, listener)
			result, ok := env.Content.(*types.ResolveResult)
			require.True(t, ok, "期望 ResolveResult，得到 %T: %v", env.Content, env.Content)

			p := result.Proxy.(interfaces.Actor)
			assert.Equal(t, nid, p.Node())
			assert.Equal(t, echo.ID(), p.ID())

			require.True(t, actor.Send(listener, p, []byte("ping")))
			got := testutil.Receive(t, echo)
			assert.Equal(t, []byte("ping"), got.Content)
			assert.Equal(t, listener.Addr(), got.Sender)

			require.NoError(t, remote.Channel.Enqueue(&types.Envelope{
				Sender:   echo.Addr(),
				Receiver: got.Sender,
				Content:  []byte("pong"),
			}))
			reply := testutil.Receive(t, listener)
			assert.Equal(t, []byte("pong"), reply.Content)
			assert.Equal(t, types.ActorAddr{Node: nid, ID: echo.ID()}, reply.Sender)

			b.Resolve(types.MustParseURI("test://node-b/name/ghost"), listener)
			failure := testutil.Receive(t, listener)
			assert.ErrorIs(t, failure.Content.(error), basp.ErrResolveFailed)

			t.Log("✅ 经回环通道完成 resolve 和双向消息")
		})
	}
}

func TestBackend_Metrics(t *testing.T) {
	m := metrics.New("lb")
	f := newFixture(t, mocks.NewMockMultiplexer(), WithMetrics(m))

	f.backend.Peer(n1)
	f.backend.Peer(n1)
	f.backend.Resolve(types.MustParseURI("test:id/1"), f.system.Spawn())
	_, err := f.backend.MakeProxy(n1, 3)
	require.NoError(t, err)

	expected := `
# HELP lb_backend_peers_provisioned_total Number of loopback channels provisioned.
# TYPE lb_backend_peers_provisioned_total counter
lb_backend_peers_provisioned_total 1
# HELP lb_backend_peers_active Number of peers currently in the registry.
# TYPE lb_backend_peers_active gauge
lb_backend_peers_active 1
# HELP lb_backend_resolves_total Resolve requests by result.
# TYPE lb_backend_resolves_total counter
lb_backend_resolves_total{result="invalid_locator"} 1
# HELP lb_backend_proxies_created_total Number of remote actor proxies created.
# TYPE lb_backend_proxies_created_total counter
lb_backend_proxies_created_total 1
`
	require.NoError(t, promtest.GatherAndCompare(m.Registry(), strings.NewReader(expected),
		"lb_backend_peers_provisioned_total",
		"lb_backend_peers_active",
		"lb_backend_resolves_total",
		"lb_backend_proxies_created_total",
	))

	f.backend.Stop()
	require.NoError(t, promtest.GatherAndCompare(m.Registry(), strings.NewReader(`
# HELP lb_backend_peers_active Number of peers currently in the registry.
# TYPE lb_backend_peers_active gauge
lb_backend_peers_active 0
`), "lb_backend_peers_active"))
}

func TestNew_UnknownProvisioner(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provisioner = "carrier-pigeon"

	system := actor.NewSystem(types.EmptyNodeID)
	_, err := New(mocks.NewMockMiddleman(system, mocks.NewMockMultiplexer()), WithConfig(cfg))
	assert.ErrorIs(t, err, socket.ErrUnknownProvisioner)
}
