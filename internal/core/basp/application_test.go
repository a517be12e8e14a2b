package basp

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-actornet/internal/core/actor"
	"github.com/dep2p/go-actornet/pkg/interfaces"
	"github.com/dep2p/go-actornet/pkg/types"
	"github.com/dep2p/go-actornet/tests/mocks"
)

var remoteNode = types.NodeIDFromString("remote")

type fixture struct {
	system  *actor.System
	proxies *mocks.MockProxyRegistry
	writer  *mocks.MockPacketWriter
	app     *Application
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	f := &fixture{
		system:  actor.NewSystem(types.NodeIDFromString("local")),
		proxies: mocks.NewMockProxyRegistry(),
		writer:  &mocks.MockPacketWriter{},
	}
	f.app = New(f.system, f.proxies, opts...)
	return f
}

// handshake 模拟对端握手
func (f *fixture) handshake(t *testing.T) {
	t.Helper()
	frame := Marshal(&Message{Kind: KindHandshake, Node: remoteNode, AppIDs: []string{"actornet"}})
	require.NoError(t, f.app.HandleFrame(f.writer, frame))
	require.True(t, f.app.Ready())
}

func (f *fixture) lastMessage(t *testing.T) *Message {
	t.Helper()
	last := f.writer.Last()
	require.NotNil(t, last, "没有写出任何帧")
	m, err := Unmarshal(last)
	require.NoError(t, err)
	return m
}

func receive(t *testing.T, mb *actor.Mailbox) *types.Envelope {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	env, err := mb.Receive(ctx)
	require.NoError(t, err)
	return env
}

func TestApplication_InitWritesHandshake(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.app.Init(f.writer))

	m := f.lastMessage(t)
	assert.Equal(t, KindHandshake, m.Kind)
	assert.Equal(t, f.system.NodeID(), m.Node)
	assert.Equal(t, []string{"actornet"}, m.AppIDs)
}

func TestApplication_HandshakeLearnsPeer(t *testing.T) {
	f := newFixture(t)
	assert.True(t, f.app.Peer().IsEmpty())

	f.handshake(t)
	assert.Equal(t, remoteNode, f.app.Peer())

	frame := Marshal(&Message{Kind: KindHandshake, Node: remoteNode, AppIDs: []string{"actornet"}})
	assert.ErrorIs(t, f.app.HandleFrame(f.writer, frame), ErrDuplicateHandshake)
}

func TestApplication_HandshakeKeepsConfiguredPeer(t *testing.T) {
	expected := types.NodeIDFromString("expected")
	f := newFixture(t, WithPeer(expected))
	f.handshake(t)

	assert.Equal(t, expected, f.app.Peer())
}

func TestApplication_AppIDMismatch(t *testing.T) {
	f := newFixture(t, WithConfig(Config{AppIdentifiers: []string{"mine"}}))

	frame := Marshal(&Message{Kind: KindHandshake, Node: remoteNode, AppIDs: []string{"theirs"}})
	assert.ErrorIs(t, f.app.HandleFrame(f.writer, frame), ErrAppIDMismatch)
	assert.False(t, f.app.Ready())
}

func TestApplication_MissingHandshake(t *testing.T) {
	f := newFixture(t)

	frame := Marshal(&Message{Kind: KindHeartbeat})
	assert.ErrorIs(t, f.app.HandleFrame(f.writer, frame), ErrMissingHandshake)
}

func TestApplication_MalformedFrame(t *testing.T) {
	f := newFixture(t)
	assert.Error(t, f.app.HandleFrame(f.writer, []byte{0xff}))
}

func TestApplication_ResolveRequestWritten(t *testing.T) {
	f := newFixture(t)
	listener := f.system.Spawn()

	f.app.Resolve(f.writer, types.MustParseURI("test://remote/name/echo"), listener)

	m := f.lastMessage(t)
	assert.Equal(t, KindResolveRequest, m.Kind)
	assert.Equal(t, "name/echo", m.Path)
	assert.NotZero(t, m.RequestID)
	assert.Equal(t, 1, f.app.Pending())
	assert.Zero(t, listener.Len(), "请求发出前 listener 不应收到任何消息")
}

func TestApplication_ResolveSuccess(t *testing.T) {
	f := newFixture(t)
	f.handshake(t)
	listener := f.system.Spawn()
	locator := types.MustParseURI("test://remote/id/9")

	f.app.Resolve(f.writer, locator, listener)
	req := f.lastMessage(t)

	resp := Marshal(&Message{Kind: KindResolveResponse, RequestID: req.RequestID, ActorID: 9, Ifs: []string{"ping"}})
	require.NoError(t, f.app.HandleFrame(f.writer, resp))

	env := receive(t, listener)
	result, ok := env.Content.(*types.ResolveResult)
	require.True(t, ok, "期望 ResolveResult，得到 %T", env.Content)
	assert.Equal(t, locator, result.Locator)
	assert.Equal(t, []string{"ping"}, result.Ifs)

	proxy, ok := result.Proxy.(interfaces.Actor)
	require.True(t, ok)
	assert.Equal(t, types.ActorID(9), proxy.ID())
	assert.Equal(t, remoteNode, proxy.Node())
	assert.Equal(t, 1, f.proxies.Count(remoteNode))
	assert.Zero(t, f.app.Pending())

	t.Log("✅ resolve 响应生成代理并通知 listener")
}

func TestApplication_ResolveFailure(t *testing.T) {
	f := newFixture(t)
	f.handshake(t)
	listener := f.system.Spawn()

	f.app.Resolve(f.writer, types.MustParseURI("test://remote/name/ghost"), listener)
	req := f.lastMessage(t)

	resp := Marshal(&Message{Kind: KindResolveResponse, RequestID: req.RequestID, Error: "no actor named \"ghost\""})
	require.NoError(t, f.app.HandleFrame(f.writer, resp))

	env := receive(t, listener)
	err, ok := env.Content.(error)
	require.True(t, ok)
	assert.ErrorIs(t, err, ErrResolveFailed)

	var rerr *ResolveError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, "name/ghost", rerr.Path)
}

func TestApplication_ResolveProxyError(t *testing.T) {
	f := newFixture(t)
	f.handshake(t)
	proxyErr := errors.New("no channel")
	f.proxies.GetOrPutFunc = func(types.NodeID, types.ActorID) (interfaces.Actor, error) {
		return nil, proxyErr
	}
	listener := f.system.Spawn()

	f.app.Resolve(f.writer, types.MustParseURI("test://remote/id/1"), listener)
	req := f.lastMessage(t)
	require.NoError(t, f.app.HandleFrame(f.writer, Marshal(&Message{Kind: KindResolveResponse, RequestID: req.RequestID, ActorID: 1})))

	env := receive(t, listener)
	assert.ErrorIs(t, env.Content.(error), proxyErr)
}

func TestApplication_ResolveUnknownRequestIgnored(t *testing.T) {
	f := newFixture(t)
	f.handshake(t)

	resp := Marshal(&Message{Kind: KindResolveResponse, RequestID: 777, ActorID: 1})
	assert.NoError(t, f.app.HandleFrame(f.writer, resp))
	assert.Zero(t, f.proxies.Count(remoteNode))
}

func TestApplication_ResolveWriteFailure(t *testing.T) {
	f := newFixture(t)
	writeErr := errors.New("queue full")
	f.writer.WritePacketFunc = func([]byte) error { return writeErr }
	listener := f.system.Spawn()

	f.app.Resolve(f.writer, types.MustParseURI("test://remote/id/1"), listener)

	env := receive(t, listener)
	assert.ErrorIs(t, env.Content.(error), writeErr)
	assert.Zero(t, f.app.Pending())
}

func TestApplication_CloseNotifiesPending(t *testing.T) {
	f := newFixture(t)
	l1 := f.system.Spawn()
	l2 := f.system.Spawn()

	f.app.Resolve(f.writer, types.MustParseURI("test://remote/id/1"), l1)
	f.app.Resolve(f.writer, types.MustParseURI("test://remote/id/2"), l2)
	f.app.Close()

	assert.ErrorIs(t, receive(t, l1).Content.(error), ErrChannelClosed)
	assert.ErrorIs(t, receive(t, l2).Content.(error), ErrChannelClosed)
	assert.Zero(t, f.app.Pending())

	l3 := f.system.Spawn()
	f.app.Resolve(f.writer, types.MustParseURI("test://remote/id/3"), l3)
	assert.ErrorIs(t, receive(t, l3).Content.(error), ErrChannelClosed)
}

func TestApplication_AnswersResolveRequests(t *testing.T) {
	f := newFixture(t)
	f.handshake(t)
	echo := f.system.Spawn()
	require.NoError(t, f.system.RegisterName("echo", echo.ID()))

	tests := []struct {
		name    string
		path    string
		actorID types.ActorID
		errText string
	}{
		{"按名称", "name/echo", echo.ID(), ""},
		{"按标识", "id/" + echo.ID().String(), echo.ID(), ""},
		{"未知名称", "name/ghost", 0, "no actor named"},
		{"未知标识", "id/999", 0, "no actor with id"},
		{"非法标识", "id/abc", 0, "invalid actor id"},
		{"非法路径", "whatever", 0, "invalid path"},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := Marshal(&Message{Kind: KindResolveRequest, RequestID: uint64(i + 1), Path: tt.path})
			require.NoError(t, f.app.HandleFrame(f.writer, req))

			resp := f.lastMessage(t)
			assert.Equal(t, KindResolveResponse, resp.Kind)
			assert.Equal(t, uint64(i+1), resp.RequestID)
			assert.Equal(t, tt.actorID, resp.ActorID)
			if tt.errText == "" {
				assert.Empty(t, resp.Error)
			} else {
				assert.Contains(t, resp.Error, tt.errText)
			}
		})
	}
}

func TestApplication_WriteMessage(t *testing.T) {
	f := newFixture(t, WithConfig(Config{AppIdentifiers: []string{"actornet"}, CompressThreshold: 64}))
	src := f.system.Spawn()

	env := &types.Envelope{
		Sender:   src.Addr(),
		Receiver: types.ActorAddr{Node: remoteNode, ID: 5},
		Content:  []byte("hi"),
	}
	require.NoError(t, f.app.WriteMessage(f.writer, env))

	m := f.lastMessage(t)
	assert.Equal(t, KindActorMessage, m.Kind)
	assert.Equal(t, f.system.NodeID(), m.Node)
	assert.Equal(t, src.ID(), m.SrcActor)
	assert.Equal(t, types.ActorID(5), m.ActorID)
	assert.Equal(t, []byte("hi"), m.Payload)
	assert.False(t, m.Compressed)

	big := bytes.Repeat([]byte("z"), 1024)
	env.Content = big
	require.NoError(t, f.app.WriteMessage(f.writer, env))
	m = f.lastMessage(t)
	assert.True(t, m.Compressed)

	env.Content = "not bytes"
	assert.ErrorIs(t, f.app.WriteMessage(f.writer, env), ErrUnsupportedContent)
}

func TestApplication_DeliversActorMessages(t *testing.T) {
	f := newFixture(t)
	f.handshake(t)
	dst := f.system.Spawn()

	payload := bytes.Repeat([]byte("p"), 8<<10)
	compressed, ok := compressPayload(payload, 16)
	require.True(t, ok)

	frame := Marshal(&Message{
		Kind:       KindActorMessage,
		Node:       remoteNode,
		SrcActor:   11,
		ActorID:    dst.ID(),
		Payload:    compressed,
		Compressed: true,
	})
	require.NoError(t, f.app.HandleFrame(f.writer, frame))

	env := receive(t, dst)
	assert.Equal(t, payload, env.Content)
	assert.Equal(t, types.ActorAddr{Node: remoteNode, ID: 11}, env.Sender)
	assert.Equal(t, dst.Addr(), env.Receiver)

	// 未知接收方被丢弃
	frame = Marshal(&Message{Kind: KindActorMessage, ActorID: 999, Payload: []byte("x")})
	assert.NoError(t, f.app.HandleFrame(f.writer, frame))
}

func TestApplication_Heartbeat(t *testing.T) {
	f := newFixture(t)
	f.handshake(t)

	require.NoError(t, f.app.Heartbeat(f.writer))
	assert.Equal(t, KindHeartbeat, f.lastMessage(t).Kind)
	assert.NoError(t, f.app.HandleFrame(f.writer, f.writer.Last()))
}

func TestConfigFromUnified_Default(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, []string{"actornet"}, cfg.AppIdentifiers)
	assert.Equal(t, 4<<10, cfg.CompressThreshold)
}

func TestApplication_InitWithoutAppIDs(t *testing.T) {
	f := newFixture(t, WithConfig(Config{}))
	assert.ErrorIs(t, f.app.Init(f.writer), ErrNoAppIdentifiers)
	assert.Empty(t, f.writer.Frames())
}
