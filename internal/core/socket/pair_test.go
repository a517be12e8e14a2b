package socket

import (
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-actornet/config"
)

// exchange 在两个端点之间双向收发一次
func exchange(t *testing.T, a, b net.Conn) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	require.NoError(t, a.SetDeadline(deadline))
	require.NoError(t, b.SetDeadline(deadline))

	errCh := make(chan error, 1)
	go func() {
		_, err := a.Write([]byte("ping"))
		errCh <- err
	}()
	buf := make([]byte, 4)
	_, err := io.ReadFull(b, buf)
	require.NoError(t, err)
	assert.Equal(t, "ping", string(buf))
	require.NoError(t, <-errCh)

	go func() {
		_, err := b.Write([]byte("pong"))
		errCh <- err
	}()
	_, err = io.ReadFull(a, buf)
	require.NoError(t, err)
	assert.Equal(t, "pong", string(buf))
	require.NoError(t, <-errCh)
}

func TestProvisioner_SocketPair(t *testing.T) {
	p := Default()
	assert.Equal(t, config.ProvisionerSocketPair, p.Kind())

	first, second, err := p.MakeStreamSocketPair()
	require.NoError(t, err)
	defer first.Close()
	defer second.Close()

	require.NoError(t, SetNonblocking(second, true))
	exchange(t, first, second)

	t.Log("✅ socketpair 双向可达")
}

func TestProvisioner_Pipe(t *testing.T) {
	p, err := New(config.ProvisionerPipe)
	require.NoError(t, err)

	first, second, err := p.MakeStreamSocketPair()
	require.NoError(t, err)
	defer first.Close()
	defer second.Close()

	// pipe 没有 fd，设置非阻塞是空操作
	assert.NoError(t, SetNonblocking(second, true))
	exchange(t, first, second)
}

func TestProvisioner_PairsAreIndependent(t *testing.T) {
	p := Default()
	a1, a2, err := p.MakeStreamSocketPair()
	require.NoError(t, err)
	b1, b2, err := p.MakeStreamSocketPair()
	require.NoError(t, err)
	defer a1.Close()
	defer a2.Close()
	defer b1.Close()
	defer b2.Close()

	exchange(t, a1, a2)
	exchange(t, b1, b2)
}

func TestProvisioner_CloseSignalsEOF(t *testing.T) {
	first, second, err := Default().MakeStreamSocketPair()
	require.NoError(t, err)
	defer second.Close()

	require.NoError(t, first.Close())
	require.NoError(t, second.SetReadDeadline(time.Now().Add(2*time.Second)))

	_, err = second.Read(make([]byte, 1))
	assert.ErrorIs(t, err, io.EOF)
}

func TestNew_Unknown(t *testing.T) {
	_, err := New("tcp")
	assert.ErrorIs(t, err, ErrUnknownProvisioner)
}
