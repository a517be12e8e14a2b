package loopback

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/dep2p/go-actornet/config"
	"github.com/dep2p/go-actornet/internal/core/metrics"
	"github.com/dep2p/go-actornet/internal/core/middleman"
	"github.com/dep2p/go-actornet/internal/core/multiplexer"
	"github.com/dep2p/go-actornet/pkg/types"
)

func TestModule_RegistersWithMiddleman(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Backend.Test.Provisioner = config.ProvisionerPipe
	cfg.Metrics.Enabled = true

	var (
		b  *Backend
		mm *middleman.Middleman
		m  *metrics.Metrics
	)
	app := fxtest.New(t,
		fx.Supply(cfg),
		metrics.Module,
		multiplexer.Module(),
		middleman.Module(),
		Module(),
		fx.Populate(&b, &mm, &m),
	)
	app.RequireStart()

	registered, ok := mm.Backend(Name)
	require.True(t, ok)
	assert.Same(t, b, registered)
	require.NotNil(t, m)

	nid := types.NodeIDFromString("module-peer")
	require.NotNil(t, b.Peer(nid))
	assert.Equal(t, 1, mm.Multiplexer().Count())

	app.RequireStop()
	assert.Zero(t, b.PeerCount())
	assert.Zero(t, mm.Multiplexer().Count())

	t.Log("✅ Fx 模块装配后端并在停止时清理")
}
