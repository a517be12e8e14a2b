package loopback

import (
	"go.uber.org/fx"

	"github.com/dep2p/go-actornet/config"
	"github.com/dep2p/go-actornet/internal/core/metrics"
	"github.com/dep2p/go-actornet/internal/core/middleman"
	"github.com/dep2p/go-actornet/pkg/interfaces"
)

// Params 测试后端依赖参数
type Params struct {
	fx.In

	UnifiedCfg *config.Config `optional:"true"`
	Middleman  interfaces.Middleman
	Metrics    *metrics.Metrics `optional:"true"`
}

// Module 返回 Fx 模块
//
// 构造测试后端并注册到中间人，Init/Stop 由中间人的生命周期驱动。
func Module() fx.Option {
	return fx.Module("backend/loopback",
		fx.Provide(ProvideBackend),
		fx.Invoke(registerBackend),
	)
}

// ProvideBackend 提供测试后端
func ProvideBackend(p Params) (*Backend, error) {
	return New(p.Middleman,
		WithConfig(ConfigFromUnified(p.UnifiedCfg)),
		WithMetrics(p.Metrics))
}

func registerBackend(mm *middleman.Middleman, b *Backend) error {
	return mm.AddBackend(b)
}
