package middleman

import (
	"context"

	"go.uber.org/fx"

	"github.com/dep2p/go-actornet/config"
	"github.com/dep2p/go-actornet/internal/core/actor"
	"github.com/dep2p/go-actornet/pkg/interfaces"
)

// SystemParams actor 运行时依赖参数
type SystemParams struct {
	fx.In

	UnifiedCfg *config.Config `optional:"true"`
}

// SystemResult actor 运行时输出
type SystemResult struct {
	fx.Out

	System    *actor.System
	Interface interfaces.ActorSystem
}

// Params Middleman 依赖参数
type Params struct {
	fx.In

	UnifiedCfg  *config.Config `optional:"true"`
	System      *actor.System
	Multiplexer interfaces.Multiplexer
}

// Result Fx 模块输出结果
type Result struct {
	fx.Out

	Middleman *Middleman
	Interface interfaces.Middleman
}

// Module 返回 Fx 模块
//
// 提供 actor 运行时和中间人；I/O 驱动由 multiplexer 模块提供，
// 后端由各后端模块注册。
func Module() fx.Option {
	return fx.Module("middleman",
		fx.Provide(
			ProvideSystem,
			ProvideMiddleman,
		),
		fx.Invoke(registerLifecycle),
	)
}

// ProvideSystem 提供 actor 运行时
func ProvideSystem(p SystemParams) (SystemResult, error) {
	s, err := actor.NewSystemFromConfig(p.UnifiedCfg)
	if err != nil {
		return SystemResult{}, err
	}
	return SystemResult{System: s, Interface: s}, nil
}

// ProvideMiddleman 提供 Middleman 实例
func ProvideMiddleman(p Params) Result {
	m := New(p.System, p.Multiplexer, WithConfig(ConfigFromUnified(p.UnifiedCfg)))
	return Result{Middleman: m, Interface: m}
}

type lifecycleInput struct {
	fx.In

	LC        fx.Lifecycle
	Middleman *Middleman
}

func registerLifecycle(input lifecycleInput) {
	input.LC.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			return input.Middleman.Init()
		},
		OnStop: func(_ context.Context) error {
			return input.Middleman.Stop()
		},
	})
}
