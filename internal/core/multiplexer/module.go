package multiplexer

import (
	"context"

	"go.uber.org/fx"

	"github.com/dep2p/go-actornet/pkg/interfaces"
)

// Params Multiplexer 依赖参数
type Params struct {
	fx.In

	Observer Observer `optional:"true"`
}

// Result Fx 模块输出结果
type Result struct {
	fx.Out

	Multiplexer *Multiplexer
	Interface   interfaces.Multiplexer
}

// Module 返回 Fx 模块
func Module() fx.Option {
	return fx.Module("multiplexer",
		fx.Provide(ProvideMultiplexer),
		fx.Invoke(registerLifecycle),
	)
}

// ProvideMultiplexer 提供 Multiplexer 实例
func ProvideMultiplexer(p Params) Result {
	var opts []Option
	if p.Observer != nil {
		opts = append(opts, WithObserver(p.Observer))
	}
	m := New(opts...)
	return Result{Multiplexer: m, Interface: m}
}

type lifecycleInput struct {
	fx.In

	LC          fx.Lifecycle
	Multiplexer *Multiplexer
}

func registerLifecycle(input lifecycleInput) {
	input.LC.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return input.Multiplexer.Close()
		},
	})
}
