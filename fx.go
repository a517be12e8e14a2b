package actornet

import (
	"fmt"
	"os"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/dep2p/go-actornet/internal/core/backend/loopback"
	"github.com/dep2p/go-actornet/internal/core/metrics"
	"github.com/dep2p/go-actornet/internal/core/middleman"
	"github.com/dep2p/go-actornet/internal/core/multiplexer"
	"github.com/dep2p/go-actornet/pkg/lib/log"
)

// buildFxApp 构建 Fx 应用
//
// 加载顺序（按依赖）：
//  1. 配置注入、指标
//  2. I/O 驱动 → actor 运行时 + 中间人
//  3. 传输后端（Invoke 阶段注册到中间人，OnStart 时由中间人统一 Init）
//  4. 用户自定义 Fx 选项
func buildFxApp(cfg *nodeConfig, node *Node) (*fx.App, error) {
	// ════════════════════════════════════════════════════════════════════════
	// 1. 配置验证（前置）
	// ════════════════════════════════════════════════════════════════════════
	if err := cfg.config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	log.Setup(os.Stderr, log.ParseLevel(cfg.config.Log.Level), cfg.config.Log.Format)

	// ════════════════════════════════════════════════════════════════════════
	// 2. 核心模块
	// ════════════════════════════════════════════════════════════════════════
	modules := []fx.Option{
		fx.Supply(cfg.config),

		// 指标关闭时提供 nil *Metrics，观察者调用为空操作
		metrics.Module,

		multiplexer.Module(),
		middleman.Module(),
	}

	// ════════════════════════════════════════════════════════════════════════
	// 3. 传输后端（条件加载）
	// ════════════════════════════════════════════════════════════════════════
	if cfg.config.Backend.EnableTest {
		modules = append(modules, loopback.Module())
	}

	// ════════════════════════════════════════════════════════════════════════
	// 4. 用户自定义模块
	// ════════════════════════════════════════════════════════════════════════
	if len(cfg.userFxOptions) > 0 {
		modules = append(modules, cfg.userFxOptions...)
	}

	// ════════════════════════════════════════════════════════════════════════
	// 5. Node 组件注入
	// ════════════════════════════════════════════════════════════════════════
	modules = append(modules, fx.Invoke(injectNodeComponents(node)))

	// ════════════════════════════════════════════════════════════════════════
	// 6. Fx 配置
	// ════════════════════════════════════════════════════════════════════════
	modules = append(modules,
		// 禁用 Fx 日志输出（避免干扰用户日志）
		fx.WithLogger(func() fxevent.Logger {
			return &fxevent.ZapLogger{Logger: zap.NewNop()}
		}),
		fx.NopLogger,
	)

	app := fx.New(modules...)
	if err := app.Err(); err != nil {
		return nil, err
	}
	return app, nil
}

// nodeInjectParams Node 组件注入参数
type nodeInjectParams struct {
	fx.In

	Middleman *middleman.Middleman
	Metrics   *metrics.Metrics  `optional:"true"`
	Backend   *loopback.Backend `optional:"true"`
}

// injectNodeComponents 创建 Node 组件注入函数
func injectNodeComponents(node *Node) interface{} {
	return func(params nodeInjectParams) {
		node.middleman = params.Middleman
		node.metrics = params.Metrics
		node.backend = params.Backend
	}
}
