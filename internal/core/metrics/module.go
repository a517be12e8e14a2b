package metrics

import (
	"go.uber.org/fx"

	"github.com/dep2p/go-actornet/config"
	"github.com/dep2p/go-actornet/internal/core/endpoint"
	"github.com/dep2p/go-actornet/internal/core/multiplexer"
)

// Config 指标配置
type Config struct {
	// Enabled 是否启用指标收集
	Enabled bool

	// Namespace 指标命名空间
	Namespace string
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return ConfigFromUnified(nil)
}

// ConfigFromUnified 从统一配置创建指标配置
func ConfigFromUnified(cfg *config.Config) Config {
	src := config.DefaultMetricsConfig()
	if cfg != nil {
		src = cfg.Metrics
	}
	return Config{
		Enabled:   src.Enabled,
		Namespace: src.Namespace,
	}
}

// Params Metrics 依赖参数
type Params struct {
	fx.In

	UnifiedCfg *config.Config `optional:"true"`
}

// Result Fx 模块输出结果
type Result struct {
	fx.Out

	Metrics          *Metrics
	EndpointObserver endpoint.Observer
	ChannelObserver  multiplexer.Observer
}

// Module 是 metrics 的 Fx 模块
var Module = fx.Module("metrics",
	fx.Provide(NewFromParams),
)

// NewFromParams 从参数创建 Metrics
//
// 指标关闭时返回的 *Metrics 为 nil，观察者接口仍可安全调用。
func NewFromParams(p Params) Result {
	cfg := ConfigFromUnified(p.UnifiedCfg)
	var m *Metrics
	if cfg.Enabled {
		m = New(cfg.Namespace)
	}
	return Result{
		Metrics:          m,
		EndpointObserver: m,
		ChannelObserver:  m,
	}
}
