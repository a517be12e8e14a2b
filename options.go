package actornet

import (
	"errors"
	"fmt"

	"go.uber.org/fx"

	"github.com/dep2p/go-actornet/config"
	"github.com/dep2p/go-actornet/pkg/types"
)

// Option 用户配置选项函数
type Option func(*nodeConfig) error

// nodeConfig 节点内部配置
type nodeConfig struct {
	// config 统一配置
	config *config.Config

	// userFxOptions 用户自定义 Fx 选项
	userFxOptions []fx.Option
}

func newNodeConfig() *nodeConfig {
	return &nodeConfig{config: config.NewConfig()}
}

// WithConfig 使用给定的统一配置
//
// 配置会被深拷贝，之后对 cfg 的修改不影响节点。
func WithConfig(cfg *config.Config) Option {
	return func(c *nodeConfig) error {
		if cfg == nil {
			return errors.New("config is nil")
		}
		c.config = config.CloneConfig(cfg)
		return nil
	}
}

// WithConfigFile 从 JSON 文件加载配置
func WithConfigFile(path string) Option {
	return func(c *nodeConfig) error {
		cfg, err := config.LoadFile(path)
		if err != nil {
			return err
		}
		c.config = cfg
		return nil
	}
}

// WithPreset 在当前配置上应用预设
//
// 预设：config.PresetTest、config.PresetMinimal
func WithPreset(name string) Option {
	return func(c *nodeConfig) error {
		return config.ApplyPreset(c.config, name)
	}
}

// WithNodeID 设置本地节点标识
func WithNodeID(id types.NodeID) Option {
	return func(c *nodeConfig) error {
		if id.IsEmpty() {
			return fmt.Errorf("%w: empty", types.ErrInvalidNodeID)
		}
		c.config.Middleman = c.config.Middleman.WithNodeID(id)
		return nil
	}
}

// WithProvisioner 设置回环通道供应方式
//
// 取值：config.ProvisionerSocketPair、config.ProvisionerPipe
func WithProvisioner(name string) Option {
	return func(c *nodeConfig) error {
		c.config.Backend.Test.Provisioner = name
		return nil
	}
}

// WithMetrics 启用或关闭指标
func WithMetrics(enabled bool) Option {
	return func(c *nodeConfig) error {
		c.config.Metrics.Enabled = enabled
		return nil
	}
}

// WithLogLevel 设置日志级别：debug / info / warn / error
func WithLogLevel(level string) Option {
	return func(c *nodeConfig) error {
		c.config.Log.Level = level
		return nil
	}
}

// WithFxOption 追加自定义 Fx 选项
//
// 用于注入额外组件或在测试中 fx.Populate 内部实例。
func WithFxOption(opts ...fx.Option) Option {
	return func(c *nodeConfig) error {
		c.userFxOptions = append(c.userFxOptions, opts...)
		return nil
	}
}
