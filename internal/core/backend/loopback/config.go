package loopback

import (
	"github.com/dep2p/go-actornet/config"
	"github.com/dep2p/go-actornet/internal/core/basp"
	"github.com/dep2p/go-actornet/internal/core/endpoint"
)

// Config 测试后端配置
type Config struct {
	// Provisioner 回环通道供应方式
	Provisioner string

	// Endpoint 托管通道配置
	Endpoint endpoint.Config

	// BASP 协议配置
	BASP basp.Config
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return ConfigFromUnified(nil)
}

// ConfigFromUnified 从统一配置创建后端配置
func ConfigFromUnified(cfg *config.Config) Config {
	provisioner := config.DefaultBackendConfig().Test.Provisioner
	if cfg != nil {
		provisioner = cfg.Backend.Test.Provisioner
	}
	return Config{
		Provisioner: provisioner,
		Endpoint:    endpoint.ConfigFromUnified(cfg),
		BASP:        basp.ConfigFromUnified(cfg),
	}
}
