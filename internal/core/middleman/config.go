package middleman

import (
	"time"

	"github.com/dep2p/go-actornet/config"
)

// Config 中间人配置
type Config struct {
	// ResolveTimeout ctx 没有截止时间时 RemoteActor 的等待时间
	ResolveTimeout time.Duration
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return ConfigFromUnified(nil)
}

// ConfigFromUnified 从统一配置创建中间人配置
func ConfigFromUnified(cfg *config.Config) Config {
	src := config.DefaultMiddlemanConfig()
	if cfg != nil {
		src = cfg.Middleman
	}
	return Config{
		ResolveTimeout: src.ResolveTimeout.Duration(),
	}
}
