package endpoint

import (
	"time"

	"github.com/dep2p/go-actornet/config"
)

// Config 托管通道配置
type Config struct {
	// MaxFrameSize 单帧负载上限
	MaxFrameSize int

	// ReadBufferSize 读缓冲区大小
	ReadBufferSize int

	// WriteQueueSize 写队列容量
	WriteQueueSize int

	// WriteTimeout 单次写超时，0 表示不设置
	WriteTimeout time.Duration
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return ConfigFromUnified(nil)
}

// ConfigFromUnified 从统一配置创建通道配置
func ConfigFromUnified(cfg *config.Config) Config {
	src := config.DefaultEndpointConfig()
	if cfg != nil {
		src = cfg.Endpoint
	}
	return Config{
		MaxFrameSize:   src.MaxFrameSize,
		ReadBufferSize: src.ReadBufferSize,
		WriteQueueSize: src.WriteQueueSize,
		WriteTimeout:   src.WriteTimeout.Duration(),
	}
}
