package config

import "errors"

// EndpointConfig 托管通道配置
type EndpointConfig struct {
	// MaxFrameSize 单帧负载上限（字节）
	MaxFrameSize int `json:"max_frame_size"`

	// ReadBufferSize 读缓冲区大小
	ReadBufferSize int `json:"read_buffer_size"`

	// WriteQueueSize 写队列容量（帧数）
	WriteQueueSize int `json:"write_queue_size"`

	// WriteTimeout 单次写超时，0 表示不设置写截止时间
	//
	// 回环通道的对端可能永远不读取，默认不设置。
	WriteTimeout Duration `json:"write_timeout"`
}

// DefaultEndpointConfig 返回默认托管通道配置
func DefaultEndpointConfig() EndpointConfig {
	return EndpointConfig{
		MaxFrameSize:   16 << 20,
		ReadBufferSize: 64 << 10,
		WriteQueueSize: 1024,
		WriteTimeout:   0,
	}
}

// Validate 验证托管通道配置
func (c EndpointConfig) Validate() error {
	if c.MaxFrameSize <= 0 {
		return errors.New("max frame size must be positive")
	}
	if c.ReadBufferSize <= 0 {
		return errors.New("read buffer size must be positive")
	}
	if c.WriteQueueSize <= 0 {
		return errors.New("write queue size must be positive")
	}
	if c.WriteTimeout < 0 {
		return errors.New("write timeout must not be negative")
	}
	return nil
}
