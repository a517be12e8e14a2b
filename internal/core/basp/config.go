package basp

import "github.com/dep2p/go-actornet/config"

// Config 协议配置
type Config struct {
	// AppIdentifiers 握手时发送的应用标识
	AppIdentifiers []string

	// CompressThreshold 负载超过该字节数时压缩，0 表示禁用
	CompressThreshold int
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return ConfigFromUnified(nil)
}

// ConfigFromUnified 从统一配置创建协议配置
func ConfigFromUnified(cfg *config.Config) Config {
	src := config.DefaultBASPConfig()
	if cfg != nil {
		src = cfg.BASP
	}
	return Config{
		AppIdentifiers:    append([]string(nil), src.AppIdentifiers...),
		CompressThreshold: src.CompressThreshold,
	}
}
