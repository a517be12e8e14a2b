package config

import "errors"

// BASPConfig 协议层配置
type BASPConfig struct {
	// AppIdentifiers 应用标识，握手时双方至少要有一个相同
	AppIdentifiers []string `json:"app_identifiers"`

	// CompressThreshold 负载超过该字节数时使用 s2 压缩，0 表示禁用
	CompressThreshold int `json:"compress_threshold"`
}

// DefaultBASPConfig 返回默认协议配置
func DefaultBASPConfig() BASPConfig {
	return BASPConfig{
		AppIdentifiers:    []string{"actornet"},
		CompressThreshold: 4 << 10,
	}
}

// Validate 验证协议配置
func (c BASPConfig) Validate() error {
	if len(c.AppIdentifiers) == 0 {
		return errors.New("at least one app identifier is required")
	}
	for _, id := range c.AppIdentifiers {
		if id == "" {
			return errors.New("app identifier must not be empty")
		}
	}
	if c.CompressThreshold < 0 {
		return errors.New("compress threshold must not be negative")
	}
	return nil
}
