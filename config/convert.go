package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"
)

// 预设名称
const (
	// PresetTest 单元测试预设：进程内 pipe、调试日志、短超时
	PresetTest = "test"

	// PresetMinimal 最小预设：小队列、关闭压缩和指标
	PresetMinimal = "minimal"
)

// FromJSON 从 JSON 数据创建配置
//
// 未出现的字段保留默认值。
func FromJSON(data []byte) (*Config, error) {
	cfg := NewConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}

// LoadFile 从 JSON 文件加载配置并验证
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	cfg, err := FromJSON(data)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// ToJSON 将配置序列化为缩进 JSON
func (c *Config) ToJSON() ([]byte, error) {
	return json.MarshalIndent(c, "", "  ")
}

// ApplyPreset 应用预设配置
func ApplyPreset(cfg *Config, presetName string) error {
	if cfg == nil {
		return errors.New("config is nil")
	}

	switch presetName {
	case PresetTest:
		cfg.Backend.EnableTest = true
		cfg.Backend.Test.Provisioner = ProvisionerPipe
		cfg.Endpoint.WriteTimeout = 0
		cfg.Middleman.ResolveTimeout = Duration(2 * time.Second)
		cfg.Log.Level = "debug"
		return nil
	case PresetMinimal:
		cfg.Endpoint.WriteQueueSize = 64
		cfg.Endpoint.ReadBufferSize = 4 << 10
		cfg.BASP.CompressThreshold = 0
		cfg.Metrics.Enabled = false
		return nil
	case "":
		return nil
	default:
		return fmt.Errorf("unknown preset: %s", presetName)
	}
}

// CloneConfig 深拷贝配置
func CloneConfig(cfg *Config) *Config {
	if cfg == nil {
		return nil
	}
	cloned := *cfg
	cloned.BASP.AppIdentifiers = append([]string(nil), cfg.BASP.AppIdentifiers...)
	return &cloned
}
