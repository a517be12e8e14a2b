package config

import "fmt"

// 回环通道供应方式
const (
	// ProvisionerSocketPair 使用 AF_UNIX socketpair（非 unix 平台回退为 pipe）
	ProvisionerSocketPair = "socketpair"

	// ProvisionerPipe 使用进程内 net.Pipe
	ProvisionerPipe = "pipe"
)

// BackendConfig 传输后端配置
type BackendConfig struct {
	// EnableTest 是否启用回环测试后端（scheme "test"）
	EnableTest bool `json:"enable_test"`

	// Test 回环测试后端配置
	Test TestBackendConfig `json:"test,omitempty"`
}

// TestBackendConfig 回环测试后端配置
type TestBackendConfig struct {
	// Provisioner 回环通道供应方式："socketpair" 或 "pipe"
	Provisioner string `json:"provisioner"`
}

// DefaultBackendConfig 返回默认后端配置
func DefaultBackendConfig() BackendConfig {
	return BackendConfig{
		EnableTest: true,
		Test: TestBackendConfig{
			Provisioner: ProvisionerSocketPair,
		},
	}
}

// Validate 验证后端配置
func (c BackendConfig) Validate() error {
	if !c.EnableTest {
		return fmt.Errorf("at least one backend must be enabled")
	}
	switch c.Test.Provisioner {
	case ProvisionerSocketPair, ProvisionerPipe:
		return nil
	default:
		return fmt.Errorf("unknown test backend provisioner: %q", c.Test.Provisioner)
	}
}
