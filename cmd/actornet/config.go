package main

import (
	"os"
	"strings"

	"github.com/dep2p/go-actornet/config"
	"github.com/dep2p/go-actornet/pkg/types"
)

// ============================================================================
//                              环境变量（CLI 专用）
// ============================================================================

const (
	envPrefix      = "ACTORNET_"
	envPreset      = "PRESET"
	envNodeID      = "NODE_ID"
	envProvisioner = "PROVISIONER"
	envPeers       = "PEERS"
	envLogLevel    = "LOG_LEVEL"
)

// envOverrides 需要和命令行参数合并的环境变量
type envOverrides struct {
	preset string
}

// applyEnvOverrides 应用环境变量覆盖配置
//
// 环境变量优先级高于配置文件，但低于命令行参数。
func applyEnvOverrides(cfg *config.Config, cli *cliConfig) envOverrides {
	var env envOverrides

	if v := os.Getenv(envPrefix + envPreset); v != "" {
		env.preset = v
	}

	// 非法节点标识忽略，保留配置文件中的值
	if v := os.Getenv(envPrefix + envNodeID); v != "" {
		if id, err := types.ParseNodeID(v); err == nil {
			cfg.Middleman = cfg.Middleman.WithNodeID(id)
		}
	}

	if v := os.Getenv(envPrefix + envProvisioner); v != "" {
		cfg.Backend.Test.Provisioner = v
	}

	if v := os.Getenv(envPrefix + envPeers); v != "" {
		cli.peers = splitAndTrim(v, ",")
	}

	if v := os.Getenv(envPrefix + envLogLevel); v != "" {
		cfg.Log.Level = strings.ToLower(v)
	}

	return env
}

// splitAndTrim 分割字符串并去除空白
func splitAndTrim(s, sep string) []string {
	parts := strings.Split(s, sep)
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
