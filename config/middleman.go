package config

import (
	"errors"
	"time"

	"github.com/dep2p/go-actornet/pkg/types"
)

// MiddlemanConfig 中间人配置
type MiddlemanConfig struct {
	// NodeID 本地节点标识（Base58），为空时随机生成
	NodeID string `json:"node_id,omitempty"`

	// ResolveTimeout RemoteActor 在 ctx 无截止时间时的默认等待时间
	ResolveTimeout Duration `json:"resolve_timeout"`

	// MailboxSize 临时 listener 邮箱容量
	MailboxSize int `json:"mailbox_size"`
}

// DefaultMiddlemanConfig 返回默认中间人配置
func DefaultMiddlemanConfig() MiddlemanConfig {
	return MiddlemanConfig{
		ResolveTimeout: Duration(10 * time.Second),
		MailboxSize:    16,
	}
}

// Validate 验证中间人配置
func (c MiddlemanConfig) Validate() error {
	if c.NodeID != "" {
		if _, err := types.ParseNodeID(c.NodeID); err != nil {
			return err
		}
	}
	if c.ResolveTimeout <= 0 {
		return errors.New("resolve timeout must be positive")
	}
	if c.MailboxSize <= 0 {
		return errors.New("mailbox size must be positive")
	}
	return nil
}

// WithNodeID 设置本地节点标识
func (c MiddlemanConfig) WithNodeID(id types.NodeID) MiddlemanConfig {
	c.NodeID = id.String()
	return c
}
