package loopback

import "errors"

var (
	// ErrConnectingNotImplemented 测试后端不主动拨号
	ErrConnectingNotImplemented = errors.New("connecting not implemented in test backend")

	// ErrPeerExists 节点已有登记项
	ErrPeerExists = errors.New("peer already provisioned")

	// ErrStopped 后端已停止
	ErrStopped = errors.New("test backend stopped")
)
