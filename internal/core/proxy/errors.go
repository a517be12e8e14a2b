package proxy

import "errors"

var (
	// ErrInvalidActorID 远程 actor 标识无效
	ErrInvalidActorID = errors.New("invalid remote actor id")

	// ErrInvalidNode 远程节点标识为空
	ErrInvalidNode = errors.New("invalid remote node id")

	// ErrNoChannel 没有可用的托管通道
	ErrNoChannel = errors.New("no channel to remote node")

	// ErrNoFactory 代理表未设置工厂
	ErrNoFactory = errors.New("proxy factory not set")
)
