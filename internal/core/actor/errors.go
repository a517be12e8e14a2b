package actor

import "errors"

var (
	// ErrInvalidActor actor 为空或标识无效
	ErrInvalidActor = errors.New("invalid actor")

	// ErrDuplicateActor 标识已被注册
	ErrDuplicateActor = errors.New("actor already registered")

	// ErrUnknownActor 标识未注册
	ErrUnknownActor = errors.New("unknown actor")

	// ErrNameTaken 名称已被占用
	ErrNameTaken = errors.New("actor name already taken")

	// ErrForeignActor actor 不属于本地节点
	ErrForeignActor = errors.New("actor belongs to another node")

	// ErrMailboxClosed 邮箱已关闭
	ErrMailboxClosed = errors.New("mailbox closed")
)
