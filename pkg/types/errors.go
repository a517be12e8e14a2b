package types

import "errors"

// ============================================================================
//                              ID 相关错误
// ============================================================================

var (
	// ErrInvalidNodeID 无效的节点ID
	ErrInvalidNodeID = errors.New("invalid node ID: must be 32 bytes Base58")

	// ErrInvalidActorID 无效的 actor ID
	ErrInvalidActorID = errors.New("invalid actor ID")
)

// ============================================================================
//                              定位符相关错误
// ============================================================================

var (
	// ErrEmptyURI 空定位符
	ErrEmptyURI = errors.New("empty URI")

	// ErrInvalidURI 无效定位符
	ErrInvalidURI = errors.New("invalid URI")
)
