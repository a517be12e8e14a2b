package basp

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidLocator 定位符缺少 authority，无法确定目标节点
	ErrInvalidLocator = errors.New("invalid locator")

	// ErrNoAppIdentifiers 未配置应用标识
	ErrNoAppIdentifiers = errors.New("no app identifiers configured")

	// ErrMissingHandshake 握手完成前收到非握手帧
	ErrMissingHandshake = errors.New("missing handshake")

	// ErrDuplicateHandshake 握手完成后再次收到握手帧
	ErrDuplicateHandshake = errors.New("duplicate handshake")

	// ErrAppIDMismatch 双方没有共同的应用标识
	ErrAppIDMismatch = errors.New("app identifier mismatch")

	// ErrResolveFailed 对端无法解析路径
	ErrResolveFailed = errors.New("resolve failed")

	// ErrUnsupportedContent 消息内容不是 []byte
	ErrUnsupportedContent = errors.New("unsupported message content")

	// ErrChannelClosed 通道关闭时仍在等待的请求收到此错误
	ErrChannelClosed = errors.New("channel closed")

	// ErrUnknownMessage 未知消息类型
	ErrUnknownMessage = errors.New("unknown message kind")

	// ErrMalformedMessage 消息编码错误
	ErrMalformedMessage = errors.New("malformed message")
)

// ResolveError 对端返回的解析失败
type ResolveError struct {
	Path   string
	Reason string
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("resolve %q: %s", e.Path, e.Reason)
}

// Unwrap 使 errors.Is(err, ErrResolveFailed) 成立
func (e *ResolveError) Unwrap() error {
	return ErrResolveFailed
}
