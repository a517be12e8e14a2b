package middleman

import "errors"

var (
	// ErrNoBackend 没有处理该 scheme 的后端
	ErrNoBackend = errors.New("no backend for scheme")

	// ErrNilBackend 后端为空
	ErrNilBackend = errors.New("nil backend")

	// ErrDuplicateBackend 同名后端已存在
	ErrDuplicateBackend = errors.New("backend already registered")

	// ErrUnexpectedResponse resolve 返回了无法识别的内容
	ErrUnexpectedResponse = errors.New("unexpected resolve response")

	// ErrStopped 中间人已停止
	ErrStopped = errors.New("middleman stopped")
)
