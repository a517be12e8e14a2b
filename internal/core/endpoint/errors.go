package endpoint

import "errors"

var (
	// ErrClosed 通道已关闭
	ErrClosed = errors.New("endpoint manager closed")

	// ErrAlreadyInitialized 通道已初始化
	ErrAlreadyInitialized = errors.New("endpoint manager already initialized")

	// ErrWriteQueueFull 写队列已满
	ErrWriteQueueFull = errors.New("endpoint write queue full")

	// ErrFrameTooLarge 帧超过上限
	ErrFrameTooLarge = errors.New("frame too large")
)
