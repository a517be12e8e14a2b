package interfaces

// Middleman 后端所需的中间人能力
//
// 后端持有 Middleman 的引用，用于访问 actor 运行时和 I/O 驱动。
type Middleman interface {
	// System 返回 actor 运行时
	System() ActorSystem

	// Multiplexer 返回 I/O 驱动
	Multiplexer() Multiplexer
}
