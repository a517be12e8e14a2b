package interfaces

// Multiplexer I/O 驱动
//
// Multiplexer 只持有通道的分发引用，不负责通道的生命周期归属；
// 通道由注册它的后端拥有。
type Multiplexer interface {
	// RegisterReading 开始驱动通道的读事件
	RegisterReading(mgr EndpointManager)

	// Deregister 停止分发并关闭通道，返回时该通道不再有进行中的分发
	Deregister(mgr EndpointManager)

	// Count 返回当前注册的通道数
	Count() int

	// Close 注销所有通道并等待读循环退出
	Close() error
}
