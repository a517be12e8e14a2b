// Package multiplexer 实现托管通道的 I/O 驱动
//
// 每个注册的通道由一个读协程驱动，循环调用 HandleReadEvent
// 直到出错或被注销。Multiplexer 只持有通道的分发引用，
// 通道的所有权属于注册它的后端。
//
// # 关闭顺序
//
// Deregister 先移除分发引用再关闭通道，读协程随之退出；
// Close 注销全部通道并等待所有读协程结束。
package multiplexer
