// Package endpoint 实现托管通道
//
// Manager 持有一个字节流端点和一个协议处理器（interfaces.Application），
// 负责帧的缓冲、分帧和投递：
//
//	帧格式: [uvarint 负载长度][负载]
//
// # 读路径
//
// Manager 不自行读取，由 Multiplexer 反复调用 HandleReadEvent()，
// 每次读取一个完整帧并交给 Application.HandleFrame。
//
// # 写路径
//
// WritePacket 只把帧放入有界写队列，由专属的写协程串行写出，
// 因此调用方永远不会阻塞在对端未读取的回环端点上。
//
// # 生命周期
//
//	New → Init（启动写协程，调用 Application.Init）→ 运行 → Close（幂等）
package endpoint
