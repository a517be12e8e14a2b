// Package socket 提供本地回环通道供应
//
// 回环通道是一对已连接的双向字节流端点，不经过任何网络：
//   - unix 平台：AF_UNIX/SOCK_STREAM socketpair，每个 fd 通过 net.FileConn 包装
//   - 其他平台或 "pipe" 供应方式：net.Pipe()
//
// 使用示例：
//
//	first, second, err := socket.Default().MakeStreamSocketPair()
//	if err != nil {
//	    return err
//	}
//	_ = socket.SetNonblocking(second, true)
package socket
