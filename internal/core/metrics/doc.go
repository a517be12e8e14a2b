// Package metrics 提供 Prometheus 指标采集
//
// Metrics 实现 endpoint.Observer 和 multiplexer.Observer，
// 由后端在供应通道时挂载。所有方法对 nil 接收者安全：
// 指标关闭时模块提供 nil，调用方无需判空。
//
// # 指标
//
//   - <ns>_backend_peers_provisioned_total: 供应的回环通道数
//   - <ns>_backend_peers_active: 当前登记的节点数
//   - <ns>_backend_resolves_total{result}: resolve 请求（forwarded / invalid_locator）
//   - <ns>_backend_proxies_created_total: 创建的远程代理数
//   - <ns>_multiplexer_channels: 注册到 I/O 驱动的通道数
//   - <ns>_endpoint_frames_total{direction}: 帧数（in / out）
//   - <ns>_endpoint_bytes_total{direction}: 帧负载字节数
package metrics
