// Package loopback 实现回环测试后端
//
// 测试后端满足与真实网络后端相同的 Backend 契约，但从不进行网络 I/O：
// 每个节点标识在第一次被查询时获得一对本地连接的字节流端点，
// 第二个端点包装成运行 BASP 的托管通道并注册到 I/O 驱动，
// 第一个端点保存在登记表中，测试可以用它模拟对端。
//
// # 节点状态
//
//	absent --首次查询--> provisioned --Stop--> removed
//
// 没有重连，也没有可与 absent 区分的错误状态。
//
// # 致命错误
//
// 本地供应失败（创建端点对、初始化通道）说明测试环境本身已损坏，
// 记录错误日志后 panic，不作为普通错误返回。
//
// # 并发
//
// 登记表由一把互斥锁保护，get-or-create 在锁内完成，
// 同一节点标识最多只有一个登记项。
package loopback
