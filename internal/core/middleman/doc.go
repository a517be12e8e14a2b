// Package middleman 实现连接 actor 运行时与传输后端的中间人
//
// Middleman 持有本地 actor 运行时、I/O 驱动和按 scheme 索引的后端，
// 把定位符路由到对应后端：
//
//	mm.Resolve(types.MustParseURI("test://node-b/name/echo"), listener)
//	proxy, err := mm.RemoteActor(ctx, locator)
//
// 后端在构造时拿到 Middleman 的引用（interfaces.Middleman），
// 通过它访问运行时和 I/O 驱动。
package middleman
