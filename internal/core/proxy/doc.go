// Package proxy 实现远程 actor 的本地代理和共享代理表
//
// Registry 按 (节点, actor) 保存代理，保证同一远程 actor 只有一个代理；
// 代理由 ProxyFactory（通常是后端）创建。ActorProxy 把消息
// 通过所属节点的托管通道发出。
package proxy
