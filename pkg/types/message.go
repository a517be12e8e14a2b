package types

// Envelope 投递给 actor 的消息信封
//
// Content 的常见取值：
//   - []byte: 应用负载（唯一可跨节点传输的类型）
//   - error: 匿名错误通知（如 resolve 失败）
//   - *ResolveResult: resolve 成功结果
type Envelope struct {
	// Sender 发送方地址，匿名发送时为空
	Sender ActorAddr

	// Receiver 接收方地址
	Receiver ActorAddr

	// Content 消息内容
	Content any
}

// IsAnonymous 是否为匿名消息
func (e *Envelope) IsAnonymous() bool {
	return e.Sender.IsEmpty()
}

// ResolveResult resolve 成功时投递给 listener 的结果
type ResolveResult struct {
	// Locator 被解析的定位符
	Locator URI

	// Proxy 远程 actor 的本地代理
	//
	// 类型为 interfaces.Actor，这里使用 any 以保持本包零依赖。
	Proxy any

	// Ifs 远程 actor 声明的消息接口
	Ifs []string
}
