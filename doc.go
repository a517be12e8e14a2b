// Package actornet 提供 actor 消息中间人的节点入口
//
// Node 把中间人、I/O 驱动和传输后端组装为一个 Fx 应用。
// 当前内置回环测试后端（scheme "test"）：每个远程节点对应一对进程内
// 相连的流式通道，第一端交给测试驱动，第二端由托管通道读写。
//
// # 快速开始
//
//	node, err := actornet.Start(ctx,
//	    actornet.WithPreset(config.PresetTest),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer node.Close()
//
//	proxy, err := node.RemoteActor(ctx, types.MustParseURI("test://peer-b/name/echo"))
//
// # 组件层次
//
//	┌──────────────────────────────────────────────┐
//	│  Node            actornet.New / Start        │
//	├──────────────────────────────────────────────┤
//	│  Middleman       scheme → Backend            │
//	├──────────────────────────────────────────────┤
//	│  Backend         loopback（peer 表、代理）    │
//	├──────────────────────────────────────────────┤
//	│  Endpoint/BASP   帧、握手、resolve、消息      │
//	├──────────────────────────────────────────────┤
//	│  Multiplexer     每通道一个读协程             │
//	└──────────────────────────────────────────────┘
package actornet
