package actor

import (
	"github.com/dep2p/go-actornet/pkg/interfaces"
	"github.com/dep2p/go-actornet/pkg/types"
)

// AddrOf 返回 actor 的地址，nil 返回空地址
func AddrOf(a interfaces.Actor) types.ActorAddr {
	if a == nil {
		return types.ActorAddr{}
	}
	return types.ActorAddr{Node: a.Node(), ID: a.ID()}
}

// AnonSend 匿名发送，不等待确认
func AnonSend(dst interfaces.Actor, content any) bool {
	if dst == nil {
		return false
	}
	return dst.Enqueue(&types.Envelope{
		Receiver: AddrOf(dst),
		Content:  content,
	})
}

// Send 以 src 的身份发送
func Send(src, dst interfaces.Actor, content any) bool {
	if dst == nil {
		return false
	}
	return dst.Enqueue(&types.Envelope{
		Sender:   AddrOf(src),
		Receiver: AddrOf(dst),
		Content:  content,
	})
}
