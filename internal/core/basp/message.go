package basp

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/dep2p/go-actornet/pkg/types"
)

// Kind 消息类型
type Kind uint8

const (
	KindUnknown Kind = iota
	KindHandshake
	KindResolveRequest
	KindResolveResponse
	KindActorMessage
	KindHeartbeat
)

func (k Kind) String() string {
	switch k {
	case KindHandshake:
		return "handshake"
	case KindResolveRequest:
		return "resolve_request"
	case KindResolveResponse:
		return "resolve_response"
	case KindActorMessage:
		return "actor_message"
	case KindHeartbeat:
		return "heartbeat"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// 字段编号
const (
	fieldKind       protowire.Number = 1
	fieldNode       protowire.Number = 2
	fieldAppIDs     protowire.Number = 3
	fieldRequestID  protowire.Number = 4
	fieldPath       protowire.Number = 5
	fieldActorID    protowire.Number = 6
	fieldSrcActor   protowire.Number = 7
	fieldIfs        protowire.Number = 8
	fieldError      protowire.Number = 9
	fieldPayload    protowire.Number = 10
	fieldCompressed protowire.Number = 11
)

// Message 协议消息
//
// 各类型使用的字段：
//   - Handshake: Node, AppIDs
//   - ResolveRequest: RequestID, Path
//   - ResolveResponse: RequestID, ActorID, Ifs, Error
//   - ActorMessage: Node(源节点), SrcActor, ActorID(目标), Payload, Compressed
type Message struct {
	Kind       Kind
	Node       types.NodeID
	AppIDs     []string
	RequestID  uint64
	Path       string
	ActorID    types.ActorID
	SrcActor   types.ActorID
	Ifs        []string
	Error      string
	Payload    []byte
	Compressed bool
}

// Marshal 编码消息，零值字段不写出
func Marshal(m *Message) []byte {
	var b []byte
	b = protowire.AppendTag(b, fieldKind, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(m.Kind))

	if !m.Node.IsEmpty() {
		b = protowire.AppendTag(b, fieldNode, protowire.BytesType)
		b = protowire.AppendBytes(b, m.Node.Bytes())
	}
	for _, id := range m.AppIDs {
		b = protowire.AppendTag(b, fieldAppIDs, protowire.BytesType)
		b = protowire.AppendString(b, id)
	}
	if m.RequestID != 0 {
		b = protowire.AppendTag(b, fieldRequestID, protowire.VarintType)
		b = protowire.AppendVarint(b, m.RequestID)
	}
	if m.Path != "" {
		b = protowire.AppendTag(b, fieldPath, protowire.BytesType)
		b = protowire.AppendString(b, m.Path)
	}
	if m.ActorID != 0 {
		b = protowire.AppendTag(b, fieldActorID, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(m.ActorID))
	}
	if m.SrcActor != 0 {
		b = protowire.AppendTag(b, fieldSrcActor, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(m.SrcActor))
	}
	for _, ifc := range m.Ifs {
		b = protowire.AppendTag(b, fieldIfs, protowire.BytesType)
		b = protowire.AppendString(b, ifc)
	}
	if m.Error != "" {
		b = protowire.AppendTag(b, fieldError, protowire.BytesType)
		b = protowire.AppendString(b, m.Error)
	}
	if len(m.Payload) > 0 {
		b = protowire.AppendTag(b, fieldPayload, protowire.BytesType)
		b = protowire.AppendBytes(b, m.Payload)
	}
	if m.Compressed {
		b = protowire.AppendTag(b, fieldCompressed, protowire.VarintType)
		b = protowire.AppendVarint(b, protowire.EncodeBool(true))
	}
	return b
}

// Unmarshal 解码消息，未知字段被跳过
func Unmarshal(b []byte) (*Message, error) {
	m := &Message{}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, fmt.Errorf("%w: %v", ErrMalformedMessage, protowire.ParseError(n))
		}
		b = b[n:]

		switch {
		case typ == protowire.VarintType && isVarintField(num):
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, fmt.Errorf("%w: field %d: %v", ErrMalformedMessage, num, protowire.ParseError(n))
			}
			b = b[n:]
			m.setVarint(num, v)

		case typ == protowire.BytesType && isBytesField(num):
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, fmt.Errorf("%w: field %d: %v", ErrMalformedMessage, num, protowire.ParseError(n))
			}
			b = b[n:]
			if err := m.setBytes(num, v); err != nil {
				return nil, err
			}

		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return nil, fmt.Errorf("%w: field %d: %v", ErrMalformedMessage, num, protowire.ParseError(n))
			}
			b = b[n:]
		}
	}

	if m.Kind == KindUnknown || m.Kind > KindHeartbeat {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMessage, m.Kind)
	}
	return m, nil
}

func isVarintField(num protowire.Number) bool {
	switch num {
	case fieldKind, fieldRequestID, fieldActorID, fieldSrcActor, fieldCompressed:
		return true
	}
	return false
}

func isBytesField(num protowire.Number) bool {
	switch num {
	case fieldNode, fieldAppIDs, fieldPath, fieldIfs, fieldError, fieldPayload:
		return true
	}
	return false
}

func (m *Message) setVarint(num protowire.Number, v uint64) {
	switch num {
	case fieldKind:
		m.Kind = Kind(v)
	case fieldRequestID:
		m.RequestID = v
	case fieldActorID:
		m.ActorID = types.ActorID(v)
	case fieldSrcActor:
		m.SrcActor = types.ActorID(v)
	case fieldCompressed:
		m.Compressed = protowire.DecodeBool(v)
	}
}

func (m *Message) setBytes(num protowire.Number, v []byte) error {
	switch num {
	case fieldNode:
		id, err := types.NodeIDFromBytes(v)
		if err != nil {
			return fmt.Errorf("%w: node: %v", ErrMalformedMessage, err)
		}
		m.Node = id
	case fieldAppIDs:
		m.AppIDs = append(m.AppIDs, string(v))
	case fieldPath:
		m.Path = string(v)
	case fieldIfs:
		m.Ifs = append(m.Ifs, string(v))
	case fieldError:
		m.Error = string(v)
	case fieldPayload:
		m.Payload = append([]byte(nil), v...)
	}
	return nil
}
