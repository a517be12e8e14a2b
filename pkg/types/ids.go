package types

import (
	"crypto/sha256"
	"strconv"

	"github.com/google/uuid"
	"github.com/mr-tron/base58"
)

// ============================================================================
//                              NodeID - 节点标识
// ============================================================================

// NodeID 节点唯一标识符
//
// 外部表示格式：
//   - String(): Base58 编码
//   - ShortString(): Base58 前 8 个字符（日志简短标识）
type NodeID [32]byte

// EmptyNodeID 空节点ID
var EmptyNodeID NodeID

// String 返回 NodeID 的 Base58 字符串表示
func (id NodeID) String() string {
	if id.IsEmpty() {
		return ""
	}
	return base58.Encode(id[:])
}

// ShortString 返回 NodeID 的短字符串表示
func (id NodeID) ShortString() string {
	s := id.String()
	if len(s) > 8 {
		return s[:8]
	}
	return s
}

// Bytes 返回 NodeID 的字节切片
func (id NodeID) Bytes() []byte {
	return id[:]
}

// IsEmpty 检查 NodeID 是否为空
func (id NodeID) IsEmpty() bool {
	return id == EmptyNodeID
}

// NodeIDFromBytes 从字节切片创建 NodeID
func NodeIDFromBytes(b []byte) (NodeID, error) {
	if len(b) != len(EmptyNodeID) {
		return EmptyNodeID, ErrInvalidNodeID
	}
	var id NodeID
	copy(id[:], b)
	return id, nil
}

// ParseNodeID 从 Base58 字符串解析 NodeID
func ParseNodeID(s string) (NodeID, error) {
	if s == "" {
		return EmptyNodeID, ErrInvalidNodeID
	}
	b, err := base58.Decode(s)
	if err != nil {
		return EmptyNodeID, ErrInvalidNodeID
	}
	return NodeIDFromBytes(b)
}

// MakeNodeID 由定位符派生节点标识
//
// 调用方通常先取 AuthorityOnly()，使同一 authority 下的
// 所有路径映射到同一个节点。
func MakeNodeID(u URI) NodeID {
	return NodeID(sha256.Sum256([]byte(u.String())))
}

// NodeIDFromString 由任意字符串派生节点标识（测试和配置使用）
func NodeIDFromString(s string) NodeID {
	return NodeID(sha256.Sum256([]byte(s)))
}

// RandomNodeID 生成随机节点标识
func RandomNodeID() NodeID {
	u := uuid.New()
	return NodeID(sha256.Sum256(u[:]))
}

// ============================================================================
//                              ActorID - Actor 标识
// ============================================================================

// ActorID 节点内唯一的 actor 标识
//
// 0 保留为无效值。
type ActorID uint64

// InvalidActorID 无效的 actor 标识
const InvalidActorID ActorID = 0

// String 返回十进制表示
func (id ActorID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// IsValid 是否为有效标识
func (id ActorID) IsValid() bool {
	return id != InvalidActorID
}

// ActorAddr 全局 actor 地址（节点 + 节点内标识）
type ActorAddr struct {
	Node NodeID
	ID   ActorID
}

// String 返回 "<node-short>/<id>" 形式
func (a ActorAddr) String() string {
	return a.Node.ShortString() + "/" + a.ID.String()
}

// IsEmpty 检查地址是否为空
func (a ActorAddr) IsEmpty() bool {
	return a.Node.IsEmpty() && a.ID == InvalidActorID
}
