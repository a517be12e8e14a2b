package basp

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/dep2p/go-actornet/pkg/types"
)

func TestMarshal_AllFields(t *testing.T) {
	in := &Message{
		Kind:       KindActorMessage,
		Node:       types.NodeIDFromString("node-a"),
		AppIDs:     []string{"a", "b"},
		RequestID:  7,
		Path:       "name/echo",
		ActorID:    42,
		SrcActor:   3,
		Ifs:        []string{"ping"},
		Error:      "nope",
		Payload:    []byte("payload"),
		Compressed: true,
	}

	out, err := Unmarshal(Marshal(in))
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestMarshal_ZeroFieldsOmitted(t *testing.T) {
	b := Marshal(&Message{Kind: KindHeartbeat})
	// 只有 kind 字段：1 字节 tag + 1 字节值
	assert.Len(t, b, 2)

	m, err := Unmarshal(b)
	require.NoError(t, err)
	assert.Equal(t, KindHeartbeat, m.Kind)
	assert.Nil(t, m.Payload)
}

func TestUnmarshal_SkipsUnknownFields(t *testing.T) {
	b := Marshal(&Message{Kind: KindResolveRequest, RequestID: 1, Path: "id/1"})
	b = protowire.AppendTag(b, 99, protowire.BytesType)
	b = protowire.AppendString(b, "future")
	b = protowire.AppendTag(b, 100, protowire.Fixed32Type)
	b = protowire.AppendFixed32(b, 5)

	m, err := Unmarshal(b)
	require.NoError(t, err)
	assert.Equal(t, "id/1", m.Path)
}

func TestUnmarshal_Errors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"空帧", nil, ErrUnknownMessage},
		{"未知类型", Marshal(&Message{Kind: Kind(200)}), ErrUnknownMessage},
		{"截断", Marshal(&Message{Kind: KindResolveRequest, Path: "id/1"})[:4], ErrMalformedMessage},
		{"错误节点长度", func() []byte {
			b := Marshal(&Message{Kind: KindHandshake})
			b = protowire.AppendTag(b, fieldNode, protowire.BytesType)
			return protowire.AppendBytes(b, []byte{1, 2, 3})
		}(), ErrMalformedMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Unmarshal(tt.data)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "handshake", KindHandshake.String())
	assert.Equal(t, "actor_message", KindActorMessage.String())
	assert.Equal(t, "kind(99)", Kind(99).String())
}

func TestCompressPayload(t *testing.T) {
	big := bytes.Repeat([]byte("actornet "), 1024)

	out, compressed := compressPayload(big, 16)
	require.True(t, compressed)
	assert.Less(t, len(out), len(big))

	back, err := decompressPayload(out, true)
	require.NoError(t, err)
	assert.Equal(t, big, back)

	out, compressed = compressPayload(big, 0)
	assert.False(t, compressed, "阈值为 0 时禁用压缩")
	assert.Equal(t, big, out)

	out, compressed = compressPayload([]byte("tiny"), 16)
	assert.False(t, compressed)
	assert.Equal(t, []byte("tiny"), out)

	_, err = decompressPayload([]byte{0xff, 0xff, 0xff}, true)
	assert.ErrorIs(t, err, ErrMalformedMessage)
}
