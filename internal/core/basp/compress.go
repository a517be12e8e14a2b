package basp

import (
	"fmt"

	"github.com/klauspost/compress/s2"
)

// compressPayload 超过阈值时压缩负载
func compressPayload(payload []byte, threshold int) ([]byte, bool) {
	if threshold <= 0 || len(payload) <= threshold {
		return payload, false
	}
	enc := s2.Encode(nil, payload)
	if len(enc) >= len(payload) {
		return payload, false
	}
	return enc, true
}

func decompressPayload(payload []byte, compressed bool) ([]byte, error) {
	if !compressed {
		return payload, nil
	}
	out, err := s2.Decode(nil, payload)
	if err != nil {
		return nil, fmt.Errorf("%w: decompress payload: %v", ErrMalformedMessage, err)
	}
	return out, nil
}
