package endpoint

import (
	"bufio"
	"fmt"
	"io"

	"github.com/multiformats/go-varint"
)

// WriteFrame 写出一个带 uvarint 长度前缀的帧（单次 Write）
func WriteFrame(w io.Writer, payload []byte) error {
	buf := make([]byte, 0, varint.UvarintSize(uint64(len(payload)))+len(payload))
	buf = append(buf, varint.ToUvarint(uint64(len(payload)))...)
	buf = append(buf, payload...)
	_, err := w.Write(buf)
	return err
}

// ReadFrame 读取一个完整帧
//
// 流在帧边界处结束时返回 io.EOF，帧中途结束时返回 io.ErrUnexpectedEOF。
func ReadFrame(r *bufio.Reader, maxSize int) ([]byte, error) {
	n, err := varint.ReadUvarint(r)
	if err != nil {
		return nil, err
	}
	if n > uint64(maxSize) {
		return nil, fmt.Errorf("%w: %d > %d", ErrFrameTooLarge, n, maxSize)
	}
	frame := make([]byte, n)
	if _, err := io.ReadFull(r, frame); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}
	return frame, nil
}
