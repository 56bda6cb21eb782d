package model

import (
	"encoding/binary"
	"fmt"
	"sync/atomic"

	"github.com/chewxy/math32"
)

// Buffer is a raw binary payload loaded from a URI.
type Buffer struct {
	ID   string
	URI  string
	Data []byte
}

// TypedView is the materialized contents of a BufferView.
type TypedView struct {
	// Bytes is the raw window [offset, offset+length) of the buffer. It shares memory with the buffer.
	Bytes []byte
	// Uint16 is set for index-array views of even length.
	Uint16 []uint16
	// Float32 is set for vertex-attribute views.
	Float32 []float32
}

// BufferView is a byte range of one Buffer.
type BufferView struct {
	ID         string
	Buffer     *Buffer
	ByteOffset int
	ByteLength int
	Target     Target

	slice atomic.Pointer[TypedView]
}

// Slice returns the typed view over the buffer range. The first successful call
// materializes the view; every later call returns the same pointer.
//
// Returns:
//   - *TypedView: the cached view
//   - error: a format error if the range falls outside the buffer
func (v *BufferView) Slice() (*TypedView, error) {
	if tv := v.slice.Load(); tv != nil {
		return tv, nil
	}

	tv, err := v.materialize()
	if err != nil {
		return nil, err
	}
	if !v.slice.CompareAndSwap(nil, tv) {
		return v.slice.Load(), nil
	}
	return tv, nil
}

func (v *BufferView) materialize() (*TypedView, error) {
	if v.Buffer == nil {
		return nil, FormatError("bufferView", v.ID, "buffer", fmt.Errorf("%w: buffer not linked", ErrOutOfRange))
	}
	end := v.ByteOffset + v.ByteLength
	if v.ByteOffset < 0 || v.ByteLength < 0 || end > len(v.Buffer.Data) {
		return nil, FormatError("bufferView", v.ID, "byteLength",
			fmt.Errorf("%w: [%d, %d) of buffer %q with %d bytes", ErrOutOfRange, v.ByteOffset, end, v.Buffer.ID, len(v.Buffer.Data)))
	}

	raw := v.Buffer.Data[v.ByteOffset:end:end]
	tv := &TypedView{Bytes: raw}

	switch v.Target {
	case TargetElementArrayBuffer:
		// an odd length can only hold UNSIGNED_BYTE indices, which accessors gather from Bytes
		if len(raw)%2 == 0 {
			tv.Uint16 = decodeUint16(raw)
		}
	case TargetArrayBuffer:
		if len(raw)%4 != 0 {
			return nil, FormatError("bufferView", v.ID, "byteLength", fmt.Errorf("%w: %d bytes is not a whole number of float32", ErrOutOfRange, len(raw)))
		}
		tv.Float32 = decodeFloat32(raw)
	}
	return tv, nil
}

func decodeUint16(b []byte) []uint16 {
	out := make([]uint16, len(b)/2)
	for i := range out {
		out[i] = binary.LittleEndian.Uint16(b[i*2:])
	}
	return out
}

func decodeFloat32(b []byte) []float32 {
	out := make([]float32, len(b)/4)
	for i := range out {
		out[i] = math32.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return out
}
