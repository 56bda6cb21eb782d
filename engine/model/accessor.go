package model

import (
	"encoding/binary"
	"fmt"
	"sync/atomic"

	"github.com/chewxy/math32"
)

// Accessor describes typed elements inside a BufferView.
type Accessor struct {
	ID            string
	BufferView    *BufferView
	ByteOffset    int
	ByteStride    int
	Count         int
	ComponentType ComponentType
	Type          ElementType
	Min           []float32
	Max           []float32

	resolved atomic.Pointer[Resolved]
}

// Resolved is the tightly packed data of an accessor. Exactly one of Uint16
// and Float32 is set.
type Resolved struct {
	Components    int
	ComponentType ComponentType
	Uint16        []uint16
	Float32       []float32
}

// Len returns the number of components, count × components per element.
func (r *Resolved) Len() int {
	if r.Uint16 != nil {
		return len(r.Uint16)
	}
	return len(r.Float32)
}

// Resolve decodes the accessor's elements from its BufferView. Interleaved
// data is gathered into a packed array. UNSIGNED_BYTE and UNSIGNED_SHORT
// resolve to Uint16, FLOAT to Float32. The result is cached.
//
// Returns:
//   - *Resolved: the decoded data
//   - error: a format error for unknown codes, unsupported component types, or out-of-range spans
func (a *Accessor) Resolve() (*Resolved, error) {
	if r := a.resolved.Load(); r != nil {
		return r, nil
	}

	r, err := a.resolve()
	if err != nil {
		return nil, err
	}
	if !a.resolved.CompareAndSwap(nil, r) {
		return a.resolved.Load(), nil
	}
	return r, nil
}

// ElementSize returns the byte size of one element.
func (a *Accessor) ElementSize() (int, error) {
	comps, ok := a.Type.Components()
	if !ok {
		return 0, FormatError("accessor", a.ID, "type", fmt.Errorf("%w %q", ErrUnknownElementType, string(a.Type)))
	}
	size, ok := a.ComponentType.Size()
	if !ok {
		return 0, FormatError("accessor", a.ID, "componentType", fmt.Errorf("%w %d", ErrUnknownComponentType, int(a.ComponentType)))
	}
	return comps * size, nil
}

func (a *Accessor) resolve() (*Resolved, error) {
	elemSize, err := a.ElementSize()
	if err != nil {
		return nil, err
	}
	comps, _ := a.Type.Components()
	compSize, _ := a.ComponentType.Size()

	switch a.ComponentType {
	case ComponentTypeUnsignedByte, ComponentTypeUnsignedShort, ComponentTypeFloat:
	default:
		return nil, FormatError("accessor", a.ID, "componentType", fmt.Errorf("%w %d (%s)", ErrUnsupportedComponentType, int(a.ComponentType), a.ComponentType))
	}

	if a.BufferView == nil {
		return nil, FormatError("accessor", a.ID, "bufferView", fmt.Errorf("%w: bufferView not linked", ErrOutOfRange))
	}
	view, err := a.BufferView.Slice()
	if err != nil {
		return nil, err
	}

	stride := a.ByteStride
	if stride == 0 {
		stride = elemSize
	}
	if stride < elemSize {
		return nil, FormatError("accessor", a.ID, "byteStride", fmt.Errorf("%w: stride %d is smaller than element size %d", ErrOutOfRange, stride, elemSize))
	}
	if a.Count < 0 || a.ByteOffset < 0 {
		return nil, FormatError("accessor", a.ID, "count", fmt.Errorf("%w: negative count or offset", ErrOutOfRange))
	}
	if a.Count > 0 {
		span := a.ByteOffset + stride*(a.Count-1) + elemSize
		if span > len(view.Bytes) {
			return nil, FormatError("accessor", a.ID, "byteOffset",
				fmt.Errorf("%w: needs %d bytes, bufferView %q has %d", ErrOutOfRange, span, a.BufferView.ID, len(view.Bytes)))
		}
	} else if a.ByteOffset > len(view.Bytes) {
		return nil, FormatError("accessor", a.ID, "byteOffset",
			fmt.Errorf("%w: offset %d past bufferView %q end %d", ErrOutOfRange, a.ByteOffset, a.BufferView.ID, len(view.Bytes)))
	}

	n := a.Count * comps
	r := &Resolved{Components: comps, ComponentType: a.ComponentType}
	packed := stride == elemSize

	switch a.ComponentType {
	case ComponentTypeUnsignedShort:
		if packed && view.Uint16 != nil && a.ByteOffset%2 == 0 {
			start := a.ByteOffset / 2
			r.Uint16 = view.Uint16[start : start+n : start+n]
			return r, nil
		}
		r.Uint16 = make([]uint16, n)
		gather(view.Bytes, a.ByteOffset, stride, a.Count, comps, compSize, func(i int, b []byte) {
			r.Uint16[i] = binary.LittleEndian.Uint16(b)
		})
	case ComponentTypeUnsignedByte:
		r.Uint16 = make([]uint16, n)
		gather(view.Bytes, a.ByteOffset, stride, a.Count, comps, compSize, func(i int, b []byte) {
			r.Uint16[i] = uint16(b[0])
		})
	case ComponentTypeFloat:
		if packed && view.Float32 != nil && a.ByteOffset%4 == 0 {
			start := a.ByteOffset / 4
			r.Float32 = view.Float32[start : start+n : start+n]
			return r, nil
		}
		r.Float32 = make([]float32, n)
		gather(view.Bytes, a.ByteOffset, stride, a.Count, comps, compSize, func(i int, b []byte) {
			r.Float32[i] = math32.Float32frombits(binary.LittleEndian.Uint32(b))
		})
	}
	return r, nil
}

// gather calls put for every component of every element, in order.
func gather(b []byte, offset, stride, count, comps, compSize int, put func(i int, b []byte)) {
	i := 0
	for e := 0; e < count; e++ {
		base := offset + e*stride
		for c := 0; c < comps; c++ {
			put(i, b[base+c*compSize:])
			i++
		}
	}
}
