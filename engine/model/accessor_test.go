package model

import (
	"encoding/binary"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func u16Bytes(vals ...uint16) []byte {
	b := make([]byte, 2*len(vals))
	for i, v := range vals {
		binary.LittleEndian.PutUint16(b[i*2:], v)
	}
	return b
}

func f32Bytes(vals ...float32) []byte {
	b := make([]byte, 4*len(vals))
	for i, v := range vals {
		binary.LittleEndian.PutUint32(b[i*4:], math.Float32bits(v))
	}
	return b
}

func TestBufferViewSliceTyped(t *testing.T) {
	data := append(u16Bytes(0, 1, 2, 0), f32Bytes(1, 2, 3, 4, 5, 6)...)
	buf := &Buffer{ID: "b", Data: data}

	idx := &BufferView{ID: "idx", Buffer: buf, ByteOffset: 0, ByteLength: 6, Target: TargetElementArrayBuffer}
	tv, err := idx.Slice()
	require.NoError(t, err)
	assert.Equal(t, []uint16{0, 1, 2}, tv.Uint16)
	assert.Nil(t, tv.Float32)
	assert.Len(t, tv.Bytes, 6)

	vtx := &BufferView{ID: "vtx", Buffer: buf, ByteOffset: 8, ByteLength: 24, Target: TargetArrayBuffer}
	tv, err = vtx.Slice()
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 2, 3, 4, 5, 6}, tv.Float32)

	raw := &BufferView{ID: "raw", Buffer: buf, ByteOffset: 2, ByteLength: 3}
	tv, err = raw.Slice()
	require.NoError(t, err)
	assert.Equal(t, data[2:5], tv.Bytes)
	assert.Nil(t, tv.Uint16)
	assert.Nil(t, tv.Float32)
}

func TestBufferViewSliceIsCached(t *testing.T) {
	buf := &Buffer{ID: "b", Data: f32Bytes(1, 2, 3)}
	v := &BufferView{ID: "v", Buffer: buf, ByteLength: 12, Target: TargetArrayBuffer}

	var wg sync.WaitGroup
	views := make([]*TypedView, 8)
	for i := range views {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tv, err := v.Slice()
			assert.NoError(t, err)
			views[i] = tv
		}()
	}
	wg.Wait()

	first, err := v.Slice()
	require.NoError(t, err)
	for _, tv := range views {
		assert.Same(t, first, tv)
	}
}

func TestBufferViewSliceOutOfRange(t *testing.T) {
	buf := &Buffer{ID: "b", Data: make([]byte, 10)}

	_, err := (&BufferView{ID: "v", Buffer: buf, ByteOffset: 4, ByteLength: 8}).Slice()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFormat)
	assert.ErrorIs(t, err, ErrOutOfRange)

	_, err = (&BufferView{ID: "odd", Buffer: buf, ByteLength: 6, Target: TargetArrayBuffer}).Slice()
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestAccessorResolveIndices(t *testing.T) {
	buf := &Buffer{ID: "b", Data: u16Bytes(9, 0, 1, 2)}
	view := &BufferView{ID: "v", Buffer: buf, ByteLength: 8, Target: TargetElementArrayBuffer}
	acc := &Accessor{ID: "a", BufferView: view, ByteOffset: 2, Count: 3, ComponentType: ComponentTypeUnsignedShort, Type: ElementScalar}

	r, err := acc.Resolve()
	require.NoError(t, err)
	assert.Equal(t, []uint16{0, 1, 2}, r.Uint16)
	assert.Equal(t, 3, r.Len())
	assert.Equal(t, 1, r.Components)

	again, err := acc.Resolve()
	require.NoError(t, err)
	assert.Same(t, r, again)
}

func TestAccessorResolveLengthMatchesCount(t *testing.T) {
	buf := &Buffer{ID: "b", Data: f32Bytes(make([]float32, 64)...)}
	view := &BufferView{ID: "v", Buffer: buf, ByteLength: 256, Target: TargetArrayBuffer}

	for _, typ := range []ElementType{ElementScalar, ElementVec2, ElementVec3, ElementVec4, ElementMat2, ElementMat3, ElementMat4} {
		comps, _ := typ.Components()
		count := 64 / comps
		acc := &Accessor{ID: string(typ), BufferView: view, Count: count, ComponentType: ComponentTypeFloat, Type: typ}
		r, err := acc.Resolve()
		require.NoError(t, err, typ)
		assert.Equal(t, count*comps, r.Len(), typ)
	}
}

func TestAccessorResolveInterleaved(t *testing.T) {
	// position.xyz, uv.xy per vertex
	buf := &Buffer{ID: "b", Data: f32Bytes(
		0, 0, 0, 0.1, 0.2,
		1, 0, 0, 0.3, 0.4,
		0, 1, 0, 0.5, 0.6,
	)}
	view := &BufferView{ID: "v", Buffer: buf, ByteLength: 60, Target: TargetArrayBuffer}

	pos := &Accessor{ID: "pos", BufferView: view, ByteStride: 20, Count: 3, ComponentType: ComponentTypeFloat, Type: ElementVec3}
	uv := &Accessor{ID: "uv", BufferView: view, ByteOffset: 12, ByteStride: 20, Count: 3, ComponentType: ComponentTypeFloat, Type: ElementVec2}

	r, err := pos.Resolve()
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 0, 0, 1, 0, 0, 0, 1, 0}, r.Float32)

	r, err = uv.Resolve()
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3, 0.4, 0.5, 0.6}, r.Float32)
}

func TestAccessorResolveUnsignedByte(t *testing.T) {
	buf := &Buffer{ID: "b", Data: []byte{3, 2, 1, 0}}
	view := &BufferView{ID: "v", Buffer: buf, ByteLength: 4}
	acc := &Accessor{ID: "a", BufferView: view, Count: 3, ComponentType: ComponentTypeUnsignedByte, Type: ElementScalar}

	r, err := acc.Resolve()
	require.NoError(t, err)
	assert.Equal(t, []uint16{3, 2, 1}, r.Uint16)
}

func TestAccessorResolveUnsignedByteOddIndexView(t *testing.T) {
	buf := &Buffer{ID: "b", Data: []byte{2, 0, 1, 0}}
	view := &BufferView{ID: "v", Buffer: buf, ByteLength: 3, Target: TargetElementArrayBuffer}

	tv, err := view.Slice()
	require.NoError(t, err)
	assert.Nil(t, tv.Uint16)
	assert.Len(t, tv.Bytes, 3)

	acc := &Accessor{ID: "a", BufferView: view, Count: 3, ComponentType: ComponentTypeUnsignedByte, Type: ElementScalar}
	r, err := acc.Resolve()
	require.NoError(t, err)
	assert.Equal(t, []uint16{2, 0, 1}, r.Uint16)

	short := &Accessor{ID: "s", BufferView: view, Count: 2, ComponentType: ComponentTypeUnsignedShort, Type: ElementScalar}
	_, err = short.Resolve()
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestAccessorResolveUntaggedView(t *testing.T) {
	buf := &Buffer{ID: "b", Data: f32Bytes(1, 2, 3)}
	view := &BufferView{ID: "v", Buffer: buf, ByteLength: 12}
	acc := &Accessor{ID: "a", BufferView: view, Count: 1, ComponentType: ComponentTypeFloat, Type: ElementVec3}

	r, err := acc.Resolve()
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 2, 3}, r.Float32)
}

func TestAccessorResolveOutOfRange(t *testing.T) {
	buf := &Buffer{ID: "b", Data: u16Bytes(0, 1, 2)}
	view := &BufferView{ID: "v", Buffer: buf, ByteLength: 6, Target: TargetElementArrayBuffer}
	acc := &Accessor{ID: "a", BufferView: view, ByteOffset: 2, Count: 3, ComponentType: ComponentTypeUnsignedShort, Type: ElementScalar}

	_, err := acc.Resolve()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFormat)
	assert.ErrorIs(t, err, ErrOutOfRange)
	assert.Contains(t, err.Error(), `accessor "a"`)
}

func TestAccessorResolveUnknownCodes(t *testing.T) {
	buf := &Buffer{ID: "b", Data: make([]byte, 16)}
	view := &BufferView{ID: "v", Buffer: buf, ByteLength: 16}

	_, err := (&Accessor{ID: "a", BufferView: view, Count: 1, ComponentType: 9999, Type: ElementScalar}).Resolve()
	assert.ErrorIs(t, err, ErrUnknownComponentType)
	assert.Contains(t, err.Error(), "9999")

	_, err = (&Accessor{ID: "a", BufferView: view, Count: 1, ComponentType: ComponentTypeFloat, Type: "VEC9"}).Resolve()
	assert.ErrorIs(t, err, ErrUnknownElementType)
	assert.Contains(t, err.Error(), "VEC9")

	_, err = (&Accessor{ID: "a", BufferView: view, Count: 1, ComponentType: ComponentTypeShort, Type: ElementScalar}).Resolve()
	assert.ErrorIs(t, err, ErrUnsupportedComponentType)
	assert.Contains(t, err.Error(), "5122")
}

func TestAccessorResolveStrideTooSmall(t *testing.T) {
	buf := &Buffer{ID: "b", Data: make([]byte, 48)}
	view := &BufferView{ID: "v", Buffer: buf, ByteLength: 48, Target: TargetArrayBuffer}
	acc := &Accessor{ID: "a", BufferView: view, ByteStride: 8, Count: 2, ComponentType: ComponentTypeFloat, Type: ElementVec3}

	_, err := acc.Resolve()
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestErrorFormatting(t *testing.T) {
	err := DanglingError("accessor", "acc0", "bufferView", "bv9")
	assert.Equal(t, `gltf: reference error: accessor "acc0" bufferView: dangling reference "bv9"`, err.Error())
	assert.ErrorIs(t, err, ErrReference)
	assert.ErrorIs(t, err, ErrDanglingReference)
	assert.NotErrorIs(t, err, ErrFormat)

	cfg := ConfigError("buffer", "b0", "uri", ErrMissingURI)
	assert.Equal(t, `gltf: config error: buffer "b0" uri: missing uri`, cfg.Error())
}
