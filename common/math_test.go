package common

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMul4Identity(t *testing.T) {
	var m [16]float32
	FromTRS(m[:], [3]float32{1, 2, 3}, [4]float32{0, 0, 0, 1}, [3]float32{2, 2, 2})

	id := IdentityMatrix()
	var out [16]float32
	Mul4(out[:], id[:], m[:])
	assert.Equal(t, m, out)
	Mul4(out[:], m[:], id[:])
	assert.Equal(t, m, out)
}

func TestMul4Translation(t *testing.T) {
	var a, b, out [16]float32
	FromTRS(a[:], [3]float32{1, 0, 0}, [4]float32{0, 0, 0, 1}, [3]float32{1, 1, 1})
	FromTRS(b[:], [3]float32{0, 5, 0}, [4]float32{0, 0, 0, 1}, [3]float32{1, 1, 1})
	Mul4(out[:], a[:], b[:])
	assert.Equal(t, [3]float32{1, 5, 0}, [3]float32{out[12], out[13], out[14]})
}

func TestFromTRSRotation(t *testing.T) {
	// 90 degrees about Z.
	s, c := math32.Sincos(math32.Pi / 4)
	var m [16]float32
	FromTRS(m[:], [3]float32{}, [4]float32{0, 0, s, c}, [3]float32{1, 1, 1})

	p := TransformPoint(m[:], [3]float32{1, 0, 0})
	assert.InDelta(t, 0, p[0], 1e-6)
	assert.InDelta(t, 1, p[1], 1e-6)
	assert.InDelta(t, 0, p[2], 1e-6)
}

func TestFromTRSScaleThenTranslate(t *testing.T) {
	var m [16]float32
	FromTRS(m[:], [3]float32{10, 0, 0}, [4]float32{0, 0, 0, 1}, [3]float32{2, 3, 4})
	p := TransformPoint(m[:], [3]float32{1, 1, 1})
	assert.Equal(t, [3]float32{12, 3, 4}, p)
}

func TestNormalizeQuat(t *testing.T) {
	assert.Equal(t, [4]float32{0, 0, 0, 1}, NormalizeQuat([4]float32{}))

	q := NormalizeQuat([4]float32{0, 0, 0, 2})
	assert.Equal(t, [4]float32{0, 0, 0, 1}, q)

	q = NormalizeQuat([4]float32{1, 1, 1, 1})
	for _, v := range q {
		assert.InDelta(t, 0.5, v, 1e-6)
	}
}

func TestApproxEqual4(t *testing.T) {
	a := IdentityMatrix()
	b := a
	b[0] += 1e-7
	require.True(t, ApproxEqual4(a[:], b[:], 1e-5))
	b[5] = 2
	require.False(t, ApproxEqual4(a[:], b[:], 1e-5))
	require.False(t, ApproxEqual4(a[:], b[:4], 1e-5))
}

func TestSliceToBytes(t *testing.T) {
	assert.Nil(t, SliceToBytes([]uint16{}))
	assert.Len(t, SliceToBytes([]uint16{1, 2, 3}), 6)
	assert.Len(t, SliceToBytes([]float32{1, 2}), 8)
}

func TestSortedKeysAndCoalesce(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, SortedKeys(map[string]int{"c": 1, "a": 2, "b": 3}))
	assert.Equal(t, 3, Coalesce(0, 0, 3, 4))
	assert.Equal(t, "", Coalesce("", ""))
}
