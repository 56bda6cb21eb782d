package scene

import (
	"math/rand"
	"testing"

	"github.com/Carmen-Shannon/oxy-gltf/common"
	"github.com/Carmen-Shannon/oxy-gltf/engine/model"
	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unitCube(min, max [3]float32) *model.Mesh {
	return &model.Mesh{ID: "cube", Primitives: []*model.Primitive{{Min: min, Max: max, Topology: model.TopologyTriangles}}}
}

func buildChain(t *testing.T) (*Node, *Node, *Node) {
	t.Helper()
	s, c := math32.Sincos(math32.Pi / 4)
	root := NewNode(WithName("root"), WithTranslation([3]float32{1, 0, 0}))
	mid := NewNode(WithName("mid"), WithRotation([4]float32{0, s, 0, c}), WithScale([3]float32{2, 2, 2}))
	leaf := NewNode(WithName("leaf"), WithTranslation([3]float32{0, 0, 3}), WithMeshes(unitCube([3]float32{-1, -1, -1}, [3]float32{1, 1, 1})))
	require.NoError(t, root.AddChild(mid))
	require.NoError(t, mid.AddChild(leaf))
	return root, mid, leaf
}

func TestUpdateTransformsComposesParentGlobal(t *testing.T) {
	root, _, _ := buildChain(t)
	UpdateTransforms(root)

	root.Walk(func(n *Node, depth int) bool {
		want := common.IdentityMatrix()
		var local [16]float32
		// rebuild the chain independently from the root down
		var chain []*Node
		for a := n; a != nil; a = a.Parent() {
			chain = append([]*Node{a}, chain...)
		}
		for _, a := range chain {
			common.FromTRS(local[:], a.Translation, a.Rotation, a.Scale)
			common.Mul4(want[:], want[:], local[:])
		}
		assert.True(t, common.ApproxEqual4(want[:], n.Global[:], 1e-5), "node %s", n.Name)
		assert.False(t, n.Dirty())
		return true
	})
}

func TestUpdateTransformsLeafPosition(t *testing.T) {
	root, _, leaf := buildChain(t)
	UpdateTransforms(root)

	// leaf origin: translate (0,0,3), scale 2 -> (0,0,6), rotate 90 about Y -> (6,0,0), translate +1 in x
	p := common.TransformPoint(leaf.Global[:], [3]float32{})
	assert.InDelta(t, 7, p[0], 1e-5)
	assert.InDelta(t, 0, p[1], 1e-5)
	assert.InDelta(t, 0, p[2], 1e-5)
}

func TestMatrixEquivalentToTRS(t *testing.T) {
	s, c := math32.Sincos(0.3)
	trs := NewNode(
		WithTranslation([3]float32{1, 2, 3}),
		WithRotation([4]float32{s, 0, 0, c}),
		WithScale([3]float32{2, 1, 0.5}),
	)
	var m [16]float32
	common.FromTRS(m[:], trs.Translation, trs.Rotation, trs.Scale)
	mat := NewNode(WithMatrix(m))

	parentA := NewNode(WithTranslation([3]float32{0, 5, 0}))
	parentB := NewNode(WithTranslation([3]float32{0, 5, 0}))
	require.NoError(t, parentA.AddChild(trs))
	require.NoError(t, parentB.AddChild(mat))
	UpdateTransforms(parentA)
	UpdateTransforms(parentB)

	assert.True(t, common.ApproxEqual4(trs.Global[:], mat.Global[:], 1e-6))
}

func TestDirtyTracking(t *testing.T) {
	n := NewNode()
	assert.True(t, n.Dirty())
	UpdateTransforms(n)
	assert.False(t, n.Dirty())

	n.SetTranslation([3]float32{1, 0, 0})
	assert.True(t, n.Dirty())
	UpdateTransforms(n)
	assert.Equal(t, float32(1), n.Global[12])

	n.SetMatrix(common.IdentityMatrix())
	assert.True(t, n.Dirty())
	UpdateTransforms(n)
	assert.Equal(t, float32(0), n.Global[12])
}

func TestAddChildRejectsSecondParentAndCycles(t *testing.T) {
	a, b, c := NewNode(WithName("a")), NewNode(WithName("b")), NewNode(WithName("c"))
	require.NoError(t, a.AddChild(b))
	require.NoError(t, b.AddChild(c))

	assert.ErrorIs(t, NewNode().AddChild(b), errAlreadyParented)
	assert.ErrorIs(t, c.AddChild(a), errCycle)
	assert.ErrorIs(t, a.AddChild(a), errCycle)
	assert.Same(t, a, b.Parent())
	assert.Nil(t, a.Parent())
}

func TestComputeBoundsIndependentOfSiblingOrder(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	children := make([]*Node, 6)
	for i := range children {
		lo := [3]float32{r.Float32()*10 - 5, r.Float32()*10 - 5, r.Float32()*10 - 5}
		hi := [3]float32{lo[0] + r.Float32(), lo[1] + r.Float32(), lo[2] + r.Float32()}
		children[i] = NewNode(
			WithTranslation([3]float32{r.Float32(), r.Float32(), r.Float32()}),
			WithMeshes(unitCube(lo, hi)),
		)
	}

	build := func(order []int) BoundingBox {
		root := NewNode()
		for _, i := range order {
			c := *children[i]
			c.parent = nil
			require.NoError(t, root.AddChild(&c))
		}
		UpdateTransforms(root)
		return ComputeBounds(root)
	}

	want := build([]int{0, 1, 2, 3, 4, 5})
	for k := 0; k < 5; k++ {
		order := r.Perm(len(children))
		assert.Equal(t, want, build(order), "order %v", order)
	}
}

func TestComputeBoundsTransformsCorners(t *testing.T) {
	s, c := math32.Sincos(math32.Pi / 4)
	n := NewNode(
		WithRotation([4]float32{0, 0, s, c}),
		WithTranslation([3]float32{10, 0, 0}),
		WithMeshes(unitCube([3]float32{0, 0, 0}, [3]float32{2, 1, 1})),
	)
	UpdateTransforms(n)
	b := ComputeBounds(n)

	// 90 degrees about Z maps x -> y and y -> -x
	assert.InDelta(t, 9, b.Min[0], 1e-5)
	assert.InDelta(t, 10, b.Max[0], 1e-5)
	assert.InDelta(t, 0, b.Min[1], 1e-5)
	assert.InDelta(t, 2, b.Max[1], 1e-5)
}

func TestEmptyBounds(t *testing.T) {
	b := ComputeBounds(NewNode())
	assert.True(t, b.IsEmpty())
	assert.Equal(t, [3]float32{}, b.Size())
	assert.Equal(t, EmptyBox(), EmptyBox().Union(EmptyBox()))
	id := common.IdentityMatrix()
	assert.True(t, EmptyBox().Transform(id[:]).IsEmpty())

	f := NewFit(b)
	assert.Equal(t, float32(1), f.Scale)
	assert.Equal(t, [3]float32{}, f.Offset)
}

func TestFitNormalizes(t *testing.T) {
	b := BoundingBox{Min: [3]float32{-1, 2, 0}, Max: [3]float32{3, 4, 1}}
	f := NewFit(b)

	assert.Equal(t, [3]float32{4, 2, 1}, f.Size)
	assert.Equal(t, [3]float32{1, 3, 0.5}, f.Center)
	assert.Equal(t, float32(0.25), f.Scale)
	assert.Equal(t, [3]float32{-1, -2, -0.5}, f.Offset)

	m := f.Matrix()
	lo := common.TransformPoint(m[:], b.Min)
	hi := common.TransformPoint(m[:], b.Max)
	assert.InDelta(t, -0.5, lo[0], 1e-6)
	assert.InDelta(t, 0.5, hi[0], 1e-6)
	assert.InDelta(t, 0, lo[1], 1e-6, "scene rests on y = 0")
	assert.InDelta(t, -0.125, lo[2], 1e-6)
}

func TestNewRootAndRefresh(t *testing.T) {
	root, _, leaf := buildChain(t)
	r := NewRoot("0", root)
	assert.Equal(t, "0", r.SceneID)
	assert.False(t, r.Bounds.IsEmpty())
	before := r.Bounds

	leaf.SetTranslation([3]float32{0, 0, 10})
	r.Refresh()
	assert.NotEqual(t, before, r.Bounds)

	count := 0
	r.Walk(func(*Node, int) bool { count++; return true })
	assert.Equal(t, 3, count)
}
