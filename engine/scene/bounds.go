package scene

import (
	"github.com/Carmen-Shannon/oxy-gltf/common"
	"github.com/chewxy/math32"
)

// BoundingBox is an axis-aligned box. The empty box has Min = +Inf and Max = -Inf.
type BoundingBox struct {
	Min [3]float32
	Max [3]float32
}

// EmptyBox returns the identity element of Union.
func EmptyBox() BoundingBox {
	inf := math32.Inf(1)
	return BoundingBox{
		Min: [3]float32{inf, inf, inf},
		Max: [3]float32{-inf, -inf, -inf},
	}
}

// IsEmpty reports whether the box contains no points.
func (b BoundingBox) IsEmpty() bool {
	return b.Max[0] < b.Min[0] || b.Max[1] < b.Min[1] || b.Max[2] < b.Min[2]
}

// ExpandByPoint returns the smallest box containing b and p.
func (b BoundingBox) ExpandByPoint(p [3]float32) BoundingBox {
	for i := 0; i < 3; i++ {
		b.Min[i] = math32.Min(b.Min[i], p[i])
		b.Max[i] = math32.Max(b.Max[i], p[i])
	}
	return b
}

// Union returns the smallest box containing b and o.
func (b BoundingBox) Union(o BoundingBox) BoundingBox {
	if o.IsEmpty() {
		return b
	}
	if b.IsEmpty() {
		return o
	}
	return b.ExpandByPoint(o.Min).ExpandByPoint(o.Max)
}

// Transform returns the bounds of b's eight corners after applying the column-major matrix m.
func (b BoundingBox) Transform(m []float32) BoundingBox {
	if b.IsEmpty() {
		return b
	}
	out := EmptyBox()
	for i := 0; i < 8; i++ {
		corner := [3]float32{b.Min[0], b.Min[1], b.Min[2]}
		if i&1 != 0 {
			corner[0] = b.Max[0]
		}
		if i&2 != 0 {
			corner[1] = b.Max[1]
		}
		if i&4 != 0 {
			corner[2] = b.Max[2]
		}
		out = out.ExpandByPoint(common.TransformPoint(m, corner))
	}
	return out
}

// Size returns Max - Min, or zero for the empty box.
func (b BoundingBox) Size() [3]float32 {
	if b.IsEmpty() {
		return [3]float32{}
	}
	return [3]float32{b.Max[0] - b.Min[0], b.Max[1] - b.Min[1], b.Max[2] - b.Min[2]}
}

// Center returns the midpoint, or the origin for the empty box.
func (b BoundingBox) Center() [3]float32 {
	if b.IsEmpty() {
		return [3]float32{}
	}
	return [3]float32{(b.Min[0] + b.Max[0]) / 2, (b.Min[1] + b.Max[1]) / 2, (b.Min[2] + b.Max[2]) / 2}
}

// ComputeBounds folds the world bounds of every primitive in the tree. Global
// transforms must be current.
func ComputeBounds(root *Node) BoundingBox {
	return foldBounds(root, EmptyBox())
}

func foldBounds(n *Node, acc BoundingBox) BoundingBox {
	for _, mesh := range n.Meshes {
		for _, p := range mesh.Primitives {
			local := BoundingBox{Min: p.Min, Max: p.Max}
			acc = acc.Union(local.Transform(n.Global[:]))
		}
	}
	for _, c := range n.Children {
		acc = foldBounds(c, acc)
	}
	return acc
}
