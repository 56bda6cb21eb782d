package loader

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-gltf/common"
	"github.com/Carmen-Shannon/oxy-gltf/engine/model"
	"github.com/Carmen-Shannon/oxy-gltf/engine/renderer"
	"github.com/chewxy/math32"
)

var (
	errIndexComponentType  = errors.New("indices must be UNSIGNED_BYTE or UNSIGNED_SHORT scalars")
	errAttributeType       = errors.New("vertex attributes must be FLOAT with 1 to 4 components")
	errIndexOutOfRange     = errors.New("index refers past the last vertex")
	errAttributeCountDrift = errors.New("attribute count differs from POSITION count")
)

// attributeLocations are the fixed shader locations of the well-known semantics.
// Other semantics are numbered from firstExtraLocation in sorted order.
var attributeLocations = map[string]uint32{
	model.SemanticPosition:  0,
	model.SemanticNormal:    1,
	model.SemanticTexcoord0: 2,
}

const firstExtraLocation = 3

// gltfMeshBuilder decodes the geometry of every primitive of a linked document
// and optionally uploads it to a render context.
type gltfMeshBuilder struct {
	ctx renderer.Context
}

// newGLTFMeshBuilder creates a mesh builder. ctx may be nil for CPU-only loads.
func newGLTFMeshBuilder(ctx renderer.Context) *gltfMeshBuilder {
	return &gltfMeshBuilder{ctx: ctx}
}

// BuildAll builds every mesh of doc in id order.
//
// Parameters:
//   - doc: the linked document
//
// Returns:
//   - int: the number of primitives built
//   - error: the first format error, or an upload failure
func (b *gltfMeshBuilder) BuildAll(doc *model.Document) (int, error) {
	n := 0
	for _, id := range common.SortedKeys(doc.Meshes) {
		mesh := doc.Meshes[id]
		for i, prim := range mesh.Primitives {
			if err := b.buildPrimitive(mesh.ID, i, prim); err != nil {
				return n, err
			}
			n++
		}
	}
	return n, nil
}

func (b *gltfMeshBuilder) buildPrimitive(meshID string, index int, prim *model.Primitive) error {
	field := fmt.Sprintf("primitives[%d]", index)

	if prim.Indices == nil {
		return model.FormatError("mesh", meshID, field+".indices", model.ErrMissingAttribute)
	}
	posAcc, ok := prim.Attributes[model.SemanticPosition]
	if !ok {
		return model.FormatError("mesh", meshID, field+".attributes", fmt.Errorf("%w %s", model.ErrMissingAttribute, model.SemanticPosition))
	}

	indices, err := prim.Indices.Resolve()
	if err != nil {
		return err
	}
	if indices.ComponentType == model.ComponentTypeFloat || indices.Components != 1 {
		return model.FormatError("accessor", prim.Indices.ID, "componentType", errIndexComponentType)
	}

	attrs, err := resolveAttributes(meshID, field, prim.Attributes)
	if err != nil {
		return err
	}

	var positions model.VertexAttribute
	for _, a := range attrs {
		if a.Semantic == model.SemanticPosition {
			positions = a
		}
	}
	vertexCount := positions.Count()
	for _, a := range attrs {
		if a.Count() != vertexCount {
			return model.FormatError("mesh", meshID, field+".attributes."+a.Semantic,
				fmt.Errorf("%w: %d != %d", errAttributeCountDrift, a.Count(), vertexCount))
		}
	}
	for i, idx := range indices.Uint16 {
		if int(idx) >= vertexCount {
			return model.FormatError("accessor", prim.Indices.ID, "",
				fmt.Errorf("%w: element %d is %d, %d vertices", errIndexOutOfRange, i, idx, vertexCount))
		}
	}

	prim.IndexData = indices.Uint16
	prim.VertexAttributes = attrs
	prim.Min, prim.Max = primitiveBounds(posAcc, positions)

	if b.ctx == nil || len(prim.IndexData) == 0 {
		return nil
	}
	va, err := b.upload(prim)
	if err != nil {
		return fmt.Errorf("mesh %q %s: upload: %w", meshID, field, err)
	}
	prim.VertexArray = va
	return nil
}

// resolveAttributes resolves every attribute accessor and assigns shader locations.
func resolveAttributes(meshID, field string, accessors map[string]*model.Accessor) ([]model.VertexAttribute, error) {
	out := make([]model.VertexAttribute, 0, len(accessors))
	next := uint32(firstExtraLocation)

	for _, semantic := range common.SortedKeys(accessors) {
		acc := accessors[semantic]
		r, err := acc.Resolve()
		if err != nil {
			return nil, err
		}
		if r.ComponentType != model.ComponentTypeFloat || r.Components < 1 || r.Components > 4 {
			return nil, model.FormatError("mesh", meshID, field+".attributes."+semantic,
				fmt.Errorf("%w: accessor %q is %s %s", errAttributeType, acc.ID, acc.ComponentType, acc.Type))
		}

		loc, ok := attributeLocations[semantic]
		if !ok {
			loc = next
			next++
		}
		out = append(out, model.VertexAttribute{
			Semantic:   semantic,
			Location:   loc,
			Components: r.Components,
			ByteStride: acc.ByteStride,
			ByteOffset: acc.ByteOffset,
			Data:       r.Float32,
		})
	}
	return out, nil
}

// primitiveBounds prefers the accessor's declared min/max and otherwise scans the positions.
// A primitive without vertices gets an inverted (empty) box.
func primitiveBounds(acc *model.Accessor, positions model.VertexAttribute) (lo, hi [3]float32) {
	if len(acc.Min) >= 3 && len(acc.Max) >= 3 {
		copy(lo[:], acc.Min[:3])
		copy(hi[:], acc.Max[:3])
		return lo, hi
	}

	inf := math32.Inf(1)
	lo = [3]float32{inf, inf, inf}
	hi = [3]float32{-inf, -inf, -inf}
	c := positions.Components
	for i := 0; i+c <= len(positions.Data); i += c {
		for k := 0; k < c && k < 3; k++ {
			v := positions.Data[i+k]
			lo[k] = math32.Min(lo[k], v)
			hi[k] = math32.Max(hi[k], v)
		}
		// components absent from the stream read as 0
		for k := c; k < 3; k++ {
			lo[k] = math32.Min(lo[k], 0)
			hi[k] = math32.Max(hi[k], 0)
		}
	}
	return lo, hi
}

// upload creates the index buffer, one vertex buffer per attribute, and the vertex array.
// Buffers created before a failure are released.
func (b *gltfMeshBuilder) upload(prim *model.Primitive) (renderer.VertexArray, error) {
	var created []renderer.Buffer
	release := func() {
		for _, buf := range created {
			buf.Release()
		}
	}

	index, err := b.ctx.CreateBuffer(renderer.BufferKindIndex, common.SliceToBytes(prim.IndexData), renderer.UsageStaticDraw)
	if err != nil {
		return nil, err
	}
	created = append(created, index)

	attrs := make([]renderer.VertexAttribute, 0, len(prim.VertexAttributes))
	for _, a := range prim.VertexAttributes {
		buf, err := b.ctx.CreateBuffer(renderer.BufferKindVertex, common.SliceToBytes(a.Data), renderer.UsageStaticDraw)
		if err != nil {
			release()
			return nil, fmt.Errorf("attribute %s: %w", a.Semantic, err)
		}
		created = append(created, buf)
		attrs = append(attrs, renderer.VertexAttribute{
			Buffer:     buf,
			Location:   a.Location,
			Components: a.Components,
			Stride:     a.Components * 4,
		})
	}

	va, err := b.ctx.CreateVertexArray(attrs, index)
	if err != nil {
		release()
		return nil, err
	}
	return va, nil
}
