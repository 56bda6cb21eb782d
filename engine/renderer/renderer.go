package renderer

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-gltf/common"
)

// BufferKind identifies how a buffer is bound by the render pipeline.
type BufferKind int

const (
	// BufferKindVertex holds per-vertex attribute data (glTF ARRAY_BUFFER).
	BufferKindVertex BufferKind = iota
	// BufferKindIndex holds 16-bit element indices (glTF ELEMENT_ARRAY_BUFFER).
	BufferKindIndex
)

func (k BufferKind) String() string {
	switch k {
	case BufferKindVertex:
		return "vertex"
	case BufferKindIndex:
		return "index"
	default:
		return fmt.Sprintf("BufferKind(%d)", int(k))
	}
}

// BufferUsage is an allocation hint. Loaded scene data is always static.
type BufferUsage int

const (
	// UsageStaticDraw marks data that is written once and drawn many times.
	UsageStaticDraw BufferUsage = iota
	// UsageDynamicDraw marks data that is rewritten between draws.
	UsageDynamicDraw
)

// Buffer is a render-context allocation holding vertex or index data.
type Buffer interface {
	// Kind returns whether the buffer holds vertex or index data.
	Kind() BufferKind

	// Size returns the number of bytes written into the buffer, before any padding.
	Size() int

	// Release frees the underlying allocation. Safe to call more than once.
	Release()
}

// VertexAttribute binds one attribute stream of a Buffer to a shader location.
type VertexAttribute struct {
	// Buffer holds the attribute data.
	Buffer Buffer
	// Location is the shader input location.
	Location uint32
	// Components is the number of float32 components per vertex (1 to 4).
	Components int
	// Stride is the byte distance between consecutive vertices; 0 means tightly packed.
	Stride int
	// Offset is the byte offset of the first element inside Buffer.
	Offset int
}

// VertexArray groups the attribute streams and the index buffer of one primitive.
type VertexArray interface {
	// Attributes returns the attribute bindings in location order.
	Attributes() []VertexAttribute

	// IndexBuffer returns the bound index buffer.
	IndexBuffer() Buffer

	// Release frees the vertex array and every buffer bound to it.
	Release()
}

// Texture is a 2D RGBA texture together with its sampler state.
type Texture interface {
	// Width returns the texture width in pixels.
	Width() uint32

	// Height returns the texture height in pixels.
	Height() uint32

	// Sampler returns the sampler settings the texture was created with.
	Sampler() common.SamplerStagingData

	// Release frees the texture and its sampler.
	Release()
}

// Context is the allocation surface a loader uploads scene data through.
// It never records or submits draw commands.
type Context interface {
	// CreateBuffer allocates a buffer of the given kind and copies data into it.
	//
	// Parameters:
	//   - kind: vertex or index
	//   - data: the bytes to upload; must not be empty
	//   - usage: allocation hint
	//
	// Returns:
	//   - Buffer: the created buffer
	//   - error: error if allocation fails
	CreateBuffer(kind BufferKind, data []byte, usage BufferUsage) (Buffer, error)

	// CreateVertexArray binds attribute streams and an index buffer into a single drawable layout.
	//
	// Parameters:
	//   - attributes: attribute bindings; each must reference a vertex buffer
	//   - index: the index buffer; must be of kind BufferKindIndex
	//
	// Returns:
	//   - VertexArray: the created vertex array
	//   - error: error if the layout is invalid
	CreateVertexArray(attributes []VertexAttribute, index Buffer) (VertexArray, error)

	// CreateTexture2D uploads RGBA pixels and creates the sampler described by sampler.
	//
	// Parameters:
	//   - data: tightly packed RGBA pixels with their dimensions
	//   - sampler: filtering and wrap configuration
	//
	// Returns:
	//   - Texture: the created texture
	//   - error: error if the texture or sampler cannot be created
	CreateTexture2D(data common.TextureStagingData, sampler common.SamplerStagingData) (Texture, error)

	// Release frees context-level resources such as the device.
	Release()
}

// NewContext creates a Context for the given backend with the provided options applied.
//
// Parameters:
//   - backendType: BackendTypeCPU or BackendTypeWGPU
//   - options: functional options configuring the context
//
// Returns:
//   - Context: the created context
//   - error: error if the backend cannot be initialized
func NewContext(backendType ContextBackendType, options ...ContextBuilderOption) (Context, error) {
	cfg := &contextConfig{label: "oxy-gltf"}
	for _, option := range options {
		option(cfg)
	}

	switch backendType {
	case BackendTypeCPU:
		return newCPUContext(), nil
	case BackendTypeWGPU:
		if cfg.device != nil && cfg.queue != nil {
			return newWGPUContext(cfg.label, cfg.device, cfg.queue), nil
		}
		return newHeadlessWGPUContext(cfg.label, cfg.forceFallbackAdapter)
	default:
		return nil, fmt.Errorf("unknown render context backend %d", backendType)
	}
}

func validateVertexArray(attributes []VertexAttribute, index Buffer) error {
	if index == nil {
		return errMissingIndexBuffer
	}
	if index.Kind() != BufferKindIndex {
		return fmt.Errorf("%w: got %s buffer", errWrongBufferKind, index.Kind())
	}
	for i, a := range attributes {
		if a.Buffer == nil {
			return fmt.Errorf("attribute %d at location %d: %w", i, a.Location, errMissingVertexBuffer)
		}
		if a.Buffer.Kind() != BufferKindVertex {
			return fmt.Errorf("attribute %d at location %d: %w: got %s buffer", i, a.Location, errWrongBufferKind, a.Buffer.Kind())
		}
		if a.Components < 1 || a.Components > 4 {
			return fmt.Errorf("attribute %d at location %d: %w: %d", i, a.Location, errComponentCount, a.Components)
		}
	}
	return nil
}
