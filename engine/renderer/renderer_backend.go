package renderer

import "errors"

// ContextBackendType identifies the implementation behind a Context.
type ContextBackendType int

const (
	// BackendTypeCPU keeps every allocation in host memory. Useful for tools and tests.
	BackendTypeCPU ContextBackendType = iota

	// BackendTypeWGPU allocates WebGPU buffers and textures on a device.
	BackendTypeWGPU
)

var (
	errMissingIndexBuffer  = errors.New("vertex array requires an index buffer")
	errMissingVertexBuffer = errors.New("attribute has no buffer")
	errWrongBufferKind     = errors.New("wrong buffer kind")
	errComponentCount      = errors.New("attribute component count must be 1 to 4")
	errEmptyBuffer         = errors.New("buffer data is empty")
	errEmptyTexture        = errors.New("texture has no pixels")
	errTextureSize         = errors.New("pixel data does not match texture dimensions")
)
