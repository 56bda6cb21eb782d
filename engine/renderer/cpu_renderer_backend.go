package renderer

import (
	"fmt"
	"slices"
	"sync"

	"github.com/Carmen-Shannon/oxy-gltf/common"
)

// HostBuffer is a Buffer whose contents live in host memory.
type HostBuffer interface {
	Buffer

	// Bytes returns a copy-free view of the buffer contents.
	Bytes() []byte
}

// HostTexture is a Texture whose pixels live in host memory.
type HostTexture interface {
	Texture

	// Pixels returns the RGBA pixels, 4 bytes per pixel, row-major.
	Pixels() []byte
}

// CPUStats summarizes the live allocations of a CPU context.
type CPUStats struct {
	Buffers      int
	VertexArrays int
	Textures     int
	Bytes        int
}

// CPUContext is a Context that keeps every allocation in host memory.
type CPUContext interface {
	Context

	// Stats returns counts of live allocations.
	Stats() CPUStats
}

type cpuContextImpl struct {
	mu    sync.Mutex
	stats CPUStats
}

var _ CPUContext = &cpuContextImpl{}

// NewCPUContext creates a host-memory Context.
func NewCPUContext() CPUContext {
	return newCPUContext()
}

func newCPUContext() *cpuContextImpl {
	return &cpuContextImpl{}
}

func (c *cpuContextImpl) CreateBuffer(kind BufferKind, data []byte, usage BufferUsage) (Buffer, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("create %s buffer: %w", kind, errEmptyBuffer)
	}
	c.mu.Lock()
	c.stats.Buffers++
	c.stats.Bytes += len(data)
	c.mu.Unlock()
	return &cpuBuffer{ctx: c, kind: kind, usage: usage, data: slices.Clone(data)}, nil
}

func (c *cpuContextImpl) CreateVertexArray(attributes []VertexAttribute, index Buffer) (VertexArray, error) {
	if err := validateVertexArray(attributes, index); err != nil {
		return nil, err
	}
	attrs := slices.Clone(attributes)
	slices.SortFunc(attrs, func(a, b VertexAttribute) int { return int(a.Location) - int(b.Location) })
	c.mu.Lock()
	c.stats.VertexArrays++
	c.mu.Unlock()
	return &cpuVertexArray{ctx: c, attributes: attrs, index: index}, nil
}

func (c *cpuContextImpl) CreateTexture2D(data common.TextureStagingData, sampler common.SamplerStagingData) (Texture, error) {
	if data.Width == 0 || data.Height == 0 {
		return nil, errEmptyTexture
	}
	if len(data.Pixels) != int(data.Width)*int(data.Height)*4 {
		return nil, fmt.Errorf("%w: %dx%d with %d bytes", errTextureSize, data.Width, data.Height, len(data.Pixels))
	}
	c.mu.Lock()
	c.stats.Textures++
	c.stats.Bytes += len(data.Pixels)
	c.mu.Unlock()
	return &cpuTexture{ctx: c, data: data, sampler: sampler}, nil
}

func (c *cpuContextImpl) Stats() CPUStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

func (c *cpuContextImpl) Release() {}

// --- Handles ---

type cpuBuffer struct {
	ctx      *cpuContextImpl
	kind     BufferKind
	usage    BufferUsage
	data     []byte
	released bool
}

func (b *cpuBuffer) Kind() BufferKind { return b.kind }
func (b *cpuBuffer) Size() int        { return len(b.data) }
func (b *cpuBuffer) Bytes() []byte    { return b.data }

func (b *cpuBuffer) Release() {
	b.ctx.mu.Lock()
	defer b.ctx.mu.Unlock()
	if b.released {
		return
	}
	b.released = true
	b.ctx.stats.Buffers--
	b.ctx.stats.Bytes -= len(b.data)
}

type cpuVertexArray struct {
	ctx        *cpuContextImpl
	attributes []VertexAttribute
	index      Buffer
	released   bool
}

func (v *cpuVertexArray) Attributes() []VertexAttribute { return v.attributes }
func (v *cpuVertexArray) IndexBuffer() Buffer           { return v.index }

func (v *cpuVertexArray) Release() {
	v.ctx.mu.Lock()
	if v.released {
		v.ctx.mu.Unlock()
		return
	}
	v.released = true
	v.ctx.stats.VertexArrays--
	v.ctx.mu.Unlock()

	for _, a := range v.attributes {
		a.Buffer.Release()
	}
	v.index.Release()
}

type cpuTexture struct {
	ctx      *cpuContextImpl
	data     common.TextureStagingData
	sampler  common.SamplerStagingData
	released bool
}

func (t *cpuTexture) Width() uint32                      { return t.data.Width }
func (t *cpuTexture) Height() uint32                     { return t.data.Height }
func (t *cpuTexture) Pixels() []byte                     { return t.data.Pixels }
func (t *cpuTexture) Sampler() common.SamplerStagingData { return t.sampler }

func (t *cpuTexture) Release() {
	t.ctx.mu.Lock()
	defer t.ctx.mu.Unlock()
	if t.released {
		return
	}
	t.released = true
	t.ctx.stats.Textures--
	t.ctx.stats.Bytes -= len(t.data.Pixels)
}
