package renderer

import (
	"fmt"
	"runtime"
	"slices"
	"sync"

	"github.com/Carmen-Shannon/oxy-gltf/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// GPUBuffer is a Buffer backed by a WebGPU buffer.
type GPUBuffer interface {
	Buffer

	// Handle returns the underlying WebGPU buffer.
	Handle() *wgpu.Buffer
}

// GPUVertexArray is a VertexArray with the WebGPU vertex state needed to build a pipeline.
type GPUVertexArray interface {
	VertexArray

	// Layouts returns one vertex buffer layout per attribute, in location order.
	Layouts() []wgpu.VertexBufferLayout

	// IndexFormat returns the index element format.
	IndexFormat() wgpu.IndexFormat
}

// GPUTexture is a Texture backed by a WebGPU texture, view and sampler.
type GPUTexture interface {
	Texture

	// View returns the texture view for bind group creation.
	View() *wgpu.TextureView

	// GPUSampler returns the sampler for bind group creation.
	GPUSampler() *wgpu.Sampler
}

type wgpuContextImpl struct {
	mu     *sync.Mutex
	label  string
	device *wgpu.Device
	queue  *wgpu.Queue

	// set only when the context requested its own device
	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	owned    bool
}

var _ Context = &wgpuContextImpl{}

var wgpuVertexFormats = [...]wgpu.VertexFormat{
	1: wgpu.VertexFormatFloat32,
	2: wgpu.VertexFormatFloat32x2,
	3: wgpu.VertexFormatFloat32x3,
	4: wgpu.VertexFormatFloat32x4,
}

func newWGPUContext(label string, device *wgpu.Device, queue *wgpu.Queue) *wgpuContextImpl {
	return &wgpuContextImpl{
		mu:     &sync.Mutex{},
		label:  label,
		device: device,
		queue:  queue,
	}
}

// Adapter and device requests complete through callbacks on the calling thread.
var (
	lockOSThread   = runtime.LockOSThread
	unlockOSThread = runtime.UnlockOSThread
)

// newHeadlessWGPUContext requests an adapter with no compatible surface and opens a device on it.
// The calling goroutine is pinned to its thread only while the device is being set up.
func newHeadlessWGPUContext(label string, forceFallbackAdapter bool) (*wgpuContextImpl, error) {
	lockOSThread()
	defer unlockOSThread()

	w := &wgpuContextImpl{
		mu:       &sync.Mutex{},
		label:    label,
		instance: wgpu.CreateInstance(nil),
		owned:    true,
	}

	a, err := w.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: forceFallbackAdapter,
	})
	if err != nil {
		w.instance.Release()
		return nil, fmt.Errorf("request adapter: %w", err)
	}
	w.adapter = a

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: label + " Device",
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: wgpu.DefaultLimits(),
		},
	})
	if err != nil {
		a.Release()
		w.instance.Release()
		return nil, fmt.Errorf("request device: %w", err)
	}
	w.device = d
	w.queue = d.GetQueue()

	return w, nil
}

func (b *wgpuContextImpl) CreateBuffer(kind BufferKind, data []byte, usage BufferUsage) (Buffer, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("create %s buffer: %w", kind, errEmptyBuffer)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	gpuUsage := wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst
	label := b.label + " Vertex Buffer"
	if kind == BufferKindIndex {
		gpuUsage = wgpu.BufferUsageIndex | wgpu.BufferUsageCopyDst
		label = b.label + " Index Buffer"
	}

	// Queue writes must be a multiple of 4 bytes; uint16 index data often is not.
	padded := data
	if rem := len(data) % 4; rem != 0 {
		padded = make([]byte, len(data)+4-rem)
		copy(padded, data)
	}

	buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label:            label,
		Size:             uint64(len(padded)),
		Usage:            gpuUsage,
		MappedAtCreation: false,
	})
	if err != nil {
		return nil, err
	}
	b.queue.WriteBuffer(buf, 0, padded)

	return &wgpuBuffer{kind: kind, size: len(data), buf: buf}, nil
}

func (b *wgpuContextImpl) CreateVertexArray(attributes []VertexAttribute, index Buffer) (VertexArray, error) {
	if err := validateVertexArray(attributes, index); err != nil {
		return nil, err
	}
	if _, ok := index.(GPUBuffer); !ok {
		return nil, fmt.Errorf("index buffer: %w: not a WebGPU buffer", errWrongBufferKind)
	}

	attrs := slices.Clone(attributes)
	slices.SortFunc(attrs, func(a, b VertexAttribute) int { return int(a.Location) - int(b.Location) })

	layouts := make([]wgpu.VertexBufferLayout, 0, len(attrs))
	for _, a := range attrs {
		if _, ok := a.Buffer.(GPUBuffer); !ok {
			return nil, fmt.Errorf("attribute at location %d: %w: not a WebGPU buffer", a.Location, errWrongBufferKind)
		}
		stride := a.Stride
		if stride == 0 {
			stride = a.Components * 4
		}
		layouts = append(layouts, wgpu.VertexBufferLayout{
			ArrayStride: uint64(stride),
			StepMode:    wgpu.VertexStepModeVertex,
			Attributes: []wgpu.VertexAttribute{{
				Format:         wgpuVertexFormats[a.Components],
				Offset:         uint64(a.Offset),
				ShaderLocation: a.Location,
			}},
		})
	}

	return &wgpuVertexArray{attributes: attrs, index: index, layouts: layouts}, nil
}

func (b *wgpuContextImpl) CreateTexture2D(data common.TextureStagingData, sampler common.SamplerStagingData) (Texture, error) {
	if data.Width == 0 || data.Height == 0 {
		return nil, errEmptyTexture
	}
	if len(data.Pixels) != int(data.Width)*int(data.Height)*4 {
		return nil, fmt.Errorf("%w: %dx%d with %d bytes", errTextureSize, data.Width, data.Height, len(data.Pixels))
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:     b.label + " Texture",
		Usage:     wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension: wgpu.TextureDimension2D,
		Size: wgpu.Extent3D{
			Width:              data.Width,
			Height:             data.Height,
			DepthOrArrayLayers: 1,
		},
		Format:        wgpu.TextureFormatRGBA8UnormSrgb,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return nil, err
	}

	b.queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Texture:  tex,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{},
			Aspect:   wgpu.TextureAspectAll,
		},
		data.Pixels,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  data.Width * 4,
			RowsPerImage: data.Height,
		},
		&wgpu.Extent3D{
			Width:              data.Width,
			Height:             data.Height,
			DepthOrArrayLayers: 1,
		},
	)

	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return nil, err
	}

	samp, err := b.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         b.label + " Sampler",
		AddressModeU:  common.Coalesce(sampler.AddressModeU, wgpu.AddressModeRepeat),
		AddressModeV:  common.Coalesce(sampler.AddressModeV, wgpu.AddressModeRepeat),
		AddressModeW:  common.Coalesce(sampler.AddressModeW, wgpu.AddressModeRepeat),
		MagFilter:     common.Coalesce(sampler.MagFilter, wgpu.FilterModeNearest),
		MinFilter:     common.Coalesce(sampler.MinFilter, wgpu.FilterModeNearest),
		MipmapFilter:  common.Coalesce(sampler.MipmapFilter, wgpu.MipmapFilterModeNearest),
		LodMinClamp:   common.Coalesce(sampler.LodMinClamp, 0.0),
		LodMaxClamp:   common.Coalesce(sampler.LodMaxClamp, 32.0),
		MaxAnisotropy: common.Coalesce(sampler.MaxAnisotropy, 1),
	})
	if err != nil {
		view.Release()
		tex.Release()
		return nil, err
	}

	return &wgpuTexture{width: data.Width, height: data.Height, sampler: sampler, tex: tex, view: view, samp: samp}, nil
}

func (b *wgpuContextImpl) Release() {
	if !b.owned {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.queue != nil {
		b.queue.Release()
		b.queue = nil
	}
	if b.device != nil {
		b.device.Release()
		b.device = nil
	}
	if b.adapter != nil {
		b.adapter.Release()
		b.adapter = nil
	}
	if b.instance != nil {
		b.instance.Release()
		b.instance = nil
	}
}

// --- Handles ---

type wgpuBuffer struct {
	once sync.Once
	kind BufferKind
	size int
	buf  *wgpu.Buffer
}

func (b *wgpuBuffer) Kind() BufferKind     { return b.kind }
func (b *wgpuBuffer) Size() int            { return b.size }
func (b *wgpuBuffer) Handle() *wgpu.Buffer { return b.buf }
func (b *wgpuBuffer) Release()             { b.once.Do(b.buf.Release) }

type wgpuVertexArray struct {
	once       sync.Once
	attributes []VertexAttribute
	index      Buffer
	layouts    []wgpu.VertexBufferLayout
}

func (v *wgpuVertexArray) Attributes() []VertexAttribute      { return v.attributes }
func (v *wgpuVertexArray) IndexBuffer() Buffer                { return v.index }
func (v *wgpuVertexArray) Layouts() []wgpu.VertexBufferLayout { return v.layouts }
func (v *wgpuVertexArray) IndexFormat() wgpu.IndexFormat      { return wgpu.IndexFormatUint16 }

func (v *wgpuVertexArray) Release() {
	v.once.Do(func() {
		for _, a := range v.attributes {
			a.Buffer.Release()
		}
		v.index.Release()
	})
}

type wgpuTexture struct {
	once          sync.Once
	width, height uint32
	sampler       common.SamplerStagingData
	tex           *wgpu.Texture
	view          *wgpu.TextureView
	samp          *wgpu.Sampler
}

func (t *wgpuTexture) Width() uint32                      { return t.width }
func (t *wgpuTexture) Height() uint32                     { return t.height }
func (t *wgpuTexture) Sampler() common.SamplerStagingData { return t.sampler }
func (t *wgpuTexture) View() *wgpu.TextureView            { return t.view }
func (t *wgpuTexture) GPUSampler() *wgpu.Sampler          { return t.samp }

func (t *wgpuTexture) Release() {
	t.once.Do(func() {
		t.samp.Release()
		t.view.Release()
		t.tex.Release()
	})
}
