// Package model holds the linked records of a glTF 1.0 document. Records are
// created by the loader's parse step, linked into a pointer graph, and filled
// in with decoded and uploaded data by the mesh builder.
package model

import (
	"image"

	"github.com/Carmen-Shannon/oxy-gltf/engine/renderer"
)

// Document is a fully linked glTF document. It owns every record.
type Document struct {
	// BasePath is the directory or URL that relative URIs were resolved against.
	BasePath string

	Buffers     map[string]*Buffer
	BufferViews map[string]*BufferView
	Accessors   map[string]*Accessor
	Meshes      map[string]*Mesh
	Materials   map[string]*Material
	Textures    map[string]*Texture
	Images      map[string]*Image
	Samplers    map[string]*Sampler
	Shaders     map[string]*Shader
	Programs    map[string]*Program
	Nodes       map[string]*Node
	Scenes      map[string]*Scene

	// Scene is the active scene, or nil for a document without scenes.
	Scene *Scene
}

// NewDocument returns a Document with every collection allocated.
func NewDocument(basePath string) *Document {
	return &Document{
		BasePath:    basePath,
		Buffers:     make(map[string]*Buffer),
		BufferViews: make(map[string]*BufferView),
		Accessors:   make(map[string]*Accessor),
		Meshes:      make(map[string]*Mesh),
		Materials:   make(map[string]*Material),
		Textures:    make(map[string]*Texture),
		Images:      make(map[string]*Image),
		Samplers:    make(map[string]*Sampler),
		Shaders:     make(map[string]*Shader),
		Programs:    make(map[string]*Program),
		Nodes:       make(map[string]*Node),
		Scenes:      make(map[string]*Scene),
	}
}

// Release frees every render-context handle held by the document.
func (d *Document) Release() {
	for _, m := range d.Meshes {
		for _, p := range m.Primitives {
			if p.VertexArray != nil {
				p.VertexArray.Release()
				p.VertexArray = nil
			}
		}
	}
	for _, t := range d.Textures {
		if t.Handle != nil {
			t.Handle.Release()
			t.Handle = nil
		}
	}
}

// --- Materials ---

// Image is a decoded picture referenced by textures.
type Image struct {
	ID     string
	Name   string
	URI    string
	Pixels *image.RGBA
}

// Sampler holds texture filtering and wrapping codes.
type Sampler struct {
	ID        string
	MagFilter int
	MinFilter int
	WrapS     int
	WrapT     int
}

// Texture pairs an Image with an optional Sampler.
type Texture struct {
	ID      string
	Image   *Image
	Sampler *Sampler

	// Handle is set once the texture has been uploaded to a render context.
	Handle renderer.Texture
}

// Material carries the diffuse input of a glTF material. Only the diffuse
// value is interpreted: a constant color, a texture, or both when the texture
// is missing.
type Material struct {
	ID   string
	Name string

	// Color is the constant diffuse color, if the material declares one.
	Color *[4]float32
	// TextureID is the texture id the diffuse value names, if any.
	TextureID string
	// Texture is the linked texture, nil when TextureID is empty or dangling.
	Texture *Texture
}

// MaterialKind says what a primitive's material binding resolved to.
type MaterialKind int

const (
	MaterialNone MaterialKind = iota
	MaterialColor
	MaterialTexture
)

func (k MaterialKind) String() string {
	switch k {
	case MaterialColor:
		return "color"
	case MaterialTexture:
		return "texture"
	default:
		return "none"
	}
}

// MaterialBinding is the resolved material of one primitive.
type MaterialBinding struct {
	Kind     MaterialKind
	Color    [4]float32
	Texture  *Texture
	Material *Material
}

// --- Programs ---

// Shader is GLSL source loaded from a URI. It is never compiled here.
type Shader struct {
	ID     string
	URI    string
	Type   ShaderType
	Source string
}

// Program pairs a vertex and fragment shader.
type Program struct {
	ID             string
	Attributes     []string
	VertexShader   *Shader
	FragmentShader *Shader
}

// --- Geometry ---

// VertexAttribute is one decoded attribute stream of a primitive.
type VertexAttribute struct {
	Semantic   string
	Location   uint32
	Components int
	// ByteStride and ByteOffset describe the source accessor layout. Data is always packed.
	ByteStride int
	ByteOffset int
	Data       []float32
}

// Count returns the number of vertices in the stream.
func (a VertexAttribute) Count() int {
	if a.Components == 0 {
		return 0
	}
	return len(a.Data) / a.Components
}

// Primitive is a single drawable of a Mesh.
type Primitive struct {
	Indices    *Accessor
	Attributes map[string]*Accessor
	Material   *Material
	Topology   Topology

	// Filled in by the mesh builder.
	IndexData        []uint16
	VertexAttributes []VertexAttribute
	Binding          MaterialBinding
	Min, Max         [3]float32
	VertexArray      renderer.VertexArray
}

// Attribute returns the built attribute stream for semantic.
func (p *Primitive) Attribute(semantic string) (VertexAttribute, bool) {
	for _, a := range p.VertexAttributes {
		if a.Semantic == semantic {
			return a, true
		}
	}
	return VertexAttribute{}, false
}

// Mesh is an ordered list of primitives.
type Mesh struct {
	ID         string
	Name       string
	Primitives []*Primitive
}

// --- Hierarchy ---

// Node is a document node record. Exactly one of Matrix and the TRS fields is
// meaningful; absent TRS components take the identity defaults.
type Node struct {
	ID   string
	Name string

	Matrix      *[16]float32
	Translation *[3]float32
	Rotation    *[4]float32
	Scale       *[3]float32

	Children []*Node
	Meshes   []*Mesh

	// Parent is nil for scene roots.
	Parent *Node
}

// Scene names the root nodes of one hierarchy.
type Scene struct {
	ID    string
	Name  string
	Nodes []*Node
}
