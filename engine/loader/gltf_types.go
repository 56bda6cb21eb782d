// gltf_types.go contains glTF 1.0 data structures for JSON deserialization.
// Every top-level collection is an object keyed by id rather than an array.
// These types are internal to the loader package.
// Reference: https://github.com/KhronosGroup/glTF/tree/main/specification/1.0
package loader

import "encoding/json"

// --- glTF Root Structure ---

// gltfDocument represents the root of a glTF 1.0 JSON document.
type gltfDocument struct {
	// Asset contains metadata about the glTF asset.
	Asset *gltfAsset `json:"asset,omitempty"`

	// Scene is the id of the default scene.
	Scene string `json:"scene,omitempty"`

	Scenes      map[string]gltfScene      `json:"scenes,omitempty"`
	Nodes       map[string]gltfNode       `json:"nodes,omitempty"`
	Meshes      map[string]gltfMesh       `json:"meshes,omitempty"`
	Accessors   map[string]gltfAccessor   `json:"accessors,omitempty"`
	BufferViews map[string]gltfBufferView `json:"bufferViews,omitempty"`
	Buffers     map[string]gltfBuffer     `json:"buffers,omitempty"`
	Materials   map[string]gltfMaterial   `json:"materials,omitempty"`
	Textures    map[string]gltfTexture    `json:"textures,omitempty"`
	Images      map[string]gltfImage      `json:"images,omitempty"`
	Samplers    map[string]gltfSampler    `json:"samplers,omitempty"`
	Shaders     map[string]gltfShader     `json:"shaders,omitempty"`
	Programs    map[string]gltfProgram    `json:"programs,omitempty"`

	// Techniques are carried but never interpreted.
	Techniques map[string]json.RawMessage `json:"techniques,omitempty"`

	ExtensionsUsed []string `json:"extensionsUsed,omitempty"`
}

// --- Asset Metadata ---

// gltfAsset contains metadata about the glTF asset.
type gltfAsset struct {
	// Version is the glTF version, "1.0" or a 1.0.x revision.
	Version string `json:"version"`

	Generator          string `json:"generator,omitempty"`
	Copyright          string `json:"copyright,omitempty"`
	PremultipliedAlpha bool   `json:"premultipliedAlpha,omitempty"`
}

// --- Scene Graph ---

// gltfScene lists the root nodes of one hierarchy.
type gltfScene struct {
	Name  string   `json:"name,omitempty"`
	Nodes []string `json:"nodes,omitempty"`
}

// gltfNode is a transform node. Matrix and TRS are mutually exclusive.
type gltfNode struct {
	Name     string   `json:"name,omitempty"`
	Children []string `json:"children,omitempty"`
	Meshes   []string `json:"meshes,omitempty"`

	Matrix      *[16]float32 `json:"matrix,omitempty"`
	Translation *[3]float32  `json:"translation,omitempty"`
	Rotation    *[4]float32  `json:"rotation,omitempty"`
	Scale       *[3]float32  `json:"scale,omitempty"`

	// Camera, Light and skinning fields are ignored.
	Camera    string   `json:"camera,omitempty"`
	Light     string   `json:"light,omitempty"`
	Skeletons []string `json:"skeletons,omitempty"`
	Skin      string   `json:"skin,omitempty"`
	JointName string   `json:"jointName,omitempty"`
}

// --- Meshes ---

// gltfMesh is a set of primitives.
type gltfMesh struct {
	Name       string          `json:"name,omitempty"`
	Primitives []gltfPrimitive `json:"primitives"`
}

// gltfPrimitive is a single draw of a mesh.
type gltfPrimitive struct {
	// Attributes maps semantics such as "POSITION" to accessor ids.
	Attributes map[string]string `json:"attributes"`
	Indices    string            `json:"indices,omitempty"`
	Material   string            `json:"material,omitempty"`

	// Mode is the topology; Primitive is the pre-release spelling of the same property.
	Mode      *int `json:"mode,omitempty"`
	Primitive *int `json:"primitive,omitempty"`
}

// --- Binary Data ---

// gltfAccessor describes typed data within a bufferView.
type gltfAccessor struct {
	Name          string    `json:"name,omitempty"`
	BufferView    string    `json:"bufferView"`
	ByteOffset    int       `json:"byteOffset"`
	ByteStride    int       `json:"byteStride,omitempty"`
	ComponentType int       `json:"componentType"`
	Count         int       `json:"count"`
	Type          string    `json:"type"`
	Max           []float32 `json:"max,omitempty"`
	Min           []float32 `json:"min,omitempty"`
}

// gltfBufferView is a byte range of a buffer.
type gltfBufferView struct {
	Name       string `json:"name,omitempty"`
	Buffer     string `json:"buffer"`
	ByteOffset int    `json:"byteOffset"`
	ByteLength int    `json:"byteLength,omitempty"`
	Target     int    `json:"target,omitempty"`
}

// gltfBuffer is an external or data-URI binary blob.
type gltfBuffer struct {
	Name       string `json:"name,omitempty"`
	URI        string `json:"uri"`
	ByteLength int    `json:"byteLength,omitempty"`
	Type       string `json:"type,omitempty"`
}

// --- Materials and Textures ---

// gltfMaterial holds technique parameter values.
type gltfMaterial struct {
	Name      string                     `json:"name,omitempty"`
	Technique string                     `json:"technique,omitempty"`
	Values    map[string]json.RawMessage `json:"values,omitempty"`

	// InstanceTechnique is the pre-release layout of Technique and Values.
	InstanceTechnique *gltfInstanceTechnique `json:"instanceTechnique,omitempty"`
}

type gltfInstanceTechnique struct {
	Technique string                     `json:"technique,omitempty"`
	Values    map[string]json.RawMessage `json:"values,omitempty"`
}

// gltfTexture references an image and a sampler.
type gltfTexture struct {
	Name           string `json:"name,omitempty"`
	Source         string `json:"source"`
	Sampler        string `json:"sampler,omitempty"`
	Format         int    `json:"format,omitempty"`
	InternalFormat int    `json:"internalFormat,omitempty"`
	Target         int    `json:"target,omitempty"`
	Type           int    `json:"type,omitempty"`
}

// gltfImage is an external or data-URI picture.
type gltfImage struct {
	Name string `json:"name,omitempty"`
	URI  string `json:"uri"`
}

// gltfSampler holds filtering and wrapping codes. Absent fields take the glTF defaults.
type gltfSampler struct {
	Name      string `json:"name,omitempty"`
	MagFilter *int   `json:"magFilter,omitempty"`
	MinFilter *int   `json:"minFilter,omitempty"`
	WrapS     *int   `json:"wrapS,omitempty"`
	WrapT     *int   `json:"wrapT,omitempty"`
}

// --- Programs ---

// gltfShader is GLSL source at a URI.
type gltfShader struct {
	Name string `json:"name,omitempty"`
	URI  string `json:"uri"`
	Type int    `json:"type"`
}

// gltfProgram links a vertex and fragment shader.
type gltfProgram struct {
	Name           string   `json:"name,omitempty"`
	Attributes     []string `json:"attributes,omitempty"`
	VertexShader   string   `json:"vertexShader"`
	FragmentShader string   `json:"fragmentShader"`
}
