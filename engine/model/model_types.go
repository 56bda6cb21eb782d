package model

import "fmt"

// ComponentType is a glTF accessor componentType code.
type ComponentType int

const (
	ComponentTypeByte          ComponentType = 5120
	ComponentTypeUnsignedByte  ComponentType = 5121
	ComponentTypeShort         ComponentType = 5122
	ComponentTypeUnsignedShort ComponentType = 5123
	ComponentTypeUnsignedInt   ComponentType = 5125
	ComponentTypeFloat         ComponentType = 5126
)

// Size returns the byte size of one component, or false for an unknown code.
func (c ComponentType) Size() (int, bool) {
	switch c {
	case ComponentTypeByte, ComponentTypeUnsignedByte:
		return 1, true
	case ComponentTypeShort, ComponentTypeUnsignedShort:
		return 2, true
	case ComponentTypeUnsignedInt, ComponentTypeFloat:
		return 4, true
	default:
		return 0, false
	}
}

func (c ComponentType) String() string {
	switch c {
	case ComponentTypeByte:
		return "BYTE"
	case ComponentTypeUnsignedByte:
		return "UNSIGNED_BYTE"
	case ComponentTypeShort:
		return "SHORT"
	case ComponentTypeUnsignedShort:
		return "UNSIGNED_SHORT"
	case ComponentTypeUnsignedInt:
		return "UNSIGNED_INT"
	case ComponentTypeFloat:
		return "FLOAT"
	default:
		return fmt.Sprintf("componentType(%d)", int(c))
	}
}

// ElementType is a glTF accessor type such as "VEC3".
type ElementType string

const (
	ElementScalar ElementType = "SCALAR"
	ElementVec2   ElementType = "VEC2"
	ElementVec3   ElementType = "VEC3"
	ElementVec4   ElementType = "VEC4"
	ElementMat2   ElementType = "MAT2"
	ElementMat3   ElementType = "MAT3"
	ElementMat4   ElementType = "MAT4"
)

// Components returns the component count per element, or false for an unknown type.
func (e ElementType) Components() (int, bool) {
	switch e {
	case ElementScalar:
		return 1, true
	case ElementVec2:
		return 2, true
	case ElementVec3:
		return 3, true
	case ElementVec4, ElementMat2:
		return 4, true
	case ElementMat3:
		return 9, true
	case ElementMat4:
		return 16, true
	default:
		return 0, false
	}
}

// Target is a bufferView target code.
type Target int

const (
	TargetNone               Target = 0
	TargetArrayBuffer        Target = 34962
	TargetElementArrayBuffer Target = 34963
)

// Topology is a primitive mode.
type Topology int

const (
	TopologyPoints        Topology = 0
	TopologyLines         Topology = 1
	TopologyLineLoop      Topology = 2
	TopologyLineStrip     Topology = 3
	TopologyTriangles     Topology = 4
	TopologyTriangleStrip Topology = 5
	TopologyTriangleFan   Topology = 6
)

func (t Topology) String() string {
	switch t {
	case TopologyPoints:
		return "POINTS"
	case TopologyLines:
		return "LINES"
	case TopologyLineLoop:
		return "LINE_LOOP"
	case TopologyLineStrip:
		return "LINE_STRIP"
	case TopologyTriangles:
		return "TRIANGLES"
	case TopologyTriangleStrip:
		return "TRIANGLE_STRIP"
	case TopologyTriangleFan:
		return "TRIANGLE_FAN"
	default:
		return fmt.Sprintf("mode(%d)", int(t))
	}
}

// Valid reports whether t is one of the seven glTF primitive modes.
func (t Topology) Valid() bool {
	return t >= TopologyPoints && t <= TopologyTriangleFan
}

// ShaderType is a shader stage code.
type ShaderType int

const (
	ShaderTypeFragment ShaderType = 35632
	ShaderTypeVertex   ShaderType = 35633
)

// Sampler filter and wrap codes.
const (
	FilterNearest              = 9728
	FilterLinear               = 9729
	FilterNearestMipmapNearest = 9984
	FilterLinearMipmapNearest  = 9985
	FilterNearestMipmapLinear  = 9986
	FilterLinearMipmapLinear   = 9987

	WrapClampToEdge    = 33071
	WrapMirroredRepeat = 33648
	WrapRepeat         = 10497
)

// Well-known attribute semantics.
const (
	SemanticPosition  = "POSITION"
	SemanticNormal    = "NORMAL"
	SemanticTexcoord0 = "TEXCOORD_0"
)
