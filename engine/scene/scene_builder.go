package scene

import "github.com/Carmen-Shannon/oxy-gltf/engine/model"

// NodeBuilderOption is a functional option for configuring a Node.
// Use the With* functions to create options.
type NodeBuilderOption func(n *Node)

// WithName sets the display name of the node.
//
// Parameters:
//   - name: the node name
//
// Returns:
//   - NodeBuilderOption: option function to apply
func WithName(name string) NodeBuilderOption {
	return func(n *Node) {
		n.Name = name
	}
}

// WithID records the glTF node id the node was built from.
//
// Parameters:
//   - id: the glTF node id
//
// Returns:
//   - NodeBuilderOption: option function to apply
func WithID(id string) NodeBuilderOption {
	return func(n *Node) {
		n.ID = id
	}
}

// WithMatrix sets an explicit column-major local matrix, overriding TRS.
//
// Parameters:
//   - m: the local matrix
//
// Returns:
//   - NodeBuilderOption: option function to apply
func WithMatrix(m [16]float32) NodeBuilderOption {
	return func(n *Node) {
		n.Matrix = &m
	}
}

// WithTranslation sets the local translation.
func WithTranslation(t [3]float32) NodeBuilderOption {
	return func(n *Node) {
		n.Translation = t
	}
}

// WithRotation sets the local rotation quaternion (x, y, z, w).
func WithRotation(r [4]float32) NodeBuilderOption {
	return func(n *Node) {
		n.Rotation = r
	}
}

// WithScale sets the local scale.
func WithScale(s [3]float32) NodeBuilderOption {
	return func(n *Node) {
		n.Scale = s
	}
}

// WithMeshes attaches meshes to the node.
//
// Parameters:
//   - meshes: the meshes drawn with this node's global transform
//
// Returns:
//   - NodeBuilderOption: option function to apply
func WithMeshes(meshes ...*model.Mesh) NodeBuilderOption {
	return func(n *Node) {
		n.Meshes = append(n.Meshes, meshes...)
	}
}
