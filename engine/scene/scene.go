// Package scene is the renderable hierarchy built from a glTF document: nodes
// with local and world transforms, the meshes attached to them, and the world
// bounds of the whole tree.
package scene

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-gltf/common"
	"github.com/Carmen-Shannon/oxy-gltf/engine/model"
)

var (
	errAlreadyParented = errors.New("node already has a parent")
	errCycle           = errors.New("node would become its own ancestor")
)

// Node is one element of the scene hierarchy. Children are owned; the parent
// link is not. Local and Global are column-major and only valid after
// UpdateTransforms has run since the last mutation.
type Node struct {
	// ID is the glTF node id this node was built from, empty for synthetic nodes.
	ID   string
	Name string

	Translation [3]float32
	// Rotation is a quaternion (x, y, z, w).
	Rotation [4]float32
	Scale    [3]float32
	// Matrix overrides the TRS fields when set.
	Matrix *[16]float32

	Local  [16]float32
	Global [16]float32

	Children []*Node
	Meshes   []*model.Mesh

	parent *Node
	dirty  bool
}

// NewNode creates a node with an identity transform and applies options.
//
// Parameters:
//   - options: functional options configuring the node
//
// Returns:
//   - *Node: the node
func NewNode(options ...NodeBuilderOption) *Node {
	n := &Node{
		Rotation: [4]float32{0, 0, 0, 1},
		Scale:    [3]float32{1, 1, 1},
		Local:    common.IdentityMatrix(),
		Global:   common.IdentityMatrix(),
		dirty:    true,
	}
	for _, option := range options {
		option(n)
	}
	return n
}

// Parent returns the node this node is a child of, or nil for a root.
func (n *Node) Parent() *Node {
	return n.parent
}

// Dirty reports whether a transform changed since the last UpdateTransforms.
func (n *Node) Dirty() bool {
	return n.dirty
}

// AddChild appends c to n's children.
//
// Parameters:
//   - c: the node to attach; must not have a parent or be an ancestor of n
//
// Returns:
//   - error: error if c already has a parent or attaching it would form a cycle
func (n *Node) AddChild(c *Node) error {
	if c.parent != nil {
		return fmt.Errorf("attach %q under %q: %w (%q)", c.label(), n.label(), errAlreadyParented, c.parent.label())
	}
	for a := n; a != nil; a = a.parent {
		if a == c {
			return fmt.Errorf("attach %q under %q: %w", c.label(), n.label(), errCycle)
		}
	}
	c.parent = n
	n.Children = append(n.Children, c)
	return nil
}

// SetTranslation replaces the translation and marks the node dirty.
func (n *Node) SetTranslation(t [3]float32) {
	n.Translation = t
	n.Matrix = nil
	n.dirty = true
}

// SetRotation replaces the rotation quaternion and marks the node dirty.
func (n *Node) SetRotation(r [4]float32) {
	n.Rotation = r
	n.Matrix = nil
	n.dirty = true
}

// SetScale replaces the scale and marks the node dirty.
func (n *Node) SetScale(s [3]float32) {
	n.Scale = s
	n.Matrix = nil
	n.dirty = true
}

// SetMatrix replaces the local transform with an explicit matrix and marks the node dirty.
func (n *Node) SetMatrix(m [16]float32) {
	n.Matrix = &m
	n.dirty = true
}

// Walk visits n and its descendants depth-first, parents before children.
// Returning false from fn skips the node's children.
func (n *Node) Walk(fn func(node *Node, depth int) bool) {
	n.walk(fn, 0)
}

func (n *Node) walk(fn func(*Node, int) bool, depth int) {
	if !fn(n, depth) {
		return
	}
	for _, c := range n.Children {
		c.walk(fn, depth+1)
	}
}

func (n *Node) label() string {
	if n.Name != "" {
		return n.Name
	}
	return n.ID
}

// Root is the top of a built scene together with its world bounds and the
// normalizing fit that scales it into a unit box.
type Root struct {
	// SceneID is the glTF scene the tree was built from.
	SceneID string
	Node    *Node
	Bounds  BoundingBox
	Fit     Fit
}

// NewRoot propagates transforms through top, folds the world bounds, and
// derives the fit.
//
// Parameters:
//   - sceneID: the glTF scene id
//   - top: the top node of the hierarchy
//
// Returns:
//   - *Root: the finished root
func NewRoot(sceneID string, top *Node) *Root {
	UpdateTransforms(top)
	bounds := ComputeBounds(top)
	return &Root{
		SceneID: sceneID,
		Node:    top,
		Bounds:  bounds,
		Fit:     NewFit(bounds),
	}
}

// Refresh recomputes transforms, bounds and fit after nodes were mutated.
func (r *Root) Refresh() {
	UpdateTransforms(r.Node)
	r.Bounds = ComputeBounds(r.Node)
	r.Fit = NewFit(r.Bounds)
}

// Walk visits every node of the tree, parents before children.
func (r *Root) Walk(fn func(node *Node, depth int) bool) {
	r.Node.Walk(fn)
}
