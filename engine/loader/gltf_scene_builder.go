package loader

import (
	"github.com/Carmen-Shannon/oxy-gltf/engine/model"
	"github.com/Carmen-Shannon/oxy-gltf/engine/scene"
)

// buildScene creates the scene hierarchy of doc's active scene under a
// synthetic top node named after the scene, then runs the transform and
// bounds pass. A document without scenes yields an empty root.
//
// Parameters:
//   - doc: a linked document
//
// Returns:
//   - *scene.Root: the built root
//   - int: the number of glTF nodes visited
//   - error: a reference error if the node graph is not a tree
func buildScene(doc *model.Document) (*scene.Root, int, error) {
	sc := doc.Scene
	if sc == nil {
		return scene.NewRoot("", scene.NewNode()), 0, nil
	}

	name := sc.Name
	if name == "" {
		name = sc.ID
	}
	top := scene.NewNode(scene.WithName(name))

	b := &sceneBuilder{onPath: make(map[*model.Node]bool)}
	for _, n := range sc.Nodes {
		child, err := b.buildNode(n)
		if err != nil {
			return nil, b.count, err
		}
		if err := top.AddChild(child); err != nil {
			return nil, b.count, model.ReferenceError("scene", sc.ID, "nodes", err)
		}
	}
	return scene.NewRoot(sc.ID, top), b.count, nil
}

type sceneBuilder struct {
	count  int
	onPath map[*model.Node]bool
}

// buildNode builds n and its subtree. Children are complete before they are attached.
func (b *sceneBuilder) buildNode(n *model.Node) (*scene.Node, error) {
	if b.onPath[n] {
		return nil, model.ReferenceError("node", n.ID, "children", model.ErrNodeCycle)
	}
	b.onPath[n] = true
	defer delete(b.onPath, n)
	b.count++

	opts := []scene.NodeBuilderOption{
		scene.WithID(n.ID),
		scene.WithName(n.Name),
		scene.WithMeshes(n.Meshes...),
	}
	if n.Matrix != nil {
		opts = append(opts, scene.WithMatrix(*n.Matrix))
	} else {
		if n.Translation != nil {
			opts = append(opts, scene.WithTranslation(*n.Translation))
		}
		if n.Rotation != nil {
			opts = append(opts, scene.WithRotation(*n.Rotation))
		}
		if n.Scale != nil {
			opts = append(opts, scene.WithScale(*n.Scale))
		}
	}

	node := scene.NewNode(opts...)
	for _, c := range n.Children {
		child, err := b.buildNode(c)
		if err != nil {
			return nil, err
		}
		if err := node.AddChild(child); err != nil {
			return nil, model.ReferenceError("node", n.ID, "children", err)
		}
	}
	return node, nil
}
