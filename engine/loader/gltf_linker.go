package loader

import (
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/oxy-gltf/common"
	"github.com/Carmen-Shannon/oxy-gltf/engine/model"
)

// link turns the id-keyed JSON document into a pointer graph. Every reference is
// resolved or reported; the only tolerated dangling reference is a material's
// diffuse texture, which is left nil for the material builder to degrade.
// Programs are linked separately once shader sources have arrived.
//
// Parameters:
//   - name: the document name, used in errors about the scene key
//   - raw: the decoded JSON document
//   - base: the base path the document was fetched from
//   - buffers: fetched buffer bytes keyed by buffer id
//
// Returns:
//   - *model.Document: the linked document
//   - error: the first format or reference error, in sorted id order
func link(name string, raw *gltfDocument, base string, buffers map[string][]byte) (*model.Document, error) {
	doc := model.NewDocument(base)

	for _, id := range common.SortedKeys(raw.Buffers) {
		b := raw.Buffers[id]
		data := buffers[id]
		if b.ByteLength > 0 && len(data) < b.ByteLength {
			return nil, model.FormatError("buffer", id, "byteLength",
				fmt.Errorf("%w: declared %d, got %d", errBufferSizeMismatch, b.ByteLength, len(data)))
		}
		doc.Buffers[id] = &model.Buffer{ID: id, URI: b.URI, Data: data}
	}

	for _, id := range common.SortedKeys(raw.BufferViews) {
		bv := raw.BufferViews[id]
		buf, ok := doc.Buffers[bv.Buffer]
		if !ok {
			return nil, model.DanglingError("bufferView", id, "buffer", bv.Buffer)
		}
		target := model.Target(bv.Target)
		if target != model.TargetNone && target != model.TargetArrayBuffer && target != model.TargetElementArrayBuffer {
			return nil, model.FormatError("bufferView", id, "target", fmt.Errorf("%w: got %d", errInvalidTarget, bv.Target))
		}
		length := bv.ByteLength
		if length == 0 {
			length = len(buf.Data) - bv.ByteOffset
		}
		doc.BufferViews[id] = &model.BufferView{
			ID:         id,
			Buffer:     buf,
			ByteOffset: bv.ByteOffset,
			ByteLength: length,
			Target:     target,
		}
	}

	for _, id := range common.SortedKeys(raw.Accessors) {
		a := raw.Accessors[id]
		view, ok := doc.BufferViews[a.BufferView]
		if !ok {
			return nil, model.DanglingError("accessor", id, "bufferView", a.BufferView)
		}
		doc.Accessors[id] = &model.Accessor{
			ID:            id,
			BufferView:    view,
			ByteOffset:    a.ByteOffset,
			ByteStride:    a.ByteStride,
			Count:         a.Count,
			ComponentType: model.ComponentType(a.ComponentType),
			Type:          model.ElementType(a.Type),
			Min:           a.Min,
			Max:           a.Max,
		}
	}

	if err := linkMaterials(raw, doc); err != nil {
		return nil, err
	}
	if err := linkMeshes(raw, doc); err != nil {
		return nil, err
	}
	if err := linkNodes(raw, doc); err != nil {
		return nil, err
	}
	if err := linkScenes(name, raw, doc); err != nil {
		return nil, err
	}

	for _, id := range common.SortedKeys(raw.Shaders) {
		s := raw.Shaders[id]
		doc.Shaders[id] = &model.Shader{ID: id, URI: s.URI, Type: model.ShaderType(s.Type)}
	}

	return doc, nil
}

func linkMaterials(raw *gltfDocument, doc *model.Document) error {
	for _, id := range common.SortedKeys(raw.Images) {
		img := raw.Images[id]
		doc.Images[id] = &model.Image{ID: id, Name: img.Name, URI: img.URI}
	}

	for _, id := range common.SortedKeys(raw.Samplers) {
		doc.Samplers[id] = raw.Samplers[id].sampler(id)
	}

	for _, id := range common.SortedKeys(raw.Textures) {
		t := raw.Textures[id]
		img, ok := doc.Images[t.Source]
		if !ok {
			return model.DanglingError("texture", id, "source", t.Source)
		}
		tex := &model.Texture{ID: id, Image: img}
		if t.Sampler != "" {
			s, ok := doc.Samplers[t.Sampler]
			if !ok {
				return model.DanglingError("texture", id, "sampler", t.Sampler)
			}
			tex.Sampler = s
		}
		doc.Textures[id] = tex
	}

	for _, id := range common.SortedKeys(raw.Materials) {
		m := raw.Materials[id]
		textureID, color := m.diffuse()
		doc.Materials[id] = &model.Material{
			ID:        id,
			Name:      m.Name,
			Color:     color,
			TextureID: textureID,
			Texture:   doc.Textures[textureID],
		}
	}
	return nil
}

func linkMeshes(raw *gltfDocument, doc *model.Document) error {
	for _, id := range common.SortedKeys(raw.Meshes) {
		m := raw.Meshes[id]
		mesh := &model.Mesh{ID: id, Name: m.Name, Primitives: make([]*model.Primitive, 0, len(m.Primitives))}

		for i, p := range m.Primitives {
			field := fmt.Sprintf("primitives[%d]", i)
			prim := &model.Primitive{Attributes: make(map[string]*model.Accessor, len(p.Attributes))}

			topo, err := p.topology()
			if err != nil {
				return model.FormatError("mesh", id, field+".mode", err)
			}
			prim.Topology = topo

			if p.Indices != "" {
				acc, ok := doc.Accessors[p.Indices]
				if !ok {
					return model.DanglingError("mesh", id, field+".indices", p.Indices)
				}
				prim.Indices = acc
			}

			for _, semantic := range common.SortedKeys(p.Attributes) {
				accID := p.Attributes[semantic]
				acc, ok := doc.Accessors[accID]
				if !ok {
					return model.DanglingError("mesh", id, field+".attributes."+semantic, accID)
				}
				prim.Attributes[semantic] = acc
			}

			if p.Material != "" {
				mat, ok := doc.Materials[p.Material]
				if !ok {
					return model.DanglingError("mesh", id, field+".material", p.Material)
				}
				prim.Material = mat
			}

			mesh.Primitives = append(mesh.Primitives, prim)
		}
		doc.Meshes[id] = mesh
	}
	return nil
}

func linkNodes(raw *gltfDocument, doc *model.Document) error {
	ids := common.SortedKeys(raw.Nodes)
	for _, id := range ids {
		n := raw.Nodes[id]
		doc.Nodes[id] = &model.Node{
			ID:          id,
			Name:        n.Name,
			Matrix:      n.Matrix,
			Translation: n.Translation,
			Rotation:    n.Rotation,
			Scale:       n.Scale,
		}
	}

	for _, id := range ids {
		n := raw.Nodes[id]
		node := doc.Nodes[id]

		for _, meshID := range n.Meshes {
			mesh, ok := doc.Meshes[meshID]
			if !ok {
				return model.DanglingError("node", id, "meshes", meshID)
			}
			node.Meshes = append(node.Meshes, mesh)
		}

		for _, childID := range n.Children {
			child, ok := doc.Nodes[childID]
			if !ok {
				return model.DanglingError("node", id, "children", childID)
			}
			if child.Parent != nil {
				return model.ReferenceError("node", childID, "",
					fmt.Errorf("%w: listed by %q and %q", model.ErrDuplicateParent, child.Parent.ID, id))
			}
			child.Parent = node
			node.Children = append(node.Children, child)
		}
	}

	return checkCycles(ids, doc.Nodes)
}

// checkCycles walks the child graph with a three-color visited set.
func checkCycles(ids []string, nodes map[string]*model.Node) error {
	const (
		white = iota
		gray
		black
	)
	color := make(map[*model.Node]int, len(nodes))
	var path []string

	var visit func(n *model.Node) error
	visit = func(n *model.Node) error {
		color[n] = gray
		path = append(path, n.ID)
		for _, c := range n.Children {
			switch color[c] {
			case gray:
				return model.ReferenceError("node", c.ID, "children",
					fmt.Errorf("%w: %s -> %s", model.ErrNodeCycle, strings.Join(path, " -> "), c.ID))
			case white:
				if err := visit(c); err != nil {
					return err
				}
			}
		}
		path = path[:len(path)-1]
		color[n] = black
		return nil
	}

	for _, id := range ids {
		n := nodes[id]
		if color[n] == white {
			if err := visit(n); err != nil {
				return err
			}
		}
	}
	return nil
}

func linkScenes(name string, raw *gltfDocument, doc *model.Document) error {
	for _, id := range common.SortedKeys(raw.Scenes) {
		s := raw.Scenes[id]
		sc := &model.Scene{ID: id, Name: s.Name, Nodes: make([]*model.Node, 0, len(s.Nodes))}
		seen := make(map[string]bool, len(s.Nodes))

		for _, nodeID := range s.Nodes {
			node, ok := doc.Nodes[nodeID]
			if !ok {
				return model.DanglingError("scene", id, "nodes", nodeID)
			}
			if node.Parent != nil {
				return model.ReferenceError("scene", id, "nodes",
					fmt.Errorf("%w: root %q is a child of %q", model.ErrDuplicateParent, nodeID, node.Parent.ID))
			}
			if seen[nodeID] {
				return model.ReferenceError("scene", id, "nodes",
					fmt.Errorf("%w: root %q listed twice", model.ErrDuplicateParent, nodeID))
			}
			seen[nodeID] = true
			sc.Nodes = append(sc.Nodes, node)
		}
		doc.Scenes[id] = sc
	}

	switch {
	case raw.Scene != "":
		sc, ok := doc.Scenes[raw.Scene]
		if !ok {
			return model.DanglingError("document", name, "scene", raw.Scene)
		}
		doc.Scene = sc
	case len(doc.Scenes) > 0:
		doc.Scene = doc.Scenes[common.SortedKeys(doc.Scenes)[0]]
	}
	return nil
}

// linkPrograms resolves program shader references. Shader records must exist.
func linkPrograms(raw *gltfDocument, doc *model.Document) error {
	for _, id := range common.SortedKeys(raw.Programs) {
		p := raw.Programs[id]
		vs, ok := doc.Shaders[p.VertexShader]
		if !ok {
			return model.DanglingError("program", id, "vertexShader", p.VertexShader)
		}
		fs, ok := doc.Shaders[p.FragmentShader]
		if !ok {
			return model.DanglingError("program", id, "fragmentShader", p.FragmentShader)
		}
		doc.Programs[id] = &model.Program{
			ID:             id,
			Attributes:     p.Attributes,
			VertexShader:   vs,
			FragmentShader: fs,
		}
	}
	return nil
}
