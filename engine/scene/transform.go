package scene

import "github.com/Carmen-Shannon/oxy-gltf/common"

// UpdateTransforms recomputes Local and Global for root and every descendant,
// top-down: global = parent.global × local, with identity above root.
func UpdateTransforms(root *Node) {
	id := common.IdentityMatrix()
	updateNode(root, &id)
}

func updateNode(n *Node, parentGlobal *[16]float32) {
	n.updateLocal()
	common.Mul4(n.Global[:], parentGlobal[:], n.Local[:])
	n.dirty = false
	for _, c := range n.Children {
		updateNode(c, &n.Global)
	}
}

func (n *Node) updateLocal() {
	if n.Matrix != nil {
		n.Local = *n.Matrix
		return
	}
	common.FromTRS(n.Local[:], n.Translation, n.Rotation, n.Scale)
}
