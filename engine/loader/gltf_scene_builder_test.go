package loader

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-gltf/engine/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSceneCountsNodes(t *testing.T) {
	doc := model.NewDocument(".")
	leaf := &model.Node{ID: "leaf"}
	top := &model.Node{ID: "top", Children: []*model.Node{leaf}}
	doc.Scene = &model.Scene{ID: "s", Nodes: []*model.Node{top}}

	root, visited, err := buildScene(doc)
	require.NoError(t, err)
	assert.Equal(t, 2, visited)
	assert.Equal(t, "s", root.Node.Name)
	assert.Equal(t, []string{"top", "leaf"}, nodeIDs(root))
}

func TestBuildSceneRejectsUnlinkedCycle(t *testing.T) {
	doc := model.NewDocument(".")
	a := &model.Node{ID: "a"}
	b := &model.Node{ID: "b", Children: []*model.Node{a}}
	a.Children = []*model.Node{b}
	doc.Scene = &model.Scene{ID: "s", Nodes: []*model.Node{a}}

	root, _, err := buildScene(doc)
	assert.Nil(t, root)
	assert.ErrorIs(t, err, model.ErrReference)
	assert.ErrorIs(t, err, model.ErrNodeCycle)
}
