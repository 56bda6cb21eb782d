package main

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

const sceneTemplate = `{
  "asset": {"version": "1.0"},
  "buffers": {"b": {"uri": "%s", "byteLength": 44}},
  "bufferViews": {
    "idx": {"buffer": "b", "byteOffset": 0, "byteLength": 6, "target": 34963},
    "pos": {"buffer": "b", "byteOffset": 8, "byteLength": 36, "target": 34962}
  },
  "accessors": {
    "i": {"bufferView": "idx", "byteOffset": 0, "componentType": 5123, "count": 3, "type": "SCALAR"},
    "p": {"bufferView": "pos", "byteOffset": 0, "componentType": 5126, "count": 3, "type": "VEC3"}
  },
  "meshes": {"m": {"primitives": [{"attributes": {"POSITION": "p"}, "indices": "i"}]}},
  "nodes": {"n": {"name": "triangle", "meshes": ["m"], "translation": [0, 0, 2]}},
  "scenes": {"s": {"name": "demo", "nodes": ["n"]}},
  "scene": "s"
}`

func triangleDataURI() string {
	b := make([]byte, 44)
	for i, v := range []uint16{0, 1, 2} {
		binary.LittleEndian.PutUint16(b[i*2:], v)
	}
	for i, v := range []float32{0, 0, 0, 2, 0, 0, 0, 1, 0} {
		binary.LittleEndian.PutUint32(b[8+i*4:], math.Float32bits(v))
	}
	return "data:application/octet-stream;base64," + base64.StdEncoding.EncodeToString(b)
}

func TestRunPrintsSceneTree(t *testing.T) {
	doc := writeFile(t, "tri.gltf", fmt.Sprintf(sceneTemplate, triangleDataURI()))
	var stdout, stderr bytes.Buffer

	code := run([]string{"-workers", "2", doc}, &stdout, &stderr)
	assert.Equal(t, exitOK, code, stderr.String())

	out := stdout.String()
	assert.Contains(t, out, `scene: "s"`)
	assert.Contains(t, out, "- demo at (0, 0, 0)")
	assert.Contains(t, out, "  - triangle (n) at (0, 0, 2)")
	assert.Contains(t, out, `mesh "m"[0]: TRIANGLES, 3 indices, 1 attributes, material none`)
	assert.Contains(t, out, "bounds: min [0 0 2] max [2 1 2]")
	assert.Contains(t, out, "fit: scale 0.5")
	assert.Contains(t, out, "uploads: 2 buffers, 1 vertex arrays, 0 textures")
	assert.Contains(t, out, "time: ")
	assert.Contains(t, out, "(document ")
}

func TestRunUsageErrors(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, exitUsage, run(nil, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "usage: gltfinfo")

	stderr.Reset()
	assert.Equal(t, exitUsage, run([]string{"-workers", "0", "x.gltf"}, &stdout, &stderr))

	stderr.Reset()
	assert.Equal(t, exitUsage, run([]string{"model.fbx"}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "config error")
}

func TestRunLoadFailure(t *testing.T) {
	doc := writeFile(t, "broken.gltf", fmt.Sprintf(sceneTemplate, "missing.bin"))
	var stdout, stderr bytes.Buffer

	assert.Equal(t, exitLoad, run([]string{doc}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "fetch error")
	assert.Empty(t, stdout.String())
}
