package loader

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/oxy-gltf/common"
	"github.com/Carmen-Shannon/oxy-gltf/engine/fetcher"
	"github.com/Carmen-Shannon/oxy-gltf/engine/model"
)

// Common errors returned by the parser
var (
	errInvalidGLTFVersion = errors.New("invalid glTF version: must be 1.0")
	errInvalidTopology    = errors.New("primitive mode must be 0 to 6")
	errInvalidTarget      = errors.New("bufferView target must be 34962 or 34963")
	errBufferSizeMismatch = errors.New("buffer is shorter than its declared byteLength")
)

// parseGLTF decodes a glTF 1.0 JSON document. An absent asset block is accepted.
//
// Parameters:
//   - name: the document name used in errors
//   - data: the raw JSON
//
// Returns:
//   - *gltfDocument: the decoded document
//   - error: a format error if the JSON does not decode or names another glTF version
func parseGLTF(name string, data []byte) (*gltfDocument, error) {
	var doc gltfDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, model.FormatError("document", name, "", fmt.Errorf("failed to parse glTF JSON: %w", err))
	}

	if doc.Asset != nil && doc.Asset.Version != "" && !strings.HasPrefix(doc.Asset.Version, "1.") && doc.Asset.Version != "1" {
		return nil, model.FormatError("document", name, "asset.version", fmt.Errorf("%w: got %q", errInvalidGLTFVersion, doc.Asset.Version))
	}

	return &doc, nil
}

// --- Fetch groups ---

// bufferResources lists the buffers to fetch, in id order.
func (d *gltfDocument) bufferResources() []fetcher.Resource {
	out := make([]fetcher.Resource, 0, len(d.Buffers))
	for _, id := range common.SortedKeys(d.Buffers) {
		out = append(out, fetcher.Resource{Collection: "buffer", ID: id, URI: d.Buffers[id].URI, Kind: fetcher.KindBinary})
	}
	return out
}

// imageResources lists the images to fetch, in id order.
func (d *gltfDocument) imageResources() []fetcher.Resource {
	out := make([]fetcher.Resource, 0, len(d.Images))
	for _, id := range common.SortedKeys(d.Images) {
		out = append(out, fetcher.Resource{Collection: "image", ID: id, URI: d.Images[id].URI, Kind: fetcher.KindImage})
	}
	return out
}

// shaderResources lists the shaders to fetch, in id order.
func (d *gltfDocument) shaderResources() []fetcher.Resource {
	out := make([]fetcher.Resource, 0, len(d.Shaders))
	for _, id := range common.SortedKeys(d.Shaders) {
		out = append(out, fetcher.Resource{Collection: "shader", ID: id, URI: d.Shaders[id].URI, Kind: fetcher.KindText})
	}
	return out
}

// --- Value decoding ---

// topology picks mode, then the legacy primitive property, then TRIANGLES.
func (p gltfPrimitive) topology() (model.Topology, error) {
	t := model.TopologyTriangles
	switch {
	case p.Mode != nil:
		t = model.Topology(*p.Mode)
	case p.Primitive != nil:
		t = model.Topology(*p.Primitive)
	}
	if !t.Valid() {
		return 0, fmt.Errorf("%w: got %d", errInvalidTopology, int(t))
	}
	return t, nil
}

// values returns the material parameter values, falling back to the legacy instanceTechnique block.
func (m gltfMaterial) values() map[string]json.RawMessage {
	if m.Values != nil {
		return m.Values
	}
	if m.InstanceTechnique != nil {
		return m.InstanceTechnique.Values
	}
	return nil
}

// diffuse interprets the material's diffuse value as a texture id or a constant
// color. A material without a diffuse color falls back to its "color" value.
func (m gltfMaterial) diffuse() (textureID string, color *[4]float32) {
	vals := m.values()
	if raw, ok := vals["diffuse"]; ok {
		if err := json.Unmarshal(raw, &textureID); err != nil {
			textureID = ""
			color = decodeColor(raw)
		}
	}
	if color == nil {
		if raw, ok := vals["color"]; ok {
			color = decodeColor(raw)
		}
	}
	return textureID, color
}

// decodeColor accepts RGB or RGBA arrays. RGB gets an alpha of 1.
func decodeColor(raw json.RawMessage) *[4]float32 {
	var v []float32
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	switch len(v) {
	case 3:
		return &[4]float32{v[0], v[1], v[2], 1}
	case 4:
		return &[4]float32{v[0], v[1], v[2], v[3]}
	default:
		return nil
	}
}

// sampler applies the glTF defaults to absent fields.
func (s gltfSampler) sampler(id string) *model.Sampler {
	return &model.Sampler{
		ID:        id,
		MagFilter: intOr(s.MagFilter, model.FilterLinear),
		MinFilter: intOr(s.MinFilter, model.FilterNearestMipmapLinear),
		WrapS:     intOr(s.WrapS, model.WrapRepeat),
		WrapT:     intOr(s.WrapT, model.WrapRepeat),
	}
}

func intOr(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}
