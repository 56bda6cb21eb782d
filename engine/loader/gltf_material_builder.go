package loader

import (
	"fmt"
	"log/slog"

	"github.com/Carmen-Shannon/oxy-gltf/common"
	"github.com/Carmen-Shannon/oxy-gltf/engine/model"
	"github.com/Carmen-Shannon/oxy-gltf/engine/renderer"

	"github.com/cogentcore/webgpu/wgpu"
)

// gltfMaterialBuilder binds each primitive to its material and uploads every
// referenced texture once. Nothing here is fatal except a render context
// failing to create a texture.
type gltfMaterialBuilder struct {
	ctx renderer.Context
	log *slog.Logger
}

func newGLTFMaterialBuilder(ctx renderer.Context, log *slog.Logger) *gltfMaterialBuilder {
	return &gltfMaterialBuilder{ctx: ctx, log: log}
}

// BuildAll resolves the material binding of every primitive of doc.
//
// Parameters:
//   - doc: a linked document whose images have been attached
//
// Returns:
//   - map[model.MaterialKind]int: how many primitives got each binding kind
//   - error: error if a texture upload fails
func (b *gltfMaterialBuilder) BuildAll(doc *model.Document) (map[model.MaterialKind]int, error) {
	counts := make(map[model.MaterialKind]int, 3)
	for _, id := range common.SortedKeys(doc.Meshes) {
		for i, prim := range doc.Meshes[id].Primitives {
			binding, err := b.bind(prim.Material)
			if err != nil {
				return counts, fmt.Errorf("mesh %q primitives[%d]: %w", id, i, err)
			}
			prim.Binding = binding
			counts[binding.Kind]++
		}
	}
	return counts, nil
}

// bind picks texture, then constant color, then nothing.
func (b *gltfMaterialBuilder) bind(mat *model.Material) (model.MaterialBinding, error) {
	if mat == nil {
		return model.MaterialBinding{Kind: model.MaterialNone}, nil
	}

	if mat.TextureID != "" {
		switch {
		case mat.Texture == nil:
			b.log.Debug("material texture missing", "material", mat.ID, "texture", mat.TextureID)
		case mat.Texture.Image == nil || mat.Texture.Image.Pixels == nil:
			b.log.Debug("material texture has no decoded image", "material", mat.ID, "texture", mat.TextureID)
		default:
			if err := b.upload(mat.Texture); err != nil {
				return model.MaterialBinding{}, err
			}
			return model.MaterialBinding{Kind: model.MaterialTexture, Texture: mat.Texture, Material: mat}, nil
		}
	}

	if mat.Color != nil {
		if mat.TextureID != "" {
			b.log.Debug("material degraded to flat color", "material", mat.ID)
		}
		return model.MaterialBinding{Kind: model.MaterialColor, Color: *mat.Color, Material: mat}, nil
	}

	b.log.Debug("material has no usable diffuse value", "material", mat.ID)
	return model.MaterialBinding{Kind: model.MaterialNone, Material: mat}, nil
}

// upload creates the texture on the render context the first time it is bound.
func (b *gltfMaterialBuilder) upload(tex *model.Texture) error {
	if b.ctx == nil || tex.Handle != nil {
		return nil
	}
	sampler := common.DefaultSampler()
	if tex.Sampler != nil {
		sampler = gltfSamplerToStagingData(tex.Sampler)
	}
	h, err := b.ctx.CreateTexture2D(common.NewTextureStagingData(tex.Image.Pixels), sampler)
	if err != nil {
		return fmt.Errorf("texture %q: %w", tex.ID, err)
	}
	tex.Handle = h
	return nil
}

// gltfSamplerToStagingData converts glTF sampler codes into render-context sampler settings.
// Unknown codes keep the nearest/repeat defaults.
//
// Parameters:
//   - s: the linked sampler
//
// Returns:
//   - common.SamplerStagingData: the converted sampler staging data
func gltfSamplerToStagingData(s *model.Sampler) common.SamplerStagingData {
	result := common.DefaultSampler()

	switch s.MagFilter {
	case model.FilterNearest:
		result.MagFilter = wgpu.FilterModeNearest
	case model.FilterLinear:
		result.MagFilter = wgpu.FilterModeLinear
	}

	switch s.MinFilter {
	case model.FilterNearest, model.FilterNearestMipmapNearest, model.FilterNearestMipmapLinear:
		result.MinFilter = wgpu.FilterModeNearest
	case model.FilterLinear, model.FilterLinearMipmapNearest, model.FilterLinearMipmapLinear:
		result.MinFilter = wgpu.FilterModeLinear
	}
	switch s.MinFilter {
	case model.FilterNearestMipmapLinear, model.FilterLinearMipmapLinear:
		result.MipmapFilter = wgpu.MipmapFilterModeLinear
	default:
		result.MipmapFilter = wgpu.MipmapFilterModeNearest
	}

	result.AddressModeU = gltfWrapToAddressMode(s.WrapS)
	result.AddressModeV = gltfWrapToAddressMode(s.WrapT)
	return result
}

// gltfWrapToAddressMode converts a glTF wrap code to a wgpu address mode.
func gltfWrapToAddressMode(wrap int) wgpu.AddressMode {
	switch wrap {
	case model.WrapClampToEdge:
		return wgpu.AddressModeClampToEdge
	case model.WrapMirroredRepeat:
		return wgpu.AddressModeMirrorRepeat
	default:
		return wgpu.AddressModeRepeat
	}
}
