package glb

import (
	"fmt"

	"github.com/Faultbox/artglb/pkg/mesh"
)

// DocumentOptions controls the descriptive and material fields of a built
// document.
type DocumentOptions struct {
	Generator       string
	NodeName        string
	MetallicFactor  float32
	RoughnessFactor float32
	DoubleSided     bool
}

// DefaultDocumentOptions returns the settings used for paintings: a matte,
// non-metallic, double-sided surface.
func DefaultDocumentOptions() DocumentOptions {
	return DocumentOptions{
		Generator:       "ArtSpace Painting Generator",
		NodeName:        "Painting",
		MetallicFactor:  0.0,
		RoughnessFactor: 0.8,
		DoubleSided:     true,
	}
}

// Accessor indices of the single primitive.
const (
	AccessorPositions = iota
	AccessorNormals
	AccessorTexCoords
	AccessorIndices
)

// BuildDocument builds the asset descriptor for one textured mesh whose
// data was laid out by PackBuffer. Buffer views are declared in layout
// order, so accessor i reads view i and the image reads the last view.
func BuildDocument(buf *PackedBuffer, g *mesh.Geometry, mimeType string, opts DocumentOptions) (*Document, error) {
	if len(buf.Layout) != 5 {
		return nil, fmt.Errorf("%w: expected 5 buffer views, got %d", ErrInvalidDocument, len(buf.Layout))
	}

	views := make([]*BufferView, len(buf.Layout))
	for i, v := range buf.Layout {
		views[i] = &BufferView{
			Buffer:     0,
			ByteOffset: v.ByteOffset,
			ByteLength: v.ByteLength,
			Target:     v.Target,
		}
	}

	lo, hi := g.Bounds()
	minPos, maxPos := lo.Array(), hi.Array()
	n := g.VertexCount()
	accessors := []*Accessor{
		{
			BufferView:    Index(AccessorPositions),
			ComponentType: ComponentFloat,
			Count:         n,
			Type:          AccessorVec3,
			Min:           minPos[:],
			Max:           maxPos[:],
		},
		{
			BufferView:    Index(AccessorNormals),
			ComponentType: ComponentFloat,
			Count:         n,
			Type:          AccessorVec3,
		},
		{
			BufferView:    Index(AccessorTexCoords),
			ComponentType: ComponentFloat,
			Count:         n,
			Type:          AccessorVec2,
		},
		{
			BufferView:    Index(AccessorIndices),
			ComponentType: ComponentUnsignedShort,
			Count:         len(g.Indices),
			Type:          AccessorScalar,
		},
	}

	doc := &Document{
		Asset: Asset{
			Version:   AssetVersion,
			Generator: opts.Generator,
		},
		Scene:  Index(0),
		Scenes: []*Scene{{Nodes: []int{0}}},
		Nodes: []*Node{{
			Mesh: Index(0),
			Name: opts.NodeName,
		}},
		Meshes: []*Mesh{{
			Primitives: []*Primitive{{
				Attributes: map[Semantic]int{
					SemanticPosition:  AccessorPositions,
					SemanticNormal:    AccessorNormals,
					SemanticTexCoord0: AccessorTexCoords,
				},
				Indices:  Index(AccessorIndices),
				Material: Index(0),
			}},
		}},
		Accessors:   accessors,
		BufferViews: views,
		Buffers:     []*Buffer{{ByteLength: len(buf.Data)}},
		Materials: []*Material{{
			PBRMetallicRoughness: &PBRMetallicRoughness{
				BaseColorTexture: &TextureInfo{Index: 0},
				MetallicFactor:   Float(opts.MetallicFactor),
				RoughnessFactor:  Float(opts.RoughnessFactor),
			},
			DoubleSided: opts.DoubleSided,
		}},
		Textures: []*Texture{{
			Sampler: Index(0),
			Source:  Index(0),
		}},
		Samplers: []*Sampler{{
			MagFilter: MagLinear,
			MinFilter: MinLinearMipmapLinear,
			WrapS:     WrapClampToEdge,
			WrapT:     WrapClampToEdge,
		}},
		Images: []*Image{{
			BufferView: Index(len(views) - 1),
			MIMEType:   mimeType,
		}},
	}

	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return doc, nil
}
