package glb

import (
	"errors"
	"fmt"
)

// Descriptor errors.
var (
	ErrInvalidReference = errors.New("unresolved index reference")
	ErrInvalidAccessor  = errors.New("invalid accessor")
	ErrMissingBounds    = errors.New("POSITION accessor must declare min and max")
	ErrInvalidDocument  = errors.New("invalid asset descriptor")
)

// Validate checks that every index in the document resolves and that each
// accessor fits the buffer view it reads from.
func (d *Document) Validate() error {
	if d.Asset.Version != AssetVersion {
		return fmt.Errorf("%w: asset version %q", ErrInvalidDocument, d.Asset.Version)
	}
	if d.Scene != nil && !inRange(*d.Scene, len(d.Scenes)) {
		return fmt.Errorf("%w: scene %d", ErrInvalidReference, *d.Scene)
	}
	for i, s := range d.Scenes {
		for _, n := range s.Nodes {
			if !inRange(n, len(d.Nodes)) {
				return fmt.Errorf("%w: scenes[%d] node %d", ErrInvalidReference, i, n)
			}
		}
	}
	for i, n := range d.Nodes {
		if n.Mesh != nil && !inRange(*n.Mesh, len(d.Meshes)) {
			return fmt.Errorf("%w: nodes[%d] mesh %d", ErrInvalidReference, i, *n.Mesh)
		}
	}

	for i, bv := range d.BufferViews {
		if !inRange(bv.Buffer, len(d.Buffers)) {
			return fmt.Errorf("%w: bufferViews[%d] buffer %d", ErrInvalidReference, i, bv.Buffer)
		}
		if bv.ByteOffset < 0 || bv.ByteLength <= 0 || bv.ByteOffset+bv.ByteLength > d.Buffers[bv.Buffer].ByteLength {
			return fmt.Errorf("%w: bufferViews[%d] range [%d,+%d) outside buffer of %d bytes",
				ErrInvalidReference, i, bv.ByteOffset, bv.ByteLength, d.Buffers[bv.Buffer].ByteLength)
		}
	}

	for i, a := range d.Accessors {
		if err := d.validateAccessor(a); err != nil {
			return fmt.Errorf("accessors[%d]: %w", i, err)
		}
	}

	for i, m := range d.Meshes {
		for j, p := range m.Primitives {
			if err := d.validatePrimitive(p); err != nil {
				return fmt.Errorf("meshes[%d].primitives[%d]: %w", i, j, err)
			}
		}
	}

	for i, m := range d.Materials {
		if m.PBRMetallicRoughness == nil || m.PBRMetallicRoughness.BaseColorTexture == nil {
			continue
		}
		if idx := m.PBRMetallicRoughness.BaseColorTexture.Index; !inRange(idx, len(d.Textures)) {
			return fmt.Errorf("%w: materials[%d] baseColorTexture %d", ErrInvalidReference, i, idx)
		}
	}
	for i, t := range d.Textures {
		if t.Sampler != nil && !inRange(*t.Sampler, len(d.Samplers)) {
			return fmt.Errorf("%w: textures[%d] sampler %d", ErrInvalidReference, i, *t.Sampler)
		}
		if t.Source != nil && !inRange(*t.Source, len(d.Images)) {
			return fmt.Errorf("%w: textures[%d] source %d", ErrInvalidReference, i, *t.Source)
		}
	}
	for i, img := range d.Images {
		if img.BufferView == nil || !inRange(*img.BufferView, len(d.BufferViews)) {
			return fmt.Errorf("%w: images[%d] bufferView", ErrInvalidReference, i)
		}
		if img.MIMEType != MIMETypeJPEG && img.MIMEType != MIMETypePNG {
			return fmt.Errorf("%w: images[%d] mimeType %q", ErrInvalidDocument, i, img.MIMEType)
		}
	}

	return nil
}

func (d *Document) validateAccessor(a *Accessor) error {
	if a.ComponentType.Size() == 0 {
		return fmt.Errorf("%w: component type %s", ErrInvalidAccessor, a.ComponentType)
	}
	if a.Type.Components() == 0 {
		return fmt.Errorf("%w: type %q", ErrInvalidAccessor, a.Type)
	}
	if a.Count <= 0 {
		return fmt.Errorf("%w: count %d", ErrInvalidAccessor, a.Count)
	}
	if a.BufferView == nil {
		return nil
	}
	if !inRange(*a.BufferView, len(d.BufferViews)) {
		return fmt.Errorf("%w: bufferView %d", ErrInvalidReference, *a.BufferView)
	}

	bv := d.BufferViews[*a.BufferView]
	if (bv.ByteOffset+a.ByteOffset)%a.ComponentType.Size() != 0 {
		return fmt.Errorf("%w: offset %d not aligned to %s", ErrInvalidAccessor, bv.ByteOffset+a.ByteOffset, a.ComponentType)
	}
	if a.ByteOffset+a.ByteLength() > bv.ByteLength {
		return fmt.Errorf("%w: %d bytes exceed bufferView length %d", ErrInvalidAccessor, a.ByteOffset+a.ByteLength(), bv.ByteLength)
	}
	if n := a.Type.Components(); (a.Min != nil && len(a.Min) != n) || (a.Max != nil && len(a.Max) != n) {
		return fmt.Errorf("%w: min/max must have %d components", ErrInvalidAccessor, n)
	}
	return nil
}

func (d *Document) validatePrimitive(p *Primitive) error {
	for sem, idx := range p.Attributes {
		if !inRange(idx, len(d.Accessors)) {
			return fmt.Errorf("%w: attribute %s accessor %d", ErrInvalidReference, sem, idx)
		}
		a := d.Accessors[idx]
		want, ok := semanticTypes[sem]
		if !ok {
			return fmt.Errorf("%w: unsupported attribute %s", ErrInvalidAccessor, sem)
		}
		if a.Type != want || a.ComponentType != ComponentFloat {
			return fmt.Errorf("%w: attribute %s must be %s %s, got %s %s",
				ErrInvalidAccessor, sem, want, ComponentFloat, a.Type, a.ComponentType)
		}
		if sem == SemanticPosition && (len(a.Min) == 0 || len(a.Max) == 0) {
			return ErrMissingBounds
		}
	}
	if _, ok := p.Attributes[SemanticPosition]; !ok {
		return fmt.Errorf("%w: primitive has no POSITION attribute", ErrInvalidAccessor)
	}

	if p.Indices != nil {
		if !inRange(*p.Indices, len(d.Accessors)) {
			return fmt.Errorf("%w: indices accessor %d", ErrInvalidReference, *p.Indices)
		}
		a := d.Accessors[*p.Indices]
		if a.Type != AccessorScalar || !a.ComponentType.IsUnsignedInteger() {
			return fmt.Errorf("%w: indices must be unsigned SCALAR, got %s %s", ErrInvalidAccessor, a.Type, a.ComponentType)
		}
		if a.Count%3 != 0 {
			return fmt.Errorf("%w: index count %d is not a triangle list", ErrInvalidAccessor, a.Count)
		}
	}
	if p.Material != nil && !inRange(*p.Material, len(d.Materials)) {
		return fmt.Errorf("%w: material %d", ErrInvalidReference, *p.Material)
	}
	return nil
}

// semanticTypes lists the element shape each supported attribute must use.
var semanticTypes = map[Semantic]AccessorType{
	SemanticPosition:  AccessorVec3,
	SemanticNormal:    AccessorVec3,
	SemanticTexCoord0: AccessorVec2,
}

func inRange(i, n int) bool {
	return i >= 0 && i < n
}
