package glb

import (
	"encoding/binary"
	"errors"
	"fmt"
	gomath "math"

	"github.com/Faultbox/artglb/pkg/mesh"
)

// Buffer packing errors.
var (
	ErrEmptyImage     = errors.New("image payload is empty")
	ErrLayoutGap      = errors.New("buffer layout is not contiguous")
	ErrLayoutPadding  = errors.New("buffer layout padding is invalid")
	ErrGeometryLayout = errors.New("geometry cannot be packed")
)

// View names, in buffer order.
const (
	ViewPositions = "positions"
	ViewNormals   = "normals"
	ViewTexCoords = "texcoords"
	ViewIndices   = "indices"
	ViewImage     = "image"
)

// Byte widths of packed elements. Accessors declare ComponentFloat and
// ComponentUnsignedShort, which must agree with these.
const (
	floatSize = 4
	indexSize = 2
)

// ImageData is an encoded raster image embedded after the geometry.
type ImageData struct {
	Data     []byte
	MIMEType string
}

// View is one contiguous range of the packed buffer.
type View struct {
	Name       string
	ByteOffset int
	ByteLength int
	Target     Target
}

// End returns the offset one past the last byte of the view.
func (v View) End() int {
	return v.ByteOffset + v.ByteLength
}

// Layout lists the views of a packed buffer in order.
type Layout []View

// Validate checks that views start at zero, are contiguous, and that the
// buffer length only adds the trailing alignment pad.
func (l Layout) Validate(total int) error {
	offset := 0
	for i, v := range l {
		if v.ByteOffset != offset {
			return fmt.Errorf("%w: view %d (%s) starts at %d, expected %d", ErrLayoutGap, i, v.Name, v.ByteOffset, offset)
		}
		if v.ByteLength <= 0 {
			return fmt.Errorf("%w: view %d (%s) is empty", ErrLayoutGap, i, v.Name)
		}
		offset = v.End()
	}
	if total%Alignment != 0 || total-offset != padding(offset) {
		return fmt.Errorf("%w: content %d bytes, buffer %d bytes", ErrLayoutPadding, offset, total)
	}
	return nil
}

// PackedBuffer is the binary chunk payload and the layout of its views.
type PackedBuffer struct {
	Data   []byte
	Layout Layout
}

// PackBuffer serializes geometry as little-endian float32 attributes and
// uint16 indices, appends the image bytes, and zero-pads the result to a
// multiple of 4 bytes. Views are never reordered or interleaved.
func PackBuffer(g *mesh.Geometry, img ImageData) (*PackedBuffer, error) {
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGeometryLayout, err)
	}
	if len(img.Data) == 0 {
		return nil, ErrEmptyImage
	}

	n := g.VertexCount()
	sizes := []struct {
		name   string
		length int
		target Target
	}{
		{ViewPositions, n * 3 * floatSize, TargetArrayBuffer},
		{ViewNormals, n * 3 * floatSize, TargetArrayBuffer},
		{ViewTexCoords, n * 2 * floatSize, TargetArrayBuffer},
		{ViewIndices, len(g.Indices) * indexSize, TargetElementArrayBuffer},
		{ViewImage, len(img.Data), TargetNone},
	}

	layout := make(Layout, 0, len(sizes))
	offset := 0
	for _, s := range sizes {
		layout = append(layout, View{Name: s.name, ByteOffset: offset, ByteLength: s.length, Target: s.target})
		offset += s.length
	}

	data := make([]byte, 0, offset+padding(offset))
	for _, p := range g.Positions {
		a := p.Array()
		data = appendFloats(data, a[:]...)
	}
	for _, v := range g.Normals {
		a := v.Array()
		data = appendFloats(data, a[:]...)
	}
	for _, uv := range g.TexCoords {
		a := uv.Array()
		data = appendFloats(data, a[:]...)
	}
	for _, idx := range g.Indices {
		data = binary.LittleEndian.AppendUint16(data, idx)
	}
	data = append(data, img.Data...)
	data = append(data, make([]byte, padding(len(data)))...)

	if err := layout.Validate(len(data)); err != nil {
		return nil, err
	}
	return &PackedBuffer{Data: data, Layout: layout}, nil
}

// View returns the named view.
func (b *PackedBuffer) View(name string) (View, bool) {
	for _, v := range b.Layout {
		if v.Name == name {
			return v, true
		}
	}
	return View{}, false
}

func appendFloats(dst []byte, values ...float32) []byte {
	for _, f := range values {
		dst = binary.LittleEndian.AppendUint32(dst, gomath.Float32bits(f))
	}
	return dst
}
