// Package glb encodes and decodes binary glTF 2.0 containers holding a
// single textured mesh.
package glb

import "fmt"

// Container framing.
const (
	Magic             uint32 = 0x46546C67 // "glTF"
	Version           uint32 = 2
	ChunkJSON         uint32 = 0x4E4F534A // "JSON"
	ChunkBIN          uint32 = 0x004E4942 // "BIN\0"
	HeaderLength             = 12
	ChunkHeaderLength        = 8
	Alignment                = 4

	// AssetVersion is the glTF version declared in the asset descriptor.
	AssetVersion = "2.0"

	// MIMETypeJPEG is the media type of re-encoded textures.
	MIMETypeJPEG = "image/jpeg"
	// MIMETypePNG is accepted for embedded images.
	MIMETypePNG = "image/png"
)

// ComponentType is the GL scalar type of accessor elements.
type ComponentType int

// Component types.
const (
	ComponentUnsignedByte  ComponentType = 5121
	ComponentUnsignedShort ComponentType = 5123
	ComponentUnsignedInt   ComponentType = 5125
	ComponentFloat         ComponentType = 5126
)

// Size returns the byte width of one component.
func (c ComponentType) Size() int {
	switch c {
	case ComponentUnsignedByte:
		return 1
	case ComponentUnsignedShort:
		return 2
	case ComponentUnsignedInt, ComponentFloat:
		return 4
	default:
		return 0
	}
}

// IsUnsignedInteger reports whether the type may be used for indices.
func (c ComponentType) IsUnsignedInteger() bool {
	return c == ComponentUnsignedByte || c == ComponentUnsignedShort || c == ComponentUnsignedInt
}

// String returns the GL name of the component type.
func (c ComponentType) String() string {
	switch c {
	case ComponentUnsignedByte:
		return "UNSIGNED_BYTE"
	case ComponentUnsignedShort:
		return "UNSIGNED_SHORT"
	case ComponentUnsignedInt:
		return "UNSIGNED_INT"
	case ComponentFloat:
		return "FLOAT"
	default:
		return fmt.Sprintf("Unknown(%d)", int(c))
	}
}

// AccessorType is the element shape of an accessor.
type AccessorType string

// Accessor types.
const (
	AccessorScalar AccessorType = "SCALAR"
	AccessorVec2   AccessorType = "VEC2"
	AccessorVec3   AccessorType = "VEC3"
	AccessorVec4   AccessorType = "VEC4"
)

// Components returns the number of components per element.
func (a AccessorType) Components() int {
	switch a {
	case AccessorScalar:
		return 1
	case AccessorVec2:
		return 2
	case AccessorVec3:
		return 3
	case AccessorVec4:
		return 4
	default:
		return 0
	}
}

// Semantic names a primitive vertex attribute.
type Semantic string

// Attribute semantics.
const (
	SemanticPosition  Semantic = "POSITION"
	SemanticNormal    Semantic = "NORMAL"
	SemanticTexCoord0 Semantic = "TEXCOORD_0"
)

// Target is the GPU buffer binding hint of a buffer view.
type Target int

// Buffer view targets.
const (
	TargetNone               Target = 0
	TargetArrayBuffer        Target = 34962
	TargetElementArrayBuffer Target = 34963
)

// MagFilter is a texture magnification filter.
type MagFilter int

// MinFilter is a texture minification filter.
type MinFilter int

// WrapMode is a texture coordinate wrapping mode.
type WrapMode int

// Sampler constants.
const (
	MagNearest MagFilter = 9728
	MagLinear  MagFilter = 9729

	MinNearest              MinFilter = 9728
	MinLinear               MinFilter = 9729
	MinLinearMipmapLinear   MinFilter = 9987
	MinNearestMipmapNearest MinFilter = 9984

	WrapRepeat         WrapMode = 10497
	WrapClampToEdge    WrapMode = 33071
	WrapMirroredRepeat WrapMode = 33648
)

// padding returns the number of bytes needed to reach the next multiple of
// Alignment.
func padding(n int) int {
	return (Alignment - n%Alignment) % Alignment
}
