package glb

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Document is the JSON asset descriptor stored in the first GLB chunk.
// Field order matches the order properties are emitted.
type Document struct {
	Asset       Asset         `json:"asset"`
	Scene       *int          `json:"scene,omitempty"`
	Scenes      []*Scene      `json:"scenes,omitempty"`
	Nodes       []*Node       `json:"nodes,omitempty"`
	Meshes      []*Mesh       `json:"meshes,omitempty"`
	Accessors   []*Accessor   `json:"accessors,omitempty"`
	BufferViews []*BufferView `json:"bufferViews,omitempty"`
	Buffers     []*Buffer     `json:"buffers,omitempty"`
	Materials   []*Material   `json:"materials,omitempty"`
	Textures    []*Texture    `json:"textures,omitempty"`
	Samplers    []*Sampler    `json:"samplers,omitempty"`
	Images      []*Image      `json:"images,omitempty"`
}

// Asset holds metadata about the glTF asset.
type Asset struct {
	Version   string `json:"version"`
	Generator string `json:"generator,omitempty"`
}

// Scene lists the root nodes of a scene.
type Scene struct {
	Nodes []int `json:"nodes"`
}

// Node places a mesh in the scene.
type Node struct {
	Mesh *int   `json:"mesh,omitempty"`
	Name string `json:"name,omitempty"`
}

// Mesh is a set of primitives drawn together.
type Mesh struct {
	Name       string       `json:"name,omitempty"`
	Primitives []*Primitive `json:"primitives"`
}

// Primitive is one indexed draw call.
type Primitive struct {
	Attributes map[Semantic]int `json:"attributes"`
	Indices    *int             `json:"indices,omitempty"`
	Material   *int             `json:"material,omitempty"`
}

// Accessor is a typed view into a buffer view.
type Accessor struct {
	BufferView    *int          `json:"bufferView,omitempty"`
	ByteOffset    int           `json:"byteOffset,omitempty"`
	ComponentType ComponentType `json:"componentType"`
	Count         int           `json:"count"`
	Type          AccessorType  `json:"type"`
	Min           []float32     `json:"min,omitempty"`
	Max           []float32     `json:"max,omitempty"`
}

// ElementSize returns the byte size of one element.
func (a *Accessor) ElementSize() int {
	return a.ComponentType.Size() * a.Type.Components()
}

// ByteLength returns the number of bytes spanned by the accessor.
func (a *Accessor) ByteLength() int {
	return a.ElementSize() * a.Count
}

// BufferView is a byte range of a buffer.
type BufferView struct {
	Buffer     int    `json:"buffer"`
	ByteOffset int    `json:"byteOffset"`
	ByteLength int    `json:"byteLength"`
	Target     Target `json:"target,omitempty"`
}

// Buffer declares the binary payload. A buffer without URI refers to the GLB
// binary chunk.
type Buffer struct {
	ByteLength int `json:"byteLength"`
}

// Material describes surface shading.
type Material struct {
	Name                 string                `json:"name,omitempty"`
	PBRMetallicRoughness *PBRMetallicRoughness `json:"pbrMetallicRoughness,omitempty"`
	DoubleSided          bool                  `json:"doubleSided,omitempty"`
}

// PBRMetallicRoughness holds the metallic-roughness parameters.
type PBRMetallicRoughness struct {
	BaseColorTexture *TextureInfo `json:"baseColorTexture,omitempty"`
	MetallicFactor   *float32     `json:"metallicFactor,omitempty"`
	RoughnessFactor  *float32     `json:"roughnessFactor,omitempty"`
}

// TextureInfo references a texture.
type TextureInfo struct {
	Index int `json:"index"`
}

// Texture pairs an image with a sampler.
type Texture struct {
	Sampler *int `json:"sampler,omitempty"`
	Source  *int `json:"source,omitempty"`
}

// Sampler holds texture filtering and wrapping modes.
type Sampler struct {
	MagFilter MagFilter `json:"magFilter,omitempty"`
	MinFilter MinFilter `json:"minFilter,omitempty"`
	WrapS     WrapMode  `json:"wrapS,omitempty"`
	WrapT     WrapMode  `json:"wrapT,omitempty"`
}

// Image references encoded image bytes stored in a buffer view.
type Image struct {
	BufferView *int   `json:"bufferView,omitempty"`
	MIMEType   string `json:"mimeType,omitempty"`
}

// Index returns a pointer to i, for optional index fields.
func Index(i int) *int {
	return &i
}

// Float returns a pointer to f, for optional factor fields.
func Float(f float32) *float32 {
	return &f
}

// MarshalChunk serializes the document as compact JSON padded with spaces to
// a multiple of 4 bytes.
func (d *Document) MarshalChunk() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(d); err != nil {
		return nil, fmt.Errorf("encoding asset descriptor: %w", err)
	}

	// Encoder terminates with a newline; drop it so the chunk is canonical.
	data := bytes.TrimSuffix(buf.Bytes(), []byte{'\n'})
	for range padding(len(data)) {
		data = append(data, ' ')
	}
	return data, nil
}
