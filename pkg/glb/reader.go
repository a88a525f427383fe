package glb

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// Reader errors.
var (
	ErrInvalidMagic       = errors.New("invalid GLB magic: expected 'glTF'")
	ErrUnsupportedVersion = errors.New("unsupported GLB version")
	ErrTruncated          = errors.New("truncated GLB data")
	ErrInvalidChunk       = errors.New("invalid GLB chunk")
)

// Header is the 12-byte GLB file header.
type Header struct {
	Magic   uint32
	Version uint32
	Length  uint32
}

// File is a parsed GLB container.
type File struct {
	Header   Header
	JSON     []byte // padded JSON chunk data
	BIN      []byte // padded binary chunk data, nil when absent
	Document *Document
}

// Parse parses a GLB file from raw bytes.
func Parse(data []byte) (*File, error) {
	if len(data) < HeaderLength+ChunkHeaderLength {
		return nil, fmt.Errorf("%w: %d bytes", ErrTruncated, len(data))
	}

	h := Header{
		Magic:   binary.LittleEndian.Uint32(data[0:]),
		Version: binary.LittleEndian.Uint32(data[4:]),
		Length:  binary.LittleEndian.Uint32(data[8:]),
	}
	if h.Magic != Magic {
		return nil, ErrInvalidMagic
	}
	if h.Version != Version {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, h.Version)
	}
	if int(h.Length) != len(data) {
		return nil, fmt.Errorf("%w: header says %d, file has %d", ErrLengthMismatch, h.Length, len(data))
	}

	f := &File{Header: h}
	offset := HeaderLength
	for chunk := 0; offset < len(data); chunk++ {
		typ, payload, err := readChunk(data, offset)
		if err != nil {
			return nil, fmt.Errorf("chunk %d: %w", chunk, err)
		}
		offset += ChunkHeaderLength + len(payload)

		switch {
		case chunk == 0 && typ == ChunkJSON:
			f.JSON = payload
		case chunk == 0:
			return nil, fmt.Errorf("%w: first chunk type 0x%08X, expected JSON", ErrInvalidChunk, typ)
		case chunk == 1 && typ == ChunkBIN:
			f.BIN = payload
		case typ == ChunkJSON || typ == ChunkBIN:
			return nil, fmt.Errorf("%w: duplicate chunk type 0x%08X", ErrInvalidChunk, typ)
		}
		// Unknown chunk types are skipped.
	}

	var doc Document
	if err := json.Unmarshal(f.JSON, &doc); err != nil {
		return nil, fmt.Errorf("%w: decoding JSON: %v", ErrInvalidChunk, err)
	}
	f.Document = &doc

	return f, nil
}

func readChunk(data []byte, offset int) (uint32, []byte, error) {
	if offset+ChunkHeaderLength > len(data) {
		return 0, nil, fmt.Errorf("%w: chunk header at %d", ErrTruncated, offset)
	}
	length := int(binary.LittleEndian.Uint32(data[offset:]))
	typ := binary.LittleEndian.Uint32(data[offset+4:])
	if length%Alignment != 0 {
		return 0, nil, fmt.Errorf("%w: length %d", ErrUnalignedChunk, length)
	}
	start := offset + ChunkHeaderLength
	if length > len(data)-start {
		return 0, nil, fmt.Errorf("%w: chunk of %d bytes at %d", ErrTruncated, length, start)
	}
	return typ, data[start : start+length], nil
}

// ParseFile parses a GLB file from disk.
func ParseFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading GLB file: %w", err)
	}
	return Parse(data)
}

// ViewBytes returns the bytes of buffer view i from the binary chunk.
func (f *File) ViewBytes(i int) ([]byte, error) {
	if f.Document == nil || !inRange(i, len(f.Document.BufferViews)) {
		return nil, fmt.Errorf("%w: bufferView %d", ErrInvalidReference, i)
	}
	bv := f.Document.BufferViews[i]
	if bv.ByteOffset < 0 || bv.ByteLength < 0 || bv.ByteOffset+bv.ByteLength > len(f.BIN) {
		return nil, fmt.Errorf("%w: bufferView %d outside binary chunk", ErrTruncated, i)
	}
	return f.BIN[bv.ByteOffset : bv.ByteOffset+bv.ByteLength], nil
}

// Indices decodes the uint16 index list of the first primitive.
func (f *File) Indices() ([]uint16, error) {
	doc := f.Document
	if doc == nil || len(doc.Meshes) == 0 || len(doc.Meshes[0].Primitives) == 0 {
		return nil, fmt.Errorf("%w: no primitive", ErrInvalidDocument)
	}
	p := doc.Meshes[0].Primitives[0]
	if p.Indices == nil || !inRange(*p.Indices, len(doc.Accessors)) {
		return nil, fmt.Errorf("%w: primitive has no indices", ErrInvalidReference)
	}
	a := doc.Accessors[*p.Indices]
	if a.ComponentType != ComponentUnsignedShort || a.BufferView == nil {
		return nil, fmt.Errorf("%w: indices are %s", ErrInvalidAccessor, a.ComponentType)
	}
	raw, err := f.ViewBytes(*a.BufferView)
	if err != nil {
		return nil, err
	}
	if a.ByteOffset < 0 || a.ByteOffset+a.Count*indexSize > len(raw) {
		return nil, fmt.Errorf("%w: index data", ErrTruncated)
	}
	raw = raw[a.ByteOffset:]

	out := make([]uint16, a.Count)
	for i := range out {
		out[i] = binary.LittleEndian.Uint16(raw[i*indexSize:])
	}
	return out, nil
}
