package glb

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	gomath "math"
)

// Container errors.
var (
	ErrUnalignedChunk = errors.New("chunk length is not a multiple of 4")
	ErrTooLarge       = errors.New("container exceeds 4 GiB")
	ErrLengthMismatch = errors.New("declared length does not match encoded length")
)

// Container is an encoded GLB file: the JSON chunk and the binary chunk.
// It is built once and never modified.
type Container struct {
	json []byte
	bin  []byte
}

// NewContainer serializes doc and pairs it with the packed binary chunk.
func NewContainer(doc *Document, bin []byte) (*Container, error) {
	jsonChunk, err := doc.MarshalChunk()
	if err != nil {
		return nil, err
	}
	if len(jsonChunk)%Alignment != 0 {
		return nil, fmt.Errorf("%w: JSON chunk is %d bytes", ErrUnalignedChunk, len(jsonChunk))
	}
	if len(bin)%Alignment != 0 {
		return nil, fmt.Errorf("%w: BIN chunk is %d bytes", ErrUnalignedChunk, len(bin))
	}

	c := &Container{json: jsonChunk, bin: bin}
	if uint64(c.Len()) > gomath.MaxUint32 {
		return nil, fmt.Errorf("%w: %d bytes", ErrTooLarge, c.Len())
	}
	return c, nil
}

// Len returns the total file length declared in the header.
func (c *Container) Len() int {
	return HeaderLength + ChunkHeaderLength + len(c.json) + ChunkHeaderLength + len(c.bin)
}

// JSONChunk returns the padded JSON chunk data.
func (c *Container) JSONChunk() []byte {
	return c.json
}

// BINChunk returns the padded binary chunk data.
func (c *Container) BINChunk() []byte {
	return c.bin
}

// Bytes encodes the full file. The result's length always equals Len; any
// other outcome is reported as ErrLengthMismatch.
func (c *Container) Bytes() ([]byte, error) {
	total := c.Len()
	buf := bytes.NewBuffer(make([]byte, 0, total))

	var word [4]byte
	put := func(v uint32) {
		binary.LittleEndian.PutUint32(word[:], v)
		buf.Write(word[:])
	}

	// Header
	put(Magic)
	put(Version)
	put(uint32(total))

	// JSON chunk
	put(uint32(len(c.json)))
	put(ChunkJSON)
	buf.Write(c.json)

	// Binary chunk
	put(uint32(len(c.bin)))
	put(ChunkBIN)
	buf.Write(c.bin)

	if buf.Len() != total {
		return nil, fmt.Errorf("%w: header says %d, encoded %d", ErrLengthMismatch, total, buf.Len())
	}
	return buf.Bytes(), nil
}

// WriteTo writes the encoded file to w in a single call.
func (c *Container) WriteTo(w io.Writer) (int64, error) {
	data, err := c.Bytes()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(data)
	if err != nil {
		return int64(n), err
	}
	if n != len(data) {
		return int64(n), io.ErrShortWrite
	}
	return int64(n), nil
}

// Encode builds the container for doc and bin and returns the file bytes.
func Encode(doc *Document, bin []byte) ([]byte, error) {
	c, err := NewContainer(doc, bin)
	if err != nil {
		return nil, err
	}
	return c.Bytes()
}
