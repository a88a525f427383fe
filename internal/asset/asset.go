// Package asset turns one painting (source image plus physical size) into a
// GLB file on disk.
package asset

import (
	"errors"
	"fmt"

	"github.com/Faultbox/artglb/internal/imageprep"
	"github.com/Faultbox/artglb/pkg/glb"
	"github.com/Faultbox/artglb/pkg/mesh"
)

// Build errors. Source and decode errors are shared with imageprep and the
// length check with glb so errors.Is works across layers.
var (
	ErrSourceNotFound   = imageprep.ErrSourceNotFound
	ErrImageDecode      = imageprep.ErrImageDecode
	ErrLengthMismatch   = glb.ErrLengthMismatch
	ErrGeometry         = errors.New("invalid painting geometry")
	ErrDestinationWrite = errors.New("cannot write destination")
)

// Request describes one painting to convert.
type Request struct {
	Name        string // node name; empty keeps the configured default
	Source      string
	Destination string
	WidthCM     float64
	HeightCM    float64
}

// Options controls how assets are built.
type Options struct {
	Image    imageprep.Options
	Document glb.DocumentOptions
}

// DefaultOptions returns the default image and descriptor settings.
func DefaultOptions() Options {
	return Options{
		Image:    imageprep.DefaultOptions(),
		Document: glb.DefaultDocumentOptions(),
	}
}

// Result describes a written asset.
type Result struct {
	Name          string
	Source        string
	Destination   string
	Bytes         int64
	TextureWidth  int
	TextureHeight int
}

// Encode packs g and img into a complete GLB file. It performs no I/O.
func Encode(g *mesh.Geometry, img glb.ImageData, opts glb.DocumentOptions) ([]byte, error) {
	c, err := assemble(g, img, opts)
	if err != nil {
		return nil, err
	}
	return c.Bytes()
}

func assemble(g *mesh.Geometry, img glb.ImageData, opts glb.DocumentOptions) (*glb.Container, error) {
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGeometry, err)
	}

	buf, err := glb.PackBuffer(g, img)
	if err != nil {
		return nil, err
	}

	doc, err := glb.BuildDocument(buf, g, img.MIMEType, opts)
	if err != nil {
		return nil, err
	}

	return glb.NewContainer(doc, buf.Data)
}
