package asset

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/artglb/internal/imageprep"
	"github.com/Faultbox/artglb/internal/logger"
	"github.com/Faultbox/artglb/pkg/glb"
	"github.com/Faultbox/artglb/pkg/mesh"
	"github.com/Faultbox/artglb/pkg/names"
)

// Builder runs the full pipeline for single requests. It holds no mutable
// state and is safe for concurrent use.
type Builder struct {
	opts Options
	log  *zap.Logger
}

// NewBuilder returns a Builder. A nil logger discards output.
func NewBuilder(opts Options, log *zap.Logger) *Builder {
	return &Builder{opts: opts, log: logger.OrNop(log)}
}

// Options returns the builder's settings.
func (b *Builder) Options() Options {
	return b.opts
}

// Build converts req into a GLB at req.Destination. Dimensions are checked
// before any file is read. On failure nothing is left at the destination and
// an existing file there is not modified.
func (b *Builder) Build(req Request) (*Result, error) {
	start := time.Now()

	g, err := mesh.QuadFromCentimeters(req.WidthCM, req.HeightCM)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGeometry, err)
	}
	if req.Destination == "" {
		return nil, fmt.Errorf("%w: empty path", ErrDestinationWrite)
	}

	tex, err := imageprep.PrepareFile(req.Source, b.opts.Image)
	if err != nil {
		return nil, err
	}
	b.log.Debug("texture prepared",
		zap.String("source", req.Source),
		zap.String("format", tex.SourceFormat),
		zap.Int("source_width", tex.SourceWidth),
		zap.Int("source_height", tex.SourceHeight),
		zap.Int("width", tex.Width),
		zap.Int("height", tex.Height),
		zap.Int("bytes", len(tex.Data)),
	)

	docOpts := b.opts.Document
	if name := names.Normalize(req.Name); name != "" {
		docOpts.NodeName = name
	}

	c, err := assemble(g, glb.ImageData{Data: tex.Data, MIMEType: tex.MIMEType}, docOpts)
	if err != nil {
		return nil, err
	}

	n, err := writeAtomic(req.Destination, c)
	if err != nil {
		return nil, err
	}

	b.log.Debug("asset encoded",
		zap.String("destination", req.Destination),
		zap.Int("json_bytes", len(c.JSONChunk())),
		zap.Int("bin_bytes", len(c.BINChunk())),
		zap.Duration("elapsed", time.Since(start)),
	)

	return &Result{
		Name:          docOpts.NodeName,
		Source:        req.Source,
		Destination:   req.Destination,
		Bytes:         n,
		TextureWidth:  tex.Width,
		TextureHeight: tex.Height,
	}, nil
}

// writeAtomic writes c to a temporary file next to path and renames it into
// place once the byte count matches the header.
func writeAtomic(path string, c *glb.Container) (int64, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrDestinationWrite, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrDestinationWrite, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	n, err := c.WriteTo(tmp)
	if err != nil {
		tmp.Close()
		return 0, fmt.Errorf("%w: %w", ErrDestinationWrite, err)
	}
	if n != int64(c.Len()) {
		tmp.Close()
		return 0, fmt.Errorf("%w: wrote %d of %d bytes", ErrLengthMismatch, n, c.Len())
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return 0, fmt.Errorf("%w: %w", ErrDestinationWrite, err)
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrDestinationWrite, err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrDestinationWrite, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrDestinationWrite, err)
	}
	return n, nil
}
