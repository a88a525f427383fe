// Package imageprep turns source artwork into the texture embedded in a GLB:
// decoded, flattened to opaque RGB, bounded in size, and re-encoded as JPEG.
package imageprep

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/anthonynsimon/bild/imgio"
	_ "golang.org/x/image/bmp"  // register BMP decoder
	_ "golang.org/x/image/tiff" // register TIFF decoder
	_ "golang.org/x/image/webp" // register WebP decoder
)

// Image preparation errors.
var (
	ErrSourceNotFound = errors.New("source image not found")
	ErrImageDecode    = errors.New("cannot decode source image")
	ErrImageEncode    = errors.New("cannot encode texture")
	ErrInvalidOptions = errors.New("invalid image options")
)

// MIMEType is the media type of every prepared texture.
const MIMEType = "image/jpeg"

// MaxSourcePixels caps the declared size of a source image. Larger images are
// rejected from their header before any pixel memory is allocated.
const MaxSourcePixels = 100_000_000

// Options controls texture preparation.
type Options struct {
	MaxEdge int    // longest allowed edge in pixels
	Quality int    // JPEG quality, 1-100
	Filter  Filter // resampling filter used when downscaling
}

// DefaultOptions returns the settings used for mobile AR viewing.
func DefaultOptions() Options {
	return Options{
		MaxEdge: 1024,
		Quality: 85,
		Filter:  FilterLanczos,
	}
}

// Validate checks option ranges.
func (o Options) Validate() error {
	if o.MaxEdge <= 0 {
		return fmt.Errorf("%w: max edge %d", ErrInvalidOptions, o.MaxEdge)
	}
	if o.Quality < 1 || o.Quality > 100 {
		return fmt.Errorf("%w: quality %d", ErrInvalidOptions, o.Quality)
	}
	if _, err := ParseFilter(string(o.Filter)); err != nil {
		return err
	}
	return nil
}

// Payload is a prepared texture.
type Payload struct {
	Data         []byte
	MIMEType     string
	Width        int
	Height       int
	SourceWidth  int
	SourceHeight int
	SourceFormat string
}

// Prepare decodes data, downscales it to fit opts.MaxEdge, discards alpha and
// encodes a JPEG. name is only used to pick decoders that have no magic
// number (TGA).
func Prepare(data []byte, name string, opts Options) (*Payload, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	src, format, err := decode(data, name)
	if err != nil {
		return nil, err
	}

	b := src.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("%w: empty %dx%d image", ErrImageDecode, b.Dx(), b.Dy())
	}

	img := ToOpaqueRGBA(src)
	if w, h, ok := FitSize(b.Dx(), b.Dy(), opts.MaxEdge); ok {
		img = Resize(img, w, h, opts.Filter)
	}

	var buf bytes.Buffer
	if err := imgio.JPEGEncoder(opts.Quality)(&buf, img); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageEncode, err)
	}

	return &Payload{
		Data:         buf.Bytes(),
		MIMEType:     MIMEType,
		Width:        img.Bounds().Dx(),
		Height:       img.Bounds().Dy(),
		SourceWidth:  b.Dx(),
		SourceHeight: b.Dy(),
		SourceFormat: format,
	}, nil
}

// PrepareFile reads and prepares the image at path.
func PrepareFile(path string, opts Options) (*Payload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, path)
		}
		return nil, fmt.Errorf("reading source %s: %w", path, err)
	}
	return Prepare(data, path, opts)
}

func decode(data []byte, name string) (image.Image, string, error) {
	if len(data) == 0 {
		return nil, "", fmt.Errorf("%w: empty input", ErrImageDecode)
	}

	if strings.EqualFold(filepath.Ext(name), ".tga") {
		cfg, err := DecodeTGAConfig(data)
		if err != nil {
			return nil, "", fmt.Errorf("%w: %v", ErrImageDecode, err)
		}
		if err := checkPixels(cfg); err != nil {
			return nil, "", err
		}
		img, err := DecodeTGA(data)
		if err != nil {
			return nil, "", fmt.Errorf("%w: %v", ErrImageDecode, err)
		}
		return img, "tga", nil
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrImageDecode, err)
	}
	if err := checkPixels(cfg); err != nil {
		return nil, "", err
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrImageDecode, err)
	}
	return img, format, nil
}

func checkPixels(cfg image.Config) error {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return fmt.Errorf("%w: empty %dx%d image", ErrImageDecode, cfg.Width, cfg.Height)
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxSourcePixels {
		return fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrImageDecode, cfg.Width, cfg.Height, MaxSourcePixels)
	}
	return nil
}
