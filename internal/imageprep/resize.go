package imageprep

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/anthonynsimon/bild/transform"
	xdraw "golang.org/x/image/draw"
)

// Filter selects the resampling kernel used for downscaling.
type Filter string

// Supported filters.
const (
	FilterCatmullRom Filter = "catmullrom"
	FilterLanczos    Filter = "lanczos"
)

// ParseFilter parses a filter name. An empty name selects Lanczos.
func ParseFilter(s string) (Filter, error) {
	switch Filter(strings.ToLower(strings.TrimSpace(s))) {
	case "", FilterLanczos:
		return FilterLanczos, nil
	case FilterCatmullRom:
		return FilterCatmullRom, nil
	default:
		return "", fmt.Errorf("%w: unknown filter %q", ErrInvalidOptions, s)
	}
}

// FitSize returns the size of a w x h image scaled so its longest edge is
// maxEdge, preserving aspect ratio with the shorter edge rounded down.
// ok is false when the image already fits.
func FitSize(w, h, maxEdge int) (nw, nh int, ok bool) {
	if w <= maxEdge && h <= maxEdge {
		return w, h, false
	}
	if w >= h {
		return maxEdge, max(1, h*maxEdge/w), true
	}
	return max(1, w*maxEdge/h), maxEdge, true
}

// Resize scales img to w x h with the given filter. Any filter other than
// Catmull-Rom uses Lanczos.
func Resize(img image.Image, w, h int, f Filter) *image.RGBA {
	if f == FilterCatmullRom {
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Src, nil)
		return dst
	}
	return transform.Resize(img, w, h, transform.Lanczos)
}

// ToOpaqueRGBA converts any image to an opaque *image.RGBA anchored at the
// origin. Alpha is dropped without compositing: each pixel keeps its
// unpremultiplied color and becomes fully opaque.
func ToOpaqueRGBA(img image.Image) *image.RGBA {
	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			i := rgba.PixOffset(x-bounds.Min.X, y-bounds.Min.Y)
			rgba.Pix[i] = c.R
			rgba.Pix[i+1] = c.G
			rgba.Pix[i+2] = c.B
			rgba.Pix[i+3] = 0xFF
		}
	}

	return rgba
}
