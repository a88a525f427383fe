package imageprep

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// TGA image type constants.
const (
	TGATypeUncompressed = 2  // Uncompressed true-color
	TGATypeRLE          = 10 // RLE compressed true-color
)

// ErrTruncatedTGA is returned when pixel data ends early.
var ErrTruncatedTGA = errors.New("TGA data truncated")

// DecodeTGAConfig returns the dimensions of a TGA image after checking its
// header, without decoding pixels.
func DecodeTGAConfig(data []byte) (image.Config, error) {
	if len(data) < 18 {
		return image.Config{}, ErrTruncatedTGA
	}

	colorMapType := data[1]
	imageType := int(data[2])
	width := int(data[12]) | int(data[13])<<8
	height := int(data[14]) | int(data[15])<<8
	bpp := int(data[16])

	if colorMapType != 0 {
		return image.Config{}, fmt.Errorf("color-mapped TGA not supported")
	}
	if imageType != TGATypeUncompressed && imageType != TGATypeRLE {
		return image.Config{}, fmt.Errorf("unsupported TGA type %d (only uncompressed/RLE true-color supported)", imageType)
	}
	if bpp != 24 && bpp != 32 {
		return image.Config{}, fmt.Errorf("unsupported TGA bit depth %d (only 24/32 supported)", bpp)
	}
	if width == 0 || height == 0 {
		return image.Config{}, fmt.Errorf("invalid TGA dimensions %dx%d", width, height)
	}
	return image.Config{ColorModel: color.NRGBAModel, Width: width, Height: height}, nil
}

// DecodeTGA decodes an uncompressed (type 2) or RLE (type 10) true-color TGA
// image with 24 or 32 bits per pixel. TGA has no magic number, so callers
// select it by file extension.
func DecodeTGA(data []byte) (image.Image, error) {
	cfg, err := DecodeTGAConfig(data)
	if err != nil {
		return nil, err
	}
	idLength := int(data[0])
	imageType := int(data[2])
	width, height := cfg.Width, cfg.Height
	bpp := int(data[16])
	descriptor := data[17]

	offset := 18 + idLength
	if offset > len(data) {
		return nil, ErrTruncatedTGA
	}

	d := tgaDecoder{
		img:         image.NewNRGBA(image.Rect(0, 0, width, height)),
		pixels:      data[offset:],
		bpp:         bpp / 8,
		topToBottom: descriptor&0x20 != 0,
	}

	if imageType == TGATypeUncompressed {
		err = d.decodeRaw()
	} else {
		err = d.decodeRLE()
	}
	if err != nil {
		return nil, err
	}
	return d.img, nil
}

type tgaDecoder struct {
	img         *image.NRGBA
	pixels      []byte
	pos         int
	bpp         int
	topToBottom bool
}

// next reads one BGR(A) pixel.
func (d *tgaDecoder) next() (color.NRGBA, error) {
	if d.pos+d.bpp > len(d.pixels) {
		return color.NRGBA{}, ErrTruncatedTGA
	}
	p := d.pixels[d.pos:]
	c := color.NRGBA{R: p[2], G: p[1], B: p[0], A: 0xFF}
	if d.bpp == 4 {
		c.A = p[3]
	}
	d.pos += d.bpp
	return c, nil
}

// set stores pixel i in file order, flipping bottom-up images.
func (d *tgaDecoder) set(i int, c color.NRGBA) {
	w, h := d.img.Rect.Dx(), d.img.Rect.Dy()
	x, y := i%w, i/w
	if !d.topToBottom {
		y = h - 1 - y
	}
	d.img.SetNRGBA(x, y, c)
}

func (d *tgaDecoder) decodeRaw() error {
	count := d.img.Rect.Dx() * d.img.Rect.Dy()
	for i := 0; i < count; i++ {
		c, err := d.next()
		if err != nil {
			return err
		}
		d.set(i, c)
	}
	return nil
}

func (d *tgaDecoder) decodeRLE() error {
	count := d.img.Rect.Dx() * d.img.Rect.Dy()
	for i := 0; i < count; {
		if d.pos >= len(d.pixels) {
			return ErrTruncatedTGA
		}
		packet := d.pixels[d.pos]
		d.pos++
		run := int(packet&0x7F) + 1

		if packet&0x80 != 0 {
			// RLE packet - repeat single pixel
			c, err := d.next()
			if err != nil {
				return err
			}
			for ; run > 0 && i < count; run-- {
				d.set(i, c)
				i++
			}
			continue
		}

		// Raw packet - read run pixels
		for ; run > 0 && i < count; run-- {
			c, err := d.next()
			if err != nil {
				return err
			}
			d.set(i, c)
			i++
		}
	}
	return nil
}
