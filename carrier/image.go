package carrier

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"steganography/models"
)

const nrgbaChannels = 4

// decodeImage accepts anything the image registry knows (PNG, BMP, TIFF, GIF,
// JPEG) and normalises it to 8-bit NRGBA so every format shares one slot
// layout.
func decodeImage(r io.Reader) (*Carrier, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	nrgba := toNRGBA(img)
	bounds := nrgba.Bounds()
	return &Carrier{
		Kind:   KindImage,
		Format: format,
		Buffer: &models.PixelBuffer{
			Width:    bounds.Dx(),
			Height:   bounds.Dy(),
			Channels: nrgbaChannels,
			HasAlpha: true,
			Pix:      nrgba.Pix,
		},
	}, nil
}

func toNRGBA(img image.Image) *image.NRGBA {
	bounds := img.Bounds()
	if src, ok := img.(*image.NRGBA); ok && bounds.Min == (image.Point{}) && src.Stride == bounds.Dx()*nrgbaChannels {
		return src
	}

	dst := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			dst.Set(x-bounds.Min.X, y-bounds.Min.Y, img.At(x, y))
		}
	}
	return dst
}

func (c *Carrier) image() *image.NRGBA {
	b := c.Buffer
	return &image.NRGBA{
		Pix:    b.Pix,
		Stride: b.Width * nrgbaChannels,
		Rect:   image.Rect(0, 0, b.Width, b.Height),
	}
}

func (c *Carrier) encodeImage(w io.Writer, format string) error {
	if c.Buffer.Channels != nrgbaChannels || !c.Buffer.HasAlpha {
		return fmt.Errorf("image buffer must be RGBA, got %d channels", c.Buffer.Channels)
	}

	img := c.image()
	switch format {
	case FormatPNG:
		return png.Encode(w, img)
	case FormatBMP:
		return bmp.Encode(w, img)
	case FormatTIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}
