// Package carrier decodes lossless carrier files into pixel buffers and
// writes modified buffers back without loss.
package carrier

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/audio"

	"steganography/models"
	"steganography/stego"
)

var (
	ErrDecode            = errors.New("failed to decode carrier")
	ErrEncode            = errors.New("failed to encode carrier")
	ErrUnsupportedFormat = errors.New("unsupported carrier format")
)

type Kind int

const (
	KindImage Kind = iota
	KindAudio
)

func (k Kind) String() string {
	switch k {
	case KindImage:
		return "image"
	case KindAudio:
		return "audio"
	default:
		return "unknown"
	}
}

const (
	FormatPNG  = "png"
	FormatBMP  = "bmp"
	FormatTIFF = "tiff"
	FormatWAV  = "wav"
)

// Carrier is a decoded file whose Buffer is the only part steganography
// touches. Audio carriers keep the original PCM samples so the bytes outside
// Buffer survive an encode.
type Carrier struct {
	Kind   Kind
	Format string
	Buffer *models.PixelBuffer

	pcm *audio.IntBuffer
	wav wavParams
}

// Info summarises the carrier geometry and its capacity.
func (c *Carrier) Info() *models.CarrierInfo {
	return &models.CarrierInfo{
		Format:           c.Format,
		Width:            c.Buffer.Width,
		Height:           c.Buffer.Height,
		Channels:         c.Buffer.Channels,
		EligibleChannels: stego.EligibleChannels(c.Buffer),
		Slots:            stego.SlotCount(c.Buffer),
		CapacityBytes:    stego.Capacity(c.Buffer),
	}
}

func DecodeFile(path string) (*Carrier, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := DecodeBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

func Decode(r io.Reader) (*Carrier, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return DecodeBytes(data)
}

func DecodeBytes(data []byte) (*Carrier, error) {
	switch {
	case isWAV(data):
		return decodeWAV(bytes.NewReader(data))
	case isMP3(data):
		return decodeMP3(data)
	default:
		return decodeImage(bytes.NewReader(data))
	}
}

// FormatFromPath picks the output format from a destination file extension.
func FormatFromPath(path string) (string, error) {
	return ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
}

func ParseFormat(name string) (string, error) {
	switch strings.ToLower(name) {
	case "png":
		return FormatPNG, nil
	case "bmp":
		return FormatBMP, nil
	case "tif", "tiff":
		return FormatTIFF, nil
	case "wav", "wave":
		return FormatWAV, nil
	case "":
		return "", fmt.Errorf("%w: missing file extension", ErrUnsupportedFormat)
	default:
		return "", fmt.Errorf("%w: %q is not a lossless output format", ErrUnsupportedFormat, name)
	}
}

func formatKind(format string) Kind {
	if format == FormatWAV {
		return KindAudio
	}
	return KindImage
}

// CheckTarget reports whether the carrier can be written as format.
func (c *Carrier) CheckTarget(format string) error {
	if _, err := ParseFormat(format); err != nil {
		return err
	}
	if k := formatKind(format); k != c.Kind {
		return fmt.Errorf("%w: cannot write %s carrier as %s", ErrUnsupportedFormat, c.Kind, format)
	}
	// BMP output carries no alpha channel.
	if format == FormatBMP && !c.image().Opaque() {
		return fmt.Errorf("%w: bmp cannot hold the transparency of this image; use png or tiff", ErrUnsupportedFormat)
	}
	return nil
}

// DefaultFormat is the output format used when the caller does not pick one.
func (c *Carrier) DefaultFormat() string {
	if c.Kind == KindAudio {
		return FormatWAV
	}
	return FormatPNG
}

// Encode writes the carrier, including any changes made to Buffer, as format.
func (c *Carrier) Encode(w io.WriteSeeker, format string) error {
	if err := c.CheckTarget(format); err != nil {
		return err
	}
	if err := c.Buffer.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrEncode, err)
	}

	var err error
	switch c.Kind {
	case KindAudio:
		err = c.encodeWAV(w)
	default:
		err = c.encodeImage(w, format)
	}
	if err != nil {
		return fmt.Errorf("%w as %s: %v", ErrEncode, format, err)
	}
	return nil
}
