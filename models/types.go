// Package models contain needed models
package models

import "fmt"

// PixelBuffer is a rectangular grid of 8-bit channel samples stored row-major
// with the channels of each pixel interleaved in storage order. When HasAlpha
// is set, alpha is the last channel of every pixel.
type PixelBuffer struct {
	Width    int
	Height   int
	Channels int
	HasAlpha bool
	Pix      []byte
}

func NewPixelBuffer(width, height, channels int, hasAlpha bool) *PixelBuffer {
	return &PixelBuffer{
		Width:    width,
		Height:   height,
		Channels: channels,
		HasAlpha: hasAlpha,
		Pix:      make([]byte, width*height*channels),
	}
}

// Validate checks that the geometry is consistent with the sample slice.
func (b *PixelBuffer) Validate() error {
	if b.Width < 0 || b.Height < 0 {
		return fmt.Errorf("invalid buffer geometry: %dx%d", b.Width, b.Height)
	}
	if b.Channels < 1 {
		return fmt.Errorf("invalid channel count: %d", b.Channels)
	}
	if b.HasAlpha && b.Channels < 2 {
		return fmt.Errorf("alpha channel needs at least one color channel, got %d channels", b.Channels)
	}
	if want := b.Width * b.Height * b.Channels; len(b.Pix) != want {
		return fmt.Errorf("buffer holds %d samples, geometry %dx%dx%d needs %d",
			len(b.Pix), b.Width, b.Height, b.Channels, want)
	}
	return nil
}

func (b *PixelBuffer) Clone() *PixelBuffer {
	c := *b
	c.Pix = make([]byte, len(b.Pix))
	copy(c.Pix, b.Pix)
	return &c
}

// CarrierInfo describes a decoded carrier file
type CarrierInfo struct {
	Format           string `json:"format"`
	Width            int    `json:"width"`
	Height           int    `json:"height"`
	Channels         int    `json:"channels"`
	EligibleChannels int    `json:"eligible_channels"`
	Slots            int    `json:"slots"`
	CapacityBytes    int    `json:"capacity_bytes"`
}

// StegoResponse is the JSON body returned on failures and for informational endpoints
type StegoResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// CapacityResponse represents the response of a capacity query
type CapacityResponse struct {
	Success   bool         `json:"success"`
	RequestID string       `json:"request_id,omitempty"`
	Carrier   *CarrierInfo `json:"carrier"`
}

// HealthResponse is the body of the health endpoint
type HealthResponse struct {
	Status         string   `json:"status"`
	Service        string   `json:"service"`
	OutputFormats  []string `json:"output_formats"`
	HeaderBits     int      `json:"header_bits"`
	MaxUploadBytes int64    `json:"max_upload_bytes"`
}
