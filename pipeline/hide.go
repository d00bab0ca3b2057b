// Package pipeline runs the hide and recover flows end to end: load the
// carrier, embed or extract the frame, and commit the output file.
package pipeline

import (
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"steganography/carrier"
	"steganography/stego"
)

// MinPSNR is the quality below which a hide result is logged as suspicious.
const MinPSNR = 40.0

type HideOptions struct {
	ImagePath   string
	TextPath    string
	Destination string
	Force       bool
	Logger      *zerolog.Logger
}

type HideResult struct {
	Destination  string
	Format       string
	PayloadBytes int
	Capacity     int
	PSNR         float64
}

func loggerOrDefault(l *zerolog.Logger) *zerolog.Logger {
	if l != nil {
		return l
	}
	return &log.Logger
}

// Hide embeds the contents of TextPath into ImagePath and writes the result
// to Destination. Nothing is written unless every earlier stage succeeds.
func Hide(opts HideOptions) (*HideResult, error) {
	logger := loggerOrDefault(opts.Logger)
	start := time.Now()

	if opts.Destination != "" {
		if err := checkDestination(opts.Destination, opts.Force); err != nil {
			return nil, err
		}
	}

	logger.Debug().Str("image", opts.ImagePath).Msg("loading carrier")
	c, err := carrier.DecodeFile(opts.ImagePath)
	if err != nil {
		return nil, fmt.Errorf("unable to read image file: %w", err)
	}

	dest := opts.Destination
	if dest == "" {
		dest = DefaultDestination(opts.ImagePath, c.DefaultFormat())
		if err := checkDestination(dest, opts.Force); err != nil {
			return nil, err
		}
	}
	format, err := carrier.FormatFromPath(dest)
	if err != nil {
		return nil, err
	}
	if err := c.CheckTarget(format); err != nil {
		return nil, err
	}

	logger.Debug().Str("text", opts.TextPath).Msg("loading payload")
	payload, err := os.ReadFile(opts.TextPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read text file: %w", err)
	}

	result, err := embed(c, payload, logger)
	if err != nil {
		return nil, err
	}
	result.Format = format

	logger.Debug().Str("destination", dest).Str("format", format).Msg("writing carrier")
	err = writeAtomic(dest, func(f *os.File) error {
		return c.Encode(f, format)
	})
	if err != nil {
		return nil, fmt.Errorf("unable to write to target image file %s: %w", dest, err)
	}
	result.Destination = dest

	logger.Info().
		Str("destination", dest).
		Int("payload_bytes", result.PayloadBytes).
		Int("capacity_bytes", result.Capacity).
		Float64("psnr_db", psnrForLog(result.PSNR)).
		Dur("elapsed", time.Since(start)).
		Msg("payload hidden")
	return result, nil
}

// HideStream is Hide over in-memory inputs. The stego carrier is written to w
// as format, or the carrier's default format when format is empty.
func HideStream(image io.Reader, payload []byte, format string, w io.WriteSeeker, logger *zerolog.Logger) (*HideResult, error) {
	logger = loggerOrDefault(logger)

	c, err := carrier.Decode(image)
	if err != nil {
		return nil, err
	}
	if format == "" {
		format = c.DefaultFormat()
	}
	if format, err = carrier.ParseFormat(format); err != nil {
		return nil, err
	}
	if err := c.CheckTarget(format); err != nil {
		return nil, err
	}

	result, err := embed(c, payload, logger)
	if err != nil {
		return nil, err
	}
	result.Format = format

	if err := c.Encode(w, format); err != nil {
		return nil, err
	}
	return result, nil
}

// embed checks capacity and packs payload into the carrier's buffer.
func embed(c *carrier.Carrier, payload []byte, logger *zerolog.Logger) (*HideResult, error) {
	capacity := stego.Capacity(c.Buffer)
	logger.Debug().
		Int("payload_bytes", len(payload)).
		Int("capacity_bytes", capacity).
		Str("format", c.Format).
		Msg("checking capacity")
	if len(payload) > capacity {
		return nil, &stego.CapacityError{Required: len(payload), Available: capacity}
	}

	original := c.Buffer.Clone()
	if err := stego.Pack(c.Buffer, payload); err != nil {
		return nil, err
	}

	psnr := carrier.BufferPSNR(original, c.Buffer)
	if !carrier.ValidatePSNR(psnr, MinPSNR) {
		logger.Warn().Float64("psnr_db", psnr).Msg("stego carrier quality below threshold")
	}

	return &HideResult{
		PayloadBytes: len(payload),
		Capacity:     capacity,
		PSNR:         psnr,
	}, nil
}

// psnrForLog keeps +Inf out of JSON log output.
func psnrForLog(psnr float64) float64 {
	if math.IsInf(psnr, 0) {
		return -1
	}
	return psnr
}
