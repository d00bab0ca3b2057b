package pipeline

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"steganography/carrier"
	"steganography/stego"
)

type RecoverOptions struct {
	ImagePath string
	TextPath  string
	Force     bool
	Logger    *zerolog.Logger
}

type RecoverResult struct {
	TextPath     string
	PayloadBytes int
}

// Recover extracts the embedded payload of ImagePath into TextPath.
func Recover(opts RecoverOptions) (*RecoverResult, error) {
	logger := loggerOrDefault(opts.Logger)

	textPath := opts.TextPath
	if textPath == "" {
		textPath = DefaultTextPath(opts.ImagePath)
	}
	if err := checkDestination(textPath, opts.Force); err != nil {
		return nil, err
	}

	logger.Debug().Str("image", opts.ImagePath).Msg("loading carrier")
	c, err := carrier.DecodeFile(opts.ImagePath)
	if err != nil {
		return nil, fmt.Errorf("unable to read image file: %w", err)
	}

	payload, err := stego.Unpack(c.Buffer)
	if err != nil {
		return nil, fmt.Errorf("failed to recover payload from %s: %w", opts.ImagePath, err)
	}

	logger.Debug().Str("text", textPath).Int("payload_bytes", len(payload)).Msg("writing payload")
	err = writeAtomic(textPath, func(f *os.File) error {
		_, err := f.Write(payload)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("unable to write to target text file %s: %w", textPath, err)
	}

	logger.Info().Str("text", textPath).Int("payload_bytes", len(payload)).Msg("payload recovered")
	return &RecoverResult{TextPath: textPath, PayloadBytes: len(payload)}, nil
}

// RecoverStream extracts the payload from an in-memory carrier.
func RecoverStream(image io.Reader) ([]byte, error) {
	c, err := carrier.Decode(image)
	if err != nil {
		return nil, err
	}
	return stego.Unpack(c.Buffer)
}

