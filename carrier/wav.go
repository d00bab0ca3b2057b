package carrier

import (
	"bytes"
	"fmt"
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"steganography/models"
)

const wavFormatPCM = 1

type wavParams struct {
	sampleRate int
	bitDepth   int
	numChans   int
	metadata   *wav.Metadata
}

func isWAV(data []byte) bool {
	return len(data) >= 12 && bytes.Equal(data[0:4], []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WAVE"))
}

func decodeWAV(r io.ReadSeeker) (*Carrier, error) {
	decoder := wav.NewDecoder(r)
	if !decoder.IsValidFile() {
		return nil, fmt.Errorf("%w: invalid WAV file: %v", ErrDecode, decoder.Err())
	}
	if decoder.WavAudioFormat != wavFormatPCM {
		return nil, fmt.Errorf("%w: WAV audio format %d is not integer PCM", ErrUnsupportedFormat, decoder.WavAudioFormat)
	}

	switch decoder.BitDepth {
	case 8, 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: WAV bit depth %d", ErrUnsupportedFormat, decoder.BitDepth)
	}

	pcm, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read PCM data: %v", ErrDecode, err)
	}

	return newAudioCarrier(FormatWAV, pcm, wavParams{
		sampleRate: int(decoder.SampleRate),
		bitDepth:   int(decoder.BitDepth),
		numChans:   int(decoder.NumChans),
		metadata:   decoder.Metadata,
	})
}

// newAudioCarrier exposes integer PCM as a frames x 1 buffer with one channel
// per audio channel. Each sample of the buffer is the low byte of the PCM
// sample, so only the sample's LSB can change.
func newAudioCarrier(format string, pcm *audio.IntBuffer, params wavParams) (*Carrier, error) {
	channels := params.numChans
	if channels < 1 {
		return nil, fmt.Errorf("%w: audio has %d channels", ErrDecode, channels)
	}
	if len(pcm.Data)%channels != 0 {
		return nil, fmt.Errorf("%w: %d samples do not fill %d-channel frames", ErrDecode, len(pcm.Data), channels)
	}

	buffer := &models.PixelBuffer{
		Width:    len(pcm.Data) / channels,
		Height:   1,
		Channels: channels,
		Pix:      make([]byte, len(pcm.Data)),
	}
	if buffer.Width == 0 {
		buffer.Height = 0
	}
	for i, sample := range pcm.Data {
		buffer.Pix[i] = byte(sample & 0xff)
	}

	return &Carrier{
		Kind:   KindAudio,
		Format: format,
		Buffer: buffer,
		pcm:    pcm,
		wav:    params,
	}, nil
}

func (c *Carrier) encodeWAV(w io.WriteSeeker) error {
	if c.pcm == nil {
		return fmt.Errorf("carrier has no PCM data")
	}
	if len(c.Buffer.Pix) != len(c.pcm.Data) {
		return fmt.Errorf("buffer holds %d samples, PCM data has %d", len(c.Buffer.Pix), len(c.pcm.Data))
	}

	out := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: c.wav.numChans,
			SampleRate:  c.wav.sampleRate,
		},
		Data:           make([]int, len(c.pcm.Data)),
		SourceBitDepth: c.wav.bitDepth,
	}
	for i, sample := range c.pcm.Data {
		out.Data[i] = (sample &^ 0xff) | int(c.Buffer.Pix[i])
	}

	encoder := wav.NewEncoder(w, c.wav.sampleRate, c.wav.bitDepth, c.wav.numChans, wavFormatPCM)
	encoder.Metadata = c.wav.metadata
	if err := encoder.Write(out); err != nil {
		return fmt.Errorf("failed to encode WAV: %v", err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("failed to close WAV encoder: %v", err)
	}
	return nil
}
