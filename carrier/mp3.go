package carrier

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/go-audio/audio"
	"github.com/tosone/minimp3"
)

// FormatMP3 is accepted as input only. The decoded PCM is written back as WAV.
const FormatMP3 = "mp3"

const mp3BitDepth = 16

func isMP3(data []byte) bool {
	if len(data) >= 3 && bytes.Equal(data[:3], []byte("ID3")) {
		return true
	}
	// MPEG audio frame sync: 11 set bits.
	return len(data) >= 2 && data[0] == 0xFF && data[1]&0xE0 == 0xE0
}

func decodeMP3(data []byte) (*Carrier, error) {
	decoder, pcm, err := minimp3.DecodeFull(data)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid MP3 file: %v", ErrDecode, err)
	}
	defer decoder.Close()

	if len(pcm) == 0 || decoder.Channels < 1 || decoder.SampleRate < 1 {
		return nil, fmt.Errorf("%w: MP3 holds no decodable frames", ErrDecode)
	}
	return mp3Carrier(pcm, decoder.Channels, decoder.SampleRate)
}

// mp3Carrier wraps interleaved 16-bit little-endian PCM from the MP3 decoder.
// A trailing partial frame is dropped.
func mp3Carrier(pcm []byte, channels, sampleRate int) (*Carrier, error) {
	if channels < 1 {
		return nil, fmt.Errorf("%w: audio has %d channels", ErrDecode, channels)
	}
	frames := len(pcm) / 2 / channels

	samples := make([]int, frames*channels)
	for i := range samples {
		samples[i] = int(int16(binary.LittleEndian.Uint16(pcm[i*2:])))
	}

	return newAudioCarrier(FormatMP3, &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: channels,
			SampleRate:  sampleRate,
		},
		Data:           samples,
		SourceBitDepth: mp3BitDepth,
	}, wavParams{
		sampleRate: sampleRate,
		bitDepth:   mp3BitDepth,
		numChans:   channels,
	})
}
