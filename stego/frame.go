package stego

import (
	"encoding/binary"
	"fmt"
	"math"
)

const (
	// HeaderBits is the width of the big-endian length field that precedes
	// every embedded payload.
	HeaderBits = 32

	headerBytes = HeaderBits / 8

	// MaxFrameLength is the largest payload the length field can describe.
	MaxFrameLength = math.MaxUint32
)

// Frame is the on-image container: a fixed-width length followed by the
// payload bytes.
type Frame struct {
	Length uint32
	Data   []byte
}

func NewFrame(payload []byte) (Frame, error) {
	if uint64(len(payload)) > MaxFrameLength {
		return Frame{}, fmt.Errorf("payload of %d bytes exceeds the %d byte frame limit", len(payload), uint64(MaxFrameLength))
	}
	return Frame{Length: uint32(len(payload)), Data: payload}, nil
}

// BitLen is the number of slots the frame occupies.
func (f Frame) BitLen() int {
	return HeaderBits + int(f.Length)*8
}

func (f Frame) MarshalBinary() ([]byte, error) {
	if int(f.Length) != len(f.Data) {
		return nil, fmt.Errorf("frame length %d does not match %d data bytes", f.Length, len(f.Data))
	}
	out := make([]byte, headerBytes+len(f.Data))
	binary.BigEndian.PutUint32(out[:headerBytes], f.Length)
	copy(out[headerBytes:], f.Data)
	return out, nil
}
