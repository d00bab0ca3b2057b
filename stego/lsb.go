// Package stego to implement LSB
package stego

import (
	"fmt"

	"steganography/models"
)

// Pack embeds payload into buf in place. The length header and payload bits
// go MSB first into the least significant bit of successive eligible slots;
// slots past the frame are left untouched.
func Pack(buf *models.PixelBuffer, payload []byte) error {
	if err := buf.Validate(); err != nil {
		return err
	}

	available := Capacity(buf)
	if len(payload) > available {
		return &CapacityError{Required: len(payload), Available: available}
	}

	frame, err := NewFrame(payload)
	if err != nil {
		return err
	}
	raw, err := frame.MarshalBinary()
	if err != nil {
		return err
	}

	// A buffer smaller than the header can only hold an empty frame, whose
	// header bits are all zero; the missing tail reads back as zero.
	bits := bytesToBits(raw)
	if slots := SlotCount(buf); len(bits) > slots {
		bits = bits[:slots]
	}

	for n, bit := range bits {
		off := slotOffset(buf, n)
		buf.Pix[off] = (buf.Pix[off] &^ 1) | bit
	}

	return nil
}

// Unpack reads the frame written by Pack and returns its payload.
func Unpack(buf *models.PixelBuffer) ([]byte, error) {
	if err := buf.Validate(); err != nil {
		return nil, err
	}

	slots := SlotCount(buf)
	var length uint64
	for n := 0; n < HeaderBits; n++ {
		length <<= 1
		if n < slots {
			length |= uint64(buf.Pix[slotOffset(buf, n)] & 1)
		}
	}

	available := Capacity(buf)
	if length > uint64(available) {
		return nil, fmt.Errorf("%w: header claims %d bytes, carrier holds at most %d", ErrInvalidFrame, length, available)
	}

	bits := make([]byte, int(length)*8)
	for i := range bits {
		bits[i] = buf.Pix[slotOffset(buf, HeaderBits+i)] & 1
	}

	return bitsToBytes(bits), nil
}

func bytesToBits(data []byte) []byte {
	bits := make([]byte, 0, len(data)*8)
	for _, b := range data {
		for i := 7; i >= 0; i-- {
			bits = append(bits, (b>>i)&1)
		}
	}
	return bits
}

func bitsToBytes(bits []byte) []byte {
	bytes := make([]byte, 0, len(bits)/8)
	for i := 0; i+8 <= len(bits); i += 8 {
		var b byte
		for j := 0; j < 8; j++ {
			b = (b << 1) | (bits[i+j] & 1)
		}
		bytes = append(bytes, b)
	}
	return bytes
}
