package stego

import "steganography/models"

// EligibleChannels is the number of channels per pixel that carry a bit.
// Alpha never carries data.
func EligibleChannels(buf *models.PixelBuffer) int {
	if buf.HasAlpha {
		return buf.Channels - 1
	}
	return buf.Channels
}

// SlotCount is the number of LSB slots in the buffer.
func SlotCount(buf *models.PixelBuffer) int {
	eligible := EligibleChannels(buf)
	if buf.Width <= 0 || buf.Height <= 0 || eligible <= 0 {
		return 0
	}
	return buf.Width * buf.Height * eligible
}

// Capacity returns the largest payload, in bytes, the buffer can carry
// after the length header.
func Capacity(buf *models.PixelBuffer) int {
	usable := SlotCount(buf) - HeaderBits
	if usable <= 0 {
		return 0
	}
	return int(min(uint64(usable/8), MaxFrameLength))
}

// SlotIndex maps a pixel position and channel to its offset in Pix.
func SlotIndex(buf *models.PixelBuffer, row, col, channel int) int {
	return (row*buf.Width+col)*buf.Channels + channel
}

// slotOffset returns the Pix offset of the n-th eligible slot in
// row-major, storage-order traversal.
func slotOffset(buf *models.PixelBuffer, n int) int {
	eligible := EligibleChannels(buf)
	pixel := n / eligible
	return SlotIndex(buf, pixel/buf.Width, pixel%buf.Width, n%eligible)
}
