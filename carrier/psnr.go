package carrier

import (
	"math"

	"steganography/models"
)

const maxSample = 255.0

// BufferPSNR measures, in dB, how far modified has drifted from original.
// Buffers of different geometry, or empty ones, score 0; identical buffers
// score +Inf.
func BufferPSNR(original, modified *models.PixelBuffer) float64 {
	if original.Width != modified.Width || original.Height != modified.Height || original.Channels != modified.Channels {
		return 0
	}
	if len(original.Pix) == 0 || len(original.Pix) != len(modified.Pix) {
		return 0
	}

	var sum float64
	for i, s := range original.Pix {
		d := float64(s) - float64(modified.Pix[i])
		sum += d * d
	}
	if sum == 0 {
		return math.Inf(1)
	}
	mse := sum / float64(len(original.Pix))
	return 10 * math.Log10(maxSample*maxSample/mse)
}

// ValidatePSNR reports whether psnr meets threshold.
func ValidatePSNR(psnr, threshold float64) bool {
	return math.IsInf(psnr, 1) || psnr >= threshold
}
