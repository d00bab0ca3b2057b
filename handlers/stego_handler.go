// Package handlers is made to handle requests
package handlers

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"steganography/carrier"
	"steganography/models"
	"steganography/pipeline"
	"steganography/stego"
)

var contentTypes = map[string]string{
	carrier.FormatPNG:  "image/png",
	carrier.FormatBMP:  "image/bmp",
	carrier.FormatTIFF: "image/tiff",
	carrier.FormatWAV:  "audio/wav",
}

type StegoHandler struct {
	maxUploadBytes int64
	logger         zerolog.Logger
}

func NewStegoHandler(maxUploadBytes int64, logger zerolog.Logger) *StegoHandler {
	return &StegoHandler{
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// HealthCheck reports liveness together with what the service accepts.
func (h *StegoHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, models.HealthResponse{
		Status:         "ok",
		Service:        "stego",
		OutputFormats:  []string{carrier.FormatPNG, carrier.FormatBMP, carrier.FormatTIFF, carrier.FormatWAV},
		HeaderBits:     stego.HeaderBits,
		MaxUploadBytes: h.maxUploadBytes,
	})
}

// HideMessage embeds the uploaded text file into the uploaded carrier and
// streams the stego carrier back.
func (h *StegoHandler) HideMessage(c *gin.Context) {
	if !h.parseForm(c) {
		return
	}

	imageFile, imageHeader, err := c.Request.FormFile("image")
	if err != nil {
		h.fail(c, http.StatusBadRequest, "Image file is required")
		return
	}
	defer imageFile.Close()

	payload, err := readFormFile(c, "text")
	if err != nil {
		h.fail(c, http.StatusBadRequest, "Text file is required")
		return
	}

	tmp, err := os.CreateTemp("", "stego_*")
	if err != nil {
		h.fail(c, http.StatusInternalServerError, fmt.Sprintf("Failed to create temp file: %v", err))
		return
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	logger := h.requestLogger(c)
	result, err := pipeline.HideStream(imageFile, payload, c.PostForm("format"), tmp, &logger)
	if err != nil {
		h.failErr(c, "Failed to hide text", err)
		return
	}

	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		h.fail(c, http.StatusInternalServerError, fmt.Sprintf("Failed to read stego carrier: %v", err))
		return
	}
	stegoData, err := io.ReadAll(tmp)
	if err != nil {
		h.fail(c, http.StatusInternalServerError, fmt.Sprintf("Failed to read stego carrier: %v", err))
		return
	}

	baseFilename := strings.TrimSuffix(imageHeader.Filename, filepath.Ext(imageHeader.Filename))
	outputFilename := fmt.Sprintf("doctored_%s.%s", filepath.Base(baseFilename), result.Format)

	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Transfer-Encoding", "binary")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", outputFilename))
	c.Header("X-Stego-Capacity", fmt.Sprintf("%d", result.Capacity))
	c.Header("X-Stego-Payload-Bytes", fmt.Sprintf("%d", result.PayloadBytes))
	c.Header("X-Stego-PSNR", formatPSNR(result.PSNR))

	c.Data(http.StatusOK, contentTypes[result.Format], stegoData)
}

// RecoverMessage extracts the payload from the uploaded stego carrier.
func (h *StegoHandler) RecoverMessage(c *gin.Context) {
	if !h.parseForm(c) {
		return
	}

	imageFile, _, err := c.Request.FormFile("image")
	if err != nil {
		h.fail(c, http.StatusBadRequest, "Stego image file is required")
		return
	}
	defer imageFile.Close()

	payload, err := pipeline.RecoverStream(imageFile)
	if err != nil {
		h.failErr(c, "Failed to recover text", err)
		return
	}

	logger := h.requestLogger(c)
	logger.Info().Int("payload_bytes", len(payload)).Msg("payload recovered")

	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Transfer-Encoding", "binary")
	c.Header("Content-Disposition", "attachment; filename=recovered.txt")
	c.Data(http.StatusOK, "application/octet-stream", payload)
}

// Capacity reports how many payload bytes the uploaded carrier can hold.
func (h *StegoHandler) Capacity(c *gin.Context) {
	if !h.parseForm(c) {
		return
	}

	imageFile, _, err := c.Request.FormFile("image")
	if err != nil {
		h.fail(c, http.StatusBadRequest, "Image file is required")
		return
	}
	defer imageFile.Close()

	decoded, err := carrier.Decode(imageFile)
	if err != nil {
		h.failErr(c, "Failed to decode image", err)
		return
	}

	c.JSON(http.StatusOK, models.CapacityResponse{
		Success:   true,
		RequestID: c.GetString(requestIDKey),
		Carrier:   decoded.Info(),
	})
}

// parseForm reads the multipart body, answering 413 when it runs past the
// upload limit.
func (h *StegoHandler) parseForm(c *gin.Context) bool {
	err := c.Request.ParseMultipartForm(h.maxUploadBytes)
	if err == nil {
		return true
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		h.fail(c, http.StatusRequestEntityTooLarge, fmt.Sprintf("Request body exceeds the %d byte upload limit", tooLarge.Limit))
		return false
	}
	h.fail(c, http.StatusBadRequest, fmt.Sprintf("Failed to parse form: %v", err))
	return false
}

func readFormFile(c *gin.Context, field string) ([]byte, error) {
	f, _, err := c.Request.FormFile(field)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func (h *StegoHandler) requestLogger(c *gin.Context) zerolog.Logger {
	return h.logger.With().Str("request_id", c.GetString(requestIDKey)).Logger()
}

func (h *StegoHandler) fail(c *gin.Context, status int, message string) {
	c.JSON(status, models.StegoResponse{
		Success:   false,
		Message:   message,
		RequestID: c.GetString(requestIDKey),
	})
}

func (h *StegoHandler) failErr(c *gin.Context, prefix string, err error) {
	status := statusFor(err)
	logger := h.requestLogger(c)
	level := zerolog.WarnLevel
	if status >= http.StatusInternalServerError {
		level = zerolog.ErrorLevel
	}
	logger.WithLevel(level).Err(err).Int("status", status).Msg(prefix)
	h.fail(c, status, fmt.Sprintf("%s: %v", prefix, err))
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, stego.ErrCapacityExceeded):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, stego.ErrInvalidFrame):
		return http.StatusUnprocessableEntity
	case errors.Is(err, carrier.ErrDecode), errors.Is(err, carrier.ErrUnsupportedFormat):
		return http.StatusBadRequest
	case errors.Is(err, fs.ErrNotExist):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func formatPSNR(psnr float64) string {
	if math.IsInf(psnr, 1) {
		return "inf"
	}
	return fmt.Sprintf("%.2f", psnr)
}
