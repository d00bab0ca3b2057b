package pipeline

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"steganography/carrier"
	"steganography/stego"
)

func quietLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// createTestImage writes a PNG of random opaque pixels.
func createTestImage(t *testing.T, path string, width, height int) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	rng := rand.New(rand.NewSource(int64(width*height + 1)))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(rng.Intn(256)), G: uint8(rng.Intn(256)), B: uint8(rng.Intn(256)), A: 255})
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func TestHideAndRecover(t *testing.T) {
	t.Parallel()
	for _, ext := range []string{"png", "bmp", "tiff"} {
		dir := t.TempDir()
		imagePath := filepath.Join(dir, "original.png")
		textPath := filepath.Join(dir, "source.txt")
		hiddenPath := filepath.Join(dir, "hidden."+ext)
		recoveredPath := filepath.Join(dir, "recovered.txt")

		createTestImage(t, imagePath, 100, 100)
		text := "This is a test message for the handler! 这是一个给处理器的测试信息！"
		require.NoError(t, os.WriteFile(textPath, []byte(text), 0o644))

		hidden, err := Hide(HideOptions{
			ImagePath:   imagePath,
			TextPath:    textPath,
			Destination: hiddenPath,
			Logger:      quietLogger(),
		})
		require.NoError(t, err)
		assert.Equal(t, hiddenPath, hidden.Destination)
		assert.Equal(t, len(text), hidden.PayloadBytes)
		assert.Equal(t, (100*100*3-stego.HeaderBits)/8, hidden.Capacity)
		assert.Greater(t, hidden.PSNR, MinPSNR)
		require.FileExists(t, hiddenPath)

		recovered, err := Recover(RecoverOptions{
			ImagePath: hiddenPath,
			TextPath:  recoveredPath,
			Logger:    quietLogger(),
		})
		require.NoError(t, err)
		assert.Equal(t, len(text), recovered.PayloadBytes)

		got, err := os.ReadFile(recoveredPath)
		require.NoError(t, err)
		assert.Equal(t, text, string(got), ext)
	}
}

func TestHideAndRecoverWithDefaults(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	imagePath := filepath.Join(dir, "original.png")
	textPath := filepath.Join(dir, "source.txt")
	createTestImage(t, imagePath, 50, 50)
	text := "Testing default path generation. 测试默认路径生成。"
	require.NoError(t, os.WriteFile(textPath, []byte(text), 0o644))

	hidden, err := Hide(HideOptions{ImagePath: imagePath, TextPath: textPath, Logger: quietLogger()})
	require.NoError(t, err)
	expectedHidden := filepath.Join(dir, "doctored_original.png")
	assert.Equal(t, expectedHidden, hidden.Destination)
	require.FileExists(t, expectedHidden)

	recovered, err := Recover(RecoverOptions{ImagePath: expectedHidden, Logger: quietLogger()})
	require.NoError(t, err)
	expectedText := filepath.Join(dir, "recovered_doctored_original.txt")
	assert.Equal(t, expectedText, recovered.TextPath)

	got, err := os.ReadFile(expectedText)
	require.NoError(t, err)
	assert.Equal(t, text, string(got))
}

func TestOverwriteProtectionAndForce(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	imagePath := filepath.Join(dir, "image.png")
	textPath := filepath.Join(dir, "text.txt")
	destPath := filepath.Join(dir, "dest.png")
	createTestImage(t, imagePath, 30, 30)
	require.NoError(t, os.WriteFile(textPath, []byte("some text"), 0o644))

	dummy := []byte("this is a dummy file to be overwritten")
	require.NoError(t, os.WriteFile(destPath, dummy, 0o644))

	opts := HideOptions{ImagePath: imagePath, TextPath: textPath, Destination: destPath, Logger: quietLogger()}
	_, err := Hide(opts)
	require.ErrorIs(t, err, ErrDestinationExists)
	got, err := os.ReadFile(destPath)
	require.NoError(t, err)
	assert.Equal(t, dummy, got)

	opts.Force = true
	_, err = Hide(opts)
	require.NoError(t, err)
	got, err = os.ReadFile(destPath)
	require.NoError(t, err)
	assert.NotEqual(t, dummy, got)

	_, err = Recover(RecoverOptions{ImagePath: destPath, TextPath: textPath, Logger: quietLogger()})
	require.ErrorIs(t, err, ErrDestinationExists)
	_, err = Recover(RecoverOptions{ImagePath: destPath, TextPath: textPath, Force: true, Logger: quietLogger()})
	require.NoError(t, err)
}

func TestHideNotEnoughSpace(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	imagePath := filepath.Join(dir, "small.png")
	textPath := filepath.Join(dir, "large.txt")
	destPath := filepath.Join(dir, "dest.png")
	createTestImage(t, imagePath, 10, 10)
	require.NoError(t, os.WriteFile(textPath, []byte(strings.Repeat("a", 5000)), 0o644))

	_, err := Hide(HideOptions{ImagePath: imagePath, TextPath: textPath, Destination: destPath, Logger: quietLogger()})
	require.ErrorIs(t, err, stego.ErrCapacityExceeded)

	var capErr *stego.CapacityError
	require.ErrorAs(t, err, &capErr)
	assert.Equal(t, 5000, capErr.Required)
	assert.Equal(t, (300-stego.HeaderBits)/8, capErr.Available)
	assert.Contains(t, err.Error(), "not enough space")

	assert.NoFileExists(t, destPath)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2, "no temp files may be left behind")
}

func TestHideRejectsLossyDestination(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	imagePath := filepath.Join(dir, "image.png")
	textPath := filepath.Join(dir, "text.txt")
	createTestImage(t, imagePath, 10, 10)
	require.NoError(t, os.WriteFile(textPath, []byte("x"), 0o644))

	_, err := Hide(HideOptions{ImagePath: imagePath, TextPath: textPath, Destination: filepath.Join(dir, "out.jpg"), Logger: quietLogger()})
	require.ErrorIs(t, err, carrier.ErrUnsupportedFormat)
	assert.NoFileExists(t, filepath.Join(dir, "out.jpg"))
}

func TestHideMissingInputs(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	imagePath := filepath.Join(dir, "image.png")
	createTestImage(t, imagePath, 10, 10)

	_, err := Hide(HideOptions{ImagePath: filepath.Join(dir, "nope.png"), TextPath: imagePath, Destination: filepath.Join(dir, "a.png"), Logger: quietLogger()})
	require.ErrorIs(t, err, os.ErrNotExist)

	_, err = Hide(HideOptions{ImagePath: imagePath, TextPath: filepath.Join(dir, "nope.txt"), Destination: filepath.Join(dir, "b.png"), Logger: quietLogger()})
	require.ErrorIs(t, err, os.ErrNotExist)
	assert.NoFileExists(t, filepath.Join(dir, "b.png"))
}

func TestRecoverFromCleanImage(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	imagePath := filepath.Join(dir, "plain.png")
	img := image.NewNRGBA(image.Rect(0, 0, 20, 20))
	for i := range img.Pix {
		img.Pix[i] = 0xFF
	}
	f, err := os.Create(imagePath)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())

	textPath := filepath.Join(dir, "out.txt")
	_, err = Recover(RecoverOptions{ImagePath: imagePath, TextPath: textPath, Logger: quietLogger()})
	require.ErrorIs(t, err, stego.ErrInvalidFrame)
	assert.NoFileExists(t, textPath)
}

func TestHideStreamAndRecoverStream(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	imagePath := filepath.Join(dir, "image.png")
	createTestImage(t, imagePath, 40, 40)
	raw, err := os.ReadFile(imagePath)
	require.NoError(t, err)

	out, err := os.Create(filepath.Join(dir, "out.bmp"))
	require.NoError(t, err)
	defer out.Close()

	payload := []byte("streamed payload")
	result, err := HideStream(bytes.NewReader(raw), payload, "bmp", out, quietLogger())
	require.NoError(t, err)
	assert.Equal(t, carrier.FormatBMP, result.Format)

	_, err = out.Seek(0, 0)
	require.NoError(t, err)
	got, err := RecoverStream(out)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestDefaultPaths(t *testing.T) {
	t.Parallel()
	assert.Equal(t, filepath.Join("a", "b", "doctored_pic.png"), DefaultDestination(filepath.Join("a", "b", "pic.png"), carrier.FormatPNG))
	assert.Equal(t, "doctored_pic.bmp", DefaultDestination("pic.bmp", carrier.FormatPNG))
	assert.Equal(t, "doctored_pic.png", DefaultDestination("pic.jpg", carrier.FormatPNG))
	assert.Equal(t, "doctored_pic.png", DefaultDestination("pic.gif", carrier.FormatPNG))
	assert.Equal(t, "doctored_song.wav", DefaultDestination("song.mp3", carrier.FormatWAV))
	assert.Equal(t, filepath.Join("a", "recovered_pic.txt"), DefaultTextPath(filepath.Join("a", "pic.png")))
	assert.Equal(t, "recovered_pic.txt", DefaultTextPath("pic.png"))
}

func TestHideJPEGWithDefaultDestination(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	imagePath := filepath.Join(dir, "photo.jpg")
	textPath := filepath.Join(dir, "note.txt")

	img := image.NewNRGBA(image.Rect(0, 0, 32, 32))
	for i := range img.Pix {
		img.Pix[i] = uint8(i * 7)
	}
	f, err := os.Create(imagePath)
	require.NoError(t, err)
	require.NoError(t, jpeg.Encode(f, img, nil))
	require.NoError(t, f.Close())
	require.NoError(t, os.WriteFile(textPath, []byte("from a jpeg"), 0o644))

	hidden, err := Hide(HideOptions{ImagePath: imagePath, TextPath: textPath, Logger: quietLogger()})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "doctored_photo.png"), hidden.Destination)
	assert.Equal(t, carrier.FormatPNG, hidden.Format)

	recovered, err := Recover(RecoverOptions{ImagePath: hidden.Destination, Logger: quietLogger()})
	require.NoError(t, err)
	got, err := os.ReadFile(recovered.TextPath)
	require.NoError(t, err)
	assert.Equal(t, "from a jpeg", string(got))
}

func TestHideTransparentImageAsBMP(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	imagePath := filepath.Join(dir, "glass.png")
	textPath := filepath.Join(dir, "note.txt")
	destPath := filepath.Join(dir, "glass.bmp")

	img := image.NewNRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 16), G: uint8(y * 16), B: 64, A: 128})
		}
	}
	f, err := os.Create(imagePath)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	require.NoError(t, os.WriteFile(textPath, []byte("see through"), 0o644))

	_, err = Hide(HideOptions{ImagePath: imagePath, TextPath: textPath, Destination: destPath, Logger: quietLogger()})
	require.ErrorIs(t, err, carrier.ErrUnsupportedFormat)
	assert.NoFileExists(t, destPath)

	hidden, err := Hide(HideOptions{ImagePath: imagePath, TextPath: textPath, Destination: filepath.Join(dir, "glass.tiff"), Logger: quietLogger()})
	require.NoError(t, err)
	back, err := carrier.DecodeFile(hidden.Destination)
	require.NoError(t, err)
	for i := 3; i < len(back.Buffer.Pix); i += 4 {
		require.Equal(t, uint8(128), back.Buffer.Pix[i], "alpha sample %d", i)
	}
}
