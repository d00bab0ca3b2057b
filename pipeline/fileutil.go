package pipeline

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"steganography/carrier"
)

var ErrDestinationExists = errors.New("output file already exists")

// DefaultDestination is doctored_<name> next to the source image. A source
// whose extension is not a lossless output format gets fallback's extension.
func DefaultDestination(imagePath, fallback string) string {
	base := filepath.Base(imagePath)
	if _, err := carrier.FormatFromPath(base); err != nil {
		base = strings.TrimSuffix(base, filepath.Ext(base)) + "." + fallback
	}
	return filepath.Join(filepath.Dir(imagePath), "doctored_"+base)
}

// DefaultTextPath is recovered_<stem>.txt next to the stego image.
func DefaultTextPath(imagePath string) string {
	base := filepath.Base(imagePath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(filepath.Dir(imagePath), "recovered_"+stem+".txt")
}

func checkDestination(path string, force bool) error {
	if force {
		return nil
	}
	_, err := os.Stat(path)
	switch {
	case err == nil:
		return fmt.Errorf("%w: %s; use --force to overwrite", ErrDestinationExists, path)
	case errors.Is(err, fs.ErrNotExist):
		return nil
	default:
		return err
	}
}

// writeAtomic hands write a temp file in the destination directory and
// renames it over path only when write succeeds.
func writeAtomic(path string, write func(f *os.File) error) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = write(tmp); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
