// Package output names and writes processed images.
package output

import (
	"fmt"
	"image"
	"os"
	"strings"

	"github.com/disintegration/imaging"
)

// Writer persists processed images, encoding by file suffix.
type Writer struct {
	JPEGQuality int
}

// NewWriter returns a writer using the given JPEG quality (1-100).
func NewWriter(jpegQuality int) *Writer {
	return &Writer{JPEGQuality: jpegQuality}
}

// FileName returns "<productNo>_<counter, 3 digits><ext>" with ext lowercased.
func FileName(productNo string, counter int, ext string) string {
	return fmt.Sprintf("%s_%03d%s", productNo, counter, strings.ToLower(ext))
}

// EnsureDir creates dir if needed. An existing directory is not an error.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}

// Save encodes img to path, replacing any existing file. The format follows
// the path's extension.
func (w *Writer) Save(img image.Image, path string) error {
	if err := imaging.Save(img, path, imaging.JPEGQuality(w.JPEGQuality)); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}
