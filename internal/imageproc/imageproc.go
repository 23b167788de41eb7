// Package imageproc decodes source photos and fits them to the target size
// for their orientation.
package imageproc

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/disintegration/imaging"

	"github.com/imagebatch/imagebatch/internal/config"
)

// Transformer selects a target size by orientation and produces an
// aspect-fill crop of the source at exactly that size.
type Transformer struct {
	Vertical   config.Size // used when the source is strictly taller than wide
	Horizontal config.Size // used otherwise, including squares
	AutoOrient bool        // apply EXIF orientation when decoding
}

// NewTransformer builds a transformer from cfg.
func NewTransformer(cfg *config.Config) *Transformer {
	return &Transformer{
		Vertical:   cfg.Vertical,
		Horizontal: cfg.Horizontal,
		AutoOrient: cfg.AutoOrient,
	}
}

// Target returns the output size for a w×h source.
func (t *Transformer) Target(w, h int) config.Size {
	if h > w {
		return t.Vertical
	}
	return t.Horizontal
}

// Open decodes the image at path. Empty, truncated and unsupported files
// return an error.
func (t *Transformer) Open(path string) (image.Image, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(t.AutoOrient))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// Fit scales img to cover the target box and crops the overflow evenly
// from both sides, using Lanczos resampling.
func (t *Transformer) Fit(img image.Image) *image.NRGBA {
	b := img.Bounds()
	target := t.Target(b.Dx(), b.Dy())
	return imaging.Fill(img, target.Width, target.Height, imaging.Center, imaging.Lanczos)
}

// Dimensions decodes only the image header at path.
func Dimensions(path string) (int, int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer file.Close()

	cfg, _, err := image.DecodeConfig(file)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read image header: %w", err)
	}

	return cfg.Width, cfg.Height, nil
}
