package batch

import (
	"github.com/imagebatch/imagebatch/internal/config"
	"github.com/imagebatch/imagebatch/internal/imageproc"
	"github.com/imagebatch/imagebatch/internal/output"
)

// Processor turns one source image into one output file.
type Processor interface {
	Process(src, dst string) error
}

// ImageProcessor decodes src, fits it to the target size for its
// orientation and writes it to dst.
type ImageProcessor struct {
	Transformer *imageproc.Transformer
	Writer      *output.Writer
}

// NewImageProcessor builds the processor used for real runs.
func NewImageProcessor(cfg *config.Config) *ImageProcessor {
	return &ImageProcessor{
		Transformer: imageproc.NewTransformer(cfg),
		Writer:      output.NewWriter(cfg.JPEGQuality),
	}
}

func (p *ImageProcessor) Process(src, dst string) error {
	img, err := p.Transformer.Open(src)
	if err != nil {
		return err
	}
	return p.Writer.Save(p.Transformer.Fit(img), dst)
}

// DryRunProcessor only checks that src has a readable image header. Nothing
// is written.
type DryRunProcessor struct{}

func (DryRunProcessor) Process(src, _ string) error {
	_, _, err := imageproc.Dimensions(src)
	return err
}
