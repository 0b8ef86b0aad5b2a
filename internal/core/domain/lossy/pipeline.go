package lossy

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"imgpress/internal/core/domain"
	"path/filepath"
	"strings"

	"github.com/nfnt/resize"
	"github.com/rs/zerolog/log"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var DefaultFormats = []string{".jpg", ".jpeg", ".png", ".bmp", ".tiff", ".webp"}

// SupportedFormat reports whether filename has one of the given extensions.
func SupportedFormat(filename string, formats []string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, f := range formats {
		if strings.ToLower(strings.TrimSpace(f)) == ext {
			return true
		}
	}
	return false
}

type Options struct {
	Quality     string
	AspectRatio string
	// MaxBytes bounds the output size on a best effort basis, 0 for none.
	MaxBytes int
}

type Metadata struct {
	OriginalDimensions domain.Dimensions
	FinalDimensions    domain.Dimensions
	OriginalSize       int
	CompressedSize     int
	QualitySetting     string
	BaseQuality        int
	EncodedQuality     int
	AspectRatio        string
	CompressionRatio   float64
}

// Pipeline flattens, crops, optionally downscales and encodes one image.
type Pipeline struct {
	encoder   Encoder
	maxWidth  int
	maxHeight int
}

// NewPipeline returns a pipeline that fits images into maxWidth x maxHeight before encoding.
// Zero bounds disable downscaling.
func NewPipeline(encoder Encoder, maxWidth, maxHeight int) *Pipeline {
	return &Pipeline{encoder: encoder, maxWidth: maxWidth, maxHeight: maxHeight}
}

func (p *Pipeline) Compress(data []byte, opts Options) ([]byte, Metadata, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, Metadata{}, fmt.Errorf("%w: %w", domain.ErrDecode, err)
	}

	ratio, err := ParseAspectRatio(opts.AspectRatio)
	if err != nil {
		return nil, Metadata{}, err
	}

	if hasTransparency(img) {
		img = Flatten(img)
	}

	original := dimensions(img)

	img, err = CropToRatio(img, ratio)
	if err != nil {
		return nil, Metadata{}, err
	}

	if p.maxWidth > 0 && p.maxHeight > 0 {
		img = resize.Thumbnail(uint(p.maxWidth), uint(p.maxHeight), img, resize.Lanczos3)
	}

	base := QualityLevel(opts.Quality)
	out, used, err := EncodeBounded(p.encoder, img, base, opts.MaxBytes)
	if err != nil {
		return nil, Metadata{}, fmt.Errorf("encoding failed: %w", err)
	}

	meta := Metadata{
		OriginalDimensions: original,
		FinalDimensions:    dimensions(img),
		OriginalSize:       len(data),
		CompressedSize:     len(out),
		QualitySetting:     opts.Quality,
		BaseQuality:        base,
		EncodedQuality:     used,
		AspectRatio:        ratio.String(),
		CompressionRatio:   domain.CompressionRatio(len(data), len(out)),
	}

	log.Debug().Str("format", format).
		Str("from", meta.OriginalDimensions.String()).
		Str("to", meta.FinalDimensions.String()).
		Int("quality", used).
		Msg("compressed image")

	return out, meta, nil
}

// Flatten composites img over an opaque white background.
func Flatten(img image.Image) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Over)
	return dst
}

// hasTransparency reports color models that carry alpha or a palette.
func hasTransparency(img image.Image) bool {
	switch img.(type) {
	case *image.RGBA, *image.RGBA64, *image.NRGBA, *image.NRGBA64, *image.Paletted, *image.Alpha,
		*image.Alpha16, *image.NYCbCrA:
		return true
	default:
		return false
	}
}

func dimensions(img image.Image) domain.Dimensions {
	return domain.Dimensions{Width: img.Bounds().Dx(), Height: img.Bounds().Dy()}
}
