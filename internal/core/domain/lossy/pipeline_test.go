package lossy

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"imgpress/internal/core/domain"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type jpegEncoder struct{}

func (jpegEncoder) Encode(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality})
	return buf.Bytes(), err
}

// transparentPNG draws an opaque red left half and a fully transparent right half.
func transparentPNG(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width/2; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 255, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestPipelineCompress(t *testing.T) {
	input := transparentPNG(t, 800, 400)
	p := NewPipeline(jpegEncoder{}, 0, 0)

	out, meta, err := p.Compress(input, Options{Quality: "high", AspectRatio: "4:3"})
	require.NoError(t, err)

	assert.Equal(t, domain.Dimensions{Width: 800, Height: 400}, meta.OriginalDimensions)
	assert.Equal(t, domain.Dimensions{Width: 533, Height: 400}, meta.FinalDimensions)
	assert.Equal(t, len(input), meta.OriginalSize)
	assert.Equal(t, len(out), meta.CompressedSize)
	assert.Equal(t, 85, meta.BaseQuality)
	assert.Equal(t, 85, meta.EncodedQuality)
	assert.Equal(t, "4:3", meta.AspectRatio)
	assert.InDelta(t, domain.CompressionRatio(len(input), len(out)), meta.CompressionRatio, 1e-9)

	decoded, err := jpeg.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 533, decoded.Bounds().Dx())

	// transparent pixels end up white, not black
	r, g, b, _ := decoded.At(500, 200).RGBA()
	assert.Greater(t, r>>8, uint32(240))
	assert.Greater(t, g>>8, uint32(240))
	assert.Greater(t, b>>8, uint32(240))
}

func TestPipelineUnknownQualityUsesMedium(t *testing.T) {
	p := NewPipeline(jpegEncoder{}, 0, 0)

	_, meta, err := p.Compress(transparentPNG(t, 40, 30), Options{Quality: "ultra"})
	require.NoError(t, err)

	assert.Equal(t, 65, meta.BaseQuality)
	assert.Equal(t, "ultra", meta.QualitySetting)
	assert.Equal(t, domain.OriginalAspect, meta.AspectRatio)
	assert.Equal(t, meta.OriginalDimensions, meta.FinalDimensions)
}

func TestPipelineDownscales(t *testing.T) {
	p := NewPipeline(jpegEncoder{}, 100, 100)

	_, meta, err := p.Compress(transparentPNG(t, 400, 200), Options{Quality: "low"})
	require.NoError(t, err)

	assert.Equal(t, domain.Dimensions{Width: 400, Height: 200}, meta.OriginalDimensions)
	assert.Equal(t, domain.Dimensions{Width: 100, Height: 50}, meta.FinalDimensions)
}

func TestPipelineKeepsCroppedSizeWithoutBounds(t *testing.T) {
	p := NewPipeline(jpegEncoder{}, 0, 0)

	_, meta, err := p.Compress(transparentPNG(t, 2400, 1800), Options{Quality: "high", AspectRatio: "4:3"})
	require.NoError(t, err)

	assert.Equal(t, domain.Dimensions{Width: 2400, Height: 1800}, meta.OriginalDimensions)
	assert.Equal(t, domain.Dimensions{Width: 2400, Height: 1800}, meta.FinalDimensions)
}

func TestPipelineErrors(t *testing.T) {
	p := NewPipeline(jpegEncoder{}, 0, 0)

	_, _, err := p.Compress([]byte("not an image"), Options{})
	require.ErrorIs(t, err, domain.ErrDecode)

	_, _, err = p.Compress(transparentPNG(t, 10, 10), Options{AspectRatio: "square"})
	require.ErrorIs(t, err, domain.ErrInvalidGeometry)
}

func TestSupportedFormat(t *testing.T) {
	tests := []struct {
		filename string
		want     bool
	}{
		{filename: "photo.JPG", want: true},
		{filename: "scan.tiff", want: true},
		{filename: "anim.gif", want: false},
		{filename: "noext", want: false},
	}

	for _, tc := range tests {
		t.Run(tc.filename, func(t *testing.T) {
			assert.Equal(t, tc.want, SupportedFormat(tc.filename, DefaultFormats))
		})
	}
}

func TestFlatten(t *testing.T) {
	src := image.NewNRGBA(image.Rect(5, 5, 7, 6))
	src.SetNRGBA(5, 5, color.NRGBA{B: 255, A: 255})

	flat := Flatten(src)
	assert.Equal(t, image.Rect(0, 0, 2, 1), flat.Bounds())
	assert.Equal(t, color.RGBA{B: 255, A: 255}, flat.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, flat.RGBAAt(1, 0))
}
