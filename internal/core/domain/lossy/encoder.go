package lossy

import (
	"image"

	"github.com/rs/zerolog/log"
)

const (
	QualityFloor = 10
	QualityStep  = 5
)

// Encoder turns an image into bytes at a numeric quality level.
type Encoder interface {
	Encode(img image.Image, quality int) ([]byte, error)
}

// EncodeBounded encodes at baseQuality and, while the output exceeds maxBytes, retries
// at QualityStep lower quality without going below QualityFloor. It returns the last
// encoding and its quality, which may still exceed maxBytes. maxBytes <= 0 means no bound.
func EncodeBounded(enc Encoder, img image.Image, baseQuality, maxBytes int) ([]byte, int, error) {
	out, err := enc.Encode(img, baseQuality)
	if err != nil {
		return nil, 0, err
	}

	if maxBytes <= 0 || len(out) <= maxBytes {
		return out, baseQuality, nil
	}

	quality := baseQuality
	attempts := max((baseQuality-QualityFloor)/QualityStep, 0)
	for i := 0; i < attempts && len(out) > maxBytes; i++ {
		quality -= QualityStep

		out, err = enc.Encode(img, quality)
		if err != nil {
			return nil, 0, err
		}

		log.Debug().Int("quality", quality).Int("bytes", len(out)).Int("maxBytes", maxBytes).
			Msg("re-encoded at lower quality")
	}

	return out, quality, nil
}
