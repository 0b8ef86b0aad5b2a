package converter

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
)

// JPEG encodes images as baseline JPEG at the requested quality.
type JPEG struct{}

func NewJPEG() *JPEG {
	return &JPEG{}
}

func (j *JPEG) Encode(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("jpeg encoding failed %w", err)
	}

	return buf.Bytes(), nil
}
