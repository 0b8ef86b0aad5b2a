package archive

import (
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// Zstd measures how well a general purpose compressor does on the same bytes,
// as a yardstick for the Huffman coder.
type Zstd struct {
	enc *zstd.Encoder
}

func NewZstd() (*Zstd, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		return nil, fmt.Errorf("error creating zstd encoder %w", err)
	}

	return &Zstd{enc: enc}, nil
}

// Size returns the zstd frame length of data. Safe for concurrent use.
func (z *Zstd) Size(data []byte) int {
	return len(z.enc.EncodeAll(data, nil))
}

func (z *Zstd) Close() error {
	return z.enc.Close()
}
