package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompressionRatio(t *testing.T) {
	tests := []struct {
		name       string
		original   int
		compressed int
		want       float64
	}{
		{
			name:       "quarter of original",
			original:   1000,
			compressed: 250,
			want:       75.0,
		},
		{
			name:       "rounds to two decimals",
			original:   3,
			compressed: 1,
			want:       66.67,
		},
		{
			name:       "grown output is negative",
			original:   100,
			compressed: 150,
			want:       -50,
		},
		{
			name:       "empty original",
			original:   0,
			compressed: 10,
			want:       0,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, CompressionRatio(tc.original, tc.compressed), 1e-9)
		})
	}
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		size int
		want string
	}{
		{size: 512, want: "512 B"},
		{size: 1536, want: "1.5 KB"},
		{size: 5 * 1024 * 1024, want: "5.0 MB"},
		{size: 2 * 1024 * 1024 * 1024, want: "2.0 GB"},
	}

	for _, tc := range tests {
		t.Run(tc.want, func(t *testing.T) {
			assert.Equal(t, tc.want, FormatSize(tc.size))
		})
	}
}

func TestFileResultFailed(t *testing.T) {
	assert.True(t, FileResult{Filename: "a.png", Error: "boom"}.Failed())
	assert.False(t, FileResult{Filename: "a.png", OriginalSize: 10}.Failed())
}
