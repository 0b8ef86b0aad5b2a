package domain

import (
	"fmt"
	"math"
	"time"
)

type Message struct {
	ID        int
	ChatID    int64
	Username  string
	Text      string
	ImageURL  string
	ImageName string
}

type Action string

const (
	Typing          Action = "typing"
	SendingPhoto    Action = "sending_photo"
	SendingDocument Action = "sending_document"
)

// SourceFile is the complete byte content of one input image.
type SourceFile struct {
	Name string
	Data []byte
}

type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (d Dimensions) String() string {
	return fmt.Sprintf("%dx%d", d.Width, d.Height)
}

// FileResult is the per-file outcome of a batch. Either Error is set or the size fields are.
type FileResult struct {
	Filename           string     `json:"filename"`
	OriginalSize       int        `json:"original_size,omitempty"`
	CompressedSize     int        `json:"compressed_size,omitempty"`
	CompressionRatio   float64    `json:"compression_ratio,omitempty"`
	OriginalDimensions Dimensions `json:"original_dimensions,omitzero"`
	FinalDimensions    Dimensions `json:"final_dimensions,omitzero"`
	CompressedData     []byte     `json:"compressed_data,omitempty"`
	Error              string     `json:"error,omitempty"`
}

func (r FileResult) Failed() bool {
	return r.Error != ""
}

type HistoryRecord struct {
	ID               string    `json:"_id" bson:"_id"`
	Filename         string    `json:"filename" bson:"filename"`
	OriginalSize     int       `json:"original_size" bson:"original_size"`
	CompressedSize   int       `json:"compressed_size" bson:"compressed_size"`
	CompressionRatio float64   `json:"compression_ratio" bson:"compression_ratio"`
	Quality          string    `json:"quality" bson:"quality"`
	AspectRatio      string    `json:"aspect_ratio" bson:"aspect_ratio"`
	Timestamp        time.Time `json:"timestamp" bson:"timestamp"`
}

type Statistics struct {
	TotalFiles              int     `json:"total_files"`
	TotalOriginalSize       int     `json:"total_original_size"`
	TotalCompressedSize     int     `json:"total_compressed_size"`
	AverageCompressionRatio float64 `json:"average_compression_ratio"`
	BestCompressionRatio    float64 `json:"best_compression_ratio"`
}

// CompressionRatio returns the percentage saved, (1 - compressed/original) * 100, rounded to
// two decimal places. It is 0 for an empty original.
func CompressionRatio(original, compressed int) float64 {
	if original <= 0 {
		return 0
	}

	return Round2((1 - float64(compressed)/float64(original)) * 100)
}

func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// FormatSize renders a byte count in B, KB, MB or GB.
func FormatSize(size int) string {
	switch {
	case size < BytesPerKiloB:
		return fmt.Sprintf("%d B", size)
	case size < BytesPerKiloB*BytesPerKiloB:
		return fmt.Sprintf("%.1f KB", float64(size)/BytesPerKiloB)
	case size < BytesPerKiloB*BytesPerKiloB*BytesPerKiloB:
		return fmt.Sprintf("%.1f MB", float64(size)/(BytesPerKiloB*BytesPerKiloB))
	default:
		return fmt.Sprintf("%.1f GB", float64(size)/(BytesPerKiloB*BytesPerKiloB*BytesPerKiloB))
	}
}
