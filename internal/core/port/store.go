package port

import (
	"context"
	"imgpress/internal/core/domain"
)

type HistoryStore interface {
	Add(ctx context.Context, record domain.HistoryRecord) error
	All(ctx context.Context) ([]domain.HistoryRecord, error)
	Clear(ctx context.Context) error
}

type HistoryRecorder interface {
	// Record stores one successful compression and returns the stored record.
	Record(ctx context.Context, filename string, originalSize, compressedSize int,
		quality, aspectRatio string) (domain.HistoryRecord, error)
}

type HistoryReader interface {
	// List returns all records sorted by "date", "size" or "compression_ratio" in "asc" or "desc" order.
	List(ctx context.Context, sortBy, order string) ([]domain.HistoryRecord, error)
	Statistics(ctx context.Context) (domain.Statistics, error)
	Clear(ctx context.Context) error
}

type OutputStore interface {
	// Write persists data under name and returns its location.
	Write(name string, data []byte) (string, error)
	Read(name string) ([]byte, error)
}

type FileFetcher interface {
	Download(ctx context.Context, url string) ([]byte, error)
}

type Limiter interface {
	AddUsage(chatID int64, bytes int)
	CheckLimit(ctx context.Context, chatID int64) bool
}
