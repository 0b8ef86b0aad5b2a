package service

import (
	"cmp"
	"context"
	"fmt"
	"imgpress/internal/core/domain"
	"imgpress/internal/core/port"
	"slices"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/rs/zerolog/log"
)

type History struct {
	store port.HistoryStore
	now   func() time.Time
}

func NewHistory(store port.HistoryStore) *History {
	return &History{store: store, now: time.Now}
}

func (h *History) Record(ctx context.Context, filename string, originalSize, compressedSize int,
	quality, aspectRatio string) (domain.HistoryRecord, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return domain.HistoryRecord{}, err
	}

	record := domain.HistoryRecord{
		ID:               id.String(),
		Filename:         filename,
		OriginalSize:     originalSize,
		CompressedSize:   compressedSize,
		CompressionRatio: domain.CompressionRatio(originalSize, compressedSize),
		Quality:          quality,
		AspectRatio:      aspectRatio,
		Timestamp:        h.now(),
	}

	if err := h.store.Add(ctx, record); err != nil {
		return domain.HistoryRecord{}, fmt.Errorf("%w: %w", domain.ErrHistoryUnavailable, err)
	}

	log.Debug().Str("filename", filename).Str("id", record.ID).Msg("recorded compression")

	return record, nil
}

// List sorts stably, so records with equal keys keep their store order. An unknown
// sortBy returns store order.
func (h *History) List(ctx context.Context, sortBy, order string) ([]domain.HistoryRecord, error) {
	records, err := h.store.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrHistoryUnavailable, err)
	}

	var compare func(a, b domain.HistoryRecord) int
	switch sortBy {
	case domain.SortByDate:
		compare = func(a, b domain.HistoryRecord) int { return a.Timestamp.Compare(b.Timestamp) }
	case domain.SortBySize:
		compare = func(a, b domain.HistoryRecord) int { return cmp.Compare(a.OriginalSize, b.OriginalSize) }
	case domain.SortByRatio:
		compare = func(a, b domain.HistoryRecord) int { return cmp.Compare(a.CompressionRatio, b.CompressionRatio) }
	default:
		return records, nil
	}

	if order != domain.OrderAsc {
		asc := compare
		compare = func(a, b domain.HistoryRecord) int { return asc(b, a) }
	}

	slices.SortStableFunc(records, compare)
	return records, nil
}

func (h *History) Statistics(ctx context.Context) (domain.Statistics, error) {
	records, err := h.store.All(ctx)
	if err != nil {
		return domain.Statistics{}, fmt.Errorf("%w: %w", domain.ErrHistoryUnavailable, err)
	}

	var stats domain.Statistics
	if len(records) == 0 {
		return stats, nil
	}

	var ratioSum float64
	stats.BestCompressionRatio = records[0].CompressionRatio
	for _, r := range records {
		stats.TotalOriginalSize += r.OriginalSize
		stats.TotalCompressedSize += r.CompressedSize
		ratioSum += r.CompressionRatio
		stats.BestCompressionRatio = max(stats.BestCompressionRatio, r.CompressionRatio)
	}

	stats.TotalFiles = len(records)
	stats.AverageCompressionRatio = domain.Round2(ratioSum / float64(len(records)))

	return stats, nil
}

func (h *History) Clear(ctx context.Context) error {
	if err := h.store.Clear(ctx); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrHistoryUnavailable, err)
	}

	log.Info().Msg("history cleared")
	return nil
}
