package history

import (
	"context"
	"errors"

	"imgpress/internal/core/domain"
	"imgpress/internal/core/port"

	"github.com/rs/zerolog/log"
)

// Fallback reads and writes the primary store and switches to the secondary
// for any call the primary fails.
type Fallback struct {
	primary   port.HistoryStore
	secondary port.HistoryStore
}

func NewFallback(primary, secondary port.HistoryStore) *Fallback {
	return &Fallback{primary: primary, secondary: secondary}
}

func (f *Fallback) Add(ctx context.Context, record domain.HistoryRecord) error {
	err := f.primary.Add(ctx, record)
	if err == nil {
		return nil
	}

	log.Warn().Err(err).Str("id", record.ID).Msg("primary history store failed, using fallback")
	return f.secondary.Add(ctx, record)
}

func (f *Fallback) All(ctx context.Context) ([]domain.HistoryRecord, error) {
	records, err := f.primary.All(ctx)
	if err == nil {
		return records, nil
	}

	log.Warn().Err(err).Msg("primary history store failed, using fallback")
	return f.secondary.All(ctx)
}

// Clear empties both stores so records written during an outage do not reappear.
func (f *Fallback) Clear(ctx context.Context) error {
	return errors.Join(f.primary.Clear(ctx), f.secondary.Clear(ctx))
}
