package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"imgpress/internal/core/domain"

	"github.com/rs/zerolog/log"
)

// JSONStore keeps the whole history as one JSON array on disk.
type JSONStore struct {
	path string
	mu   sync.Mutex
}

func NewJSONStore(path string) (*JSONStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("error creating history directory %w", err)
	}
	return &JSONStore{path: path}, nil
}

func (s *JSONStore) Add(_ context.Context, record domain.HistoryRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return err
	}

	return s.save(append(records, record))
}

func (s *JSONStore) All(_ context.Context) ([]domain.HistoryRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.load()
}

func (s *JSONStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.save([]domain.HistoryRecord{})
}

func (s *JSONStore) load() ([]domain.HistoryRecord, error) {
	buf, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return []domain.HistoryRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error reading history file %w", err)
	}

	var records []domain.HistoryRecord
	if err := json.Unmarshal(buf, &records); err != nil {
		return nil, fmt.Errorf("error parsing history file %w", err)
	}

	return records, nil
}

func (s *JSONStore) save(records []domain.HistoryRecord) error {
	buf, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("error encoding history %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, buf, 0o644); err != nil {
		return fmt.Errorf("error writing history file %w", err)
	}

	log.Debug().Int("records", len(records)).Str("path", s.path).Msg("saved history")

	return os.Rename(tmp, s.path)
}
