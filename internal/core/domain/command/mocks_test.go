package command

import (
	"context"
	"errors"
	"sync"

	"imgpress/internal/core/domain"
	"imgpress/internal/core/domain/lossy"
	"imgpress/internal/core/port"
)

type MockTextSender struct {
	mu      sync.Mutex
	err     error
	Message string
}

func (m *MockTextSender) SendMessageReply(_ context.Context, _ *domain.Message, message string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Message = message
	return 0, m.err
}

func (m *MockTextSender) NotifyAndReturnError(_ context.Context, err error, _ *domain.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Message = err.Error()
	return m.err
}

func (m *MockTextSender) SendChatAction(_ context.Context, _ int64, _ domain.Action) {}

type sentDocument struct {
	filename string
	data     []byte
	caption  string
}

type MockDocumentSender struct {
	err  error
	sent []sentDocument
}

func (m *MockDocumentSender) SendDocumentReply(_ context.Context, _ *domain.Message, filename string, data []byte,
	caption string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentDocument{filename: filename, data: data, caption: caption})
	return nil
}

type MockFetcher struct {
	data []byte
	err  error
	url  string
}

func (m *MockFetcher) Download(_ context.Context, url string) ([]byte, error) {
	m.url = url
	return m.data, m.err
}

type MockLimiter struct {
	blocked bool
	used    map[int64]int
}

func (m *MockLimiter) AddUsage(chatID int64, bytes int) {
	if m.used == nil {
		m.used = make(map[int64]int)
	}
	m.used[chatID] += bytes
}

func (m *MockLimiter) CheckLimit(_ context.Context, _ int64) bool {
	return !m.blocked
}

type MockBatchCompressor struct {
	result domain.FileResult
	files  []domain.SourceFile
	opts   lossy.Options
}

func (m *MockBatchCompressor) CompressBatch(_ context.Context, files []domain.SourceFile,
	opts lossy.Options) []domain.FileResult {
	m.files = files
	m.opts = opts
	return []domain.FileResult{m.result}
}

type MockLossless struct {
	result   port.HuffmanResult
	restored []byte
	err      error
	name     string
}

func (m *MockLossless) Compress(_ context.Context, file domain.SourceFile) (port.HuffmanResult, error) {
	m.name = file.Name
	return m.result, m.err
}

func (m *MockLossless) Restore(_ context.Context, name string) ([]byte, error) {
	m.name = name
	return m.restored, m.err
}

type MockHistory struct {
	records []domain.HistoryRecord
	stats   domain.Statistics
	err     error
	sortBy  string
	order   string
	cleared bool
}

func (m *MockHistory) List(_ context.Context, sortBy, order string) ([]domain.HistoryRecord, error) {
	m.sortBy = sortBy
	m.order = order
	return m.records, m.err
}

func (m *MockHistory) Statistics(_ context.Context) (domain.Statistics, error) {
	return m.stats, m.err
}

func (m *MockHistory) Clear(_ context.Context) error {
	if m.err != nil {
		return m.err
	}
	m.cleared = true
	return nil
}

var errUnavailable = errors.Join(domain.ErrHistoryUnavailable, errors.New("connection refused"))
