package service

import (
	"context"
	"fmt"
	"imgpress/internal/core/domain"
	"imgpress/internal/core/domain/lossy"
	"imgpress/internal/core/port"
	"sync"

	"github.com/rs/zerolog/log"
)

type Compressor struct {
	pipeline port.ImageCompressor
	history  port.HistoryRecorder
	formats  []string
}

func NewCompressor(pipeline port.ImageCompressor, history port.HistoryRecorder, formats []string) *Compressor {
	if len(formats) == 0 {
		formats = lossy.DefaultFormats
	}

	return &Compressor{pipeline: pipeline, history: history, formats: formats}
}

// CompressBatch compresses files concurrently. A failing file yields an error result
// and never affects the others.
func (c *Compressor) CompressBatch(ctx context.Context, files []domain.SourceFile,
	opts lossy.Options) []domain.FileResult {
	results := make([]domain.FileResult, len(files))

	var wg sync.WaitGroup
	for i, file := range files {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = c.compress(ctx, file, opts)
		}()
	}
	wg.Wait()

	return results
}

func (c *Compressor) compress(ctx context.Context, file domain.SourceFile, opts lossy.Options) domain.FileResult {
	l := log.With().Str("filename", file.Name).Logger()

	if !lossy.SupportedFormat(file.Name, c.formats) {
		l.Warn().Msg("rejected file with unsupported extension")
		return domain.FileResult{Filename: file.Name, Error: domain.ErrUnsupportedFormat.Error()}
	}

	out, meta, err := c.pipeline.Compress(file.Data, opts)
	if err != nil {
		l.Error().Err(err).Msg("compression failed")
		return domain.FileResult{Filename: file.Name, Error: fmt.Sprintf("processing failed: %s", err)}
	}

	_, err = c.history.Record(ctx, file.Name, meta.OriginalSize, meta.CompressedSize, opts.Quality, meta.AspectRatio)
	if err != nil {
		l.Warn().Err(err).Msg("could not record history")
	}

	return domain.FileResult{
		Filename:           file.Name,
		OriginalSize:       meta.OriginalSize,
		CompressedSize:     meta.CompressedSize,
		CompressionRatio:   meta.CompressionRatio,
		OriginalDimensions: meta.OriginalDimensions,
		FinalDimensions:    meta.FinalDimensions,
		CompressedData:     out,
	}
}
