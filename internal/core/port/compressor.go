package port

import (
	"context"
	"imgpress/internal/core/domain"
	"imgpress/internal/core/domain/huffman"
	"imgpress/internal/core/domain/lossy"
)

type ImageCompressor interface {
	// Compress runs the lossy pipeline on one encoded image.
	Compress(data []byte, opts lossy.Options) ([]byte, lossy.Metadata, error)
}

type BatchCompressor interface {
	// CompressBatch compresses every file independently and returns one result per file, in input order.
	CompressBatch(ctx context.Context, files []domain.SourceFile, opts lossy.Options) []domain.FileResult
}

// HuffmanResult describes one lossless compression and the files written for it.
type HuffmanResult struct {
	Filename      string
	Stats         huffman.Stats
	Symbols       int
	Payload       []byte
	PayloadName   string
	CodeTable     []byte
	CodeTableName string
	ReferenceSize int
}

type LosslessCompressor interface {
	// Compress Huffman codes the raw bytes of a file and stores payload and code table.
	Compress(ctx context.Context, file domain.SourceFile) (HuffmanResult, error)
	// Restore decodes a previously stored payload using its stored code table.
	Restore(ctx context.Context, name string) ([]byte, error)
}

type ReferenceSizer interface {
	// Size returns the length of data after general purpose compression.
	Size(data []byte) int
}
