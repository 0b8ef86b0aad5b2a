package service

import (
	"bytes"
	"context"
	"fmt"
	"imgpress/internal/core/domain"
	"imgpress/internal/core/domain/huffman"
	"imgpress/internal/core/port"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

const (
	payloadSuffix   = "_compressed.bin"
	codeTableSuffix = "_huffman_codes.txt"
)

type Huffman struct {
	output  port.OutputStore
	sizer   port.ReferenceSizer
	history port.HistoryRecorder
}

func NewHuffman(output port.OutputStore, sizer port.ReferenceSizer, history port.HistoryRecorder) *Huffman {
	return &Huffman{output: output, sizer: sizer, history: history}
}

// BaseName strips directories and the extension, giving the name payloads are stored under.
func BaseName(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func (h *Huffman) Compress(ctx context.Context, file domain.SourceFile) (port.HuffmanResult, error) {
	l := log.With().Str("filename", file.Name).Logger()

	payload, codes, err := huffman.Compress(file.Data)
	if err != nil {
		return port.HuffmanResult{}, err
	}

	restored, err := huffman.Decompress(payload, codes)
	if err != nil {
		return port.HuffmanResult{}, err
	}
	if !bytes.Equal(restored, file.Data) {
		return port.HuffmanResult{}, fmt.Errorf("%w: round trip changed the data", domain.ErrDecodeMismatch)
	}

	packed, err := payload.MarshalBinary()
	if err != nil {
		return port.HuffmanResult{}, fmt.Errorf("error packing payload: %w", err)
	}

	table, err := codes.MarshalText()
	if err != nil {
		return port.HuffmanResult{}, fmt.Errorf("error writing code table: %w", err)
	}

	base := BaseName(file.Name)
	result := port.HuffmanResult{
		Filename:      file.Name,
		Stats:         huffman.NewStats(file.Data, payload),
		Symbols:       len(codes),
		Payload:       packed,
		PayloadName:   base + payloadSuffix,
		CodeTable:     table,
		CodeTableName: base + codeTableSuffix,
		ReferenceSize: h.sizer.Size(file.Data),
	}

	if _, err := h.output.Write(result.PayloadName, packed); err != nil {
		return port.HuffmanResult{}, err
	}
	if _, err := h.output.Write(result.CodeTableName, table); err != nil {
		return port.HuffmanResult{}, err
	}

	_, err = h.history.Record(ctx, file.Name, len(file.Data), result.Stats.CompressedBytes(),
		domain.Lossless, domain.OriginalAspect)
	if err != nil {
		l.Warn().Err(err).Msg("could not record history")
	}

	l.Info().
		Int("originalBits", result.Stats.OriginalBits).
		Int("compressedBits", result.Stats.CompressedBits).
		Int("zstdBytes", result.ReferenceSize).
		Msg("huffman compression finished")

	return result, nil
}

// Restore reads the payload and code table stored for name and decodes them.
func (h *Huffman) Restore(_ context.Context, name string) ([]byte, error) {
	base := BaseName(name)

	packed, err := h.output.Read(base + payloadSuffix)
	if err != nil {
		return nil, err
	}

	text, err := h.output.Read(base + codeTableSuffix)
	if err != nil {
		return nil, err
	}

	var payload huffman.Bits
	if err := payload.UnmarshalBinary(packed); err != nil {
		return nil, err
	}

	var codes huffman.CodeTable
	if err := codes.UnmarshalText(text); err != nil {
		return nil, err
	}

	return huffman.Decompress(payload, codes)
}
