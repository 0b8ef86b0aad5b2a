package command

import (
	"context"
	"fmt"
	"time"

	"imgpress/internal/core/domain"
	"imgpress/internal/core/port"

	"github.com/rs/zerolog/log"
)

type Huffman struct {
	fetcher        port.FileFetcher
	compressor     port.LosslessCompressor
	limiter        port.Limiter
	textSender     port.TextSender
	documentSender port.DocumentSender
	command        string
}

func NewHuffman(fetcher port.FileFetcher, compressor port.LosslessCompressor, limiter port.Limiter,
	textSender port.TextSender, documentSender port.DocumentSender, command string) *Huffman {
	return &Huffman{fetcher: fetcher, compressor: compressor, limiter: limiter, textSender: textSender,
		documentSender: documentSender, command: command}
}

func (h *Huffman) GetCommand() string {
	return h.command
}

const huffmanTemplate = `%s: %d distinct bytes
%d bits -> %d bits, ratio %.2f
%d bits saved (%.2f%%)
zstd for comparison: %s`

func (h *Huffman) Respond(ctx context.Context, timeout time.Duration, message *domain.Message) error {
	l := log.With().
		Int("messageId", message.ID).
		Int64("chatId", message.ChatID).
		Str("command", h.GetCommand()).
		Logger()

	l.Info().Msg("handling request")

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if message.ImageURL == "" {
		return h.textSender.NotifyAndReturnError(ctx, domain.ErrMissingImage, message)
	}

	if !h.limiter.CheckLimit(ctx, message.ChatID) {
		l.Info().Msg("daily limit reached")
		return nil
	}

	go h.textSender.SendChatAction(ctx, message.ChatID, domain.SendingDocument)

	data, err := h.fetcher.Download(ctx, message.ImageURL)
	if err != nil {
		return h.textSender.NotifyAndReturnError(ctx, fmt.Errorf("failed to download file: %w", err), message)
	}

	name := message.ImageName
	if name == "" {
		name = "file.bin"
	}

	res, err := h.compressor.Compress(ctx, domain.SourceFile{Name: name, Data: data})
	if err != nil {
		return h.textSender.NotifyAndReturnError(ctx, fmt.Errorf("huffman coding failed: %w", err), message)
	}

	h.limiter.AddUsage(message.ChatID, len(data))

	caption := fmt.Sprintf(huffmanTemplate,
		res.Filename, res.Symbols,
		res.Stats.OriginalBits, res.Stats.CompressedBits, res.Stats.Ratio(),
		res.Stats.SpaceSaved(), domain.CompressionRatio(res.Stats.OriginalBits, res.Stats.CompressedBits),
		domain.FormatSize(res.ReferenceSize))

	err = h.documentSender.SendDocumentReply(ctx, message, res.PayloadName, res.Payload, caption)
	if err != nil {
		return h.textSender.NotifyAndReturnError(ctx, fmt.Errorf("failed to send payload: %w", err), message)
	}

	err = h.documentSender.SendDocumentReply(ctx, message, res.CodeTableName, res.CodeTable, "")
	if err != nil {
		return h.textSender.NotifyAndReturnError(ctx, fmt.Errorf("failed to send code table: %w", err), message)
	}

	return nil
}
