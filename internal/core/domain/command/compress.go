package command

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"imgpress/internal/core/domain"
	"imgpress/internal/core/domain/lossy"
	"imgpress/internal/core/port"

	"github.com/rs/zerolog/log"
)

const compressUsage = "usage: /compress [high|medium|low] [original|W:H] [max KB]"

type Compress struct {
	fetcher        port.FileFetcher
	compressor     port.BatchCompressor
	limiter        port.Limiter
	textSender     port.TextSender
	documentSender port.DocumentSender
	defaultQuality string
	command        string
}

func NewCompress(fetcher port.FileFetcher, compressor port.BatchCompressor, limiter port.Limiter,
	textSender port.TextSender, documentSender port.DocumentSender, defaultQuality string, command string) *Compress {
	if !lossy.IsQualityPreset(defaultQuality) {
		defaultQuality = domain.DefaultQuality
	}

	return &Compress{fetcher: fetcher, compressor: compressor, limiter: limiter, textSender: textSender,
		documentSender: documentSender, defaultQuality: defaultQuality, command: command}
}

func (c *Compress) GetCommand() string {
	return c.command
}

func (c *Compress) Respond(ctx context.Context, timeout time.Duration, message *domain.Message) error {
	l := log.With().
		Int("messageId", message.ID).
		Int64("chatId", message.ChatID).
		Str("command", c.GetCommand()).
		Logger()

	l.Info().Msg("handling request")

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if message.ImageURL == "" {
		return c.textSender.NotifyAndReturnError(ctx, domain.ErrMissingImage, message)
	}

	opts, err := parseCompressOptions(ParseCommandArgs(message.Text), c.defaultQuality)
	if err != nil {
		l.Debug().Err(err).Msg("invalid arguments")
		_, err = c.textSender.SendMessageReply(ctx, message, fmt.Sprintf("%s\n%s", err, compressUsage))
		return err
	}

	if !c.limiter.CheckLimit(ctx, message.ChatID) {
		l.Info().Msg("daily limit reached")
		return nil
	}

	go c.textSender.SendChatAction(ctx, message.ChatID, domain.SendingDocument)

	data, err := c.fetcher.Download(ctx, message.ImageURL)
	if err != nil {
		return c.textSender.NotifyAndReturnError(ctx, fmt.Errorf("failed to download image: %w", err), message)
	}

	name := message.ImageName
	if name == "" {
		name = "image.jpg"
	}

	results := c.compressor.CompressBatch(ctx, []domain.SourceFile{{Name: name, Data: data}}, opts)
	if len(results) != 1 {
		return c.textSender.NotifyAndReturnError(ctx,
			fmt.Errorf("expected one result, got %d", len(results)), message)
	}
	result := results[0]

	if result.Failed() {
		l.Warn().Str("error", result.Error).Msg("compression failed")
		_, err = c.textSender.SendMessageReply(ctx, message, fmt.Sprintf("%s: %s", result.Filename, result.Error))
		return err
	}

	c.limiter.AddUsage(message.ChatID, result.OriginalSize)

	err = c.documentSender.SendDocumentReply(ctx, message, compressedName(result.Filename), result.CompressedData,
		summary(result, opts))
	if err != nil {
		return c.textSender.NotifyAndReturnError(ctx, fmt.Errorf("failed to send compressed image: %w", err),
			message)
	}

	l.Info().Float64("ratio", result.CompressionRatio).Msg("sent compressed image")

	return nil
}

// parseCompressOptions accepts its arguments in any order: a quality preset, an
// aspect ratio and a size limit in KB. Any other word without a colon is an
// unknown quality and maps to medium.
func parseCompressOptions(args []string, defaultQuality string) (lossy.Options, error) {
	opts := lossy.Options{Quality: defaultQuality, AspectRatio: domain.OriginalAspect}

	for _, arg := range args {
		if lossy.IsQualityPreset(arg) {
			opts.Quality = strings.ToLower(arg)
			continue
		}

		if kb, err := strconv.Atoi(arg); err == nil {
			if kb <= 0 {
				return opts, fmt.Errorf("size limit must be positive, got %d", kb)
			}
			opts.MaxBytes = kb * domain.BytesPerKiloB
			continue
		}

		if !strings.Contains(arg, ":") && !strings.EqualFold(arg, domain.OriginalAspect) {
			log.Debug().Str("quality", arg).Msg("unknown quality, using medium")
			opts.Quality = domain.DefaultQuality
			continue
		}

		ratio, err := lossy.ParseAspectRatio(arg)
		if err != nil {
			return opts, err
		}
		opts.AspectRatio = ratio.String()
	}

	return opts, nil
}

func compressedName(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base)) + "_compressed.jpg"
}

func summary(r domain.FileResult, opts lossy.Options) string {
	return fmt.Sprintf("%s: %s -> %s (%.2f%% saved)\n%s -> %s, quality %s, aspect %s",
		r.Filename,
		domain.FormatSize(r.OriginalSize), domain.FormatSize(r.CompressedSize), r.CompressionRatio,
		r.OriginalDimensions, r.FinalDimensions, opts.Quality, opts.AspectRatio)
}
