package command

import (
	"context"
	"fmt"
	"strings"
	"time"

	"imgpress/internal/core/domain"
	"imgpress/internal/core/port"

	"github.com/rs/zerolog/log"
)

const historyUsage = "usage: /history [date|size|compression_ratio] [asc|desc]"

type History struct {
	history    port.HistoryReader
	textSender port.TextSender
	command    string
}

func NewHistory(history port.HistoryReader, textSender port.TextSender, command string) *History {
	return &History{history: history, textSender: textSender, command: command}
}

func (h *History) GetCommand() string {
	return h.command
}

func (h *History) Respond(ctx context.Context, timeout time.Duration, message *domain.Message) error {
	l := log.With().
		Int("messageId", message.ID).
		Int64("chatId", message.ChatID).
		Str("command", h.GetCommand()).
		Logger()

	l.Info().Msg("handling request")

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	sortBy, order, ok := parseHistoryArgs(ParseCommandArgs(message.Text))
	if !ok {
		_, err := h.textSender.SendMessageReply(ctx, message, historyUsage)
		return err
	}

	records, err := h.history.List(ctx, sortBy, order)
	if err != nil {
		return h.textSender.NotifyAndReturnError(ctx, err, message)
	}

	_, err = h.textSender.SendMessageReply(ctx, message, formatHistory(records))
	return err
}

func parseHistoryArgs(args []string) (string, string, bool) {
	sortBy, order := domain.SortByDate, domain.OrderDesc

	if len(args) > 2 {
		return "", "", false
	}

	if len(args) > 0 {
		sortBy = strings.ToLower(args[0])
		switch sortBy {
		case domain.SortByDate, domain.SortBySize, domain.SortByRatio:
		default:
			return "", "", false
		}
	}

	if len(args) > 1 {
		order = strings.ToLower(args[1])
		if order != domain.OrderAsc && order != domain.OrderDesc {
			return "", "", false
		}
	}

	return sortBy, order, true
}

func formatHistory(records []domain.HistoryRecord) string {
	if len(records) == 0 {
		return "No compressions yet."
	}

	var sb strings.Builder
	for i, r := range records {
		if i == domain.HistoryPageSize {
			fmt.Fprintf(&sb, "... and %d more", len(records)-i)
			break
		}
		fmt.Fprintf(&sb, "%s %s: %s -> %s (%.2f%%) %s %s\n",
			r.Timestamp.Format(time.DateTime), r.Filename,
			domain.FormatSize(r.OriginalSize), domain.FormatSize(r.CompressedSize), r.CompressionRatio,
			r.Quality, r.AspectRatio)
	}

	return strings.TrimSuffix(sb.String(), "\n")
}

type Stats struct {
	history    port.HistoryReader
	textSender port.TextSender
	command    string
}

func NewStats(history port.HistoryReader, textSender port.TextSender, command string) *Stats {
	return &Stats{history: history, textSender: textSender, command: command}
}

func (s *Stats) GetCommand() string {
	return s.command
}

const statsTemplate = `files compressed: %d
total original size: %s
total compressed size: %s
average saved: %.2f%%
best saved: %.2f%%`

func (s *Stats) Respond(ctx context.Context, timeout time.Duration, message *domain.Message) error {
	l := log.With().
		Int("messageId", message.ID).
		Int64("chatId", message.ChatID).
		Str("command", s.GetCommand()).
		Logger()

	l.Info().Msg("handling request")

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	stats, err := s.history.Statistics(ctx)
	if err != nil {
		return s.textSender.NotifyAndReturnError(ctx, err, message)
	}

	_, err = s.textSender.SendMessageReply(ctx, message, fmt.Sprintf(statsTemplate,
		stats.TotalFiles,
		domain.FormatSize(stats.TotalOriginalSize),
		domain.FormatSize(stats.TotalCompressedSize),
		stats.AverageCompressionRatio,
		stats.BestCompressionRatio))
	return err
}

type ClearHistory struct {
	history    port.HistoryReader
	textSender port.TextSender
	command    string
}

func NewClearHistory(history port.HistoryReader, textSender port.TextSender, command string) *ClearHistory {
	return &ClearHistory{history: history, textSender: textSender, command: command}
}

func (c *ClearHistory) GetCommand() string {
	return c.command
}

func (c *ClearHistory) Respond(ctx context.Context, timeout time.Duration, message *domain.Message) error {
	l := log.With().
		Int("messageId", message.ID).
		Int64("chatId", message.ChatID).
		Str("command", c.GetCommand()).
		Logger()

	l.Info().Msg("handling request")

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := c.history.Clear(ctx); err != nil {
		return c.textSender.NotifyAndReturnError(ctx, err, message)
	}

	_, err := c.textSender.SendMessageReply(ctx, message, "History cleared.")
	return err
}
