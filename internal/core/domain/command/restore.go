package command

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"imgpress/internal/core/domain"
	"imgpress/internal/core/port"

	"github.com/rs/zerolog/log"
)

type Restore struct {
	compressor     port.LosslessCompressor
	textSender     port.TextSender
	documentSender port.DocumentSender
	command        string
}

func NewRestore(compressor port.LosslessCompressor, textSender port.TextSender, documentSender port.DocumentSender,
	command string) *Restore {
	return &Restore{compressor: compressor, textSender: textSender, documentSender: documentSender, command: command}
}

func (r *Restore) GetCommand() string {
	return r.command
}

func (r *Restore) Respond(ctx context.Context, timeout time.Duration, message *domain.Message) error {
	l := log.With().
		Int("messageId", message.ID).
		Int64("chatId", message.ChatID).
		Str("command", r.GetCommand()).
		Logger()

	l.Info().Msg("handling request")

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	args := ParseCommandArgs(message.Text)
	if len(args) != 1 {
		_, err := r.textSender.SendMessageReply(ctx, message, "usage: /restore <filename>")
		return err
	}

	data, err := r.compressor.Restore(ctx, args[0])
	if err != nil {
		return r.textSender.NotifyAndReturnError(ctx, fmt.Errorf("failed to restore %s: %w", args[0], err), message)
	}

	err = r.documentSender.SendDocumentReply(ctx, message, restoredName(args[0]), data,
		fmt.Sprintf("restored %s", domain.FormatSize(len(data))))
	if err != nil {
		return r.textSender.NotifyAndReturnError(ctx, fmt.Errorf("failed to send restored file: %w", err), message)
	}

	return nil
}

// restoredName keeps the name the user asked for, adding .bin when it has no extension.
func restoredName(name string) string {
	base := filepath.Base(name)
	if filepath.Ext(base) == "" {
		return base + ".bin"
	}
	return base
}
