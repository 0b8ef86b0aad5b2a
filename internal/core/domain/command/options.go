package command

import (
	"cmp"
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"imgpress/internal/core/domain"
	"imgpress/internal/core/domain/lossy"
	"imgpress/internal/core/port"

	"github.com/rs/zerolog/log"
)

// Options lists the choices /compress accepts.
type Options struct {
	textSender port.TextSender
	formats    []string
	command    string
}

func NewOptions(textSender port.TextSender, formats []string, command string) *Options {
	if len(formats) == 0 {
		formats = lossy.DefaultFormats
	}
	return &Options{textSender: textSender, formats: formats, command: command}
}

func (o *Options) GetCommand() string {
	return o.command
}

func (o *Options) Respond(ctx context.Context, _ time.Duration, message *domain.Message) error {
	l := log.With().
		Int("messageId", message.ID).
		Int64("chatId", message.ChatID).
		Str("command", o.GetCommand()).
		Logger()

	l.Info().Msg("handling request")

	_, err := o.textSender.SendMessageReply(ctx, message, o.describe())
	return err
}

func (o *Options) describe() string {
	presets := lossy.QualityPresets()
	names := slices.SortedFunc(maps.Keys(presets), func(a, b string) int {
		return cmp.Compare(presets[b], presets[a])
	})

	qualities := make([]string, len(names))
	for i, name := range names {
		qualities[i] = fmt.Sprintf("%s (%d)", name, presets[name])
	}

	return fmt.Sprintf("quality: %s\naspect ratio: %s\nformats: %s",
		strings.Join(qualities, ", "),
		strings.Join(lossy.AspectRatios(), ", "),
		strings.Join(o.formats, ", "))
}
