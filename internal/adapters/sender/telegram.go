package sender

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"imgpress/internal/core/domain"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog/log"
)

// TelegramMessageLimit is the maximum rune count of a single text message.
const TelegramMessageLimit = 4096

const ChatActionRepeatSeconds = 5

//go:generate mockery --name TelegramBot

type TelegramBot interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
	SendDocument(ctx context.Context, params *bot.SendDocumentParams) (*models.Message, error)
	SendChatAction(ctx context.Context, params *bot.SendChatActionParams) (bool, error)
	GetFile(ctx context.Context, params *bot.GetFileParams) (*models.File, error)
	FileDownloadLink(f *models.File) string
}

type Telegram struct {
	bot            TelegramBot
	actionInterval time.Duration
}

func NewTelegram(bot TelegramBot) *Telegram {
	return &Telegram{bot: bot, actionInterval: ChatActionRepeatSeconds * time.Second}
}

func replyTo(message *domain.Message) *models.ReplyParameters {
	return &models.ReplyParameters{
		MessageID: message.ID,
		ChatID:    message.ChatID,
	}
}

// SendMessageReply sends text as a reply, split into as many messages as the
// length limit requires. It returns the ID of the last message sent.
func (t *Telegram) SendMessageReply(ctx context.Context, message *domain.Message, text string) (int, error) {
	var lastID int
	for _, chunk := range chunk(text, TelegramMessageLimit) {
		sent, err := t.bot.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:          message.ChatID,
			Text:            chunk,
			ReplyParameters: replyTo(message),
		})
		if err != nil {
			log.Error().Err(err).Int64("chatId", message.ChatID).Msg("failed to send message reply")
			return lastID, fmt.Errorf("%w: %w", domain.ErrSendingReplyFailed, err)
		}
		if sent != nil {
			lastID = sent.ID
		}
	}

	return lastID, nil
}

func chunk(text string, size int) []string {
	runes := []rune(text)
	if len(runes) <= size {
		return []string{text}
	}

	chunks := make([]string, 0, len(runes)/size+1)
	for len(runes) > 0 {
		n := min(size, len(runes))
		chunks = append(chunks, string(runes[:n]))
		runes = runes[n:]
	}
	return chunks
}

func (t *Telegram) SendDocumentReply(ctx context.Context, message *domain.Message, filename string, data []byte,
	caption string) error {
	_, err := t.bot.SendDocument(ctx, &bot.SendDocumentParams{
		ChatID:          message.ChatID,
		Document:        &models.InputFileUpload{Filename: filename, Data: bytes.NewReader(data)},
		Caption:         caption,
		ReplyParameters: replyTo(message),
	})
	if err != nil {
		log.Error().Err(err).Str("filename", filename).Msg("failed to send document response")
		return fmt.Errorf("%w: %w", domain.ErrSendingReplyFailed, err)
	}

	return nil
}

// NotifyAndReturnError tells the user what went wrong. Known sentinel errors are
// shown as is; anything else gets a generic message.
func (t *Telegram) NotifyAndReturnError(ctx context.Context, err error, message *domain.Message) error {
	text := "Something went wrong, please try again later."
	for _, known := range []error{
		domain.ErrMissingImage,
		domain.ErrUnsupportedFormat,
		domain.ErrHistoryUnavailable,
		domain.ErrDecode,
		domain.ErrAlignment,
		domain.ErrInvalidGeometry,
		domain.ErrDecodeMismatch,
	} {
		if errors.Is(err, known) {
			text = fmt.Sprintf("Error: %s", known)
			break
		}
	}

	_, sendErr := t.SendMessageReply(ctx, message, text)
	if sendErr != nil {
		return sendErr
	}

	return nil
}

func (t *Telegram) SendChatAction(ctx context.Context, chatID int64, action domain.Action) {
	log.Debug().Int64("chatID", chatID).Msg("starting action routine")

	var chatAction models.ChatAction
	switch action {
	case domain.SendingPhoto:
		chatAction = models.ChatActionUploadPhoto
	case domain.SendingDocument:
		chatAction = models.ChatActionUploadDocument
	default:
		chatAction = models.ChatActionTyping
	}

	ticker := time.NewTicker(t.actionInterval)
	defer ticker.Stop()

	for {
		log.Debug().Int64("chatID", chatID).Msg("transmitting action")
		_, err := t.bot.SendChatAction(ctx, &bot.SendChatActionParams{
			ChatID: chatID,
			Action: chatAction,
		})
		if err != nil {
			log.Err(err).Msg("error sending chat action")
			return
		}

		select {
		case <-ctx.Done():
			log.Debug().Int64("chatID", chatID).Msg("done, stopping action routine")
			return
		case <-ticker.C:
		}
	}
}

// FileURL resolves a Telegram file ID to a download link.
func (t *Telegram) FileURL(ctx context.Context, fileID string) (string, error) {
	f, err := t.bot.GetFile(ctx, &bot.GetFileParams{FileID: fileID})
	if err != nil {
		return "", fmt.Errorf("error resolving file %s: %w", fileID, err)
	}

	return t.bot.FileDownloadLink(f), nil
}
