package port

import (
	"context"
	"imgpress/internal/core/domain"
)

type TextSender interface {
	// SendMessageReply sends a reply to a specified message with the given text and returns the sent message ID and
	// an error if any.
	SendMessageReply(ctx context.Context, message *domain.Message, text string) (int, error)
	// SendChatAction sends a specified chat action (e.g., typing, sending photo) to indicate activity in a given chat.
	SendChatAction(ctx context.Context, chatID int64, action domain.Action)
	// NotifyAndReturnError sends an error notification based on the provided message context. It returns an error
	// only when the notification could not be delivered.
	NotifyAndReturnError(ctx context.Context, err error, message *domain.Message) error
}

type DocumentSender interface {
	// SendDocumentReply sends a file under the given name with an optional caption as a reply to the message.
	SendDocumentReply(ctx context.Context, message *domain.Message, filename string, data []byte, caption string) error
}
