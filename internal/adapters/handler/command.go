package handler

import (
	"context"
	"fmt"
	"time"

	"imgpress/internal/core/domain"
	"imgpress/internal/core/domain/command"
	"imgpress/internal/core/port"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog/log"
)

type FileLocator interface {
	FileURL(ctx context.Context, fileID string) (string, error)
}

type Command struct {
	commandRegistry port.CommandRegistry
	files           FileLocator
	timeout         time.Duration
}

func NewCommand(commandRegistry port.CommandRegistry, files FileLocator, timeout time.Duration) *Command {
	return &Command{commandRegistry: commandRegistry, files: files, timeout: timeout}
}

// Handle dispatches an update to the registered command. Images attached to
// the message, or to the message it replies to, are resolved to a download URL.
func (c *Command) Handle(ctx context.Context, _ *bot.Bot, update *models.Update) {
	if update == nil || update.Message == nil {
		log.Debug().Msg("update without message")
		return
	}
	msg := update.Message

	text := msg.Text
	if text == "" {
		text = msg.Caption
	}

	log.Debug().Str("message", text).Msg("received command")

	cmd := command.ParseCommand(text)
	commandHandler, err := c.commandRegistry.Get(cmd)
	if err != nil {
		log.Debug().Str("command", cmd).Err(err).Msg("no handler for command")
		return
	}

	go func() {
		message := &domain.Message{
			ID:       msg.ID,
			ChatID:   msg.Chat.ID,
			Username: getUserNameFromMessage(msg.From),
			Text:     text,
		}

		fileID, name := findImage(msg)
		if fileID != "" && c.files != nil {
			url, err := c.files.FileURL(ctx, fileID)
			if err != nil {
				log.Error().Err(err).Msg("error getting file from telegram api")
			} else {
				message.ImageURL = url
				message.ImageName = name
			}
		}

		err := commandHandler.Respond(context.Background(), c.timeout, message)
		if err != nil {
			log.Err(err).Str("command", cmd).Msg("failed to respond to command")
		}
	}()
}

// findImage returns the file ID and a file name of the image attached to the
// message, falling back to the replied-to message.
func findImage(msg *models.Message) (string, string) {
	if fileID, name := attachedImage(msg); fileID != "" {
		return fileID, name
	}

	if msg.ReplyToMessage != nil {
		return attachedImage(msg.ReplyToMessage)
	}

	return "", ""
}

func attachedImage(msg *models.Message) (string, string) {
	if len(msg.Photo) > 0 {
		photo := findLargestImage(msg.Photo)
		return photo.FileID, fmt.Sprintf("%s.jpg", photo.FileUniqueID)
	}

	if msg.Document != nil {
		name := msg.Document.FileName
		if name == "" {
			name = msg.Document.FileUniqueID
		}
		return msg.Document.FileID, name
	}

	return "", ""
}

// findLargestImage picks the photo size with the most pixels, the last one
// if the API order is kept.
func findLargestImage(photos []models.PhotoSize) models.PhotoSize {
	largest := photos[len(photos)-1]
	for _, photo := range photos {
		if photo.Width*photo.Height > largest.Width*largest.Height {
			largest = photo
		}
	}

	return largest
}

func getUserNameFromMessage(user *models.User) string {
	if user == nil {
		return ""
	}

	if user.Username == "" {
		return user.FirstName
	}

	return "@" + user.Username
}
