package handlers

import (
	"bytes"
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/avoronov/studbot/internal/document"
)

// TelegramReplier delivers pipeline output through the Telegram API. It is
// created before the bot client exists and bound to it with Bind; binding
// must happen before the bot starts receiving updates.
type TelegramReplier struct {
	b *bot.Bot
}

// NewReplier creates an unbound TelegramReplier.
func NewReplier() *TelegramReplier {
	return &TelegramReplier{}
}

// Bind attaches the Telegram client.
func (r *TelegramReplier) Bind(b *bot.Bot) {
	r.b = b
}

func (r *TelegramReplier) SendText(ctx context.Context, chatID int64, replyTo int, text string) error {
	if r.b == nil {
		return fmt.Errorf("replier is not bound to a bot")
	}

	_, err := r.b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:          chatID,
		Text:            text,
		ReplyParameters: replyParams(replyTo),
	})
	return err
}

func (r *TelegramReplier) SendFile(ctx context.Context, chatID int64, replyTo int, file *document.File, caption string) error {
	if r.b == nil {
		return fmt.Errorf("replier is not bound to a bot")
	}

	_, err := r.b.SendDocument(ctx, &bot.SendDocumentParams{
		ChatID: chatID,
		Document: &models.InputFileUpload{
			Filename: file.Name,
			Data:     bytes.NewReader(file.Data),
		},
		Caption:         caption,
		ReplyParameters: replyParams(replyTo),
	})
	return err
}

func replyParams(replyTo int) *models.ReplyParameters {
	if replyTo <= 0 {
		return nil
	}
	return &models.ReplyParameters{MessageID: replyTo}
}
