package handlers

import (
	"context"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/avoronov/studbot/internal/pipeline"
)

const typingRefreshInterval = 4 * time.Second

// NewChatHandler returns the default handler: every non-command text
// message is handed to the dispatch pipeline.
func NewChatHandler(deps HandlerDeps) bot.HandlerFunc {
	return chatHandler{deps}.Handle
}

type chatHandler struct {
	deps HandlerDeps
}

func (h chatHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "chat")

	msg := update.Message
	if msg == nil || msg.From == nil || msg.Text == "" {
		log.DebugContext(ctx, "Ignoring update without message text", "update_id", update.ID)
		return
	}
	if strings.HasPrefix(msg.Text, "/") {
		log.DebugContext(ctx, "Ignoring unknown command", "chat_id", msg.Chat.ID)
		return
	}

	stopTyping := startTyping(ctx, b, msg.Chat.ID)
	defer stopTyping()

	h.deps.Pipeline.Handle(ctx, pipeline.Inbound{
		ChatID:    msg.Chat.ID,
		MessageID: msg.ID,
		Text:      msg.Text,
	})
}

// startTyping shows the typing indicator and keeps refreshing it until the
// returned stop function is called. Telegram drops the indicator after a
// few seconds on its own, so a single send is not enough for long
// completions.
func startTyping(ctx context.Context, b *bot.Bot, chatID int64) func() {
	typingCtx, cancel := context.WithCancel(ctx)

	go func() {
		ticker := time.NewTicker(typingRefreshInterval)
		defer ticker.Stop()
		for {
			_, _ = b.SendChatAction(typingCtx, &bot.SendChatActionParams{
				ChatID: chatID,
				Action: models.ChatActionTyping,
			})
			select {
			case <-typingCtx.Done():
				return
			case <-ticker.C:
			}
		}
	}()

	return cancel
}
