package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

const statsQueryTimeout = 10 * time.Second

// NewStatsHandler returns a handler for the admin-only /stats command.
// It aggregates the usage log over the last 24 hours.
func NewStatsHandler(deps HandlerDeps) bot.HandlerFunc {
	return statsHandler{deps}.Handle
}

type statsHandler struct {
	deps HandlerDeps
}

func (h statsHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "stats")

	if update.Message == nil {
		log.WarnContext(ctx, "Stats handler received update with nil message", "update_id", update.ID)
		return
	}
	chatID := update.Message.Chat.ID

	queryCtx, cancel := context.WithTimeout(ctx, statsQueryTimeout)
	defer cancel()

	stats, err := h.deps.Store.GetUsageStats(queryCtx, time.Now().Add(-24*time.Hour))
	if err != nil {
		log.ErrorContext(ctx, "Failed to load usage stats", "error", err, "chat_id", chatID)
		h.send(ctx, b, chatID, h.deps.Config.Bot.Messages.Apology, log)
		return
	}

	if len(stats) == 0 {
		h.send(ctx, b, chatID, "За последние 24 часа запросов не было.", log)
		return
	}

	var sb strings.Builder
	sb.WriteString("Запросы за последние 24 часа:\n")
	for _, s := range stats {
		fmt.Fprintf(&sb, "%s: %d (ошибок: %d)\n", s.Intent, s.Total, s.Failed)
	}

	h.send(ctx, b, chatID, sb.String(), log)
}

func (h statsHandler) send(ctx context.Context, b *bot.Bot, chatID int64, text string, log *slog.Logger) {
	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text}); err != nil {
		log.ErrorContext(ctx, "Failed to send stats message", "error", err, "chat_id", chatID)
	}
}
