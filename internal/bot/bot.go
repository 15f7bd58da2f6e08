// Package bot implements lifecycle management and component orchestration
// for the student-assistant Telegram bot.
package bot

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	tgbot "github.com/go-telegram/bot"
	"github.com/jmoiron/sqlx"
	"golang.org/x/sync/errgroup"

	"github.com/avoronov/studbot/internal/config"
	"github.com/avoronov/studbot/internal/database"
)

const httpShutdownTimeout = 10 * time.Second

// Bot represents the main bot application and manages its components'
// lifecycle. Depending on configuration it receives updates by long
// polling or over a webhook.
type Bot struct {
	logger        *slog.Logger
	cfg           *config.Config
	db            *sqlx.DB
	store         database.Store
	tgBot         *tgbot.Bot
	scheduler     *Scheduler
	webhookSecret string
}

// NewBot creates a new instance of the bot with all required dependencies.
func NewBot(
	logger *slog.Logger,
	cfg *config.Config,
	db *sqlx.DB,
	store database.Store,
	tgBot *tgbot.Bot,
	scheduler *Scheduler,
	webhookSecret string,
) *Bot {
	return &Bot{
		logger:        logger.With("component", "bot_orchestrator"),
		cfg:           cfg,
		db:            db,
		store:         store,
		tgBot:         tgBot,
		scheduler:     scheduler,
		webhookSecret: webhookSecret,
	}
}

// NewWebhookSecret generates the secret token Telegram echoes back on
// every webhook request.
func NewWebhookSecret() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate webhook secret: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// Run starts the bot and all its components, handling graceful shutdown
// on context cancellation.
func (b *Bot) Run(ctx context.Context) error {
	b.logger.Info("Starting bot orchestrator...")

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if b.cfg.Telegram.WebhookURL != "" {
			return b.runWebhook(gCtx)
		}
		return b.runPolling(gCtx)
	})

	g.Go(func() error {
		if err := b.scheduler.Start(); err != nil {
			return fmt.Errorf("failed to start scheduler: %w", err)
		}

		<-gCtx.Done()
		b.logger.Info("Shutdown signal received, stopping scheduler...")

		if err := b.scheduler.Stop(); err != nil {
			b.logger.Error("Error stopping scheduler", "error", err)
		}

		return nil
	})

	err := g.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		b.logger.Error("Bot orchestrator stopped due to error", "error", err)
		return err
	}

	b.logger.Info("Bot orchestrator stopped gracefully.")
	return nil
}

// runPolling drops any stale webhook registration and long-polls for
// updates until the context is cancelled.
func (b *Bot) runPolling(ctx context.Context) error {
	b.logger.Info("Starting Telegram listener in polling mode")

	if _, err := b.tgBot.DeleteWebhook(ctx, &tgbot.DeleteWebhookParams{DropPendingUpdates: false}); err != nil {
		b.logger.Warn("Failed to delete stale webhook before polling", "error", err)
	}

	b.tgBot.Start(ctx)
	b.logger.Info("Telegram listener stopped.")

	if ctx.Err() == nil {
		return fmt.Errorf("telegram listener stopped unexpectedly")
	}
	return nil
}

// runWebhook registers the webhook with Telegram, serves its handler on
// the configured address, and processes updates until shutdown.
func (b *Bot) runWebhook(ctx context.Context) error {
	publicURL := strings.TrimRight(b.cfg.Telegram.WebhookURL, "/") + b.cfg.Telegram.WebhookPath
	b.logger.Info("Starting Telegram listener in webhook mode", "url", publicURL, "listen_addr", b.cfg.Telegram.ListenAddr)

	ok, err := b.tgBot.SetWebhook(ctx, &tgbot.SetWebhookParams{
		URL:         publicURL,
		SecretToken: b.webhookSecret,
	})
	if err != nil {
		return fmt.Errorf("failed to register webhook: %w", err)
	}
	if !ok {
		return fmt.Errorf("telegram rejected webhook registration for %s", publicURL)
	}
	defer func() {
		cleanupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), httpShutdownTimeout)
		defer cancel()
		if _, err := b.tgBot.DeleteWebhook(cleanupCtx, &tgbot.DeleteWebhookParams{}); err != nil {
			b.logger.Warn("Failed to delete webhook on shutdown", "error", err)
		}
	}()

	mux := http.NewServeMux()
	mux.Handle(b.cfg.Telegram.WebhookPath, b.tgBot.WebhookHandler())
	srv := &http.Server{Addr: b.cfg.Telegram.ListenAddr, Handler: mux}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("webhook server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gCtx), httpShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		b.tgBot.StartWebhook(gCtx)
		return nil
	})

	return g.Wait()
}
