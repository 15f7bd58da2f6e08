// Package main contains the entrypoint for the student-assistant bot.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tgbot "github.com/go-telegram/bot"

	"github.com/avoronov/studbot/internal/bot"
	"github.com/avoronov/studbot/internal/bot/handlers"
	"github.com/avoronov/studbot/internal/bot/tasks"
	"github.com/avoronov/studbot/internal/completion"
	"github.com/avoronov/studbot/internal/config"
	"github.com/avoronov/studbot/internal/database"
	"github.com/avoronov/studbot/internal/logger"
	"github.com/avoronov/studbot/internal/pipeline"
	"github.com/avoronov/studbot/internal/telegram"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx)
	stop()
	os.Exit(exitCode)
}

// run initializes and starts all application components, handles graceful
// shutdown, and returns the process exit code.
func run(ctx context.Context) int {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		return 1
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	log.Info("Logger initialized", "level", cfg.Log.Level, "format", cfg.Log.Format)

	db, err := database.NewDB(cfg.Database.Path)
	if err != nil {
		log.Error("Failed to connect to database", "path", cfg.Database.Path, "error", err)
		return 1
	}
	defer database.CloseDB(db)
	store := database.NewStore(db, log)

	completer, err := completion.NewClient(ctx, cfg.Completion, log)
	if err != nil {
		log.Error("Failed to initialize completion client", "provider", cfg.Completion.Provider, "error", err)
		return 1
	}

	replier := handlers.NewReplier()
	pl := pipeline.New(completer, replier, store, cfg, log)

	hDeps := handlers.HandlerDeps{
		Logger:   log,
		Config:   cfg,
		Store:    store,
		Pipeline: pl,
	}
	tDeps := tasks.TaskDeps{
		Logger: log,
		Store:  store,
		Config: cfg,
	}

	webhookSecret, err := bot.NewWebhookSecret()
	if err != nil {
		log.Error("Failed to generate webhook secret", "error", err)
		return 1
	}

	botOpts := []tgbot.Option{
		tgbot.WithMiddlewares(logger.Middleware(log)),
		tgbot.WithDefaultHandler(handlers.NewChatHandler(hDeps)),
	}
	if cfg.Telegram.WebhookURL != "" {
		botOpts = append(botOpts, tgbot.WithWebhookSecretToken(webhookSecret))
	}

	tg, err := telegram.NewTelegramBot(cfg.Telegram.Token, log, botOpts...)
	if err != nil {
		log.Error("Failed to create Telegram bot", "error", err)
		return 1
	}
	replier.Bind(tg)

	me, err := tg.GetMe(ctx)
	if err != nil {
		log.Error("Failed to get bot info", "error", err)
		return 1
	}
	log.Info("Retrieved bot info", "bot_id", me.ID, "bot_username", me.Username)

	cmdHandlers := handlers.RegisterAllCommands(hDeps)
	if err := telegram.RegisterHandlers(tg, log, cmdHandlers); err != nil {
		log.Error("Failed to register Telegram handlers", "error", err)
		return 1
	}
	if err := telegram.PublishCommands(ctx, tg, log, cmdHandlers); err != nil {
		log.Warn("Failed to publish command list", "error", err)
	}

	sched, err := bot.NewScheduler(log, tasks.RegisterAllTasks(tDeps))
	if err != nil {
		log.Error("Failed to create scheduler", "error", err)
		return 1
	}

	app := bot.NewBot(log, cfg, db, store, tg, sched, webhookSecret)

	log.Info("Starting bot...")
	runErr := app.Run(ctx)

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Error("Bot stopped due to error", "error", runErr)
		return 1
	}

	log.Info("Bot stopped gracefully.")
	return 0
}
