package handlers

import (
	"log/slog"

	"github.com/avoronov/studbot/internal/config"
	"github.com/avoronov/studbot/internal/database"
	"github.com/avoronov/studbot/internal/pipeline"
)

// HandlerDeps provides dependencies for Telegram command handlers.
type HandlerDeps struct {
	Logger   *slog.Logger
	Config   *config.Config
	Store    database.Store
	Pipeline *pipeline.Pipeline
}
