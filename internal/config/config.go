// Package config loads and validates application configuration from
// defaults, an optional config.yaml, and BOT_* environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config holds all settings for the bot process.
type Config struct {
	Log        LogConfig        `mapstructure:"log"`
	Telegram   TelegramConfig   `mapstructure:"telegram"`
	Completion CompletionConfig `mapstructure:"completion"`
	Bot        BotConfig        `mapstructure:"bot"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Scheduler  SchedulerConfig  `mapstructure:"scheduler"`
}

// LogConfig controls slog output.
type LogConfig struct {
	Level  string `mapstructure:"level"  validate:"required,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"required,oneof=json text"`
}

// TelegramConfig holds transport settings. WebhookURL empty means long
// polling; set it to serve updates over HTTPS on ListenAddr instead.
type TelegramConfig struct {
	Token       string `mapstructure:"token"        validate:"required"`
	AdminID     int64  `mapstructure:"admin_id"     validate:"required,gt=0"`
	WebhookURL  string `mapstructure:"webhook_url"  validate:"omitempty,url"`
	WebhookPath string `mapstructure:"webhook_path" validate:"required,startswith=/"`
	ListenAddr  string `mapstructure:"listen_addr"  validate:"required"`
}

// CompletionConfig selects and configures the completion provider.
type CompletionConfig struct {
	Provider     string        `mapstructure:"provider"      validate:"required,oneof=openrouter gemini"`
	Token        string        `mapstructure:"token"         validate:"required"`
	BaseURL      string        `mapstructure:"base_url"      validate:"required,url"`
	Model        string        `mapstructure:"model"         validate:"required"`
	Temperature  float32       `mapstructure:"temperature"   validate:"min=0,max=2"`
	Timeout      time.Duration `mapstructure:"timeout"       validate:"required,min=1s,max=10m"`
	SystemPrompt string        `mapstructure:"system_prompt" validate:"required"`
}

// BotMessages are the user-facing texts, overridable per deployment.
type BotMessages struct {
	Welcome       string `mapstructure:"welcome"        validate:"required"`
	Help          string `mapstructure:"help"           validate:"required"`
	Apology       string `mapstructure:"apology"        validate:"required"`
	NotAuthorized string `mapstructure:"not_authorized" validate:"required"`
}

// BotConfig holds behavior settings independent of the transport.
type BotConfig struct {
	MessageLimit int         `mapstructure:"message_limit" validate:"required,gt=0"`
	Messages     BotMessages `mapstructure:"messages"`
}

// DatabaseConfig configures the SQLite usage log.
type DatabaseConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// SchedulerConfig configures background jobs.
type SchedulerConfig struct {
	MaintenanceCron string `mapstructure:"maintenance_cron" validate:"required"`
}

// Validate checks the complete configuration against the struct tags.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}
