package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Load loads and validates configuration from:
// 1. Default values
// 2. config.yaml file
// 3. BOT_* environment variables
func Load() (*Config, error) {
	setDefaults()

	if err := readConfig(); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// readConfig initializes viper: optional config.yaml plus BOT_* env vars.
func readConfig() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	viper.SetEnvPrefix("BOT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Unmarshal only sees env values for keys viper already knows about,
	// so keys without a default must be bound explicitly.
	for _, key := range []string{"telegram.token", "telegram.admin_id", "telegram.webhook_url", "completion.token"} {
		if err := viper.BindEnv(key); err != nil {
			return fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}

	// Missing config file is fine, defaults plus env cover it
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		}
	}

	return nil
}

func setDefaults() {
	viper.SetDefault("log.level", DefaultLogLevel)
	viper.SetDefault("log.format", DefaultLogFormat)

	viper.SetDefault("telegram.webhook_path", DefaultTelegramWebhookPath)
	viper.SetDefault("telegram.listen_addr", DefaultTelegramListenAddr)

	viper.SetDefault("completion.provider", DefaultCompletionProvider)
	viper.SetDefault("completion.base_url", DefaultCompletionBaseURL)
	viper.SetDefault("completion.model", DefaultCompletionModel)
	viper.SetDefault("completion.temperature", DefaultCompletionTemperature)
	viper.SetDefault("completion.timeout", DefaultCompletionTimeout)
	viper.SetDefault("completion.system_prompt", DefaultCompletionSystemPrompt)

	viper.SetDefault("bot.message_limit", DefaultBotMessageLimit)
	viper.SetDefault("bot.messages.welcome", DefaultBotMessages.Welcome)
	viper.SetDefault("bot.messages.help", DefaultBotMessages.Help)
	viper.SetDefault("bot.messages.apology", DefaultBotMessages.Apology)
	viper.SetDefault("bot.messages.not_authorized", DefaultBotMessages.NotAuthorized)

	viper.SetDefault("database.path", DefaultDatabasePath)

	viper.SetDefault("scheduler.maintenance_cron", DefaultMaintenanceCron)
}
