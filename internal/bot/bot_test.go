package bot

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	tgbot "github.com/go-telegram/bot"

	"github.com/avoronov/studbot/internal/config"
)

func TestRunWebhookRegistrationRejected(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if strings.HasSuffix(r.URL.Path, "/setWebhook") {
			_, _ = w.Write([]byte(`{"ok":true,"result":false}`))
			return
		}
		_, _ = w.Write([]byte(`{"ok":true,"result":true}`))
	}))
	t.Cleanup(srv.Close)

	tg, err := tgbot.New("123:test", tgbot.WithServerURL(srv.URL), tgbot.WithSkipGetMe())
	if err != nil {
		t.Fatalf("failed to create bot: %v", err)
	}

	cfg := &config.Config{Telegram: config.TelegramConfig{
		WebhookURL:  "https://bot.example.com",
		WebhookPath: "/telegram/webhook",
		ListenAddr:  "127.0.0.1:0",
	}}
	b := NewBot(slog.New(slog.DiscardHandler), cfg, nil, nil, tg, nil, "secret")

	err = b.runWebhook(context.Background())
	if err == nil {
		t.Fatal("runWebhook returned nil after telegram rejected the registration")
	}
	if strings.Contains(err.Error(), "%!w") {
		t.Errorf("error %q wraps a nil error", err)
	}
}
