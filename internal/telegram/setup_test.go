package telegram

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-telegram/bot"

	"github.com/avoronov/studbot/internal/bot/handlers"
)

// newFakeBot points a bot instance at a stub API server that answers
// every method call with the given result payload.
func newFakeBot(t *testing.T, result string) *bot.Bot {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true,"result":` + result + `}`))
	}))
	t.Cleanup(srv.Close)

	b, err := bot.New("123:test", bot.WithServerURL(srv.URL), bot.WithSkipGetMe())
	if err != nil {
		t.Fatalf("failed to create bot: %v", err)
	}
	return b
}

func testCommands() map[string]handlers.RegisteredHandler {
	return map[string]handlers.RegisteredHandler{
		"/start": {Pattern: "start", Description: "Начать работу с ботом"},
		"/help":  {Pattern: "help", Description: "Что умеет бот"},
	}
}

func TestPublishCommands(t *testing.T) {
	t.Parallel()

	b := newFakeBot(t, "true")

	if err := PublishCommands(context.Background(), b, slog.New(slog.DiscardHandler), testCommands()); err != nil {
		t.Fatalf("PublishCommands() error = %v", err)
	}
}

func TestPublishCommandsRejected(t *testing.T) {
	t.Parallel()

	b := newFakeBot(t, "false")

	err := PublishCommands(context.Background(), b, slog.New(slog.DiscardHandler), testCommands())
	if err == nil {
		t.Fatal("PublishCommands() returned nil for a rejected command list")
	}
	if strings.Contains(err.Error(), "%!w") {
		t.Errorf("error %q wraps a nil error", err)
	}
}
