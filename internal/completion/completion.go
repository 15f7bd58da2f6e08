// Package completion provides a single-shot chat-completions client.
// Two provider implementations exist behind the Client interface: an
// OpenRouter-compatible HTTP client and a Gemini SDK client. Which one is
// built is decided by configuration.
package completion

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/avoronov/studbot/internal/config"
)

// Request describes one completion round-trip: exactly one user prompt,
// an optional system prompt, and an optional model override. An empty
// Model falls back to the configured default.
type Request struct {
	Model        string
	SystemPrompt string
	UserPrompt   string
}

// Client performs exactly one completion attempt per call. Implementations
// never retry and never panic; every failure comes back as an error, with
// provider-level rejections typed as *Failure.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Failure is the error returned when the provider answered but the answer
// is unusable: non-2xx status, malformed payload, or a response with no
// choices. Status is zero when no HTTP status applies.
type Failure struct {
	Status int
	Reason string
	Body   string
}

func (f *Failure) Error() string {
	if f.Status != 0 {
		return fmt.Sprintf("completion failed: %s (status %d)", f.Reason, f.Status)
	}
	return fmt.Sprintf("completion failed: %s", f.Reason)
}

// NewClient builds the provider client selected by cfg.Provider.
func NewClient(ctx context.Context, cfg config.CompletionConfig, log *slog.Logger) (Client, error) {
	switch cfg.Provider {
	case "openrouter":
		return newOpenRouterClient(cfg, log)
	case "gemini":
		return newGeminiClient(ctx, cfg, log)
	default:
		return nil, fmt.Errorf("unknown completion provider %q", cfg.Provider)
	}
}
