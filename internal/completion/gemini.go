package completion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"google.golang.org/genai"

	"github.com/avoronov/studbot/internal/config"
)

type geminiClient struct {
	genaiClient *genai.Client
	model       string
	temperature float32
	log         *slog.Logger
}

func newGeminiClient(ctx context.Context, cfg config.CompletionConfig, log *slog.Logger) (*geminiClient, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("completion token is required")
	}

	gi, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.Token,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	logger := log.With("component", "gemini_client")
	logger.Info("Gemini client initialized", "model", cfg.Model)

	return &geminiClient{
		genaiClient: gi,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		log:         logger,
	}, nil
}

// Complete makes a single GenerateContent call. API errors and empty
// responses are mapped onto the same *Failure shape the HTTP client uses
// so callers handle both providers uniformly.
func (c *geminiClient) Complete(ctx context.Context, req Request) (string, error) {
	model := req.Model
	if model == "" {
		model = c.model
	}

	temperature := c.temperature
	genCfg := &genai.GenerateContentConfig{Temperature: &temperature}
	if req.SystemPrompt != "" {
		genCfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: req.SystemPrompt}}}
	}

	contents := []*genai.Content{genai.NewContentFromText(req.UserPrompt, genai.RoleUser)}

	resp, err := c.genaiClient.Models.GenerateContent(ctx, model, contents, genCfg)
	if err != nil {
		var apiErr *genai.APIError
		if errors.As(err, &apiErr) {
			c.log.WarnContext(ctx, "Gemini API call rejected", "code", apiErr.Code)
			return "", &Failure{Status: apiErr.Code, Reason: "provider rejected request", Body: apiErr.Message}
		}
		return "", fmt.Errorf("gemini API call failed: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", &Failure{Reason: "response contains no candidates"}
	}

	text := resp.Text()
	if text == "" {
		return "", &Failure{Reason: "response text is empty"}
	}

	return text, nil
}
