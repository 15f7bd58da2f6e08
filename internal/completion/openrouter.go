package completion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/avoronov/studbot/internal/config"
)

// bodyExcerptLimit caps how much of a provider error body ends up in logs.
const bodyExcerptLimit = 512

type openRouterClient struct {
	httpClient  *http.Client
	baseURL     string
	token       string
	model       string
	temperature float32
	log         *slog.Logger
}

func newOpenRouterClient(cfg config.CompletionConfig, log *slog.Logger) (*openRouterClient, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("completion token is required")
	}

	logger := log.With("component", "openrouter_client")
	logger.Info("OpenRouter client initialized", "base_url", cfg.BaseURL, "model", cfg.Model)

	return &openRouterClient{
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		token:       cfg.Token,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		log:         logger,
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Temperature float32       `json:"temperature"`
	Messages    []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete performs one POST to {base_url}/chat/completions. It makes a
// single attempt: the caller decides what to do with a *Failure.
func (c *openRouterClient) Complete(ctx context.Context, req Request) (string, error) {
	model := req.Model
	if model == "" {
		model = c.model
	}

	payload := chatRequest{
		Model:       model,
		Temperature: c.temperature,
	}
	if req.SystemPrompt != "" {
		payload.Messages = append(payload.Messages, chatMessage{Role: "system", Content: req.SystemPrompt})
	}
	payload.Messages = append(payload.Messages, chatMessage{Role: "user", Content: req.UserPrompt})

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal completion request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create completion request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("completion request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read completion response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.WarnContext(ctx, "provider rejected completion request", "status", resp.StatusCode)
		return "", &Failure{Status: resp.StatusCode, Reason: "provider returned non-2xx status", Body: excerpt(respBody)}
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", &Failure{Status: resp.StatusCode, Reason: "malformed provider response", Body: excerpt(respBody)}
	}

	if len(parsed.Choices) == 0 {
		return "", &Failure{Status: resp.StatusCode, Reason: "response contains no choices", Body: excerpt(respBody)}
	}

	return parsed.Choices[0].Message.Content, nil
}

func excerpt(body []byte) string {
	s := string(body)
	if len(s) > bodyExcerptLimit {
		return s[:bodyExcerptLimit]
	}
	return s
}
