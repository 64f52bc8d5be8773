// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rag

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/research-assistant/pkg/types"
)

const (
	defaultBaseURL    = "https://api.openai.com/v1"
	defaultModel      = "gpt-4o-mini"
	defaultMaxRetries = 3
)

// retryBaseDelay is the base backoff for failed API calls. Tests override
// this to avoid real sleeps.
var retryBaseDelay = 2 * time.Second

// OpenAIGenerator calls an OpenAI-compatible chat completions endpoint.
type OpenAIGenerator struct {
	client     *http.Client
	baseURL    string
	apiKey     string
	model      string
	maxRetries int
	log        *zap.SugaredLogger
}

// NewOpenAIGenerator builds a generator from cfg. Missing fields fall back
// to the OpenAI defaults; the API key is required at call time, not here.
func NewOpenAIGenerator(cfg types.AIConfig, client *http.Client, log *zap.SugaredLogger) *OpenAIGenerator {
	if client == nil {
		client = &http.Client{Timeout: 120 * time.Second}
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	return &OpenAIGenerator{
		client:     client,
		baseURL:    baseURL,
		apiKey:     cfg.APIKey,
		model:      model,
		maxRetries: maxRetries,
		log:        log,
	}
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// GenerateText sends the prompts to the chat completions endpoint and
// returns the first choice. Transient failures (network errors, 429, 5xx)
// are retried with exponential backoff (R4.2).
func (g *OpenAIGenerator) GenerateText(ctx context.Context, system, user string) (string, error) {
	if g.apiKey == "" {
		return "", fmt.Errorf("no API key configured for %s", g.baseURL)
	}

	messages := make([]chatMessage, 0, 2)
	if system != "" {
		messages = append(messages, chatMessage{Role: "system", Content: system})
	}
	messages = append(messages, chatMessage{Role: "user", Content: user})

	body, err := json.Marshal(chatRequest{Model: g.model, Messages: messages})
	if err != nil {
		return "", fmt.Errorf("encoding chat request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= g.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * retryBaseDelay
			g.log.Warnw("retrying chat completion", "attempt", attempt, "backoff", backoff, "err", lastErr)
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
		}

		text, retriable, err := g.call(ctx, body)
		if err == nil {
			return text, nil
		}
		lastErr = err
		if !retriable {
			return "", err
		}
	}
	return "", fmt.Errorf("chat completion failed after %d retries: %w", g.maxRetries, lastErr)
}

func (g *OpenAIGenerator) call(ctx context.Context, body []byte) (text string, retriable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", false, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", true, fmt.Errorf("chat completion request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", true, fmt.Errorf("reading chat response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return "", true, fmt.Errorf("chat completion HTTP %d: %s", resp.StatusCode, truncateBody(data))
	}
	if resp.StatusCode != http.StatusOK {
		return "", false, fmt.Errorf("chat completion HTTP %d: %s", resp.StatusCode, truncateBody(data))
	}

	var cr chatResponse
	if err := json.Unmarshal(data, &cr); err != nil {
		return "", false, fmt.Errorf("parsing chat response: %w", err)
	}
	if cr.Error != nil {
		return "", false, fmt.Errorf("chat completion API error: %s", cr.Error.Message)
	}
	if len(cr.Choices) == 0 {
		return "", false, fmt.Errorf("chat completion returned no choices")
	}
	return cr.Choices[0].Message.Content, false, nil
}

func truncateBody(data []byte) string {
	const max = 512
	s := string(data)
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
