// Package external contains HTTP clients for the services the
// assistant depends on: the LLM provider messages API, the clinical
// record service, and the guideline web search backend. Each live
// client carries its own rate limiter and circuit breaker; demo-mode
// counterparts answer from built-in data without any network traffic.
package external

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/medguide-assistant-server/internal/domain"
	"github.com/medguide-assistant-server/internal/prompts"
)

const anthropicVersion = "2023-06-01"

const defaultMaxTokens = 4096

// MessagesConfig contains configuration for the provider messages client.
// MaxTokens caps guideline answers; notes always get half the budget
// since they are shorter.
type MessagesConfig struct {
	BaseURL     string
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
	RateLimit   int
}

// MessagesClient talks to the LLM provider's messages endpoint. It
// implements both GuidelineQuerier and NoteWriter: the two operations
// differ only in prompt and token budget.
type MessagesClient struct {
	baseURL     string
	apiKey      string
	model       string
	maxTokens   int
	temperature float64
	httpClient  *http.Client
	limiter     *rate.Limiter
	breaker     *gobreaker.CircuitBreaker
}

// NewMessagesClient creates a new provider messages client
func NewMessagesClient(config MessagesConfig) *MessagesClient {
	if config.BaseURL == "" {
		config.BaseURL = "https://api.anthropic.com"
	}
	if config.Model == "" {
		config.Model = "claude-3-5-sonnet-20241022"
	}
	if config.MaxTokens <= 0 {
		config.MaxTokens = defaultMaxTokens
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.RateLimit == 0 {
		config.RateLimit = 5
	}

	return &MessagesClient{
		baseURL:     config.BaseURL,
		apiKey:      config.APIKey,
		model:       config.Model,
		maxTokens:   config.MaxTokens,
		temperature: config.Temperature,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(config.RateLimit), config.RateLimit),
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "provider-messages",
			Timeout: 60 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
		}),
	}
}

// WithAPIKey returns a client using the given key for authentication.
// The HTTP client, limiter, and breaker are shared so session-scoped
// keys do not bypass rate limiting. An empty key returns the receiver.
func (c *MessagesClient) WithAPIKey(apiKey string) *MessagesClient {
	if apiKey == "" {
		return c
	}
	override := *c
	override.apiKey = apiKey
	return &override
}

type messagesRequest struct {
	Model       string          `json:"model"`
	MaxTokens   int             `json:"max_tokens"`
	Temperature float64         `json:"temperature,omitempty"`
	System      string          `json:"system,omitempty"`
	Messages    []promptMessage `json:"messages"`
}

type promptMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// QueryGuidelines asks the provider a guideline question with the
// patient summary and any uploaded document text inlined in the prompt.
func (c *MessagesClient) QueryGuidelines(ctx context.Context, question string, patient domain.PatientSummary, condition, documentText string) (string, error) {
	prompt := prompts.BuildGuidelineQuery(question, patient, condition, documentText, 0)
	return c.complete(ctx, prompt, c.maxTokens)
}

// WriteNote asks the provider for the body of an assessment-and-plan note
func (c *MessagesClient) WriteNote(ctx context.Context, patient domain.PatientSummary, condition string) (string, error) {
	prompt := prompts.BuildNotePrompt(patient, condition)
	return c.complete(ctx, prompt, c.maxTokens/2)
}

// complete sends one user message and returns the first text block of
// the reply.
func (c *MessagesClient) complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.doComplete(ctx, prompt, maxTokens)
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}

func (c *MessagesClient) doComplete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	body, err := json.Marshal(messagesRequest{
		Model:       c.model,
		MaxTokens:   maxTokens,
		Temperature: c.temperature,
		System:      prompts.SystemInstruction,
		Messages: []promptMessage{
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode messages request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create messages request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("messages request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("provider returned status %d: %s", resp.StatusCode, string(payload))
	}

	var parsed messagesResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode messages response: %w", err)
	}
	if len(parsed.Content) == 0 {
		return "", fmt.Errorf("provider response contained no content blocks")
	}

	return parsed.Content[0].Text, nil
}
