// Package ai calls the external text-generation service for category
// icon and savings suggestions. Failures never propagate: every call
// degrades to a fixed fallback value and is not retried.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"bilancio/internal/core"
)

const (
	// DefaultIcon is used whenever an icon suggestion fails.
	DefaultIcon = "📌"

	// FallbackAdvice is shown when the suggestion call fails.
	FallbackAdvice = "Unable to generate suggestions at this time. Please try again later."

	// EmptyBudgetAdvice is shown when there is nothing to analyze yet.
	EmptyBudgetAdvice = "Add your income and expenses to get personalized suggestions!"
)

var (
	ErrTimeout     = errors.New("text-generation service timed out")
	ErrBadResponse = errors.New("text-generation service returned a bad response")
)

type Config struct {
	Endpoint string
	APIKey   string
	Model    string
	Timeout  time.Duration
}

// Client is a thin JSON client for a messages-style completion
// endpoint. A client with no API key is valid and answers every call
// with the fallback value.
type Client struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
	model      string
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		endpoint:   cfg.Endpoint,
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
	}
}

// Enabled reports whether the client is configured to make real calls.
func (c *Client) Enabled() bool {
	return c.apiKey != "" && c.endpoint != ""
}

// SuggestIcon asks for a single emoji representing a category label.
// Any failure yields DefaultIcon.
func (c *Client) SuggestIcon(ctx context.Context, label string) string {
	text, err := c.complete(ctx, iconPrompt(label), 100)
	if err != nil {
		slog.WarnContext(ctx, "Icon suggestion failed, using default",
			"label", label, "error", err)
		return DefaultIcon
	}
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return DefaultIcon
	}
	return fields[0]
}

// SuggestSavings asks for expense-reduction advice for the given
// summary. An empty budget gets a fixed invitation instead of a call;
// any failure yields FallbackAdvice.
func (c *Client) SuggestSavings(ctx context.Context, s core.Summary) string {
	if s.Income.IsZero() || s.TotalExpenses.IsZero() {
		return EmptyBudgetAdvice
	}
	text, err := c.complete(ctx, savingsPrompt(s), 1000)
	if err != nil {
		slog.WarnContext(ctx, "Savings suggestion failed, using fallback",
			"error", err)
		return FallbackAdvice
	}
	return text
}

type (
	messagesRequest struct {
		Model     string    `json:"model"`
		MaxTokens int       `json:"max_tokens"`
		Messages  []message `json:"messages"`
	}

	message struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}

	messagesResponse struct {
		Content []contentBlock `json:"content"`
	}

	contentBlock struct {
		Type string `json:"type"`
		Text string `json:"text"`
	}
)

// complete performs one request and extracts the first text block.
// The response prose is not validated beyond this shape check.
func (c *Client) complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if !c.Enabled() {
		return "", ErrBadResponse
	}

	body, err := json.Marshal(messagesRequest{
		Model:     c.model,
		MaxTokens: maxTokens,
		Messages:  []message{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", ErrTimeout
		}
		return "", fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: status %d", ErrBadResponse, resp.StatusCode)
	}

	var out messagesResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	for _, block := range out.Content {
		if text := strings.TrimSpace(block.Text); text != "" {
			return text, nil
		}
	}
	return "", fmt.Errorf("%w: no text content", ErrBadResponse)
}
