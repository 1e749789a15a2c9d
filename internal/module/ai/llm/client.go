// Package llm is a client for OpenAI-compatible chat-completions endpoints.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/quickai/server/internal/infra/breaker"
	"github.com/quickai/server/internal/infra/config"
)

// ErrNoChoices is returned when the upstream answers without any choice.
var ErrNoChoices = errors.New("no choices in response")

// Message is a single chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the request body of a chat completion.
type ChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Index        int     `json:"index"`
		Message      Message `json:"message"`
		FinishReason string  `json:"finish_reason"`
	} `json:"choices"`
}

// APIError is a non-2xx answer from the upstream.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Body)
}

// HTTPStatus returns the upstream status code.
func (e *APIError) HTTPStatus() int { return e.StatusCode }

// Client calls a chat-completions endpoint with a single user message.
type Client struct {
	client *http.Client
	cfg    config.LLMConfig
	guard  *breaker.Guard
}

// NewClient creates a new completion client.
func NewClient(httpClient *http.Client, cfg config.LLMConfig, guard *breaker.Guard) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Client{client: httpClient, cfg: cfg, guard: guard}
}

// Complete sends prompt as one user message and returns the first choice's
// content, which may be empty. A maxTokens of zero leaves the budget to the
// upstream.
func (c *Client) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	return breaker.Call(ctx, c.guard, func(ctx context.Context) (string, error) {
		return c.complete(ctx, prompt, maxTokens)
	})
}

func (c *Client) complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	body := ChatRequest{
		Model:       c.cfg.Model,
		Messages:    []Message{{Role: "user", Content: prompt}},
		Temperature: c.cfg.Temperature,
		MaxTokens:   maxTokens,
	}

	respBody, err := c.doRequest(ctx, "/chat/completions", body)
	if err != nil {
		return "", err
	}
	defer respBody.Close()

	var resp chatResponse
	if err := json.NewDecoder(respBody).Decode(&resp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrNoChoices
	}

	return resp.Choices[0].Message.Content, nil
}

func (c *Client) doRequest(ctx context.Context, path string, body any) (io.ReadCloser, error) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	return resp.Body, nil
}
