// Package imagegen is a client for the Clipdrop text-to-image API.
package imagegen

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/quickai/server/internal/infra/breaker"
	"github.com/quickai/server/internal/infra/config"
)

var (
	// ErrEmptyImage is returned when the upstream answers 2xx without image data.
	ErrEmptyImage = errors.New("empty image response")
	// ErrImageTooLarge is returned when the image exceeds maxImageBytes.
	ErrImageTooLarge = errors.New("image response too large")
)

// maxImageBytes bounds how much of a response body is read.
const maxImageBytes = 32 << 20

// Image is a synthesized image.
type Image struct {
	Data        []byte
	ContentType string
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

// Client posts prompts to the text-to-image endpoint.
type Client struct {
	client *http.Client
	cfg    config.ImageGenConfig
	guard  *breaker.Guard

	maxBytes int64
}

// NewClient creates a new image synthesis client.
func NewClient(httpClient *http.Client, cfg config.ImageGenConfig, guard *breaker.Guard) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{client: httpClient, cfg: cfg, guard: guard, maxBytes: maxImageBytes}
}

// Generate returns the raw image bytes for prompt.
func (c *Client) Generate(ctx context.Context, prompt string) (*Image, error) {
	return breaker.Call(ctx, c.guard, func(ctx context.Context) (*Image, error) {
		return c.generate(ctx, prompt)
	})
}

func (c *Client) generate(ctx context.Context, prompt string) (*Image, error) {
	var form bytes.Buffer
	writer := multipart.NewWriter(&form)
	if err := writer.WriteField("prompt", prompt); err != nil {
		return nil, fmt.Errorf("write prompt field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, &form)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("x-api-key", c.cfg.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	if int64(len(data)) > c.maxBytes {
		return nil, ErrImageTooLarge
	}
	if len(data) == 0 {
		return nil, ErrEmptyImage
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	return &Image{Data: data, ContentType: contentType}, nil
}
