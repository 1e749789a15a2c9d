package imagegen

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/quickai/server/internal/infra/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.Client(), config.ImageGenConfig{URL: server.URL + "/text-to-image/v1", APIKey: "clip-key"}, nil)
}

func TestClient_Generate(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/text-to-image/v1", r.URL.Path)
		assert.Equal(t, "clip-key", r.Header.Get("x-api-key"))
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "a red fox", r.FormValue("prompt"))

		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(pngHeader)
	})

	img, err := client.Generate(context.Background(), "a red fox")
	require.NoError(t, err)
	assert.Equal(t, pngHeader, img.Data)
	assert.Equal(t, "image/png", img.ContentType)
}

func TestClient_Generate_DetectsContentType(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header()["Content-Type"] = nil
		_, _ = w.Write(pngHeader)
	})

	img, err := client.Generate(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, "image/png", img.ContentType)
}

func TestClient_Generate_Errors(t *testing.T) {
	t.Run("api error", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusPaymentRequired)
			_, _ = w.Write([]byte(`{"error":"no credits"}`))
		})

		_, err := client.Generate(context.Background(), "x")
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusPaymentRequired, apiErr.StatusCode)
		assert.Contains(t, apiErr.Body, "no credits")
	})

	t.Run("empty body", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})

		_, err := client.Generate(context.Background(), "x")
		assert.ErrorIs(t, err, ErrEmptyImage)
	})
	t.Run("oversized image", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write(pngHeader)
		})
		client.maxBytes = int64(len(pngHeader)) - 1

		img, err := client.Generate(context.Background(), "x")
		assert.ErrorIs(t, err, ErrImageTooLarge)
		assert.Nil(t, img)
	})

	t.Run("image at the limit", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write(pngHeader)
		})
		client.maxBytes = int64(len(pngHeader))

		img, err := client.Generate(context.Background(), "x")
		require.NoError(t, err)
		assert.Equal(t, pngHeader, img.Data)
	})
}
