package media

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/quickai/server/internal/infra/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedPut struct {
	path        string
	contentType string
	body        []byte
}

func newS3TestServer(t *testing.T, status int) (*httptest.Server, *[]recordedPut) {
	t.Helper()
	var (
		mu   sync.Mutex
		puts []recordedPut
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		puts = append(puts, recordedPut{path: r.URL.Path, contentType: r.Header.Get("Content-Type"), body: body})
		mu.Unlock()
		if status != http.StatusOK {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`<?xml version="1.0"?><Error><Code>AccessDenied</Code><Message>denied</Message></Error>`))
			return
		}
		w.Header().Set("ETag", `"etag"`)
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)
	return server, &puts
}

func testStorageConfig(endpoint string) config.StorageConfig {
	return config.StorageConfig{
		Endpoint:        endpoint,
		Region:          "auto",
		AccessKeyID:     "access",
		SecretAccessKey: "secret",
		Bucket:          "media",
		PublicBaseURL:   "https://cdn.example.com/",
	}
}

func TestNewS3Store_IncompleteConfig(t *testing.T) {
	_, err := NewS3Store(context.Background(), config.StorageConfig{Endpoint: "http://localhost"}, "quickai")
	assert.Error(t, err)
}

func TestS3Store_Upload(t *testing.T) {
	server, puts := newS3TestServer(t, http.StatusOK)
	store, err := NewS3Store(context.Background(), testStorageConfig(server.URL), "quickai")
	require.NoError(t, err)

	asset, err := store.Upload(context.Background(), &UploadInput{
		Data:        []byte("png-bytes"),
		ContentType: "image/png",
	})
	require.NoError(t, err)

	require.Len(t, *puts, 1)
	put := (*puts)[0]
	assert.True(t, strings.HasPrefix(put.path, "/media/quickai/"), put.path)
	assert.True(t, strings.HasSuffix(put.path, ".png"), put.path)
	assert.Equal(t, "image/png", put.contentType)
	assert.Equal(t, []byte("png-bytes"), put.body)

	assert.Regexp(t, `^quickai/\d{4}/\d{2}/\d{2}/[0-9a-f-]{36}\.png$`, asset.PublicID)
	assert.Equal(t, "https://cdn.example.com/"+asset.PublicID, asset.SecureURL)
}

func TestS3Store_Upload_Error(t *testing.T) {
	server, _ := newS3TestServer(t, http.StatusForbidden)
	store, err := NewS3Store(context.Background(), testStorageConfig(server.URL), "quickai")
	require.NoError(t, err)

	_, err = store.Upload(context.Background(), &UploadInput{Data: []byte("x"), ContentType: "image/png"})
	assert.Error(t, err)
}

func TestS3Store_RefusesTransformations(t *testing.T) {
	server, puts := newS3TestServer(t, http.StatusOK)
	store, err := NewS3Store(context.Background(), testStorageConfig(server.URL), "quickai")
	require.NoError(t, err)

	_, err = store.Upload(context.Background(), &UploadInput{Data: []byte("x"), Transformation: TransformBackgroundRemoval})
	assert.ErrorIs(t, err, ErrTransformUnsupported)

	_, err = store.TransformURL("quickai/a.png", GenRemove("car"))
	assert.ErrorIs(t, err, ErrTransformUnsupported)

	assert.Empty(t, *puts)
	assert.False(t, store.SupportsTransform())
}

func TestExtension(t *testing.T) {
	assert.Equal(t, ".jpg", extension(&UploadInput{Filename: "photo.JPG"}))
	assert.Equal(t, ".webp", extension(&UploadInput{ContentType: "image/webp"}))
	assert.Equal(t, "", extension(&UploadInput{ContentType: "application/octet-stream"}))
}
