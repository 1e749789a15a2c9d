package media

import (
	"context"
	"errors"
	"testing"

	"github.com/quickai/server/internal/infra/breaker"
	"github.com/quickai/server/internal/infra/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockStore is a Store that records calls.
type mockStore struct {
	transform bool
	uploads   int
	err       error
}

func (m *mockStore) Type() BackendType       { return "mock" }
func (m *mockStore) SupportsTransform() bool { return m.transform }

func (m *mockStore) Upload(ctx context.Context, in *UploadInput) (*Asset, error) {
	m.uploads++
	if m.err != nil {
		return nil, m.err
	}
	return &Asset{PublicID: "id", SecureURL: "https://cdn/id"}, nil
}

func (m *mockStore) TransformURL(publicID, directive string) (string, error) {
	return "https://cdn/" + directive + "/" + publicID, nil
}

func TestStoreRegistry_SupportedTypes(t *testing.T) {
	registry := NewStoreRegistry()
	assert.Equal(t, []BackendType{BackendCloudinary, BackendS3}, registry.SupportedTypes())
}

func TestStoreRegistry_Open(t *testing.T) {
	registry := NewStoreRegistry()
	mock := &mockStore{}
	registry.Register("mock", func(ctx context.Context, cfg *config.Config) (Store, error) {
		return mock, nil
	})

	store, err := registry.Open(context.Background(), "mock", &config.Config{})
	require.NoError(t, err)
	assert.Equal(t, mock, store)
}

func TestStoreRegistry_Open_Errors(t *testing.T) {
	registry := NewStoreRegistry()

	_, err := registry.Open(context.Background(), "ftp", &config.Config{})
	assert.ErrorContains(t, err, "no media store")

	_, err = registry.Open(context.Background(), BackendCloudinary, &config.Config{})
	assert.ErrorContains(t, err, "cloudinary url is required")
}

func TestGuarded(t *testing.T) {
	t.Run("nil guard returns store as is", func(t *testing.T) {
		mock := &mockStore{}
		assert.Equal(t, Store(mock), Guarded(mock, nil))
	})

	t.Run("refuses transformations without calling upstream", func(t *testing.T) {
		mock := &mockStore{transform: false}
		store := Guarded(mock, breaker.New("media", config.BreakerConfig{Enabled: true, FailureThreshold: 1}, nil, nil))

		_, err := store.Upload(context.Background(), &UploadInput{Data: []byte("x"), Transformation: TransformBackgroundRemoval})
		assert.ErrorIs(t, err, ErrTransformUnsupported)
		assert.Zero(t, mock.uploads)
	})

	t.Run("open breaker stops uploads", func(t *testing.T) {
		mock := &mockStore{err: errors.New("boom")}
		store := Guarded(mock, breaker.New("media", config.BreakerConfig{Enabled: true, FailureThreshold: 1}, nil, nil))

		_, err := store.Upload(context.Background(), &UploadInput{Data: []byte("x")})
		require.Error(t, err)
		_, err = store.Upload(context.Background(), &UploadInput{Data: []byte("x")})
		assert.ErrorIs(t, err, breaker.ErrOpen)
		assert.Equal(t, 1, mock.uploads)

		url, err := store.TransformURL("id", GenRemove("car"))
		require.NoError(t, err)
		assert.Contains(t, url, "e_gen_remove:car")
	})
}
