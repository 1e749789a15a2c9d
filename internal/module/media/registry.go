package media

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/quickai/server/internal/infra/breaker"
	"github.com/quickai/server/internal/infra/config"
)

// Factory builds a store from configuration.
type Factory func(ctx context.Context, cfg *config.Config) (Store, error)

// StoreRegistry maps backend types to store factories.
type StoreRegistry struct {
	mu        sync.RWMutex
	factories map[BackendType]Factory
}

// NewStoreRegistry creates a registry holding the built-in backends.
func NewStoreRegistry() *StoreRegistry {
	r := &StoreRegistry{factories: make(map[BackendType]Factory)}
	r.Register(BackendCloudinary, func(ctx context.Context, cfg *config.Config) (Store, error) {
		return NewCloudinaryStore(cfg.Media.CloudinaryURL, cfg.Media.Folder)
	})
	r.Register(BackendS3, func(ctx context.Context, cfg *config.Config) (Store, error) {
		return NewS3Store(ctx, cfg.Storage, cfg.Media.Folder)
	})
	return r
}

// Register registers a factory, replacing any previous one for t.
func (r *StoreRegistry) Register(t BackendType, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[t] = f
}

// Open builds the store for backend type t.
func (r *StoreRegistry) Open(ctx context.Context, t BackendType, cfg *config.Config) (Store, error) {
	r.mu.RLock()
	f, ok := r.factories[t]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("no media store for backend type: %s", t)
	}

	store, err := f(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open %s media store: %w", t, err)
	}
	return store, nil
}

// SupportedTypes returns all registered backend types, sorted.
func (r *StoreRegistry) SupportedTypes() []BackendType {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]BackendType, 0, len(r.factories))
	for t := range r.factories {
		result = append(result, t)
	}
	sort.Slice(result, func(i, j int) bool { return result[i] < result[j] })
	return result
}

// Guarded wraps store so uploads run under guard. URL building is local and
// is not guarded.
func Guarded(store Store, guard *breaker.Guard) Store {
	if guard == nil {
		return store
	}
	return &guardedStore{Store: store, guard: guard}
}

type guardedStore struct {
	Store
	guard *breaker.Guard
}

func (g *guardedStore) Upload(ctx context.Context, in *UploadInput) (*Asset, error) {
	if in.Transformation != "" && !g.SupportsTransform() {
		return nil, ErrTransformUnsupported
	}
	return breaker.Call(ctx, g.guard, func(ctx context.Context) (*Asset, error) {
		return g.Store.Upload(ctx, in)
	})
}
