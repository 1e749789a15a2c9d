package pipeline

import (
	"sort"
	"sync"

	"github.com/quickai/server/internal/infra/config"
	"github.com/quickai/server/internal/module/media"
)

// Registry maps operation kinds to their implementation.
type Registry struct {
	mu  sync.RWMutex
	ops map[Kind]Operation
}

// NewRegistry creates a registry holding ops.
func NewRegistry(ops ...Operation) *Registry {
	r := &Registry{ops: make(map[Kind]Operation, len(ops))}
	for _, op := range ops {
		r.Register(op)
	}
	return r
}

// Adapters are the external capabilities operations call.
type Adapters struct {
	Text      TextCompleter
	Images    ImageGenerator
	Media     media.Store
	Documents TextExtractor
}

// NewDefaultRegistry registers every operation the API exposes.
func NewDefaultRegistry(a Adapters, cfg config.QuotaConfig) *Registry {
	return NewRegistry(
		NewArticleOperation(a.Text, cfg.ArticleMaxTokens),
		NewBlogTitleOperation(a.Text, cfg.BlogTitleMaxTokens),
		NewImageOperation(a.Images, a.Media),
		NewBackgroundRemovalOperation(a.Media),
		NewObjectRemovalOperation(a.Media),
		NewResumeReviewOperation(a.Documents, a.Text, cfg.ReviewMaxTokens, cfg.MaxResumeBytes),
	)
}

// Register adds op, replacing any operation of the same kind.
func (r *Registry) Register(op Operation) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops[op.Kind()] = op
}

// Get returns the operation for kind.
func (r *Registry) Get(kind Kind) (Operation, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	op, ok := r.ops[kind]
	return op, ok
}

// Kinds returns the registered kinds in sorted order.
func (r *Registry) Kinds() []Kind {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kinds := make([]Kind, 0, len(r.ops))
	for k := range r.ops {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}
