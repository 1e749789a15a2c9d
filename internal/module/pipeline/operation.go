package pipeline

import (
	"context"
	"io"

	"github.com/quickai/server/internal/module/ai/imagegen"
	"github.com/quickai/server/internal/module/creation"
)

// Envelope payload keys.
const (
	FieldContent   = "content"
	FieldSecureURL = "secure_url"
)

// Result is what a successful operation produced.
type Result struct {
	// Field is the envelope key Payload is returned under.
	Field   string
	Payload string
	// Prompt is what gets recorded, which is not always what the user typed.
	Prompt  string
	Publish bool
}

// Operation is one capability behind a gate.
type Operation interface {
	Kind() Kind
	Gate() Gate
	// Validate checks the request without side effects.
	Validate(req *Request) error
	// Execute calls the external capability exactly once.
	Execute(ctx context.Context, caller Caller, req *Request) (*Result, error)
}

// TextCompleter completes a single-message prompt.
type TextCompleter interface {
	Complete(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// ImageGenerator synthesizes an image from a prompt.
type ImageGenerator interface {
	Generate(ctx context.Context, prompt string) (*imagegen.Image, error)
}

// TextExtractor pulls plain text out of a document.
type TextExtractor interface {
	ExtractText(ctx context.Context, r io.ReaderAt, size int64) (string, error)
}

// CreationStore appends provenance records.
type CreationStore interface {
	Record(ctx context.Context, c *creation.Creation) error
}

// UsageCounter advances a caller's free usage by one.
type UsageCounter interface {
	Increment(ctx context.Context, userID string) error
}
