package pipeline

import (
	"context"
	"io"

	"github.com/quickai/server/internal/module/ai/imagegen"
	"github.com/quickai/server/internal/module/creation"
	"github.com/quickai/server/internal/module/media"
	"github.com/stretchr/testify/mock"
)

type MockTextCompleter struct {
	mock.Mock
}

func (m *MockTextCompleter) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	args := m.Called(ctx, prompt, maxTokens)
	return args.String(0), args.Error(1)
}

type MockImageGenerator struct {
	mock.Mock
}

func (m *MockImageGenerator) Generate(ctx context.Context, prompt string) (*imagegen.Image, error) {
	args := m.Called(ctx, prompt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*imagegen.Image), args.Error(1)
}

type MockMediaStore struct {
	mock.Mock
	transforms bool
}

func newMockMediaStore() *MockMediaStore {
	return &MockMediaStore{transforms: true}
}

func (m *MockMediaStore) Type() media.BackendType { return media.BackendCloudinary }
func (m *MockMediaStore) SupportsTransform() bool { return m.transforms }

func (m *MockMediaStore) Upload(ctx context.Context, in *media.UploadInput) (*media.Asset, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*media.Asset), args.Error(1)
}

func (m *MockMediaStore) TransformURL(publicID, directive string) (string, error) {
	args := m.Called(publicID, directive)
	return args.String(0), args.Error(1)
}

type MockTextExtractor struct {
	mock.Mock
}

func (m *MockTextExtractor) ExtractText(ctx context.Context, r io.ReaderAt, size int64) (string, error) {
	args := m.Called(ctx, r, size)
	return args.String(0), args.Error(1)
}

type MockCreationStore struct {
	mock.Mock
}

func (m *MockCreationStore) Record(ctx context.Context, c *creation.Creation) error {
	args := m.Called(ctx, c)
	if args.Error(0) == nil {
		c.ID = 1
	}
	return args.Error(0)
}

type MockUsageCounter struct {
	mock.Mock
}

func (m *MockUsageCounter) Increment(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// sizedFile reports a declared size independent of its content.
type sizedFile struct {
	size int64
	data []byte
}

func (f *sizedFile) Filename() string       { return "resume.pdf" }
func (f *sizedFile) Size() int64            { return f.size }
func (f *sizedFile) ContentType() string    { return "application/pdf" }
func (f *sizedFile) Bytes() ([]byte, error) { return f.data, nil }
