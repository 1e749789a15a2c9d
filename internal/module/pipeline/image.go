package pipeline

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/quickai/server/internal/module/media"
	apperrors "github.com/quickai/server/internal/utils/errors"
)

const defaultImageType = "image/png"

type imageOperation struct {
	gen   ImageGenerator
	store media.Store
}

// NewImageOperation synthesizes an image and hosts it.
func NewImageOperation(gen ImageGenerator, store media.Store) Operation {
	return &imageOperation{gen: gen, store: store}
}

func (o *imageOperation) Kind() Kind { return KindImage }
func (o *imageOperation) Gate() Gate { return GatePlan }

func (o *imageOperation) Validate(req *Request) error {
	if strings.TrimSpace(req.Prompt) == "" {
		return invalid("Prompt is required")
	}
	return nil
}

// Execute failures carry the cause in an "error" field of the envelope.
func (o *imageOperation) Execute(ctx context.Context, _ Caller, req *Request) (*Result, error) {
	img, err := o.gen.Generate(ctx, req.Prompt)
	if err != nil {
		return nil, imageFailure(err)
	}

	contentType := img.ContentType
	if !strings.HasPrefix(contentType, "image/") {
		contentType = defaultImageType
	}
	asset, err := o.store.Upload(ctx, &media.UploadInput{
		Data:        img.Data,
		Filename:    "generated.png",
		ContentType: contentType,
	})
	if err != nil {
		return nil, imageFailure(err)
	}

	return &Result{
		Field:   FieldSecureURL,
		Payload: asset.SecureURL,
		Prompt:  req.Prompt,
		Publish: req.Publish,
	}, nil
}

func imageFailure(err error) error {
	return apperrors.Upstream(failureMessage(KindImage), err).
		WithDetails(map[string]any{"error": err.Error()})
}

const backgroundRemovalPrompt = "Remove background from image"

type backgroundRemovalOperation struct {
	store media.Store
}

// NewBackgroundRemovalOperation hosts an image with its background removed.
func NewBackgroundRemovalOperation(store media.Store) Operation {
	return &backgroundRemovalOperation{store: store}
}

func (o *backgroundRemovalOperation) Kind() Kind { return KindBackgroundRemoval }
func (o *backgroundRemovalOperation) Gate() Gate { return GatePlan }

func (o *backgroundRemovalOperation) Validate(req *Request) error {
	return requireImage(req)
}

func (o *backgroundRemovalOperation) Execute(ctx context.Context, _ Caller, req *Request) (*Result, error) {
	if !o.store.SupportsTransform() {
		return nil, upstreamFailure(KindBackgroundRemoval, media.ErrTransformUnsupported)
	}

	in, err := uploadInput(req.File, media.TransformBackgroundRemoval)
	if err != nil {
		return nil, apperrors.Internal(failureMessage(KindBackgroundRemoval), err)
	}
	asset, err := o.store.Upload(ctx, in)
	if err != nil {
		return nil, upstreamFailure(KindBackgroundRemoval, err)
	}

	return &Result{Field: FieldSecureURL, Payload: asset.SecureURL, Prompt: backgroundRemovalPrompt}, nil
}

// objectPattern keeps the object name safe to embed in a transformation URL.
var objectPattern = regexp.MustCompile(`^[\p{L}\p{N}][\p{L}\p{N} _-]*$`)

type objectRemovalOperation struct {
	store media.Store
}

// NewObjectRemovalOperation hosts an image and returns a URL that erases one object from it.
func NewObjectRemovalOperation(store media.Store) Operation {
	return &objectRemovalOperation{store: store}
}

func (o *objectRemovalOperation) Kind() Kind { return KindObjectRemoval }
func (o *objectRemovalOperation) Gate() Gate { return GatePlan }

func (o *objectRemovalOperation) Validate(req *Request) error {
	if err := requireImage(req); err != nil {
		return err
	}
	object := strings.TrimSpace(req.Object)
	if object == "" {
		return invalid("Object to remove is required")
	}
	if !objectPattern.MatchString(object) {
		return invalid("Object name may only contain letters, numbers, spaces, '-' and '_'")
	}
	return nil
}

// Execute uploads once and derives the edited URL without a second upload.
func (o *objectRemovalOperation) Execute(ctx context.Context, _ Caller, req *Request) (*Result, error) {
	if !o.store.SupportsTransform() {
		return nil, upstreamFailure(KindObjectRemoval, media.ErrTransformUnsupported)
	}

	in, err := uploadInput(req.File, "")
	if err != nil {
		return nil, apperrors.Internal(failureMessage(KindObjectRemoval), err)
	}
	asset, err := o.store.Upload(ctx, in)
	if err != nil {
		return nil, upstreamFailure(KindObjectRemoval, err)
	}

	object := strings.TrimSpace(req.Object)
	url, err := o.store.TransformURL(asset.PublicID, media.GenRemove(object))
	if err != nil {
		return nil, upstreamFailure(KindObjectRemoval, err)
	}

	return &Result{
		Field:   FieldSecureURL,
		Payload: url,
		Prompt:  fmt.Sprintf("Removed %s from image", object),
	}, nil
}

func requireImage(req *Request) error {
	if req.File == nil || req.File.Size() == 0 {
		return invalid("Image file is required")
	}
	return nil
}

func uploadInput(f File, transformation string) (*media.UploadInput, error) {
	data, err := f.Bytes()
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if len(data) == 0 {
		return nil, errors.New("read upload: no data")
	}
	return &media.UploadInput{
		Data:           data,
		Filename:       f.Filename(),
		ContentType:    f.ContentType(),
		Transformation: transformation,
	}, nil
}
