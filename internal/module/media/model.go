// Package media hosts user images and builds transformation URLs for them.
package media

import (
	"context"
	"errors"
)

// BackendType identifies a media store implementation.
type BackendType string

const (
	BackendCloudinary BackendType = "cloudinary"
	BackendS3         BackendType = "s3"
)

// Transformation directives understood by the hosted store.
const (
	TransformBackgroundRemoval = "e_background_removal"
	transformGenRemovePrefix   = "e_gen_remove:"
)

// GenRemove returns the directive that erases object from an image.
func GenRemove(object string) string {
	return transformGenRemovePrefix + object
}

var (
	// ErrTransformUnsupported is returned by stores that cannot transform images.
	ErrTransformUnsupported = errors.New("media store does not support transformations")
	// ErrEmptyUpload is returned when an upload carries no data.
	ErrEmptyUpload = errors.New("empty upload")
)

// UploadInput is one file to host.
type UploadInput struct {
	Data        []byte
	Filename    string
	ContentType string
	// Transformation is applied eagerly by the store before the URL is returned.
	Transformation string
}

// Asset is a hosted file.
type Asset struct {
	PublicID  string
	SecureURL string
}

// Store hosts images.
type Store interface {
	// Type returns the backend type.
	Type() BackendType
	// SupportsTransform reports whether the store can apply directives.
	SupportsTransform() bool
	// Upload stores the input and returns its public location.
	Upload(ctx context.Context, in *UploadInput) (*Asset, error)
	// TransformURL builds a URL that applies directive lazily, without uploading again.
	TransformURL(publicID, directive string) (string, error)
}
