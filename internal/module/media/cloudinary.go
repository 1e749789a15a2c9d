package media

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// CloudinaryStore hosts images on Cloudinary.
type CloudinaryStore struct {
	cld    *cloudinary.Cloudinary
	folder string
}

// NewCloudinaryStore creates a store from a cloudinary:// URL.
func NewCloudinaryStore(cloudinaryURL, folder string) (*CloudinaryStore, error) {
	if cloudinaryURL == "" {
		return nil, errors.New("cloudinary url is required")
	}
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("create cloudinary client: %w", err)
	}
	cld.Config.URL.Secure = true
	return &CloudinaryStore{cld: cld, folder: folder}, nil
}

// Type returns the backend type.
func (s *CloudinaryStore) Type() BackendType {
	return BackendCloudinary
}

// SupportsTransform reports true.
func (s *CloudinaryStore) SupportsTransform() bool {
	return true
}

// Upload sends the data as a base64 data URI.
func (s *CloudinaryStore) Upload(ctx context.Context, in *UploadInput) (*Asset, error) {
	if len(in.Data) == 0 {
		return nil, ErrEmptyUpload
	}

	params := uploader.UploadParams{
		Folder:         s.folder,
		Transformation: in.Transformation,
	}
	resp, err := s.cld.Upload.Upload(ctx, dataURI(in), params)
	if err != nil {
		return nil, fmt.Errorf("cloudinary upload: %w", err)
	}
	if resp.Error.Message != "" {
		return nil, fmt.Errorf("cloudinary upload: %s", resp.Error.Message)
	}
	if resp.SecureURL == "" {
		return nil, errors.New("cloudinary upload: no secure url in response")
	}

	return &Asset{PublicID: resp.PublicID, SecureURL: resp.SecureURL}, nil
}

// TransformURL builds a delivery URL carrying directive.
func (s *CloudinaryStore) TransformURL(publicID, directive string) (string, error) {
	img, err := s.cld.Image(publicID)
	if err != nil {
		return "", fmt.Errorf("build image asset: %w", err)
	}
	img.Transformation = directive

	url, err := img.String()
	if err != nil {
		return "", fmt.Errorf("build image url: %w", err)
	}
	return url, nil
}

func dataURI(in *UploadInput) string {
	contentType := in.ContentType
	if contentType == "" {
		contentType = http.DetectContentType(in.Data)
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(in.Data)
}

// Compile-time check
var _ Store = (*CloudinaryStore)(nil)
