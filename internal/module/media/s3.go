package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/quickai/server/internal/infra/config"
)

// S3Store hosts images in an S3-compatible bucket served from a public URL.
// It cannot transform images.
type S3Store struct {
	client        *s3.Client
	bucket        string
	folder        string
	publicBaseURL string
}

// NewS3Store creates a store backed by an S3-compatible bucket.
func NewS3Store(ctx context.Context, cfg config.StorageConfig, folder string) (*S3Store, error) {
	if cfg.Endpoint == "" || cfg.AccessKeyID == "" || cfg.SecretAccessKey == "" || cfg.Bucket == "" {
		return nil, errors.New("incomplete storage configuration")
	}

	creds := credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")

	region := cfg.Region
	if region == "" {
		region = "auto"
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(creds),
		awsconfig.WithRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.Endpoint)
		o.UsePathStyle = true
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
	})

	publicBaseURL := strings.TrimRight(cfg.PublicBaseURL, "/")
	if publicBaseURL == "" {
		publicBaseURL = strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
	}

	return &S3Store{
		client:        client,
		bucket:        cfg.Bucket,
		folder:        folder,
		publicBaseURL: publicBaseURL,
	}, nil
}

// Type returns the backend type.
func (s *S3Store) Type() BackendType {
	return BackendS3
}

// SupportsTransform reports false.
func (s *S3Store) SupportsTransform() bool {
	return false
}

// Upload puts the data under <folder>/<yyyy>/<mm>/<dd>/<uuid><ext>. Eager
// transformations are refused.
func (s *S3Store) Upload(ctx context.Context, in *UploadInput) (*Asset, error) {
	if in.Transformation != "" {
		return nil, ErrTransformUnsupported
	}
	if len(in.Data) == 0 {
		return nil, ErrEmptyUpload
	}

	key := path.Join(s.folder, time.Now().UTC().Format("2006/01/02"), uuid.NewString()+extension(in))

	input := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(in.Data),
		ContentLength: aws.Int64(int64(len(in.Data))),
	}
	if in.ContentType != "" {
		input.ContentType = aws.String(in.ContentType)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return nil, fmt.Errorf("put object: %w", err)
	}

	return &Asset{PublicID: key, SecureURL: s.publicBaseURL + "/" + key}, nil
}

// TransformURL always fails.
func (s *S3Store) TransformURL(publicID, directive string) (string, error) {
	return "", ErrTransformUnsupported
}

func extension(in *UploadInput) string {
	if ext := path.Ext(in.Filename); ext != "" {
		return strings.ToLower(ext)
	}
	switch in.ContentType {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	default:
		return ""
	}
}

// Compile-time check
var _ Store = (*S3Store)(nil)
