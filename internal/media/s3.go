package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"

	"github.com/videotube/backend/internal/config"
)

// S3Uploader implements Uploader backed by an S3-compatible service.
type S3Uploader struct {
	uploader *manager.Uploader
	bucket   string
	baseURL  string
}

// NewS3Uploader configures an uploader targeting the provided object store.
func NewS3Uploader(ctx context.Context, cfg config.ObjectStoreConfig) (*S3Uploader, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, fmt.Errorf("s3 uploader: bucket is required")
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}

	if strings.TrimSpace(cfg.Endpoint) != "" {
		resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, _ ...interface{}) (aws.Endpoint, error) {
			if service == s3.ServiceID {
				return aws.Endpoint{
					URL:           cfg.Endpoint,
					SigningRegion: cfg.Region,
				}, nil
			}
			return aws.Endpoint{}, &aws.EndpointNotFoundError{}
		})
		loadOpts = append(loadOpts, awsconfig.WithEndpointResolverWithOptions(resolver))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = true
	})

	uploader := manager.NewUploader(client, func(u *manager.Uploader) {
		u.PartSize = 5 * 1024 * 1024
		u.LeavePartsOnError = false
	})

	return &S3Uploader{
		uploader: uploader,
		bucket:   cfg.Bucket,
		baseURL:  strings.TrimSuffix(cfg.PublicBaseURL, "/"),
	}, nil
}

// Upload pushes the local file to the configured bucket under a fresh key
// and returns its public location. The local file is removed whether or not
// the upload succeeded.
func (s *S3Uploader) Upload(ctx context.Context, localPath string) (Upload, error) {
	defer os.Remove(localPath)

	file, err := os.Open(localPath)
	if err != nil {
		return Upload{}, fmt.Errorf("s3 uploader open %s: %w", localPath, err)
	}
	defer file.Close()

	key := uuid.NewString() + strings.ToLower(filepath.Ext(localPath))

	_, err = s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   file,
		ACL:    s3types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return Upload{}, fmt.Errorf("s3 uploader upload %s: %w", key, err)
	}

	if s.baseURL == "" {
		return Upload{URL: key}, nil
	}
	return Upload{URL: fmt.Sprintf("%s/%s", s.baseURL, key)}, nil
}

var _ Uploader = (*S3Uploader)(nil)
