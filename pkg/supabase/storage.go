package supabase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var ErrStorageNotConfigured = errors.New("storage is not configured")

// StorageConfig holds the Supabase Storage S3 credentials. Supabase exposes
// an S3-compatible endpoint at <project>/storage/v1/s3.
type StorageConfig struct {
	ProjectURL      string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
}

func (c StorageConfig) Configured() bool {
	return c.ProjectURL != "" && c.AccessKeyID != "" && c.SecretAccessKey != "" && c.Bucket != ""
}

// Storage uploads public objects (avatars, company logos).
type Storage struct {
	client     *s3.Client
	bucket     string
	publicBase string
}

func NewStorage(ctx context.Context, cfg StorageConfig) (*Storage, error) {
	if !cfg.Configured() {
		return nil, ErrStorageNotConfigured
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load storage config: %w", err)
	}

	base := strings.TrimRight(cfg.ProjectURL, "/")
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(base + "/storage/v1/s3")
		o.UsePathStyle = true
	})

	return &Storage{
		client:     client,
		bucket:     cfg.Bucket,
		publicBase: base + "/storage/v1/object/public/" + cfg.Bucket,
	}, nil
}

// Upload writes data at path (overwriting) and returns its public URL.
func (s *Storage) Upload(ctx context.Context, path, contentType string, data []byte) (string, error) {
	path = strings.TrimLeft(path, "/")
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(s.bucket),
		Key:          aws.String(path),
		Body:         bytes.NewReader(data),
		ContentType:  aws.String(contentType),
		CacheControl: aws.String("public, max-age=3600"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", path, err)
	}
	return s.PublicURL(path), nil
}

func (s *Storage) PublicURL(path string) string {
	return s.publicBase + "/" + strings.TrimLeft(path, "/")
}

// Ping checks that the bucket is reachable.
func (s *Storage) Ping(ctx context.Context) error {
	_, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(s.bucket),
		MaxKeys: aws.Int32(1),
	})
	if err != nil {
		return fmt.Errorf("failed to access bucket %s: %w", s.bucket, err)
	}
	return nil
}
