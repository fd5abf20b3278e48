package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	cfg "github.com/templui/golfjournal/internal/config"
)

// Storage holds archived exports. Objects are private and only reachable
// through short-lived presigned URLs.
type Storage interface {
	Save(ctx context.Context, path string, body io.Reader, contentType string) error
	Delete(ctx context.Context, path string) error
	PresignedURL(ctx context.Context, path string) (string, error)
}

// S3Storage works with AWS S3, MinIO, DigitalOcean Spaces, Cloudflare R2, etc.
type S3Storage struct {
	client        *s3.Client
	presignClient *s3.PresignClient
	bucket        string
	presignExpiry time.Duration
}

type S3Config struct {
	Region        string
	Bucket        string
	AccessKey     string
	SecretKey     string
	Endpoint      string // Optional: for S3-compatible services
	PresignExpiry time.Duration
}

// New creates the archive storage from app config.
func New(ctx context.Context, c *cfg.Config) (*S3Storage, error) {
	slog.Info("initializing S3 storage",
		"bucket", c.S3Bucket,
		"region", c.S3Region,
		"endpoint", c.S3Endpoint,
	)
	return NewS3Storage(ctx, S3Config{
		Region:        c.S3Region,
		Bucket:        c.S3Bucket,
		AccessKey:     c.S3AccessKey,
		SecretKey:     c.S3SecretKey,
		Endpoint:      c.S3Endpoint,
		PresignExpiry: c.S3PresignExpiry,
	})
}

func NewS3Storage(ctx context.Context, c S3Config) (*S3Storage, error) {
	var opts []func(*config.LoadOptions) error
	opts = append(opts, config.WithRegion(c.Region))

	if c.AccessKey != "" && c.SecretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(c.AccessKey, c.SecretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if c.Endpoint != "" {
			o.BaseEndpoint = aws.String(c.Endpoint)
			o.UsePathStyle = true // MinIO and most S3-compatible services
		}
	})

	storage := &S3Storage{
		client:        client,
		presignClient: s3.NewPresignClient(client),
		bucket:        c.Bucket,
		presignExpiry: c.PresignExpiry,
	}

	err = storage.ensureBucket(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure bucket exists: %w", err)
	}

	return storage, nil
}

func (s *S3Storage) ensureBucket(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err == nil {
		return nil
	}

	_, err = s.client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err != nil {
		return fmt.Errorf("bucket %q does not exist and could not be created: %w", s.bucket, err)
	}

	slog.Info("created S3 bucket", "bucket", s.bucket)
	return nil
}

func (s *S3Storage) Save(ctx context.Context, path string, body io.Reader, contentType string) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(path),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload to S3: %w", err)
	}

	return nil
}

func (s *S3Storage) Delete(ctx context.Context, path string) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(path),
	})
	if err != nil {
		return fmt.Errorf("failed to delete from S3: %w", err)
	}

	return nil
}

// PresignedURL grants temporary read access to a private object.
func (s *S3Storage) PresignedURL(ctx context.Context, path string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	req, err := s.presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(path),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = s.presignExpiry
	})
	if err != nil {
		return "", fmt.Errorf("failed to presign URL: %w", err)
	}

	return req.URL, nil
}
