// Package storage keeps report exports and receipt PDFs in an S3-compatible
// bucket (AWS S3, MinIO, RustFS) and hands out presigned download links.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	reportapp "github.com/bakery/backend/internal/application/report"
	"github.com/bakery/backend/internal/infrastructure/config"
	"github.com/bakery/backend/internal/infrastructure/printing"
	"go.uber.org/zap"
)

var (
	_ reportapp.ExportStorage = (*Bucket)(nil)
	_ printing.ObjectUploader = (*Bucket)(nil)
)

const (
	defaultRegion  = "us-east-1"
	defaultLinkTTL = 15 * time.Minute
)

var errEmptyKey = errors.New("storage: object key is required")

// Bucket is one bucket on an S3-compatible service
type Bucket struct {
	client  *s3.Client
	presign *s3.PresignClient
	name    string
	linkTTL time.Duration
	logger  *zap.Logger
}

// Option configures a Bucket
type Option func(*Bucket)

func WithLogger(logger *zap.Logger) Option {
	return func(b *Bucket) {
		b.logger = logger
	}
}

// WithLinkTTL sets how long download links stay valid when the caller
// does not say
func WithLinkTTL(d time.Duration) Option {
	return func(b *Bucket) {
		b.linkTTL = d
	}
}

// NewBucket builds a client for cfg.Bucket. A static key pair is used when
// given, otherwise the default AWS credential chain.
func NewBucket(cfg *config.StorageConfig, opts ...Option) (*Bucket, error) {
	switch {
	case cfg == nil:
		return nil, errors.New("storage: configuration is required")
	case cfg.Bucket == "":
		return nil, errors.New("storage: bucket is required")
	case (cfg.AccessKeyID == "") != (cfg.SecretAccessKey == ""):
		return nil, errors.New("storage: access key id and secret access key must be set together")
	}

	endpoint, err := normalizeEndpoint(cfg.Endpoint)
	if err != nil {
		return nil, err
	}
	awsCfg, err := loadAWSConfig(cfg)
	if err != nil {
		return nil, err
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})

	b := &Bucket{
		client:  client,
		presign: s3.NewPresignClient(client),
		name:    cfg.Bucket,
		linkTTL: cfg.PresignExpiry,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.linkTTL <= 0 {
		b.linkTTL = defaultLinkTTL
	}
	return b, nil
}

func loadAWSConfig(cfg *config.StorageConfig) (aws.Config, error) {
	region := cfg.Region
	if region == "" {
		region = defaultRegion
	}
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("storage: load aws config: %w", err)
	}
	return awsCfg, nil
}

// normalizeEndpoint defaults a bare host to https. Empty means AWS itself.
func normalizeEndpoint(raw string) (string, error) {
	if raw == "" {
		return "", nil
	}
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("storage: invalid endpoint %q", raw)
	}
	return raw, nil
}

// Ensure creates the bucket when it is missing
func (b *Bucket) Ensure(ctx context.Context) error {
	_, err := b.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(b.name)})
	if err == nil {
		return nil
	}
	if !hasCode(err, "NotFound", "NoSuchBucket") {
		return fmt.Errorf("storage: check bucket %s: %w", b.name, err)
	}

	b.logger.Info("Creating storage bucket", zap.String("bucket", b.name))
	_, err = b.client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(b.name)})
	if err != nil && !hasCode(err, "BucketAlreadyOwnedByYou") {
		return fmt.Errorf("storage: create bucket %s: %w", b.name, err)
	}
	return nil
}

// Upload stores data under key, replacing any previous object
func (b *Bucket) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	if key == "" {
		return errEmptyKey
	}
	_, err := b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(b.name),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("storage: put %s: %w", key, err)
	}
	b.logger.Debug("Object stored", zap.String("key", key), zap.Int("bytes", len(data)))
	return nil
}

// GenerateDownloadURL presigns a GET for key. ttl <= 0 uses the bucket's
// link TTL.
func (b *Bucket) GenerateDownloadURL(ctx context.Context, key string, ttl time.Duration) (string, time.Time, error) {
	if key == "" {
		return "", time.Time{}, errEmptyKey
	}
	if ttl <= 0 {
		ttl = b.linkTTL
	}
	req, err := b.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.name),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("storage: presign %s: %w", key, err)
	}
	return req.URL, time.Now().Add(ttl), nil
}

// Delete removes key. A missing key is not an error.
func (b *Bucket) Delete(ctx context.Context, key string) error {
	if key == "" {
		return errEmptyKey
	}
	_, err := b.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(b.name),
		Key:    aws.String(key),
	})
	if err != nil && !hasCode(err, "NoSuchKey") {
		return fmt.Errorf("storage: delete %s: %w", key, err)
	}
	return nil
}

func (b *Bucket) Exists(ctx context.Context, key string) (bool, error) {
	if key == "" {
		return false, errEmptyKey
	}
	_, err := b.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(b.name),
		Key:    aws.String(key),
	})
	switch {
	case err == nil:
		return true, nil
	case hasCode(err, "NotFound", "NoSuchKey"):
		return false, nil
	default:
		return false, fmt.Errorf("storage: head %s: %w", key, err)
	}
}

func (b *Bucket) Name() string {
	return b.name
}

// hasCode reports whether err carries one of the S3 error codes. HEAD
// responses have no body, so a missing object arrives as plain NotFound.
func hasCode(err error, codes ...string) bool {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	for _, code := range codes {
		if apiErr.ErrorCode() == code {
			return true
		}
	}
	return false
}
