package storage

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/aws/smithy-go"
	"github.com/bakery/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func testStorageConfig() *config.StorageConfig {
	return &config.StorageConfig{
		Bucket:          "bakery-test",
		AccessKeyID:     "test-key",
		SecretAccessKey: "test-secret",
		Region:          "ap-south-1",
		Endpoint:        "http://localhost:9000",
		UsePathStyle:    true,
		PresignExpiry:   10 * time.Minute,
	}
}

func TestNewBucket_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.StorageConfig)
		wantErr string
	}{
		{name: "missing bucket", mutate: func(c *config.StorageConfig) { c.Bucket = "" }, wantErr: "bucket is required"},
		{name: "half of a key pair", mutate: func(c *config.StorageConfig) { c.SecretAccessKey = "" }, wantErr: "must be set together"},
		{name: "endpoint without host", mutate: func(c *config.StorageConfig) { c.Endpoint = "https://" }, wantErr: "invalid endpoint"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testStorageConfig()
			tt.mutate(cfg)
			_, err := NewBucket(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	t.Run("nil config", func(t *testing.T) {
		_, err := NewBucket(nil)
		assert.Error(t, err)
	})
}

func TestNewBucket_Defaults(t *testing.T) {
	b, err := NewBucket(testStorageConfig())
	require.NoError(t, err)
	assert.Equal(t, "bakery-test", b.Name())
	assert.Equal(t, 10*time.Minute, b.linkTTL)

	cfg := testStorageConfig()
	cfg.PresignExpiry = 0
	b, err = NewBucket(cfg)
	require.NoError(t, err)
	assert.Equal(t, defaultLinkTTL, b.linkTTL)

	b, err = NewBucket(testStorageConfig(), WithLogger(zaptest.NewLogger(t)), WithLinkTTL(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, time.Hour, b.linkTTL)
}

func TestNormalizeEndpoint(t *testing.T) {
	tests := map[string]string{
		"":                      "",
		"minio.internal:9000":   "https://minio.internal:9000",
		"http://localhost:9000": "http://localhost:9000",
		"https://s3.example":    "https://s3.example",
	}
	for in, want := range tests {
		got, err := normalizeEndpoint(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestBucket_GenerateDownloadURL(t *testing.T) {
	b, err := NewBucket(testStorageConfig())
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("empty key", func(t *testing.T) {
		url, _, err := b.GenerateDownloadURL(ctx, "", time.Minute)
		assert.ErrorIs(t, err, errEmptyKey)
		assert.Empty(t, url)
	})

	t.Run("path style presigned URL", func(t *testing.T) {
		url, expiresAt, err := b.GenerateDownloadURL(ctx, "reports/summary.json", time.Hour)
		require.NoError(t, err)
		assert.Contains(t, url, "localhost:9000/bakery-test/reports/summary.json")
		assert.Contains(t, url, "X-Amz-Expires=3600")
		assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)
	})

	t.Run("bucket link TTL", func(t *testing.T) {
		url, _, err := b.GenerateDownloadURL(ctx, "reports/summary.json", 0)
		require.NoError(t, err)
		assert.Contains(t, url, "X-Amz-Expires=600")
	})
}

func TestBucket_EmptyKeyIsRejected(t *testing.T) {
	b, err := NewBucket(testStorageConfig())
	require.NoError(t, err)
	ctx := context.Background()

	assert.ErrorIs(t, b.Upload(ctx, "", []byte("x"), "text/plain"), errEmptyKey)
	assert.ErrorIs(t, b.Delete(ctx, ""), errEmptyKey)
	exists, err := b.Exists(ctx, "")
	assert.ErrorIs(t, err, errEmptyKey)
	assert.False(t, exists)
}

func TestHasCode(t *testing.T) {
	notFound := fmt.Errorf("head object: %w", &smithy.GenericAPIError{Code: "NotFound"})

	assert.True(t, hasCode(notFound, "NoSuchKey", "NotFound"))
	assert.False(t, hasCode(notFound, "AccessDenied"))
	assert.False(t, hasCode(errors.New("NotFound"), "NotFound"), "only typed API errors count")
}
