//go:build integration

package storage

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bakery/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
)

func startMinio(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "minio/minio:latest",
			ExposedPorts: []string{"9000/tcp"},
			Env: map[string]string{
				"MINIO_ROOT_USER":     "minioadmin",
				"MINIO_ROOT_PASSWORD": "minioadmin",
			},
			Cmd:        []string{"server", "/data"},
			WaitingFor: wait.ForHTTP("/minio/health/live").WithPort("9000/tcp").WithStartupTimeout(time.Minute),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "9000")
	require.NoError(t, err)
	return fmt.Sprintf("http://%s:%s", host, port.Port())
}

func TestIntegration_UploadAndDownload(t *testing.T) {
	endpoint := startMinio(t)
	ctx := context.Background()

	storage, err := NewBucket(&config.StorageConfig{
		Bucket:          "bakery-integration",
		AccessKeyID:     "minioadmin",
		SecretAccessKey: "minioadmin",
		Endpoint:        endpoint,
		UsePathStyle:    true,
	}, WithLogger(zap.NewNop()))
	require.NoError(t, err)

	require.NoError(t, storage.Ensure(ctx))
	require.NoError(t, storage.Ensure(ctx))

	key := "receipts/POS-20260101-ABCDEF.pdf"
	require.NoError(t, storage.Upload(ctx, key, []byte("%PDF-1.4"), "application/pdf"))

	exists, err := storage.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, exists)

	url, _, err := storage.GenerateDownloadURL(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.Contains(t, url, endpoint)

	require.NoError(t, storage.Delete(ctx, key))
	require.NoError(t, storage.Delete(ctx, key), "deleting twice is fine")
	exists, err = storage.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, exists)
}
