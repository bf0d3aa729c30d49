package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simpro/backend/internal/domain/shared"
	"github.com/simpro/backend/internal/infrastructure/config"
)

func TestNewS3BackupStore_Validation(t *testing.T) {
	t.Run("nil config returns error", func(t *testing.T) {
		_, err := NewS3BackupStore(nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "configuration is required")
	})

	t.Run("missing bucket returns error", func(t *testing.T) {
		_, err := NewS3BackupStore(&config.StorageConfig{AccessKeyID: "k", SecretAccessKey: "s"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bucket is required")
	})

	t.Run("valid config creates store", func(t *testing.T) {
		store, err := NewS3BackupStore(&config.StorageConfig{
			Bucket:          "simpro-backups",
			Endpoint:        "localhost:9000",
			AccessKeyID:     "k",
			SecretAccessKey: "s",
			UsePathStyle:    true,
		})
		require.NoError(t, err)
		assert.Equal(t, "simpro-backups", store.GetBucket())
	})
}

func TestS3BackupStore_DownloadURL(t *testing.T) {
	store, err := NewS3BackupStore(&config.StorageConfig{
		Bucket:          "simpro-backups",
		Region:          "ap-southeast-1",
		Endpoint:        "http://localhost:9000",
		AccessKeyID:     "k",
		SecretAccessKey: "s",
		UsePathStyle:    true,
	})
	require.NoError(t, err)

	url, expiresAt, err := store.DownloadURL(context.Background(), "backups/a/file.xlsx", time.Minute)
	require.NoError(t, err)
	assert.Contains(t, url, "localhost:9000/simpro-backups/backups/a/file.xlsx")
	assert.Contains(t, url, "X-Amz-Signature")
	assert.WithinDuration(t, time.Now().Add(time.Minute), expiresAt, 5*time.Second)

	_, _, err = store.DownloadURL(context.Background(), "", time.Minute)
	assert.Error(t, err)
}

func TestMemoryBackupStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryBackupStore()
	base := time.Date(2024, 5, 10, 8, 0, 0, 0, time.UTC)
	tick := 0
	store.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	require.NoError(t, store.Put(ctx, "backups/a/1.xlsx", []byte("one"), "application/octet-stream"))
	require.NoError(t, store.Put(ctx, "backups/a/2.xlsx", []byte("two!"), "application/octet-stream"))
	require.NoError(t, store.Put(ctx, "backups/b/1.xlsx", []byte("other"), "application/octet-stream"))

	body, err := store.Get(ctx, "backups/a/2.xlsx")
	require.NoError(t, err)
	assert.Equal(t, "two!", string(body))

	_, err = store.Get(ctx, "backups/a/missing.xlsx")
	assert.ErrorIs(t, err, shared.ErrNotFound)

	objects, err := store.List(ctx, "backups/a/")
	require.NoError(t, err)
	require.Len(t, objects, 2)
	assert.Equal(t, "backups/a/2.xlsx", objects[0].Key)
	assert.Equal(t, int64(4), objects[0].Size)

	assert.Error(t, store.Put(ctx, "", nil, ""))
}
