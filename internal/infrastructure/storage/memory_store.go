package storage

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	backupapp "github.com/simpro/backend/internal/application/backup"
	"github.com/simpro/backend/internal/domain/shared"
)

// MemoryBackupStore keeps backups in process memory. It is used when no
// bucket is configured and in tests.
type MemoryBackupStore struct {
	// BaseURL is the base URL for generated download links
	BaseURL string

	mu      sync.RWMutex
	objects map[string]memoryObject
	now     func() time.Time
}

type memoryObject struct {
	body        []byte
	contentType string
	modified    time.Time
}

// NewMemoryBackupStore creates an empty store
func NewMemoryBackupStore() *MemoryBackupStore {
	return &MemoryBackupStore{
		BaseURL: "memory://backups",
		objects: make(map[string]memoryObject),
		now:     time.Now,
	}
}

// Ensure MemoryBackupStore implements BackupStore
var _ backupapp.BackupStore = (*MemoryBackupStore)(nil)

// Put stores a copy of body
func (s *MemoryBackupStore) Put(ctx context.Context, key string, body []byte, contentType string) error {
	if key == "" {
		return errors.New("storage key is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = memoryObject{
		body:        append([]byte(nil), body...),
		contentType: contentType,
		modified:    s.now(),
	}
	return nil
}

// Get returns a copy of the stored file
func (s *MemoryBackupStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[key]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return append([]byte(nil), obj.body...), nil
}

// List returns the files under prefix, newest first
func (s *MemoryBackupStore) List(ctx context.Context, prefix string) ([]backupapp.BackupObject, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var objects []backupapp.BackupObject
	for key, obj := range s.objects {
		if strings.HasPrefix(key, prefix) {
			objects = append(objects, backupapp.BackupObject{
				Key:          key,
				Size:         int64(len(obj.body)),
				LastModified: obj.modified,
			})
		}
	}
	sortNewestFirst(objects)
	return objects, nil
}

// DownloadURL returns a fake link; there is nothing to presign in memory
func (s *MemoryBackupStore) DownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, time.Time, error) {
	if key == "" {
		return "", time.Time{}, errors.New("storage key is required")
	}
	expiresAt := s.now().Add(expiresIn)
	return s.BaseURL + "/" + key + "?expires=" + expiresAt.Format(time.RFC3339), expiresAt, nil
}
