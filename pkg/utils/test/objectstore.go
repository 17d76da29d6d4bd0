package testutils

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"os"
	"sync"

	"github.com/satchelworks/satchel/pkg/objectstore"
)

// MemoryStorage is an in-memory object storage channel for tests. It keeps
// object bytes in a map and counts operations so session tests can assert
// on protocol behavior.
type MemoryStorage struct {
	mu      sync.Mutex
	objects map[string][]byte

	Uploads   int
	Downloads int

	// FailUpload makes the next Upload return this error once.
	FailUpload error

	// FailDownload makes every Download return this error.
	FailDownload error
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		objects: make(map[string][]byte),
	}
}

func (m *MemoryStorage) Upload(_ context.Context, localPath, remoteKey string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailUpload != nil {
		err := m.FailUpload
		m.FailUpload = nil
		return err
	}

	data, err := os.ReadFile(localPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", localPath, err)
	}

	m.objects[remoteKey] = data
	m.Uploads++
	return nil
}

func (m *MemoryStorage) Download(_ context.Context, remoteKey, localPath string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailDownload != nil {
		return false, m.FailDownload
	}

	data, ok := m.objects[remoteKey]
	if !ok {
		return false, nil
	}

	if err := os.WriteFile(localPath, data, 0o600); err != nil {
		return false, fmt.Errorf("writing %s: %w", localPath, err)
	}

	m.Downloads++
	return true, nil
}

func (m *MemoryStorage) Delete(_ context.Context, remoteKey string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.objects, remoteKey)
	return nil
}

func (m *MemoryStorage) RemoteHash(_ context.Context, remoteKey string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, ok := m.objects[remoteKey]
	if !ok {
		return "", fmt.Errorf("%w: %s", objectstore.ErrObjectNotExist, remoteKey)
	}

	sum := md5.Sum(data)
	return hex.EncodeToString(sum[:]), nil
}

// Object returns the stored bytes for a key, for assertions.
func (m *MemoryStorage) Object(remoteKey string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, ok := m.objects[remoteKey]
	return data, ok
}

// PutObject seeds an object directly, bypassing Upload counters.
func (m *MemoryStorage) PutObject(remoteKey string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.objects[remoteKey] = data
}

var _ objectstore.Storage = (*MemoryStorage)(nil)
