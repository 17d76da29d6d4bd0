// Package objectstore moves named blobs between local working storage and
// a remote bucket-like service, and fingerprints their content for change
// detection.
package objectstore

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// ErrObjectNotExist is returned by RemoteHash when the remote key is gone.
// Download reports a missing key as a found=false outcome instead, so
// first-time initialization can be detected by the caller.
var ErrObjectNotExist = errors.New("remote object does not exist")

// Storage is the remote object channel: get/put/delete by key against a
// bucket-like address space, plus content fingerprints on both ends.
type Storage interface {
	// Upload copies the local file to the remote key, overwriting any
	// existing object. Conflict detection lives in the session layer.
	Upload(ctx context.Context, localPath, remoteKey string) error

	// Download copies the remote object to the local path. A missing key
	// is reported as (false, nil); transport failures are errors.
	Download(ctx context.Context, remoteKey, localPath string) (found bool, err error)

	// Delete removes the remote object.
	Delete(ctx context.Context, remoteKey string) error

	// RemoteHash returns the content fingerprint of the remote object,
	// or ErrObjectNotExist when the key is gone.
	RemoteHash(ctx context.Context, remoteKey string) (string, error)
}

// LocalHash returns the MD5 hex digest of the file's bytes. The digest is
// used purely for change detection, not security.
func LocalHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	h := md5.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hashing %s: %w", path, err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// HashRemote computes a remote fingerprint by downloading the object to a
// private temp file and hashing it locally. Implementations whose backend
// lacks a trustworthy server-side content hash delegate RemoteHash here.
func HashRemote(ctx context.Context, s Storage, remoteKey string) (string, error) {
	tmp := filepath.Join(os.TempDir(), "satchel-hash-"+uuid.NewString())
	defer os.Remove(tmp)

	found, err := s.Download(ctx, remoteKey, tmp)
	if err != nil {
		return "", err
	}
	if !found {
		return "", fmt.Errorf("%w: %s", ErrObjectNotExist, remoteKey)
	}

	return LocalHash(tmp)
}
