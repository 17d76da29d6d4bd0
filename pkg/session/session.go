// Package session implements the optimistic-concurrency read-modify-write
// protocol over a remote database file: download a consistent snapshot,
// let the caller mutate it locally, then publish back only if nobody else
// changed the remote copy in between.
package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/satchelworks/satchel/pkg/objectstore"
)

// ErrConflict is returned when the remote file changed between download and
// publish. The local mutations are discarded; callers may retry the entire
// session.
var ErrConflict = errors.New("remote file changed during session")

// Session runs synchronized read-modify-write windows over one remote key.
// There is no server-side lock: overlapping sessions are detected, not
// prevented, and the second writer to publish loses.
type Session struct {
	storage   objectstore.Storage
	remoteKey string
	logger    *zap.Logger
}

// New creates a session bound to a remote key.
func New(storage objectstore.Storage, remoteKey string, logger *zap.Logger) (*Session, error) {
	if storage == nil {
		return nil, errors.New("object storage is required")
	}
	if remoteKey == "" {
		return nil, errors.New("remote key is required")
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}

	return &Session{
		storage:   storage,
		remoteKey: remoteKey,
		logger:    logger,
	}, nil
}

// With downloads the remote file into a private temp path, runs fn against
// it, and publishes the result back if the remote copy is unchanged. The
// temp file is removed on every exit path. A missing remote file is the
// first-use bootstrap: fn starts from an empty file and the publish is
// unconditional.
//
// When fn returns an error, nothing is uploaded and the error propagates
// unchanged.
func (s *Session) With(ctx context.Context, fn func(localPath string) error) error {
	tmp := filepath.Join(os.TempDir(), "satchel-"+uuid.NewString()+".db")
	defer os.Remove(tmp)

	found, err := s.storage.Download(ctx, s.remoteKey, tmp)
	if err != nil {
		return fmt.Errorf("downloading %s: %w", s.remoteKey, err)
	}

	var hashBefore string
	if found {
		hashBefore, err = objectstore.LocalHash(tmp)
		if err != nil {
			return err
		}
	} else {
		s.logger.Debug("remote file absent, bootstrapping",
			zap.String("key", s.remoteKey),
		)
	}

	if err := fn(tmp); err != nil {
		return err
	}

	if found {
		hashNow, err := s.storage.RemoteHash(ctx, s.remoteKey)
		if err != nil {
			if errors.Is(err, objectstore.ErrObjectNotExist) {
				// deleted out from under us counts as a concurrent change
				return fmt.Errorf("%w: %s was removed remotely", ErrConflict, s.remoteKey)
			}
			return fmt.Errorf("fingerprinting %s: %w", s.remoteKey, err)
		}
		if hashNow != hashBefore {
			return fmt.Errorf("%w: %s", ErrConflict, s.remoteKey)
		}
	}

	if err := s.storage.Upload(ctx, tmp, s.remoteKey); err != nil {
		return fmt.Errorf("publishing %s: %w", s.remoteKey, err)
	}

	s.logger.Debug("session published",
		zap.String("key", s.remoteKey),
		zap.Bool("bootstrap", !found),
	)

	return nil
}
