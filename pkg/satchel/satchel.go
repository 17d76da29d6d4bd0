// Package satchel is the service core: every operation runs as one
// synchronized session over the shared remote database file — download a
// snapshot, open the content store on it, run the operation, publish back
// unless another writer got there first.
package satchel

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/satchelworks/satchel/pkg/embeddings"
	"github.com/satchelworks/satchel/pkg/objectstore"
	"github.com/satchelworks/satchel/pkg/session"
	"github.com/satchelworks/satchel/pkg/store"
	sqlitestore "github.com/satchelworks/satchel/pkg/store/sqlite"
)

// StoreFactory opens a content store on a session's local workspace file.
type StoreFactory func(dbPath string) (store.Store, error)

// Config holds service parameters.
type Config struct {
	// RemoteKey is the object key of the shared database file.
	RemoteKey string

	// Dimensions is the fixed embedding width for this deployment.
	Dimensions uint

	// DefaultLimit caps search results when the caller passes limit <= 0.
	DefaultLimit int

	// DefaultMinScore is the score floor applied when the caller passes a
	// negative threshold.
	DefaultMinScore float64

	// StoreFactory overrides the SQLite store construction. Tests use
	// this; production leaves it nil.
	StoreFactory StoreFactory
}

// Service exposes the collection and document operations shared by the
// REST API, the MCP server, and the CLI.
type Service struct {
	config   Config
	storage  objectstore.Storage
	embedder embeddings.Embedder
	newStore StoreFactory
	logger   *zap.Logger
}

// New creates a Service. Storage and embedder are injected; there are no
// package-level singletons.
func New(cfg Config, storage objectstore.Storage, embedder embeddings.Embedder, logger *zap.Logger) (*Service, error) {
	if storage == nil {
		return nil, errors.New("object storage is required")
	}
	if embedder == nil {
		return nil, errors.New("embedder is required")
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}
	if cfg.RemoteKey == "" {
		return nil, errors.New("remote key is required")
	}
	if cfg.Dimensions == 0 && cfg.StoreFactory == nil {
		return nil, errors.New("embedding dimensions cannot be 0, must be configured")
	}

	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = sqlitestore.DefaultSearchLimit
	}
	if cfg.DefaultMinScore <= 0 {
		cfg.DefaultMinScore = sqlitestore.DefaultMinScore
	}

	s := &Service{
		config:   cfg,
		storage:  storage,
		embedder: embedder,
		logger:   logger,
	}

	s.newStore = cfg.StoreFactory
	if s.newStore == nil {
		s.newStore = func(dbPath string) (store.Store, error) {
			return sqlitestore.New(sqlitestore.Config{
				Path:       dbPath,
				Dimensions: cfg.Dimensions,
			}, embedder, logger)
		}
	}

	return s, nil
}

// Close releases the embedding provider's resources.
func (s *Service) Close() error {
	return s.embedder.Close()
}

// AddCollection creates a collection in the shared database.
func (s *Service) AddCollection(ctx context.Context, name string) error {
	return s.withStore(ctx, func(st store.Store) error {
		return st.AddCollection(ctx, name)
	})
}

// RemoveCollection drops a collection from the shared database.
func (s *Service) RemoveCollection(ctx context.Context, name string) error {
	return s.withStore(ctx, func(st store.Store) error {
		return st.RemoveCollection(ctx, name)
	})
}

// ListCollections returns the names of all collections.
func (s *Service) ListCollections(ctx context.Context) ([]string, error) {
	var names []string
	err := s.withStore(ctx, func(st store.Store) error {
		var err error
		names, err = st.ListCollections(ctx)
		return err
	})
	return names, err
}

// AddDocument stores a document and its three embeddings.
func (s *Service) AddDocument(ctx context.Context, collection string, doc store.Document) error {
	return s.withStore(ctx, func(st store.Store) error {
		return st.AddDocument(ctx, collection, doc)
	})
}

// RemoveDocument deletes a document by URI. Idempotent.
func (s *Service) RemoveDocument(ctx context.Context, collection, uri string) error {
	return s.withStore(ctx, func(st store.Store) error {
		return st.RemoveDocument(ctx, collection, uri)
	})
}

// GetDocument returns a document by URI, or (nil, nil) when absent.
func (s *Service) GetDocument(ctx context.Context, collection, uri string) (*store.Document, error) {
	var doc *store.Document
	err := s.withStore(ctx, func(st store.Store) error {
		var err error
		doc, err = st.GetDocument(ctx, collection, uri)
		return err
	})
	return doc, err
}

// Search returns the documents most relevant to the query, ordered by
// summed cosine similarity.
func (s *Service) Search(ctx context.Context, collection, query string, limit int, minScore float64) ([]store.Document, error) {
	if limit <= 0 {
		limit = s.config.DefaultLimit
	}
	if minScore < 0 {
		minScore = s.config.DefaultMinScore
	}

	var results []store.Document
	err := s.withStore(ctx, func(st store.Store) error {
		var err error
		results, err = st.FindRelevantDocuments(ctx, collection, query, limit, minScore)
		return err
	})
	return results, err
}

// withStore runs fn inside one synchronized session, with the content
// store opened on the session's workspace file. The publish, conflict
// check, and workspace cleanup are the session's responsibility.
func (s *Service) withStore(ctx context.Context, fn func(st store.Store) error) error {
	sess, err := session.New(s.storage, s.config.RemoteKey, s.logger)
	if err != nil {
		return err
	}

	return sess.With(ctx, func(localPath string) error {
		st, err := s.newStore(localPath)
		if err != nil {
			return err
		}

		if err := st.Connect(ctx); err != nil {
			return err
		}
		defer st.Disconnect()

		return fn(st)
	})
}
