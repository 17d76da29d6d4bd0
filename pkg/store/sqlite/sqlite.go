// Package sqlite implements the content store on a single SQLite file,
// using sqlite-vec's distance functions for similarity scoring.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	sqlite_vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
	"github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/satchelworks/satchel/pkg/embeddings"
	"github.com/satchelworks/satchel/pkg/store"
)

const (
	// DefaultSearchLimit bounds a search when the caller passes limit <= 0.
	DefaultSearchLimit = 10

	// DefaultMinScore is the score floor applied when the caller passes a
	// negative threshold sentinel.
	DefaultMinScore = 0.01
)

// Store is a single-file SQLite content store. One table per collection,
// three embedding columns per document. Not safe for concurrent use.
type Store struct {
	path       string
	embedder   embeddings.Embedder
	dimensions uint
	logger     *zap.Logger

	db *sql.DB
}

// Config holds construction parameters for the SQLite store.
type Config struct {
	// Path is the database file path. Use ":memory:" for tests.
	Path string

	// Dimensions is the fixed embedding width. Must match the embedder's
	// output; a mismatch at write time is a configuration error.
	Dimensions uint
}

// New creates a SQLite store. The store is not connected until Connect.
func New(c Config, embedder embeddings.Embedder, logger *zap.Logger) (*Store, error) {
	// register sqlite-vec on every new connection
	sqlite_vec.Auto()

	if c.Path == "" {
		return nil, errors.New("database path is required")
	}
	if c.Dimensions == 0 {
		return nil, errors.New("embedding dimensions cannot be 0, must be configured")
	}
	if embedder == nil {
		return nil, errors.New("embedder is required")
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}

	return &Store{
		path:       c.Path,
		embedder:   embedder,
		dimensions: c.Dimensions,
		logger:     logger,
	}, nil
}

// Connect opens the database file and verifies sqlite-vec is loaded.
func (s *Store) Connect(ctx context.Context) error {
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite3", s.path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}

	// single-owner store; also keeps :memory: databases on one connection
	db.SetMaxOpenConns(1)

	var vecVersion string
	if err := db.QueryRowContext(ctx, "SELECT vec_version()").Scan(&vecVersion); err != nil {
		db.Close()
		return fmt.Errorf("sqlite-vec not available: %w", err)
	}

	s.db = db
	s.logger.Debug("content store connected",
		zap.String("path", s.path),
		zap.Uint("dimensions", s.dimensions),
		zap.String("vec_version", vecVersion),
	)

	return nil
}

// Disconnect closes the database. Calling it on a disconnected store is a
// no-op.
func (s *Store) Disconnect() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// AddCollection creates the collection table. The sanitized name is the
// collection's identity; a collision returns store.ErrCollectionExists.
func (s *Store) AddCollection(ctx context.Context, name string) error {
	if s.db == nil {
		return store.ErrNotConnected
	}

	name = store.SanitizeCollectionName(name)

	exists, err := s.tableExists(ctx, name)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: %s", store.ErrCollectionExists, name)
	}

	createTable := fmt.Sprintf(`
		CREATE TABLE %s (
			uri TEXT NOT NULL UNIQUE,
			title TEXT,
			body TEXT,
			summary TEXT,
			metadata TEXT,
			body_embedding BLOB,
			summary_embedding BLOB,
			metadata_embedding BLOB,
			chunk_id INTEGER DEFAULT 0,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`, quoteIdent(name))

	if _, err := s.db.ExecContext(ctx, createTable); err != nil {
		return fmt.Errorf("creating collection %s: %w", name, err)
	}

	s.logger.Debug("collection created", zap.String("collection", name))
	return nil
}

// RemoveCollection drops the collection table.
func (s *Store) RemoveCollection(ctx context.Context, name string) error {
	if s.db == nil {
		return store.ErrNotConnected
	}

	name = store.SanitizeCollectionName(name)

	exists, err := s.tableExists(ctx, name)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: %s", store.ErrCollectionNotFound, name)
	}

	if _, err := s.db.ExecContext(ctx, "DROP TABLE "+quoteIdent(name)); err != nil {
		return fmt.Errorf("dropping collection %s: %w", name, err)
	}

	s.logger.Debug("collection removed", zap.String("collection", name))
	return nil
}

// CollectionExists reports whether the collection exists.
func (s *Store) CollectionExists(ctx context.Context, name string) (bool, error) {
	if s.db == nil {
		return false, store.ErrNotConnected
	}
	return s.tableExists(ctx, store.SanitizeCollectionName(name))
}

// ListCollections returns all collection names, sorted.
func (s *Store) ListCollections(ctx context.Context) ([]string, error) {
	if s.db == nil {
		return nil, store.ErrNotConnected
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT name FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("listing collections: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning collection name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating collections: %w", err)
	}

	return names, nil
}

// AddDocument embeds the document's body, summary, and serialized metadata,
// then inserts the row. Embeddings are computed exactly once, at write time.
func (s *Store) AddDocument(ctx context.Context, collection string, doc store.Document) error {
	if s.db == nil {
		return store.ErrNotConnected
	}

	collection = store.SanitizeCollectionName(collection)

	exists, err := s.tableExists(ctx, collection)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: %s", store.ErrCollectionNotFound, collection)
	}

	metadata := doc.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("serializing metadata for %s: %w", doc.URI, err)
	}

	bodyBlob, err := s.embedToBlob(ctx, doc.Body)
	if err != nil {
		return fmt.Errorf("embedding body of %s: %w", doc.URI, err)
	}
	summaryBlob, err := s.embedToBlob(ctx, doc.Summary)
	if err != nil {
		return fmt.Errorf("embedding summary of %s: %w", doc.URI, err)
	}
	metadataBlob, err := s.embedToBlob(ctx, string(metadataJSON))
	if err != nil {
		return fmt.Errorf("embedding metadata of %s: %w", doc.URI, err)
	}

	insert := fmt.Sprintf(`
		INSERT INTO %s (
			uri, title, body, summary, metadata,
			body_embedding, summary_embedding, metadata_embedding,
			chunk_id
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`, quoteIdent(collection))

	_, err = s.db.ExecContext(ctx, insert,
		doc.URI, doc.Title, doc.Body, doc.Summary, string(metadataJSON),
		bodyBlob, summaryBlob, metadataBlob,
		doc.ChunkID,
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return fmt.Errorf("%w: %s", store.ErrDuplicateURI, doc.URI)
		}
		return fmt.Errorf("inserting document %s: %w", doc.URI, err)
	}

	s.logger.Debug("document added",
		zap.String("collection", collection),
		zap.String("uri", doc.URI),
		zap.Int("chunk_id", doc.ChunkID),
	)

	return nil
}

// RemoveDocument deletes by URI. Deletion is idempotent: removing an absent
// URI succeeds.
func (s *Store) RemoveDocument(ctx context.Context, collection, uri string) error {
	if s.db == nil {
		return store.ErrNotConnected
	}

	collection = store.SanitizeCollectionName(collection)

	exists, err := s.tableExists(ctx, collection)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: %s", store.ErrCollectionNotFound, collection)
	}

	del := fmt.Sprintf("DELETE FROM %s WHERE uri = ?", quoteIdent(collection))
	if _, err := s.db.ExecContext(ctx, del, uri); err != nil {
		return fmt.Errorf("deleting document %s: %w", uri, err)
	}

	return nil
}

// GetDocument returns the document by exact URI match, or (nil, nil) when
// absent.
func (s *Store) GetDocument(ctx context.Context, collection, uri string) (*store.Document, error) {
	if s.db == nil {
		return nil, store.ErrNotConnected
	}

	collection = store.SanitizeCollectionName(collection)

	exists, err := s.tableExists(ctx, collection)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", store.ErrCollectionNotFound, collection)
	}

	query := fmt.Sprintf(`
		SELECT uri, title, body, summary, metadata, chunk_id, created_at, updated_at
		FROM %s WHERE uri = ?`, quoteIdent(collection))

	doc, err := scanDocument(s.db.QueryRowContext(ctx, query, uri))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading document %s: %w", uri, err)
	}

	return doc, nil
}

// FindRelevantDocuments scores every document in the collection against the
// query embedding. The score is the sum of three cosine similarities, one
// per embedding column; ties are broken by insertion order.
func (s *Store) FindRelevantDocuments(ctx context.Context, collection, query string, limit int, minScore float64) ([]store.Document, error) {
	if s.db == nil {
		return nil, store.ErrNotConnected
	}

	collection = store.SanitizeCollectionName(collection)

	exists, err := s.tableExists(ctx, collection)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", store.ErrCollectionNotFound, collection)
	}

	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	if minScore < 0 {
		minScore = DefaultMinScore
	}

	queryBlob, err := s.embedToBlob(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	// vec_distance_cosine returns cosine distance; similarity is 1 - d,
	// so the summed score over the three columns is 3 - (d1 + d2 + d3).
	search := fmt.Sprintf(`
		SELECT uri, title, body, summary, metadata, chunk_id, created_at, updated_at, score
		FROM (
			SELECT
				uri, title, body, summary, metadata, chunk_id, created_at, updated_at,
				rowid AS rid,
				3.0 - (
					vec_distance_cosine(body_embedding, ?)
					+ vec_distance_cosine(summary_embedding, ?)
					+ vec_distance_cosine(metadata_embedding, ?)
				) AS score
			FROM %s
		)
		WHERE score >= ?
		ORDER BY score DESC, rid ASC
		LIMIT ?`, quoteIdent(collection))

	rows, err := s.db.QueryContext(ctx, search, queryBlob, queryBlob, queryBlob, minScore, limit)
	if err != nil {
		return nil, fmt.Errorf("searching collection %s: %w", collection, err)
	}
	defer rows.Close()

	var results []store.Document
	for rows.Next() {
		doc, score, err := scanScoredDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning search result: %w", err)
		}
		doc.Score = &score
		results = append(results, *doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating search results: %w", err)
	}

	s.logger.Debug("search completed",
		zap.String("collection", collection),
		zap.Int("results", len(results)),
	)

	return results, nil
}

// embedToBlob runs the embedder and serializes the vector to the
// little-endian float32 blob format sqlite-vec expects. Zero-magnitude
// vectors are rejected here so cosine distance stays well defined.
func (s *Store) embedToBlob(ctx context.Context, text string) ([]byte, error) {
	vec, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	if uint(len(vec)) != s.dimensions {
		return nil, fmt.Errorf("%w: got %d, configured %d",
			store.ErrDimensionMismatch, len(vec), s.dimensions)
	}

	zero := true
	for _, f := range vec {
		if f != 0 {
			zero = false
			break
		}
	}
	if zero {
		return nil, store.ErrZeroVector
	}

	blob, err := sqlite_vec.SerializeFloat32(vec)
	if err != nil {
		return nil, fmt.Errorf("serializing embedding: %w", err)
	}
	return blob, nil
}

// tableExists checks sqlite_master for the (already sanitized) name.
func (s *Store) tableExists(ctx context.Context, name string) (bool, error) {
	var found string
	err := s.db.QueryRowContext(ctx,
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", name,
	).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking collection %s: %w", name, err)
	}
	return true, nil
}

// quoteIdent wraps an identifier in double quotes for safe embedding in SQL.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*store.Document, error) {
	var doc store.Document
	var metadataJSON string

	err := row.Scan(
		&doc.URI, &doc.Title, &doc.Body, &doc.Summary, &metadataJSON,
		&doc.ChunkID, &doc.CreatedAt, &doc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(metadataJSON), &doc.Metadata); err != nil {
		return nil, fmt.Errorf("parsing metadata of %s: %w", doc.URI, err)
	}

	return &doc, nil
}

func scanScoredDocument(row rowScanner) (*store.Document, float64, error) {
	var doc store.Document
	var metadataJSON string
	var score float64

	err := row.Scan(
		&doc.URI, &doc.Title, &doc.Body, &doc.Summary, &metadataJSON,
		&doc.ChunkID, &doc.CreatedAt, &doc.UpdatedAt, &score,
	)
	if err != nil {
		return nil, 0, err
	}

	if err := json.Unmarshal([]byte(metadataJSON), &doc.Metadata); err != nil {
		return nil, 0, fmt.Errorf("parsing metadata of %s: %w", doc.URI, err)
	}

	return &doc, score, nil
}

// Ensure Store implements store.Store.
var _ store.Store = (*Store)(nil)
