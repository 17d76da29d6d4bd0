// Package store defines the content store contract: durable, queryable
// storage of document collections inside a single local database file.
package store

import (
	"context"
	"time"
)

// Document is a stored document with its source fields. The three
// embeddings derived from Body, Summary, and the serialized Metadata are
// an implementation detail of the store and are not exposed here.
type Document struct {
	// URI uniquely identifies the document within its collection.
	URI string `json:"uri"`

	Title   string `json:"title"`
	Body    string `json:"body"`
	Summary string `json:"summary"`

	// Metadata is an arbitrary string-keyed mapping, persisted as JSON.
	Metadata map[string]any `json:"metadata"`

	// ChunkID orders chunks of one logical document sharing a URI prefix.
	ChunkID int `json:"chunk_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Score is the summed cosine similarity against a search query.
	// It is set only on search results; direct lookups leave it nil.
	Score *float64 `json:"score,omitempty"`
}

// Store is the content store over one local database file.
//
// Implementations are single-owner: one Store handle must not be used from
// multiple goroutines concurrently. All operations except Connect and
// Disconnect return ErrNotConnected outside the Connect/Disconnect bracket.
type Store interface {
	// Connect opens the underlying database file.
	Connect(ctx context.Context) error

	// Disconnect closes the file handle. Safe to call more than once.
	Disconnect() error

	// AddCollection creates a new collection table. The name is sanitized
	// first; a collision with an existing collection (including collisions
	// introduced by sanitization) returns ErrCollectionExists.
	AddCollection(ctx context.Context, name string) error

	// RemoveCollection drops the collection table. Returns
	// ErrCollectionNotFound when absent.
	RemoveCollection(ctx context.Context, name string) error

	// CollectionExists reports whether the collection exists. Never errors
	// for a missing collection.
	CollectionExists(ctx context.Context, name string) (bool, error)

	// ListCollections returns the sanitized names of all collections,
	// sorted lexicographically.
	ListCollections(ctx context.Context) ([]string, error)

	// AddDocument computes the three embeddings and inserts the document.
	// A duplicate URI returns ErrDuplicateURI; a missing collection
	// returns ErrCollectionNotFound.
	AddDocument(ctx context.Context, collection string, doc Document) error

	// RemoveDocument deletes by URI. Removing an absent URI is a no-op.
	RemoveDocument(ctx context.Context, collection, uri string) error

	// GetDocument returns the document with the given URI, or (nil, nil)
	// when no such document exists.
	GetDocument(ctx context.Context, collection, uri string) (*Document, error)

	// FindRelevantDocuments embeds the query once and scores every
	// document by the sum of the cosine similarities between the query
	// embedding and the body, summary, and metadata embeddings. Rows
	// scoring below minScore are dropped, the rest are ordered by score
	// descending (ties broken by insertion order) and truncated to limit.
	// An empty result is not an error.
	FindRelevantDocuments(ctx context.Context, collection, query string, limit int, minScore float64) ([]Document, error)
}
