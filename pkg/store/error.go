package store

import "errors"

var (
	// ErrNotConnected is returned when an operation runs outside the
	// Connect/Disconnect bracket.
	ErrNotConnected = errors.New("store is not connected")

	// ErrCollectionExists is returned when adding a collection whose
	// sanitized name already exists.
	ErrCollectionExists = errors.New("collection already exists")

	// ErrCollectionNotFound is returned when operating on a collection
	// that does not exist.
	ErrCollectionNotFound = errors.New("collection not found")

	// ErrDuplicateURI is returned when inserting a document whose URI is
	// already present in the collection.
	ErrDuplicateURI = errors.New("document uri already exists")

	// ErrDimensionMismatch is returned when an embedding's length does not
	// match the configured dimension. This is a configuration error and is
	// never retryable.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrZeroVector is returned when an embedding or query vector has zero
	// magnitude. Cosine similarity is undefined for such vectors, so they
	// are rejected at write and query time.
	ErrZeroVector = errors.New("zero-magnitude embedding")
)
