// ABOUTME: Error taxonomy shared across the ingestion and projection pipeline
// ABOUTME: Typed wrappers so callers can branch on failure class with errors.As
package apperr

import "fmt"

// ContentProcessingError means captioning, transcription, or title lookup
// failed. Ingestion must not persist a partial entry when it occurs.
type ContentProcessingError struct {
	Op  string // "caption", "transcribe", "title_lookup"
	Err error
}

func (e *ContentProcessingError) Error() string {
	return fmt.Sprintf("content processing failed (%s): %v", e.Op, e.Err)
}

func (e *ContentProcessingError) Unwrap() error { return e.Err }

// EmbeddingError means the embedding call failed or returned a malformed
// vector. Fatal to the entry being created.
type EmbeddingError struct {
	Err error
}

func (e *EmbeddingError) Error() string {
	return fmt.Sprintf("embedding failed: %v", e.Err)
}

func (e *EmbeddingError) Unwrap() error { return e.Err }

// StoreError wraps a read or write failure against the backing store.
// Callers must surface it rather than return an empty result, so that a
// failed read is never mistaken for an empty collection.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s failed: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// ProjectionError means the layout algorithm blew up. The projector
// downgrades it internally to a circular fallback layout; it never reaches
// API callers.
type ProjectionError struct {
	Err error
}

func (e *ProjectionError) Error() string {
	return fmt.Sprintf("projection failed: %v", e.Err)
}

func (e *ProjectionError) Unwrap() error { return e.Err }
