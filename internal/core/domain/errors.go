package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	// Deleting an absent collection reports this; it is recoverable.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates no normaliser handles the document format.
	ErrUnsupportedType = errors.New("unsupported document type")

	// ErrInvalidChunkConfig indicates bad chunking parameters
	// (non-positive size, negative overlap, or overlap >= size).
	// This is a configuration error, never a runtime condition.
	ErrInvalidChunkConfig = errors.New("invalid chunking configuration")

	// ErrDimensionConflict indicates an embedding does not match the
	// collection's declared dimension. Fatal for that collection.
	ErrDimensionConflict = errors.New("embedding dimension conflict")

	// ErrNotReady indicates a query against a collection that has not
	// finished building. Partial indexes are never servable.
	ErrNotReady = errors.New("collection not ready")

	// ErrEmbedding indicates the embedding provider failed during a build.
	// The build is aborted and the partial collection discarded.
	ErrEmbedding = errors.New("embedding service failure")

	// ErrStorage indicates a persistence failure in the vector store.
	ErrStorage = errors.New("storage failure")

	// ErrGeneration indicates a language model call failed.
	// During query expansion this degrades to single-query retrieval;
	// during answer synthesis it surfaces as a failed turn.
	ErrGeneration = errors.New("language model generation failure")

	// ErrSessionBusy indicates a conflicting build or delete is in flight.
	ErrSessionBusy = errors.New("session busy")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")
)
