package driven

import (
	"context"

	"github.com/askdoc-labs/askdoc-cli/internal/core/domain"
)

// VectorStore persists chunk vectors in named collections and provides
// similarity search over them.
//
// Lifecycle: a collection is created empty, filled with Upsert while in
// the Building state, transitions to Ready via MarkReady, is queried
// while Ready, and is removed with DeleteCollection. A collection that
// never reached Ready is never servable.
//
// Concurrency: queries against a Ready collection may run arbitrarily in
// parallel. Builds are a single-writer critical section per collection.
// While a delete is in flight, queries fail with domain.ErrNotFound.
type VectorStore interface {
	// CreateCollection creates a named collection with a fixed embedding
	// dimension. Idempotent: if a collection with the same name and
	// dimension exists, the existing one is returned. An existing
	// collection of a different dimension fails with
	// domain.ErrDimensionConflict.
	CreateCollection(ctx context.Context, name string, dimension int) (*domain.Collection, error)

	// Upsert inserts or replaces vectors for the given chunks. The batch
	// is atomic: if any single entry fails (e.g., dimension mismatch),
	// the whole batch is rejected and the collection is left in its
	// pre-call state.
	Upsert(ctx context.Context, collection string, chunks []domain.Chunk, embeddings [][]float32) error

	// Query returns up to limit chunks most similar to the embedding,
	// sorted by descending score with ties broken by ascending chunk
	// position. Querying an unknown collection fails with
	// domain.ErrNotFound; querying one that has not been marked ready
	// fails with domain.ErrNotReady. Silent empty results would be
	// indistinguishable from "no relevant content found".
	Query(ctx context.Context, collection string, embedding []float32, limit int) ([]domain.ScoredChunk, error)

	// MarkReady transitions the collection to the Ready state.
	MarkReady(ctx context.Context, collection string) error

	// IsReady reports whether the collection is servable.
	IsReady(ctx context.Context, collection string) (bool, error)

	// GetCollection returns collection metadata including chunk count.
	GetCollection(ctx context.Context, collection string) (*domain.Collection, error)

	// DeleteCollection removes all vectors and any persisted backing
	// storage for the collection. Deleting an unknown collection reports
	// domain.ErrNotFound, which callers may treat as success.
	DeleteCollection(ctx context.Context, collection string) error

	// Close releases resources.
	Close() error
}
