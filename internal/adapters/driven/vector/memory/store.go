// Package memory provides an in-memory VectorStore for tests and
// ephemeral sessions. Similarity search is brute-force cosine.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/askdoc-labs/askdoc-cli/internal/adapters/driven/vector"
	"github.com/askdoc-labs/askdoc-cli/internal/core/domain"
	"github.com/askdoc-labs/askdoc-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// collection holds one named collection's chunks and vectors.
type collection struct {
	dimension int
	ready     bool
	chunks    []domain.Chunk
	vectors   [][]float32
	index     map[string]int // chunk ID -> slice position
}

// Store is an in-memory vector store.
type Store struct {
	mu          sync.RWMutex
	collections map[string]*collection
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		collections: make(map[string]*collection),
	}
}

// CreateCollection creates a collection or returns the existing one.
func (s *Store) CreateCollection(_ context.Context, name string, dimension int) (*domain.Collection, error) {
	if dimension <= 0 {
		return nil, fmt.Errorf("%w: dimension %d must be positive", domain.ErrInvalidInput, dimension)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.collections[name]; ok {
		if existing.dimension != dimension {
			return nil, fmt.Errorf("%w: collection %q has dimension %d, requested %d",
				domain.ErrDimensionConflict, name, existing.dimension, dimension)
		}
		return snapshot(name, existing), nil
	}

	s.collections[name] = &collection{
		dimension: dimension,
		index:     make(map[string]int),
	}
	return &domain.Collection{Name: name, Dimension: dimension, State: domain.CollectionBuilding}, nil
}

// Upsert inserts or replaces vectors for the given chunks as one atomic batch.
func (s *Store) Upsert(_ context.Context, name string, chunks []domain.Chunk, embeddings [][]float32) error {
	if len(chunks) != len(embeddings) {
		return fmt.Errorf("%w: %d chunks but %d embeddings", domain.ErrInvalidInput, len(chunks), len(embeddings))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	col, ok := s.collections[name]
	if !ok {
		return fmt.Errorf("%w: collection %q", domain.ErrNotFound, name)
	}

	// Validate the whole batch before mutating anything so a failure
	// leaves the collection in its pre-call state.
	for i, emb := range embeddings {
		if len(emb) != col.dimension {
			return fmt.Errorf("%w: chunk %d has dimension %d, collection %q expects %d",
				domain.ErrDimensionConflict, i, len(emb), name, col.dimension)
		}
	}

	for i, chunk := range chunks {
		if pos, ok := col.index[chunk.ID]; ok {
			col.chunks[pos] = chunk
			col.vectors[pos] = embeddings[i]
			continue
		}
		col.index[chunk.ID] = len(col.chunks)
		col.chunks = append(col.chunks, chunk)
		col.vectors = append(col.vectors, embeddings[i])
	}
	return nil
}

// Query returns up to limit chunks by descending cosine similarity.
func (s *Store) Query(_ context.Context, name string, embedding []float32, limit int) ([]domain.ScoredChunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	col, ok := s.collections[name]
	if !ok {
		return nil, fmt.Errorf("%w: collection %q", domain.ErrNotFound, name)
	}
	if !col.ready {
		return nil, fmt.Errorf("%w: collection %q", domain.ErrNotReady, name)
	}
	if len(embedding) != col.dimension {
		return nil, fmt.Errorf("%w: query has dimension %d, collection %q expects %d",
			domain.ErrDimensionConflict, len(embedding), name, col.dimension)
	}

	results := make([]domain.ScoredChunk, 0, len(col.chunks))
	for i, chunk := range col.chunks {
		results = append(results, domain.ScoredChunk{
			Chunk: chunk,
			Score: vector.CosineSimilarity(col.vectors[i], embedding),
		})
	}

	domain.SortScored(results)
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// MarkReady transitions the collection to the Ready state.
func (s *Store) MarkReady(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	col, ok := s.collections[name]
	if !ok {
		return fmt.Errorf("%w: collection %q", domain.ErrNotFound, name)
	}
	col.ready = true
	return nil
}

// IsReady reports whether the collection is servable.
func (s *Store) IsReady(_ context.Context, name string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	col, ok := s.collections[name]
	if !ok {
		return false, fmt.Errorf("%w: collection %q", domain.ErrNotFound, name)
	}
	return col.ready, nil
}

// GetCollection returns collection metadata including chunk count.
func (s *Store) GetCollection(_ context.Context, name string) (*domain.Collection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	col, ok := s.collections[name]
	if !ok {
		return nil, fmt.Errorf("%w: collection %q", domain.ErrNotFound, name)
	}
	return snapshot(name, col), nil
}

// DeleteCollection removes the collection and all its vectors.
func (s *Store) DeleteCollection(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.collections[name]; !ok {
		return fmt.Errorf("%w: collection %q", domain.ErrNotFound, name)
	}
	delete(s.collections, name)
	return nil
}

// Close releases resources.
func (s *Store) Close() error {
	return nil
}

func snapshot(name string, col *collection) *domain.Collection {
	state := domain.CollectionBuilding
	if col.ready {
		state = domain.CollectionReady
	}
	return &domain.Collection{
		Name:       name,
		Dimension:  col.dimension,
		State:      state,
		ChunkCount: len(col.chunks),
	}
}
