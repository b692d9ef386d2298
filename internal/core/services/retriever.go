package services

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/askdoc-labs/askdoc-cli/internal/core/domain"
	"github.com/askdoc-labs/askdoc-cli/internal/core/ports/driven"
	"github.com/askdoc-labs/askdoc-cli/internal/logger"
)

// Default retrieval parameters.
const (
	// DefaultTopK is the number of chunks returned per query variant
	// and after merging.
	DefaultTopK = 5

	// maxConcurrentVariants bounds parallel per-variant searches.
	maxConcurrentVariants = 4
)

// Retriever runs similarity search for every query variant and merges
// the results into a single deduplicated, score-ordered context set.
type Retriever struct {
	vectorStore driven.VectorStore
	embedder    driven.EmbeddingService
	topK        int
}

// NewRetriever creates a retriever.
// If topK <= 0, DefaultTopK is used.
func NewRetriever(vectorStore driven.VectorStore, embedder driven.EmbeddingService, topK int) *Retriever {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &Retriever{
		vectorStore: vectorStore,
		embedder:    embedder,
		topK:        topK,
	}
}

// Retrieve searches the collection with each query variant concurrently
// and merges the per-variant results. A chunk matched by several variants
// is kept once at its highest score. Variant searches that fail
// individually are logged and skipped as long as at least one succeeds;
// if every variant fails, the first error is returned.
func (r *Retriever) Retrieve(ctx context.Context, collection string, query domain.Query) ([]domain.ScoredChunk, error) {
	if len(query.Variants) == 0 {
		return nil, fmt.Errorf("%w: query has no variants", domain.ErrInvalidInput)
	}

	var (
		mu       sync.Mutex
		gathered []domain.ScoredChunk
		firstErr error
		failures int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentVariants)

	for _, variant := range query.Variants {
		variant := variant
		g.Go(func() error {
			results, err := r.searchVariant(gctx, collection, variant)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				logger.Warn("Variant search failed: %v", err)
				failures++
				if firstErr == nil {
					firstErr = err
				}
				// Individual variant failures don't cancel the group;
				// the remaining variants may still produce context.
				return nil
			}
			gathered = append(gathered, results...)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if failures == len(query.Variants) {
		return nil, fmt.Errorf("retrieving context: %w", firstErr)
	}

	merged := domain.MergeScored(gathered, r.topK)
	logger.Debug("Retrieved %d chunks from %d variant searches", len(merged), len(query.Variants))
	return merged, nil
}

// searchVariant embeds one variant and queries the collection.
func (r *Retriever) searchVariant(ctx context.Context, collection, variant string) ([]domain.ScoredChunk, error) {
	embedding, err := r.embedder.Embed(ctx, variant)
	if err != nil {
		return nil, fmt.Errorf("embedding variant: %w", err)
	}

	results, err := r.vectorStore.Query(ctx, collection, embedding, r.topK)
	if err != nil {
		return nil, fmt.Errorf("querying collection: %w", err)
	}
	return results, nil
}
