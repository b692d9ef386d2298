package driven

import (
	"context"

	"github.com/askdoc-labs/askdoc-cli/internal/core/domain"
)

// PostProcessor transforms a normalised document into chunks, or
// transforms chunks produced by an earlier processor.
type PostProcessor interface {
	// Name returns the processor name for configuration and logging.
	Name() string

	// Process transforms the document or its chunks. The first processor
	// in a pipeline receives nil chunks and is expected to create them.
	Process(ctx context.Context, doc *domain.Document, chunks []domain.Chunk) ([]domain.Chunk, error)
}

// PostProcessorPipeline runs a document through an ordered set of
// processors and returns the resulting chunks.
type PostProcessorPipeline interface {
	// Process runs the document through all processors in order.
	Process(ctx context.Context, doc *domain.Document) ([]domain.Chunk, error)
}
