package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askdoc-labs/askdoc-cli/internal/core/domain"
)

func testChunks(docID string, n int) []domain.Chunk {
	chunks := make([]domain.Chunk, n)
	for i := range chunks {
		chunks[i] = domain.Chunk{
			ID:          docID + "-chunk-" + string(rune('a'+i)),
			DocumentID:  docID,
			Position:    i,
			StartOffset: i * 100,
			Content:     "content " + string(rune('a'+i)),
		}
	}
	return chunks
}

func TestCreateCollection_Idempotent(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	col, err := store.CreateCollection(ctx, "doc-abc123", 4)
	require.NoError(t, err)
	assert.Equal(t, domain.CollectionBuilding, col.State)

	again, err := store.CreateCollection(ctx, "doc-abc123", 4)
	require.NoError(t, err)
	assert.Equal(t, col.Name, again.Name)
}

func TestCreateCollection_DimensionConflict(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	_, err := store.CreateCollection(ctx, "doc-abc123", 4)
	require.NoError(t, err)

	_, err = store.CreateCollection(ctx, "doc-abc123", 8)
	assert.ErrorIs(t, err, domain.ErrDimensionConflict)
}

func TestUpsert_AtomicOnDimensionMismatch(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	_, err := store.CreateCollection(ctx, "doc-abc123", 2)
	require.NoError(t, err)

	// Second embedding has the wrong dimension; the whole batch must
	// be rejected without writing the first chunk.
	err = store.Upsert(ctx, "doc-abc123", testChunks("doc1", 2), [][]float32{{1, 0}, {1, 0, 0}})
	assert.ErrorIs(t, err, domain.ErrDimensionConflict)

	col, err := store.GetCollection(ctx, "doc-abc123")
	require.NoError(t, err)
	assert.Equal(t, 0, col.ChunkCount)
}

func TestQuery_OrderAndTieBreak(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	_, err := store.CreateCollection(ctx, "doc-abc123", 2)
	require.NoError(t, err)

	chunks := testChunks("doc1", 3)
	embeddings := [][]float32{
		{0, 1},   // orthogonal
		{1, 0},   // identical to query, position 1
		{1, 0},   // identical to query, position 2
	}
	require.NoError(t, store.Upsert(ctx, "doc-abc123", chunks, embeddings))
	require.NoError(t, store.MarkReady(ctx, "doc-abc123"))

	results, err := store.Query(ctx, "doc-abc123", []float32{1, 0}, 10)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, chunks[1].ID, results[0].Chunk.ID)
	assert.Equal(t, chunks[2].ID, results[1].Chunk.ID)
	assert.Equal(t, chunks[0].ID, results[2].Chunk.ID)
}

func TestQuery_LifecycleErrors(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	_, err := store.Query(ctx, "missing", []float32{1, 0}, 10)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = store.CreateCollection(ctx, "doc-abc123", 2)
	require.NoError(t, err)

	_, err = store.Query(ctx, "doc-abc123", []float32{1, 0}, 10)
	assert.ErrorIs(t, err, domain.ErrNotReady)

	require.NoError(t, store.MarkReady(ctx, "doc-abc123"))

	results, err := store.Query(ctx, "doc-abc123", []float32{1, 0}, 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestDeleteCollection_AbsentReturnsNotFound(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	_, err := store.CreateCollection(ctx, "doc-abc123", 2)
	require.NoError(t, err)

	require.NoError(t, store.DeleteCollection(ctx, "doc-abc123"))
	assert.ErrorIs(t, store.DeleteCollection(ctx, "doc-abc123"), domain.ErrNotFound)
}

func TestIsReady(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	_, err := store.IsReady(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = store.CreateCollection(ctx, "doc-abc123", 2)
	require.NoError(t, err)

	ready, err := store.IsReady(ctx, "doc-abc123")
	require.NoError(t, err)
	assert.False(t, ready)

	require.NoError(t, store.MarkReady(ctx, "doc-abc123"))
	ready, err = store.IsReady(ctx, "doc-abc123")
	require.NoError(t, err)
	assert.True(t, ready)
}
