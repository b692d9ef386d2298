// Package sqlite provides a persistent VectorStore backed by SQLite.
// Embeddings are stored as little-endian float32 blobs and similarity
// search is brute-force cosine over the collection's chunks.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/askdoc-labs/askdoc-cli/internal/adapters/driven/vector"
	"github.com/askdoc-labs/askdoc-cli/internal/adapters/driven/vector/sqlite/migrations"
	"github.com/askdoc-labs/askdoc-cli/internal/core/domain"
	"github.com/askdoc-labs/askdoc-cli/internal/core/ports/driven"
)

// Collection states as persisted.
const (
	stateBuilding = "building"
	stateReady    = "ready"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// Store is a SQLite-backed vector store.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite vector store at the specified data directory.
// If dataDir is empty, defaults to ~/.askdoc/data/collections.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".askdoc", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "collections.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// CreateCollection creates a collection or returns the existing one.
// An existing collection with a different dimension is a conflict.
func (s *Store) CreateCollection(ctx context.Context, name string, dimension int) (*domain.Collection, error) {
	if dimension <= 0 {
		return nil, fmt.Errorf("%w: dimension %d must be positive", domain.ErrInvalidInput, dimension)
	}

	// ON CONFLICT keeps a concurrent create of the same collection
	// idempotent instead of surfacing a unique-constraint error.
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO collections (name, dimension, state)
		VALUES (?, ?, ?)
		ON CONFLICT(name) DO NOTHING
	`, name, dimension, stateBuilding)
	if err != nil {
		return nil, fmt.Errorf("%w: creating collection: %v", domain.ErrStorage, err)
	}

	existing, err := s.GetCollection(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing.Dimension != dimension {
		return nil, fmt.Errorf("%w: collection %q has dimension %d, requested %d",
			domain.ErrDimensionConflict, name, existing.Dimension, dimension)
	}
	return existing, nil
}

// Upsert inserts or replaces vectors for the given chunks in a single
// transaction. The batch is validated against the collection dimension
// before any row is written.
func (s *Store) Upsert(ctx context.Context, name string, chunks []domain.Chunk, embeddings [][]float32) error {
	if len(chunks) != len(embeddings) {
		return fmt.Errorf("%w: %d chunks but %d embeddings", domain.ErrInvalidInput, len(chunks), len(embeddings))
	}

	col, err := s.GetCollection(ctx, name)
	if err != nil {
		return err
	}

	for i, emb := range embeddings {
		if len(emb) != col.Dimension {
			return fmt.Errorf("%w: chunk %d has dimension %d, collection %q expects %d",
				domain.ErrDimensionConflict, i, len(emb), name, col.Dimension)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: beginning transaction: %v", domain.ErrStorage, err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (id, collection_name, document_id, position, start_offset, content, embedding)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			collection_name = excluded.collection_name,
			document_id = excluded.document_id,
			position = excluded.position,
			start_offset = excluded.start_offset,
			content = excluded.content,
			embedding = excluded.embedding
	`)
	if err != nil {
		return fmt.Errorf("%w: preparing statement: %v", domain.ErrStorage, err)
	}
	defer stmt.Close()

	for i, chunk := range chunks {
		blob := float32SliceToBytes(embeddings[i])
		if _, err := stmt.ExecContext(ctx, chunk.ID, name, chunk.DocumentID,
			chunk.Position, chunk.StartOffset, chunk.Content, blob); err != nil {
			return fmt.Errorf("%w: saving chunk: %v", domain.ErrStorage, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: committing transaction: %v", domain.ErrStorage, err)
	}
	return nil
}

// Query returns up to limit chunks by descending cosine similarity.
func (s *Store) Query(ctx context.Context, name string, embedding []float32, limit int) ([]domain.ScoredChunk, error) {
	col, err := s.GetCollection(ctx, name)
	if err != nil {
		return nil, err
	}
	if col.State != domain.CollectionReady {
		return nil, fmt.Errorf("%w: collection %q", domain.ErrNotReady, name)
	}
	if len(embedding) != col.Dimension {
		return nil, fmt.Errorf("%w: query has dimension %d, collection %q expects %d",
			domain.ErrDimensionConflict, len(embedding), name, col.Dimension)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, document_id, position, start_offset, content, embedding
		FROM chunks WHERE collection_name = ?
	`, name)
	if err != nil {
		return nil, fmt.Errorf("%w: querying chunks: %v", domain.ErrStorage, err)
	}
	defer rows.Close()

	var results []domain.ScoredChunk //nolint:prealloc // size unknown from query
	for rows.Next() {
		var chunk domain.Chunk
		var blob []byte
		if err := rows.Scan(&chunk.ID, &chunk.DocumentID, &chunk.Position,
			&chunk.StartOffset, &chunk.Content, &blob); err != nil {
			return nil, fmt.Errorf("%w: scanning chunk: %v", domain.ErrStorage, err)
		}

		results = append(results, domain.ScoredChunk{
			Chunk: chunk,
			Score: vector.CosineSimilarity(bytesToFloat32Slice(blob), embedding),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating chunks: %v", domain.ErrStorage, err)
	}

	domain.SortScored(results)
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// MarkReady transitions the collection to the Ready state.
func (s *Store) MarkReady(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE collections SET state = ? WHERE name = ?", stateReady, name)
	if err != nil {
		return fmt.Errorf("%w: marking ready: %v", domain.ErrStorage, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: checking update: %v", domain.ErrStorage, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: collection %q", domain.ErrNotFound, name)
	}
	return nil
}

// IsReady reports whether the collection is servable.
func (s *Store) IsReady(ctx context.Context, name string) (bool, error) {
	col, err := s.GetCollection(ctx, name)
	if err != nil {
		return false, err
	}
	return col.State == domain.CollectionReady, nil
}

// GetCollection returns collection metadata including chunk count.
func (s *Store) GetCollection(ctx context.Context, name string) (*domain.Collection, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT c.name, c.dimension, c.state,
			(SELECT COUNT(*) FROM chunks WHERE collection_name = c.name)
		FROM collections c WHERE c.name = ?
	`, name)

	var col domain.Collection
	var state string
	if err := row.Scan(&col.Name, &col.Dimension, &state, &col.ChunkCount); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: collection %q", domain.ErrNotFound, name)
		}
		return nil, fmt.Errorf("%w: scanning collection: %v", domain.ErrStorage, err)
	}

	if state == stateReady {
		col.State = domain.CollectionReady
	} else {
		col.State = domain.CollectionBuilding
	}
	return &col, nil
}

// DeleteCollection removes the collection and all its chunks.
// Deleting an absent collection returns ErrNotFound.
func (s *Store) DeleteCollection(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM collections WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("%w: deleting collection: %v", domain.ErrStorage, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: checking delete: %v", domain.ErrStorage, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: collection %q", domain.ErrNotFound, name)
	}
	return nil
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
