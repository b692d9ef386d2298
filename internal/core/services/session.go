package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/askdoc-labs/askdoc-cli/internal/core/domain"
	"github.com/askdoc-labs/askdoc-cli/internal/core/ports/driven"
	"github.com/askdoc-labs/askdoc-cli/internal/core/ports/driving"
	"github.com/askdoc-labs/askdoc-cli/internal/logger"
)

// Ensure Session implements the interface.
var _ driving.SessionService = (*Session)(nil)

// Config keys used to persist the attachment across processes.
const (
	configKeyCollection = "session.collection"
	configKeySource     = "session.source"
)

// embedBatchSize is the number of chunks embedded per provider call.
const embedBatchSize = 32

// MIMEDetector infers a MIME type from a file name and its content.
// Wired at composition time so the core stays free of format knowledge.
type MIMEDetector func(name string, content []byte) string

// Session orchestrates one document's ingest/ask/delete lifecycle.
// At most one collection is attached at a time; ingesting over an
// attached document fails with domain.ErrSessionBusy until Delete.
type Session struct {
	normalisers driven.NormaliserRegistry
	pipeline    driven.PostProcessorPipeline
	embedder    driven.EmbeddingService
	vectorStore driven.VectorStore
	expander    *Expander
	retriever   *Retriever
	synthesizer *Synthesizer
	config      driven.ConfigStore
	detectMIME  MIMEDetector

	mu         sync.RWMutex
	state      domain.SessionState
	collection string
	sourceName string
}

// NewSession creates a session orchestrator.
// The config store is optional; when present, the attachment is persisted
// so a later process can Attach to the same collection.
func NewSession(
	normalisers driven.NormaliserRegistry,
	pipeline driven.PostProcessorPipeline,
	embedder driven.EmbeddingService,
	vectorStore driven.VectorStore,
	expander *Expander,
	retriever *Retriever,
	synthesizer *Synthesizer,
	config driven.ConfigStore,
	detectMIME MIMEDetector,
) *Session {
	return &Session{
		normalisers: normalisers,
		pipeline:    pipeline,
		embedder:    embedder,
		vectorStore: vectorStore,
		expander:    expander,
		retriever:   retriever,
		synthesizer: synthesizer,
		config:      config,
		detectMIME:  detectMIME,
		state:       domain.SessionEmpty,
	}
}

// Ingest extracts, chunks, embeds, and indexes an uploaded document.
// A failure at any stage removes the partial collection before the error
// is surfaced, so a collection either becomes fully ready or never exists.
func (s *Session) Ingest(ctx context.Context, upload driving.Upload) (*driving.IngestResult, error) {
	if upload.Name == "" {
		return nil, fmt.Errorf("%w: upload has no name", domain.ErrInvalidInput)
	}
	if len(upload.Content) == 0 {
		return nil, fmt.Errorf("%w: upload %q is empty", domain.ErrInvalidInput, upload.Name)
	}

	if err := s.transition(domain.SessionEmpty, domain.SessionIndexing); err != nil {
		return nil, err
	}

	result, err := s.ingest(ctx, upload)
	if err != nil {
		s.setState(domain.SessionEmpty)
		return nil, err
	}

	s.attach(result.Collection, result.SourceName)
	return result, nil
}

// ingest runs the build. The session is in the Indexing state throughout.
func (s *Session) ingest(ctx context.Context, upload driving.Upload) (*driving.IngestResult, error) {
	logger.Section("Document Ingestion")
	logger.Info("Ingesting %q (%d bytes)", upload.Name, len(upload.Content))

	mimeType := upload.MIMEType
	if mimeType == "" && s.detectMIME != nil {
		mimeType = s.detectMIME(upload.Name, upload.Content)
		logger.Debug("Detected MIME type %q for %q", mimeType, upload.Name)
	}

	collectionName := domain.CollectionName(upload.Name, upload.Content)
	dimension := s.embedder.Dimensions()

	// The same name+content maps to the same collection, so a finished
	// build from a previous run can be attached without re-embedding.
	if existing, err := s.vectorStore.GetCollection(ctx, collectionName); err == nil {
		if existing.State == domain.CollectionReady {
			if existing.Dimension != dimension {
				return nil, fmt.Errorf("%w: existing collection %q has dimension %d, embedder produces %d",
					domain.ErrDimensionConflict, collectionName, existing.Dimension, dimension)
			}
			logger.Info("Reusing ready collection %s (%d chunks)", collectionName, existing.ChunkCount)
			return &driving.IngestResult{
				SourceName: upload.Name,
				Collection: collectionName,
				ChunkCount: existing.ChunkCount,
				Reused:     true,
			}, nil
		}

		// A building collection with no active session is a leftover
		// from an interrupted ingest. Discard and rebuild.
		logger.Warn("Discarding stale partial collection %s", collectionName)
		if err := s.vectorStore.DeleteCollection(ctx, collectionName); err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("removing stale collection: %w", err)
		}
	}

	raw := &domain.RawDocument{
		SourceName: upload.Name,
		MIMEType:   mimeType,
		Content:    upload.Content,
	}

	normalised, err := s.normalisers.Normalise(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("normalising document: %w", err)
	}

	doc := normalised.Document
	doc.ID = uuid.New().String()

	chunks, err := s.pipeline.Process(ctx, &doc)
	if err != nil {
		return nil, fmt.Errorf("chunking document: %w", err)
	}
	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w: document %q produced no chunks", domain.ErrInvalidInput, upload.Name)
	}
	logger.Info("Split into %d chunks", len(chunks))

	if _, err := s.vectorStore.CreateCollection(ctx, collectionName, dimension); err != nil {
		return nil, fmt.Errorf("creating collection: %w", err)
	}

	if err := s.embedAndStore(ctx, collectionName, chunks); err != nil {
		s.cleanupCollection(collectionName)
		return nil, err
	}

	if err := s.vectorStore.MarkReady(ctx, collectionName); err != nil {
		s.cleanupCollection(collectionName)
		return nil, fmt.Errorf("marking collection ready: %w", err)
	}

	logger.Info("Collection %s ready", collectionName)
	return &driving.IngestResult{
		DocumentID: doc.ID,
		SourceName: upload.Name,
		Collection: collectionName,
		ChunkCount: len(chunks),
	}, nil
}

// embedAndStore embeds chunks in batches and upserts them.
func (s *Session) embedAndStore(ctx context.Context, collection string, chunks []domain.Chunk) error {
	for start := 0; start < len(chunks); start += embedBatchSize {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("ingestion cancelled: %w", err)
		}

		end := min(start+embedBatchSize, len(chunks))
		batch := chunks[start:end]

		texts := make([]string, len(batch))
		for i, chunk := range batch {
			texts[i] = chunk.Content
		}

		embeddings, err := s.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return fmt.Errorf("embedding chunks %d-%d: %w", start, end-1, err)
		}

		if err := s.vectorStore.Upsert(ctx, collection, batch, embeddings); err != nil {
			return fmt.Errorf("storing chunks %d-%d: %w", start, end-1, err)
		}

		logger.Debug("Indexed chunks %d-%d of %d", start, end-1, len(chunks))
	}
	return nil
}

// cleanupCollection removes a partially built collection after a failed
// ingest. Runs on a fresh context so cleanup still happens when the
// ingest context is already cancelled.
func (s *Session) cleanupCollection(collection string) {
	if err := s.vectorStore.DeleteCollection(context.Background(), collection); err != nil && !errors.Is(err, domain.ErrNotFound) {
		logger.Warn("Failed to clean up partial collection %s: %v", collection, err)
	}
}

// Ask answers a question strictly from the attached document's content.
func (s *Session) Ask(ctx context.Context, question string) (string, error) {
	if question == "" {
		return "", fmt.Errorf("%w: empty question", domain.ErrInvalidInput)
	}

	s.mu.RLock()
	state := s.state
	collection := s.collection
	s.mu.RUnlock()

	if state != domain.SessionReady {
		return "", fmt.Errorf("%w: no document attached (state: %s)", domain.ErrNotReady, state)
	}

	logger.Section("Question Answering")
	logger.Debug("Question: %q", question)

	query := s.expander.Expand(ctx, question)

	chunks, err := s.retriever.Retrieve(ctx, collection, query)
	if err != nil {
		return "", err
	}

	return s.synthesizer.Synthesize(ctx, question, chunks)
}

// Attach re-binds the session to an existing ready collection.
func (s *Session) Attach(ctx context.Context, collection, sourceName string) error {
	if collection == "" {
		return fmt.Errorf("%w: empty collection name", domain.ErrInvalidInput)
	}

	ready, err := s.vectorStore.IsReady(ctx, collection)
	if err != nil {
		return err
	}
	if !ready {
		return fmt.Errorf("%w: collection %q", domain.ErrNotReady, collection)
	}

	if err := s.transition(domain.SessionEmpty, domain.SessionReady); err != nil {
		return err
	}

	s.mu.Lock()
	s.collection = collection
	s.sourceName = sourceName
	s.mu.Unlock()

	s.persistAttachment(collection, sourceName)
	return nil
}

// Delete removes the attached collection and empties the session.
// Idempotent: deleting an empty session is a no-op.
func (s *Session) Delete(ctx context.Context) error {
	s.mu.Lock()
	switch s.state {
	case domain.SessionEmpty:
		s.mu.Unlock()
		return nil
	case domain.SessionIndexing, domain.SessionDeleting:
		state := s.state
		s.mu.Unlock()
		return fmt.Errorf("%w: %s in progress", domain.ErrSessionBusy, state)
	case domain.SessionReady:
	}
	s.state = domain.SessionDeleting
	collection := s.collection
	s.mu.Unlock()

	err := s.vectorStore.DeleteCollection(ctx, collection)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		// The collection is still there; stay attached.
		s.setState(domain.SessionReady)
		return fmt.Errorf("deleting collection: %w", err)
	}

	s.mu.Lock()
	s.state = domain.SessionEmpty
	s.collection = ""
	s.sourceName = ""
	s.mu.Unlock()

	s.clearAttachment()
	logger.Info("Deleted collection %s", collection)
	return nil
}

// Status returns a snapshot of the session state.
func (s *Session) Status() driving.SessionStatus {
	s.mu.RLock()
	status := driving.SessionStatus{
		State:      s.state,
		SourceName: s.sourceName,
		Collection: s.collection,
	}
	s.mu.RUnlock()

	if status.Collection != "" {
		if col, err := s.vectorStore.GetCollection(context.Background(), status.Collection); err == nil {
			status.ChunkCount = col.ChunkCount
			status.Dimension = col.Dimension
		}
	}
	return status
}

// transition moves the session from one state to another, failing with
// ErrSessionBusy if the session is not in the expected state.
func (s *Session) transition(from, to domain.SessionState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != from {
		return fmt.Errorf("%w: session is %s", domain.ErrSessionBusy, s.state)
	}
	s.state = to
	return nil
}

// setState unconditionally sets the session state.
func (s *Session) setState(state domain.SessionState) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

// attach records a successful ingest and moves the session to Ready.
func (s *Session) attach(collection, sourceName string) {
	s.mu.Lock()
	s.state = domain.SessionReady
	s.collection = collection
	s.sourceName = sourceName
	s.mu.Unlock()

	s.persistAttachment(collection, sourceName)
}

// persistAttachment records the attachment so another process can Attach.
func (s *Session) persistAttachment(collection, sourceName string) {
	if s.config == nil {
		return
	}
	if err := s.config.Set(configKeyCollection, collection); err != nil {
		logger.Warn("Failed to persist session collection: %v", err)
		return
	}
	if err := s.config.Set(configKeySource, sourceName); err != nil {
		logger.Warn("Failed to persist session source: %v", err)
	}
}

// clearAttachment removes the persisted attachment.
func (s *Session) clearAttachment() {
	if s.config == nil {
		return
	}
	if err := s.config.Delete(configKeyCollection); err != nil {
		logger.Warn("Failed to clear session collection: %v", err)
	}
	if err := s.config.Delete(configKeySource); err != nil {
		logger.Warn("Failed to clear session source: %v", err)
	}
}

// PersistedAttachment reads a previously persisted attachment from the
// config store. Returns empty strings when nothing is persisted.
func PersistedAttachment(config driven.ConfigStore) (collection, sourceName string) {
	if config == nil {
		return "", ""
	}
	return config.GetString(configKeyCollection), config.GetString(configKeySource)
}

// ClearPersistedAttachment removes a persisted attachment, e.g. when it
// turns out to reference a collection that no longer exists.
func ClearPersistedAttachment(config driven.ConfigStore) {
	if config == nil {
		return
	}
	_ = config.Delete(configKeyCollection)
	_ = config.Delete(configKeySource)
}
