// Package driving defines the interfaces that the outside world uses to
// drive the core (primary/inbound ports). UI adapters (CLI, TUI) depend
// on these interfaces; core services implement them.
package driving

import (
	"context"

	"github.com/askdoc-labs/askdoc-cli/internal/core/domain"
)

// Upload is a user-supplied document before extraction.
type Upload struct {
	// Name is the original file name (e.g., "report.pdf").
	Name string

	// MIMEType is the content type if known; when empty it is detected
	// from the name and content.
	MIMEType string

	// Content is the raw file bytes.
	Content []byte
}

// IngestResult describes a completed ingestion.
type IngestResult struct {
	// DocumentID is the identifier assigned to the ingested document.
	DocumentID string

	// SourceName is the name of the ingested file.
	SourceName string

	// Collection is the name of the vector collection built for it.
	Collection string

	// ChunkCount is the number of chunks indexed.
	ChunkCount int

	// Reused reports whether an already-built collection for the same
	// document identity was attached instead of rebuilding.
	Reused bool
}

// SessionStatus is a point-in-time snapshot of the session.
type SessionStatus struct {
	// State is the current session state.
	State domain.SessionState

	// SourceName is the attached document's file name, if any.
	SourceName string

	// Collection is the attached collection name, if any.
	Collection string

	// ChunkCount is the number of chunks in the attached collection.
	ChunkCount int

	// Dimension is the embedding dimension of the attached collection.
	Dimension int
}

// SessionService sequences ingestion, retrieval, and synthesis for one
// document session. At most one collection is attached at a time.
type SessionService interface {
	// Ingest extracts, chunks, embeds, and indexes an uploaded document.
	// The session must be empty; a session holding a document rejects
	// the call with domain.ErrSessionBusy until Delete is called.
	// Failures leave no partial collection behind.
	Ingest(ctx context.Context, upload Upload) (*IngestResult, error)

	// Ask answers a question strictly from the attached document's
	// content. The session must be ready; concurrent Asks are allowed.
	Ask(ctx context.Context, question string) (string, error)

	// Attach re-binds the session to an existing ready collection,
	// e.g. one built by a previous process. The collection must exist
	// and be ready.
	Attach(ctx context.Context, collection, sourceName string) error

	// Delete removes the attached collection and returns the session to
	// the empty state. Idempotent: deleting an empty session is a no-op.
	Delete(ctx context.Context) error

	// Status returns a snapshot of the session state.
	Status() SessionStatus
}
