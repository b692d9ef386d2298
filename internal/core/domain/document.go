package domain

// Document is the canonical representation of an ingested file after
// normalisation. It is immutable once created and owned by the session
// for the duration of one ingestion.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// SourceName is the name of the uploaded file (e.g., "report.pdf").
	SourceName string

	// Content is the full text content after normalisation.
	// This is the complete document text before chunking.
	Content string
}

// Chunk is a bounded contiguous slice of a document's text, the unit of
// embedding and retrieval.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// DocumentID links to the parent Document.
	DocumentID string

	// Position is the ordinal position within the document.
	// Positions are strictly increasing in document order.
	Position int

	// StartOffset is the byte offset of this chunk within the
	// document content.
	StartOffset int

	// Content is the text content of this chunk.
	Content string
}
