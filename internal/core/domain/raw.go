package domain

// RawDocument represents opaque bytes as uploaded by the user.
// It is the input to normalisation.
type RawDocument struct {
	// SourceName is the name of the uploaded file.
	SourceName string

	// MIMEType is the detected content type (e.g., "application/pdf").
	MIMEType string

	// Content is the raw bytes.
	Content []byte
}
