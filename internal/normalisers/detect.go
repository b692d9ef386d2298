package normalisers

import (
	"net/http"
	"path/filepath"
	"strings"
)

// extensionMIMETypes maps file extensions to MIME types for the formats
// the application supports. Extension wins over content sniffing because
// sniffing cannot distinguish e.g. Markdown from plain text.
var extensionMIMETypes = map[string]string{
	".txt":  "text/plain",
	".text": "text/plain",
	".md":   "text/markdown",
	".html": "text/html",
	".htm":  "text/html",
	".pdf":  "application/pdf",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// DetectMIMEType determines the MIME type of an upload from its file
// extension, falling back to content sniffing for unknown extensions.
func DetectMIMEType(name string, content []byte) string {
	ext := strings.ToLower(filepath.Ext(name))
	if mt, ok := extensionMIMETypes[ext]; ok {
		return mt
	}

	// http.DetectContentType appends charset parameters; strip them so
	// registry dispatch matches on the bare type.
	sniffed := http.DetectContentType(content)
	if i := strings.IndexByte(sniffed, ';'); i >= 0 {
		sniffed = sniffed[:i]
	}
	return strings.TrimSpace(sniffed)
}
