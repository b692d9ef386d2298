// Package chunker provides a fixed-size text chunking processor with
// overlap and breakpoint-aware cuts.
package chunker

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/askdoc-labs/askdoc-cli/internal/core/domain"
)

// DefaultChunkSize is the default number of bytes per chunk.
const DefaultChunkSize = 7500

// DefaultChunkOverlap is the default number of overlapping bytes.
const DefaultChunkOverlap = 100

// DefaultLookback is the default window, in bytes, searched backwards
// from a hard cut for a natural breakpoint.
const DefaultLookback = 100

// Processor splits document content into overlapping fixed-size chunks.
// It implements the PostProcessor interface.
//
// Windows of chunkSize bytes advance by chunkSize - overlap. Within the
// look-back window a cut prefers a paragraph break, then a sentence end,
// then a newline, falling back to a hard cut at chunkSize. The chunk
// after a cut always starts overlap bytes before it, so concatenating
// the chunks with the leading overlap removed reconstructs the input
// exactly.
type Processor struct {
	chunkSize int
	overlap   int
	lookback  int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in bytes.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		p.chunkSize = size
	}
}

// WithOverlap sets the overlap between chunks in bytes.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		p.overlap = overlap
	}
}

// WithLookback sets the breakpoint search window in bytes.
func WithLookback(lookback int) Option {
	return func(p *Processor) {
		p.lookback = lookback
	}
}

// New creates a new chunker processor with the given options.
// Invalid size and overlap combinations are configuration errors, not
// runtime conditions, and fail with domain.ErrInvalidChunkConfig.
func New(opts ...Option) (*Processor, error) {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
		lookback:  DefaultLookback,
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.chunkSize <= 0 {
		return nil, fmt.Errorf("%w: chunk size %d must be positive", domain.ErrInvalidChunkConfig, p.chunkSize)
	}
	if p.overlap < 0 {
		return nil, fmt.Errorf("%w: overlap %d must not be negative", domain.ErrInvalidChunkConfig, p.overlap)
	}
	if p.overlap >= p.chunkSize {
		return nil, fmt.Errorf("%w: overlap %d must be smaller than chunk size %d",
			domain.ErrInvalidChunkConfig, p.overlap, p.chunkSize)
	}

	// The look-back window must leave forward progress after the cut:
	// the next chunk starts overlap bytes before the cut position.
	if p.lookback < 0 {
		p.lookback = 0
	}
	if p.lookback >= p.chunkSize-p.overlap {
		p.lookback = (p.chunkSize - p.overlap) / 2
	}

	return p, nil
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// Process splits the document content into chunks.
// Input chunks are ignored; this processor creates new chunks from
// document content. Empty content produces no chunks.
func (p *Processor) Process(_ context.Context, doc *domain.Document, _ []domain.Chunk) ([]domain.Chunk, error) {
	if doc == nil {
		return nil, domain.ErrInvalidInput
	}

	content := doc.Content
	contentLen := len(content)
	if contentLen == 0 {
		return nil, nil
	}

	estimatedChunks := contentLen/(p.chunkSize-p.overlap) + 1
	chunks := make([]domain.Chunk, 0, estimatedChunks)

	start := 0
	position := 0

	for start < contentLen {
		end := start + p.chunkSize
		if end >= contentLen {
			end = contentLen
		} else {
			end = p.cutAt(content, start, end)
		}

		chunks = append(chunks, domain.Chunk{
			ID:          uuid.New().String(),
			DocumentID:  doc.ID,
			Position:    position,
			StartOffset: start,
			Content:     content[start:end],
		})
		position++

		if end == contentLen {
			break
		}

		// The next chunk re-covers the last overlap bytes of this one.
		start = end - p.overlap
	}

	return chunks, nil
}

// cutAt finds the cut position for a window ending at end. It searches
// the look-back window for a paragraph break, then a sentence end, then
// a newline, falling back to a hard cut at end. The returned position is
// always past start+overlap, so the loop makes forward progress.
func (p *Processor) cutAt(content string, start, end int) int {
	floor := end - p.lookback
	if floor <= start {
		floor = start + 1
	}
	window := content[floor:end]

	if i := strings.LastIndex(window, "\n\n"); i >= 0 {
		return floor + i + 2
	}
	if i := lastSentenceEnd(window); i >= 0 {
		return floor + i
	}
	if i := strings.LastIndexByte(window, '\n'); i >= 0 {
		return floor + i + 1
	}
	// Hard cut: back up to a rune boundary so a multi-byte character
	// is never split between chunks.
	for end > floor && !utf8.RuneStart(content[end]) {
		end--
	}
	return end
}

// lastSentenceEnd returns the position just after the last sentence
// terminator that is followed by whitespace, or -1 if none exists.
func lastSentenceEnd(s string) int {
	for i := len(s) - 2; i >= 0; i-- {
		switch s[i] {
		case '.', '!', '?':
			if s[i+1] == ' ' || s[i+1] == '\n' || s[i+1] == '\t' {
				return i + 1
			}
		}
	}
	return -1
}
