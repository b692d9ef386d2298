package normalisers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askdoc-labs/askdoc-cli/internal/core/domain"
	"github.com/askdoc-labs/askdoc-cli/internal/core/ports/driven"
)

// stubNormaliser is a configurable normaliser for registry tests.
type stubNormaliser struct {
	mimeTypes []string
	priority  int
	marker    string
}

func (s *stubNormaliser) SupportedMIMETypes() []string {
	return s.mimeTypes
}

func (s *stubNormaliser) Priority() int {
	return s.priority
}

func (s *stubNormaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	return &driven.NormaliseResult{
		Document: domain.Document{
			ID:         s.marker,
			SourceName: raw.SourceName,
			Content:    string(raw.Content),
		},
	}, nil
}

func TestRegistry_Normalise_Dispatch(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubNormaliser{mimeTypes: []string{"text/plain"}, priority: 5, marker: "plain"})
	r.Register(&stubNormaliser{mimeTypes: []string{"text/html"}, priority: 50, marker: "html"})

	result, err := r.Normalise(context.Background(), &domain.RawDocument{
		SourceName: "page.html",
		MIMEType:   "text/html",
		Content:    []byte("<p>hi</p>"),
	})

	require.NoError(t, err)
	assert.Equal(t, "html", result.Document.ID)
}

func TestRegistry_Normalise_HighestPriorityWins(t *testing.T) {
	r := NewRegistry()
	// Registration order must not matter; the markdown normaliser
	// outranks the plaintext fallback for text/markdown.
	r.Register(&stubNormaliser{mimeTypes: []string{"text/markdown", "text/plain"}, priority: 5, marker: "fallback"})
	r.Register(&stubNormaliser{mimeTypes: []string{"text/markdown"}, priority: 50, marker: "markdown"})

	result, err := r.Normalise(context.Background(), &domain.RawDocument{
		SourceName: "readme.md",
		MIMEType:   "text/markdown",
		Content:    []byte("# hi"),
	})

	require.NoError(t, err)
	assert.Equal(t, "markdown", result.Document.ID)
}

func TestRegistry_Normalise_Unsupported(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubNormaliser{mimeTypes: []string{"text/plain"}, priority: 5})

	_, err := r.Normalise(context.Background(), &domain.RawDocument{
		SourceName: "img.png",
		MIMEType:   "image/png",
	})

	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
}

func TestRegistry_Normalise_NilDocument(t *testing.T) {
	r := NewRegistry()

	_, err := r.Normalise(context.Background(), nil)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRegistry_SupportedMIMETypes(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubNormaliser{mimeTypes: []string{"text/plain", "text/markdown"}, priority: 5})
	r.Register(&stubNormaliser{mimeTypes: []string{"text/markdown", "text/html"}, priority: 50})

	types := r.SupportedMIMETypes()

	assert.Equal(t, []string{"text/html", "text/markdown", "text/plain"}, types)
}
