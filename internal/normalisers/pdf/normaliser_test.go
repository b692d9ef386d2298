package pdf

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askdoc-labs/askdoc-cli/internal/core/domain"
)

// mockRunner captures the command invocation and returns canned output.
type mockRunner struct {
	output   []byte
	err      error
	name     string
	args     []string
	tmpBytes []byte
}

func (m *mockRunner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	m.name = name
	m.args = args
	// Read the temp file while it still exists so the test can check
	// what was handed to pdftotext.
	if len(args) >= 2 {
		m.tmpBytes, _ = os.ReadFile(args[len(args)-2])
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.output, nil
}

func TestNew(t *testing.T) {
	normaliser := New()
	require.NotNil(t, normaliser)
	assert.IsType(t, &Normaliser{}, normaliser)
}

func TestSupportedMIMETypes(t *testing.T) {
	normaliser := New()
	assert.Equal(t, []string{"application/pdf"}, normaliser.SupportedMIMETypes())
}

func TestPriority(t *testing.T) {
	normaliser := New()
	assert.Equal(t, 50, normaliser.Priority())
}

func TestNormalise_Success(t *testing.T) {
	runner := &mockRunner{output: []byte("Extracted PDF text.\n")}
	normaliser := NewWithRunner(runner)

	raw := &domain.RawDocument{
		SourceName: "paper.pdf",
		MIMEType:   "application/pdf",
		Content:    []byte("%PDF-1.4 fake body"),
	}

	result, err := normaliser.Normalise(context.Background(), raw)
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, "pdftotext", runner.name)
	assert.Equal(t, "-layout", runner.args[0])
	assert.Equal(t, "-", runner.args[len(runner.args)-1])
	assert.Equal(t, []byte("%PDF-1.4 fake body"), runner.tmpBytes)

	doc := result.Document
	assert.NotEmpty(t, doc.ID)
	assert.Equal(t, "paper.pdf", doc.SourceName)
	assert.Equal(t, "Extracted PDF text.", doc.Content)
}

func TestNormalise_NilDocument(t *testing.T) {
	normaliser := NewWithRunner(&mockRunner{})

	result, err := normaliser.Normalise(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, result)
}

func TestNormalise_RunnerError(t *testing.T) {
	runner := &mockRunner{err: errors.New("exit status 1")}
	normaliser := NewWithRunner(runner)

	raw := &domain.RawDocument{
		SourceName: "broken.pdf",
		Content:    []byte("not a pdf"),
	}

	result, err := normaliser.Normalise(context.Background(), raw)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pdftotext")
	assert.Nil(t, result)
}

func TestNormalise_CleansUpTempFile(t *testing.T) {
	runner := &mockRunner{output: []byte("text")}
	normaliser := NewWithRunner(runner)

	raw := &domain.RawDocument{
		SourceName: "paper.pdf",
		Content:    []byte("%PDF"),
	}

	_, err := normaliser.Normalise(context.Background(), raw)
	require.NoError(t, err)

	tmpPath := runner.args[len(runner.args)-2]
	_, statErr := os.Stat(tmpPath)
	assert.True(t, os.IsNotExist(statErr), "temp file should be removed")
}
