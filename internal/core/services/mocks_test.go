package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/askdoc-labs/askdoc-cli/internal/core/domain"
	"github.com/askdoc-labs/askdoc-cli/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockLLM implements driven.LLMService for testing.
type mockLLM struct {
	mu          sync.Mutex
	completions []string // returned in order; last one repeats
	completeErr error
	calls       int
	prompts     []string
	chats       [][]driven.ChatMessage
}

func (m *mockLLM) Complete(_ context.Context, prompt string, _ driven.GenerateOptions) (driven.Completion, error) {
	return m.respond(prompt)
}

func (m *mockLLM) Chat(_ context.Context, messages []driven.ChatMessage, _ driven.ChatOptions) (driven.Completion, error) {
	m.mu.Lock()
	m.chats = append(m.chats, messages)
	m.mu.Unlock()

	prompt := ""
	if len(messages) > 0 {
		prompt = messages[len(messages)-1].Content
	}
	return m.respond(prompt)
}

// respond records the prompt and returns the next queued completion.
func (m *mockLLM) respond(prompt string) (driven.Completion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	m.prompts = append(m.prompts, prompt)
	if m.completeErr != nil {
		return driven.Completion{}, m.completeErr
	}

	text := ""
	if len(m.completions) > 0 {
		idx := min(m.calls-1, len(m.completions)-1)
		text = m.completions[idx]
	}
	return driven.NewCompletion(text, "mock-model", true), nil
}

func (m *mockLLM) ModelName() string            { return "mock-model" }
func (m *mockLLM) Ping(_ context.Context) error { return nil }
func (m *mockLLM) Close() error                 { return nil }

func (m *mockLLM) lastPrompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.prompts) == 0 {
		return ""
	}
	return m.prompts[len(m.prompts)-1]
}

// mockEmbedder implements driven.EmbeddingService for testing.
// Each text embeds to a deterministic vector derived from its length,
// so identical texts always produce identical vectors.
type mockEmbedder struct {
	mu         sync.Mutex
	dimensions int
	embedErr   error
	failAfter  int // fail once this many Embed calls have succeeded (0 = never)
	calls      int
}

func (m *mockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.embedErr != nil {
		return nil, m.embedErr
	}
	m.calls++
	if m.failAfter > 0 && m.calls > m.failAfter {
		return nil, fmt.Errorf("%w: provider went away", domain.ErrEmbedding)
	}

	dim := m.dimensions
	if dim == 0 {
		dim = 4
	}
	vec := make([]float32, dim)
	for i := range vec {
		vec[i] = float32((len(text)+i)%7) + 1
	}
	return vec, nil
}

func (m *mockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		vec, err := m.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

func (m *mockEmbedder) Dimensions() int {
	if m.dimensions == 0 {
		return 4
	}
	return m.dimensions
}

func (m *mockEmbedder) ModelName() string            { return "mock-embed" }
func (m *mockEmbedder) Ping(_ context.Context) error { return nil }
func (m *mockEmbedder) Close() error                 { return nil }

// mockPromptStore implements driven.PromptStore for testing.
type mockPromptStore struct {
	prompts map[string]string
	loadErr error
}

func newMockPromptStore() *mockPromptStore {
	return &mockPromptStore{
		prompts: map[string]string{
			driven.PromptMultiQuery: "Generate %d variants of: %s",
			driven.PromptAnswer:     "Context:\n%s\nQuestion: %s",
		},
	}
}

func (m *mockPromptStore) Load(name string) (string, error) {
	if m.loadErr != nil {
		return "", m.loadErr
	}
	prompt, ok := m.prompts[name]
	if !ok {
		return "", fmt.Errorf("prompt %q not found", name)
	}
	return prompt, nil
}

func (m *mockPromptStore) Reload() {}

// mockNormaliserRegistry implements driven.NormaliserRegistry for testing.
// It lowercases nothing and just wraps the raw bytes as text content.
type mockNormaliserRegistry struct {
	normaliseErr error
}

func (m *mockNormaliserRegistry) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if m.normaliseErr != nil {
		return nil, m.normaliseErr
	}
	return &driven.NormaliseResult{
		Document: domain.Document{
			SourceName: raw.SourceName,
			Content:    string(raw.Content),
		},
	}, nil
}

func (m *mockNormaliserRegistry) Register(_ driven.Normaliser) {}

func (m *mockNormaliserRegistry) SupportedMIMETypes() []string {
	return []string{"text/plain"}
}

// mockPipeline implements driven.PostProcessorPipeline for testing.
// It splits the document on blank lines into one chunk per paragraph.
type mockPipeline struct {
	processErr error
}

func (m *mockPipeline) Process(_ context.Context, doc *domain.Document) ([]domain.Chunk, error) {
	if m.processErr != nil {
		return nil, m.processErr
	}

	var chunks []domain.Chunk
	offset := 0
	for i, part := range strings.Split(doc.Content, "\n\n") {
		if strings.TrimSpace(part) == "" {
			offset += len(part) + 2
			continue
		}
		chunks = append(chunks, domain.Chunk{
			ID:          fmt.Sprintf("%s-%d", doc.SourceName, i),
			DocumentID:  doc.ID,
			Position:    len(chunks),
			StartOffset: offset,
			Content:     part,
		})
		offset += len(part) + 2
	}
	return chunks, nil
}

// mockConfigStore implements driven.ConfigStore for testing.
type mockConfigStore struct {
	mu   sync.Mutex
	data map[string]any
}

func newMockConfigStore() *mockConfigStore {
	return &mockConfigStore{data: make(map[string]any)}
}

func (m *mockConfigStore) Get(key string) (any, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok
}

func (m *mockConfigStore) GetString(key string) string {
	v, _ := m.Get(key)
	s, _ := v.(string)
	return s
}

func (m *mockConfigStore) GetInt(key string) int {
	v, _ := m.Get(key)
	i, _ := v.(int)
	return i
}

func (m *mockConfigStore) GetFloat(key string) float64 {
	v, _ := m.Get(key)
	f, _ := v.(float64)
	return f
}

func (m *mockConfigStore) GetBool(key string) bool {
	v, _ := m.Get(key)
	b, _ := v.(bool)
	return b
}

func (m *mockConfigStore) Set(key string, value any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *mockConfigStore) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *mockConfigStore) Save() error { return nil }
func (m *mockConfigStore) Load() error { return nil }
func (m *mockConfigStore) Path() string {
	return "mock://config"
}
