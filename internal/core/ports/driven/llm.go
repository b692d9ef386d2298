package driven

import "context"

// LLMService provides language model operations for query expansion and
// answer synthesis.
//
// Implementations may include:
//   - Ollama (local models)
//   - LM Studio (local inference server)
type LLMService interface {
	// Complete produces a text completion from a prompt.
	Complete(ctx context.Context, prompt string, opts GenerateOptions) (Completion, error)

	// Chat conducts a multi-turn conversation.
	Chat(ctx context.Context, messages []ChatMessage, opts ChatOptions) (Completion, error)

	// ModelName returns the name of the LLM model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// Completion is the normalised result of a language model call.
// Providers return different wire shapes (a bare string, a generate
// response, a chat message object); adapters fold whichever shape they
// receive into this single type, and consumers read only Text().
// Provider metadata never leaks past this boundary.
type Completion struct {
	text  string
	model string
	done  bool
}

// NewCompletion builds a completion from the extracted text payload.
func NewCompletion(text, model string, done bool) Completion {
	return Completion{text: text, model: model, done: done}
}

// Text returns the textual answer payload.
func (c Completion) Text() string {
	return c.text
}

// Model returns the model that produced the completion.
func (c Completion) Model() string {
	return c.model
}

// Done reports whether the provider marked the completion as finished.
func (c Completion) Done() bool {
	return c.done
}

// GenerateOptions configures text generation behaviour.
type GenerateOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64

	// StopWords are sequences that stop generation when encountered.
	StopWords []string
}

// ChatMessage represents a single message in a conversation.
type ChatMessage struct {
	// Role is one of "system", "user", or "assistant".
	Role string

	// Content is the message text.
	Content string
}

// ChatOptions configures chat behaviour.
type ChatOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64
}
