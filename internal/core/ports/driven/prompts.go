package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files, embed them in the binary,
// or fetch them from a remote configuration service.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// If the prompt is not found, implementations should return a
	// sensible default or an error, depending on whether the prompt
	// is required.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	// This is useful when prompts may have been edited on disk.
	Reload()
}

// Well-known prompt names used throughout the application.
// These constants define the contract between prompt consumers and providers.
const (
	// PromptMultiQuery generates paraphrased variants of a question to
	// widen retrieval recall. The template expects %d (variant count)
	// and %s (original question) placeholders.
	PromptMultiQuery = "multi_query"

	// PromptAnswer builds the grounding prompt for answer synthesis.
	// The template expects %s (context) and %s (question) placeholders.
	PromptAnswer = "answer"
)
