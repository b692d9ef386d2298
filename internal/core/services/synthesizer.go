package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/askdoc-labs/askdoc-cli/internal/core/domain"
	"github.com/askdoc-labs/askdoc-cli/internal/core/ports/driven"
	"github.com/askdoc-labs/askdoc-cli/internal/logger"
)

// InsufficientContextAnswer is returned when retrieval found nothing to
// ground an answer in. No LLM call is made in that case, so the model
// never gets a chance to answer from its own knowledge.
const InsufficientContextAnswer = "I don't have enough information in the document to answer that question."

// chunkSeparator joins retrieved chunks into the context block.
const chunkSeparator = "\n\n---\n\n"

// Synthesizer produces an answer grounded in retrieved document chunks.
type Synthesizer struct {
	llm         driven.LLMService
	promptStore driven.PromptStore
}

// NewSynthesizer creates an answer synthesizer.
func NewSynthesizer(llm driven.LLMService, promptStore driven.PromptStore) *Synthesizer {
	return &Synthesizer{
		llm:         llm,
		promptStore: promptStore,
	}
}

// Synthesize answers the question from the given chunks only.
// With no chunks it returns the fixed insufficient-context answer
// without calling the model. An LLM failure fails the whole turn:
// a wrong answer is worse than no answer.
func (s *Synthesizer) Synthesize(ctx context.Context, question string, chunks []domain.ScoredChunk) (string, error) {
	if len(chunks) == 0 {
		logger.Debug("No context retrieved, short-circuiting synthesis")
		return InsufficientContextAnswer, nil
	}

	if s.llm == nil {
		return "", fmt.Errorf("%w: cannot synthesize answer", domain.ErrLLMUnavailable)
	}

	template, err := s.promptStore.Load(driven.PromptAnswer)
	if err != nil {
		return "", fmt.Errorf("loading answer prompt: %w", err)
	}

	prompt := fmt.Sprintf(template, buildContext(chunks), question)

	completion, err := s.llm.Chat(ctx, []driven.ChatMessage{
		{Role: "user", Content: prompt},
	}, driven.ChatOptions{
		Temperature: 0.2,
	})
	if err != nil {
		return "", fmt.Errorf("synthesizing answer: %w", err)
	}

	answer := strings.TrimSpace(completion.Text())
	if answer == "" {
		return "", fmt.Errorf("%w: model returned an empty answer", domain.ErrGeneration)
	}
	return answer, nil
}

// buildContext joins chunk contents in retrieval order.
func buildContext(chunks []domain.ScoredChunk) string {
	parts := make([]string, len(chunks))
	for i, c := range chunks {
		parts[i] = c.Chunk.Content
	}
	return strings.Join(parts, chunkSeparator)
}
