package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/askdoc-labs/askdoc-cli/internal/core/domain"
	"github.com/askdoc-labs/askdoc-cli/internal/core/ports/driven"
	"github.com/askdoc-labs/askdoc-cli/internal/logger"
)

// Default expansion parameters.
const (
	// DefaultVariantCount is the number of paraphrased variants requested
	// from the language model, not counting the original question.
	DefaultVariantCount = 5

	// expansionMaxTokens bounds the paraphrase completion.
	expansionMaxTokens = 512
)

// Expander widens a question into multiple retrieval queries by asking
// the language model for paraphrased variants. Expansion is best-effort:
// any failure degrades to retrieving with the original question alone.
type Expander struct {
	llm         driven.LLMService
	promptStore driven.PromptStore
	variants    int
}

// NewExpander creates a query expander.
// If variants <= 0, DefaultVariantCount is used.
func NewExpander(llm driven.LLMService, promptStore driven.PromptStore, variants int) *Expander {
	if variants <= 0 {
		variants = DefaultVariantCount
	}
	return &Expander{
		llm:         llm,
		promptStore: promptStore,
		variants:    variants,
	}
}

// Expand generates paraphrased variants of the question. The returned
// query always lists the original question first; on any LLM failure it
// is the only variant.
func (e *Expander) Expand(ctx context.Context, question string) domain.Query {
	query := domain.NewQuery(question)

	if e.llm == nil {
		logger.Warn("Query expansion unavailable: LLM service is nil")
		return query
	}

	template, err := e.promptStore.Load(driven.PromptMultiQuery)
	if err != nil {
		logger.Warn("Query expansion prompt unavailable: %v", err)
		return query
	}

	prompt := fmt.Sprintf(template, e.variants, question)
	completion, err := e.llm.Complete(ctx, prompt, driven.GenerateOptions{
		MaxTokens:   expansionMaxTokens,
		Temperature: 0.7,
	})
	if err != nil {
		logger.Warn("Query expansion failed, falling back to original question: %v", err)
		return query
	}

	variants := parseVariants(completion.Text(), question, e.variants)
	query.Variants = append(query.Variants, variants...)

	logger.Debug("Expanded question into %d retrieval queries", len(query.Variants))
	return query
}

// parseVariants extracts up to max paraphrases from the completion,
// one per line. Numbering, bullets, blank lines, and lines duplicating
// the original question are discarded.
func parseVariants(text, original string, max int) []string {
	var variants []string
	for _, line := range strings.Split(text, "\n") {
		variant := cleanVariant(line)
		if variant == "" || strings.EqualFold(variant, original) {
			continue
		}
		variants = append(variants, variant)
		if len(variants) == max {
			break
		}
	}
	return variants
}

// cleanVariant strips list markers the model tends to prepend.
func cleanVariant(line string) string {
	s := strings.TrimSpace(line)
	s = strings.TrimLeft(s, "-*• \t")

	// Strip leading "1." / "2)" style numbering
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i > 0 && i < len(s) && (s[i] == '.' || s[i] == ')') {
		s = s[i+1:]
	}

	return strings.TrimSpace(s)
}
