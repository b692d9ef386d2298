package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpand_GeneratesVariants(t *testing.T) {
	llm := &mockLLM{completions: []string{
		"How do I configure the system?\nWhat are the setup steps?\nHow is installation done?",
	}}
	expander := NewExpander(llm, newMockPromptStore(), 3)

	query := expander.Expand(context.Background(), "How do I set it up?")

	require.Len(t, query.Variants, 4)
	assert.Equal(t, "How do I set it up?", query.Variants[0])
	assert.Equal(t, "How do I configure the system?", query.Variants[1])
	assert.Contains(t, llm.lastPrompt(), "How do I set it up?")
	assert.Contains(t, llm.lastPrompt(), "3")
}

func TestExpand_StripsListMarkers(t *testing.T) {
	llm := &mockLLM{completions: []string{
		"1. First variant\n2) Second variant\n- Third variant\n* Fourth variant\n\n   \n",
	}}
	expander := NewExpander(llm, newMockPromptStore(), 5)

	query := expander.Expand(context.Background(), "original")

	require.Len(t, query.Variants, 5)
	assert.Equal(t, []string{
		"original",
		"First variant",
		"Second variant",
		"Third variant",
		"Fourth variant",
	}, query.Variants)
}

func TestExpand_DropsDuplicateOfOriginal(t *testing.T) {
	llm := &mockLLM{completions: []string{
		"What is Go?\nwhat is go?\nWhat is the Go language?",
	}}
	expander := NewExpander(llm, newMockPromptStore(), 5)

	query := expander.Expand(context.Background(), "What is Go?")

	// Both case-variants of the original are dropped
	require.Len(t, query.Variants, 2)
	assert.Equal(t, "What is the Go language?", query.Variants[1])
}

func TestExpand_CapsVariantCount(t *testing.T) {
	llm := &mockLLM{completions: []string{"a\nb\nc\nd\ne\nf\ng\nh"}}
	expander := NewExpander(llm, newMockPromptStore(), 3)

	query := expander.Expand(context.Background(), "original")
	assert.Len(t, query.Variants, 4) // original + 3
}

func TestExpand_DegradesOnLLMFailure(t *testing.T) {
	llm := &mockLLM{completeErr: errors.New("model not loaded")}
	expander := NewExpander(llm, newMockPromptStore(), 5)

	query := expander.Expand(context.Background(), "the question")

	assert.Equal(t, []string{"the question"}, query.Variants)
}

func TestExpand_DegradesWithoutLLM(t *testing.T) {
	expander := NewExpander(nil, newMockPromptStore(), 5)

	query := expander.Expand(context.Background(), "the question")
	assert.Equal(t, []string{"the question"}, query.Variants)
}

func TestExpand_DegradesOnPromptFailure(t *testing.T) {
	store := newMockPromptStore()
	store.loadErr = errors.New("disk gone")
	expander := NewExpander(&mockLLM{}, store, 5)

	query := expander.Expand(context.Background(), "the question")
	assert.Equal(t, []string{"the question"}, query.Variants)
}

func TestExpand_EmptyCompletion(t *testing.T) {
	llm := &mockLLM{completions: []string{""}}
	expander := NewExpander(llm, newMockPromptStore(), 5)

	query := expander.Expand(context.Background(), "the question")
	assert.Equal(t, []string{"the question"}, query.Variants)
}

func TestNewExpander_DefaultVariantCount(t *testing.T) {
	expander := NewExpander(&mockLLM{}, newMockPromptStore(), 0)
	assert.Equal(t, DefaultVariantCount, expander.variants)
}
