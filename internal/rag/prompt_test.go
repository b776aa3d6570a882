package rag

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ragkb/internal/vectorstore"
)

func TestPromptBuilder_SectionOrder(t *testing.T) {
	policy := DefaultPolicy()
	b := NewPromptBuilder(policy)

	results := []vectorstore.SearchResult{
		{Record: vectorstore.Record{
			Text:     "Поток — энергетическое поле.",
			Metadata: vectorstore.Metadata{Source: "poток.txt", ChunkID: 0},
		}, Distance: 0.1},
	}
	prompt := b.Build("Что такое Поток?", results)

	// The anti-injection warning and the policy must precede the
	// untrusted retrieved content; the question comes last.
	idxSecurity := strings.Index(prompt, "[СИСТЕМНОЕ ПРЕДУПРЕЖДЕНИЕ]")
	idxPolicy := strings.Index(prompt, "Прочитай контекст из документов")
	idxExamples := strings.Index(prompt, "Пример 1:")
	idxContext := strings.Index(prompt, "[Из файла poток.txt]")
	idxQuestion := strings.Index(prompt, "Вопрос: Что такое Поток?")

	require.GreaterOrEqual(t, idxSecurity, 0)
	require.Greater(t, idxPolicy, idxSecurity)
	require.Greater(t, idxExamples, idxPolicy)
	require.Greater(t, idxContext, idxExamples)
	require.Greater(t, idxQuestion, idxContext)
}

func TestPromptBuilder_TagsEveryChunk(t *testing.T) {
	b := NewPromptBuilder(DefaultPolicy())
	results := []vectorstore.SearchResult{
		{Record: vectorstore.Record{Text: "first", Metadata: vectorstore.Metadata{Source: "a.txt"}}},
		{Record: vectorstore.Record{Text: "second", Metadata: vectorstore.Metadata{Source: "b.txt"}}},
	}
	prompt := b.Build("q", results)

	assert.Contains(t, prompt, "[Из файла a.txt]: first")
	assert.Contains(t, prompt, "[Из файла b.txt]: second")
	// Ranked order is preserved.
	assert.Less(t, strings.Index(prompt, "a.txt"), strings.Index(prompt, "b.txt"))
}
