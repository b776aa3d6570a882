package rag

import (
	"fmt"
	"strings"

	"ragkb/internal/vectorstore"
)

// PromptBuilder assembles the generation request. The section order is
// fixed and deliberate: the anti-injection warning and the answer
// policy come before any retrieved content, because instructions that
// precede untrusted text are the only leverage available once the
// prompt reaches a black-box generator.
type PromptBuilder struct {
	policy Policy
}

// NewPromptBuilder creates a builder with the given policy text.
func NewPromptBuilder(p Policy) *PromptBuilder {
	return &PromptBuilder{policy: p}
}

// Build renders the prompt: (1) security warning, (2) reasoning policy,
// (3) fixed few-shot examples, (4) retrieved chunks tagged with their
// source filename in ranked order, (5) the question.
func (b *PromptBuilder) Build(question string, results []vectorstore.SearchResult) string {
	contextParts := make([]string, len(results))
	for i, r := range results {
		contextParts[i] = fmt.Sprintf(b.policy.ContextTagFormat, r.Record.Metadata.Source, r.Record.Text)
	}

	var sb strings.Builder
	sb.WriteString(b.policy.SecurityInstruction)
	sb.WriteString("\n\n")
	sb.WriteString(b.policy.ReasoningInstruction)
	sb.WriteString("\n\n")
	sb.WriteString(b.policy.FewShotExamples)
	sb.WriteString("\n\n")
	sb.WriteString(b.policy.ContextHeader)
	sb.WriteString("\n")
	sb.WriteString(strings.Join(contextParts, "\n\n"))
	sb.WriteString("\n\n")
	sb.WriteString(b.policy.QuestionPrefix)
	sb.WriteString(question)
	sb.WriteString("\n\n")
	sb.WriteString(b.policy.AnswerCue)
	return sb.String()
}
