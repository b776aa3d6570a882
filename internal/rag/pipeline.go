package rag

import (
	"context"
	"log"

	"ragkb/internal/generate"
)

// Pipeline is the full query path: retrieve, gate, build prompt,
// generate, guard. Construct one per collection and share it across
// goroutines; it holds no mutable state.
type Pipeline struct {
	retriever *Retriever
	prompts   *PromptBuilder
	guard     *Guard
	generator generate.Generator
	policy    Policy

	topK      int
	threshold float32
}

// Response is the outcome of one question.
type Response struct {
	// Answer is always valid user-facing text, never a raw error.
	Answer string

	// Sources lists the source filenames of the chunks the prompt was
	// conditioned on, in ranked order. Empty for refusals.
	Sources []string

	// ChunkCount is the number of chunks handed to the generator.
	// Zero for refusals.
	ChunkCount int
}

// NewPipeline wires the query path. topK and threshold bound retrieval;
// threshold is a cosine distance (see internal/mathutil).
func NewPipeline(r *Retriever, g generate.Generator, policy Policy, topK int, threshold float32) *Pipeline {
	if topK <= 0 {
		topK = 5
	}
	return &Pipeline{
		retriever: r,
		prompts:   NewPromptBuilder(policy),
		guard:     NewGuard(policy),
		generator: g,
		policy:    policy,
		topK:      topK,
		threshold: threshold,
	}
}

// Guard exposes the pipeline's answer guard (the evaluator shares its
// refusal-marker logic).
func (p *Pipeline) Guard() *Guard { return p.guard }

// Ask answers one question. The generation service is never called
// when retrieval comes back empty or too distant: both gates
// short-circuit to a refusal first. A generation failure degrades to
// the policy's service-error answer; the returned error covers only
// retrieval-side failures (embedding errors, store errors).
func (p *Pipeline) Ask(ctx context.Context, question string) (Response, error) {
	results, err := p.retriever.Retrieve(ctx, question, p.topK)
	if err != nil {
		return Response{}, err
	}

	if len(results) == 0 {
		return Response{Answer: p.policy.NoEvidenceAnswer}, nil
	}
	if MinDistance(results) > p.threshold {
		return Response{Answer: p.policy.RefusalAnswer}, nil
	}

	prompt := p.prompts.Build(question, results)
	raw, genErr := p.generator.Generate(ctx, prompt)
	if genErr != nil {
		log.Printf("rag: generation failed: %v", genErr)
		raw = p.policy.ServiceErrorAnswer
	}

	answer := p.guard.Finalize(results, raw, p.threshold)

	sources := make([]string, len(results))
	for i, r := range results {
		sources[i] = r.Record.Metadata.Source
	}
	return Response{
		Answer:     answer,
		Sources:    sources,
		ChunkCount: len(results),
	}, nil
}
