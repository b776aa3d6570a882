package rag

import (
	"strings"

	"ragkb/internal/vectorstore"
)

// Guard post-processes generated answers. It is a two-stage defense:
// a retrieval-confidence gate (pre-generation signal) and a lexical
// forbidden-term filter (post-generation signal). Neither alone is
// sufficient, because a poisoned document can score as a strong
// nearest neighbor.
type Guard struct {
	policy Policy
}

// NewGuard creates a guard with the given policy.
func NewGuard(p Policy) *Guard {
	return &Guard{policy: p}
}

// Finalize decides the user-visible answer:
//
//  1. empty retrieval -> the no-evidence answer;
//  2. best distance above threshold -> the refusal answer, regardless
//     of what the generator produced;
//  3. a forbidden term anywhere in the raw answer (case-insensitive)
//     -> the blocked answer;
//  4. otherwise the raw answer, unchanged.
func (g *Guard) Finalize(results []vectorstore.SearchResult, rawAnswer string, threshold float32) string {
	if len(results) == 0 {
		return g.policy.NoEvidenceAnswer
	}
	if MinDistance(results) > threshold {
		return g.policy.RefusalAnswer
	}
	if g.containsForbidden(rawAnswer) {
		return g.policy.BlockedAnswer
	}
	return rawAnswer
}

func (g *Guard) containsForbidden(answer string) bool {
	lower := strings.ToLower(answer)
	for _, term := range g.policy.ForbiddenTerms {
		if term == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(term)) {
			return true
		}
	}
	return false
}

// IsRefusal reports whether the answer reads as a refusal according to
// the policy's marker list. Used by the evaluator's scoring rule.
func (g *Guard) IsRefusal(answer string) bool {
	lower := strings.ToLower(answer)
	for _, marker := range g.policy.RefusalMarkers {
		if marker != "" && strings.Contains(lower, strings.ToLower(marker)) {
			return true
		}
	}
	return false
}

// MinDistance returns the smallest distance in a non-empty result set.
func MinDistance(results []vectorstore.SearchResult) float32 {
	min := results[0].Distance
	for _, r := range results[1:] {
		if r.Distance < min {
			min = r.Distance
		}
	}
	return min
}
