package eval

import (
	"context"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"ragkb/internal/rag"
)

// expectedKeywords is how many leading tokens of the expected fragment
// the scorer looks for in the answer.
const expectedKeywords = 3

// defaultMinAnswerLen is the shortest answer (in runes) accepted as
// substantive.
const defaultMinAnswerLen = 20

// Asker is the query path under evaluation. Satisfied by *rag.Pipeline.
type Asker interface {
	Ask(ctx context.Context, question string) (rag.Response, error)
}

// Record is one scored evaluation outcome; the log is append-only.
type Record struct {
	Timestamp  time.Time
	Question   string
	Expected   string
	Answer     string
	Sources    []string
	AnswerLen  int
	ChunkCount int
	Correct    bool
}

// Summary aggregates one evaluation run.
type Summary struct {
	Total   int
	Correct int
}

// Evaluator scores pipeline answers against a golden question set.
type Evaluator struct {
	pipeline     Asker
	guard        *rag.Guard
	minAnswerLen int
}

// NewEvaluator creates an evaluator. The guard supplies the refusal
// marker list so scoring and answering agree on what a refusal is.
// minAnswerLen <= 0 selects the default of 20 runes.
func NewEvaluator(p Asker, g *rag.Guard, minAnswerLen int) *Evaluator {
	if minAnswerLen <= 0 {
		minAnswerLen = defaultMinAnswerLen
	}
	return &Evaluator{pipeline: p, guard: g, minAnswerLen: minAnswerLen}
}

// Run evaluates every question independently. A failure on one
// question never aborts the run: the error text is recorded as the
// produced answer and scored like any other answer (typically as
// incorrect).
func (e *Evaluator) Run(ctx context.Context, questions []GoldenQuestion) ([]Record, Summary) {
	records := make([]Record, 0, len(questions))
	summary := Summary{Total: len(questions)}

	for _, q := range questions {
		resp, err := e.pipeline.Ask(ctx, q.Question)
		if err != nil {
			log.Printf("eval: question %q failed: %v", q.Question, err)
			resp = rag.Response{Answer: err.Error()}
		}

		correct := e.Score(q, resp.Answer)
		if correct {
			summary.Correct++
		}
		records = append(records, Record{
			Timestamp:  time.Now(),
			Question:   q.Question,
			Expected:   q.Expected,
			Answer:     resp.Answer,
			Sources:    resp.Sources,
			AnswerLen:  utf8.RuneCountInString(resp.Answer),
			ChunkCount: resp.ChunkCount,
			Correct:    correct,
		})
	}
	return records, summary
}

// Score applies the correctness rule. For missing/deleted topics the
// answer must read as a refusal. For everything else the answer must
// be long enough, must not be a refusal, and must contain at least one
// of the first few tokens of the expected fragment, case-insensitively.
// A recall-oriented heuristic, deliberately tolerant of paraphrase.
func (e *Evaluator) Score(q GoldenQuestion, answer string) bool {
	if q.ExpectsRefusal() {
		return e.guard.IsRefusal(answer)
	}

	if utf8.RuneCountInString(answer) < e.minAnswerLen {
		return false
	}
	if e.guard.IsRefusal(answer) {
		return false
	}
	lower := strings.ToLower(answer)
	keywords := strings.Fields(q.Expected)
	if len(keywords) > expectedKeywords {
		keywords = keywords[:expectedKeywords]
	}
	for _, kw := range keywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}
