// Package eval runs a golden question set through the query pipeline
// and scores the answers for regression tracking.
package eval

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Topics driving the correctness rule. Missing and deleted topics
// expect a refusal; everything else expects a substantive answer.
const (
	TopicExisting = "existing"
	TopicMissing  = "missing"
	TopicDeleted  = "deleted"
)

// GoldenQuestion is one labeled evaluation input.
type GoldenQuestion struct {
	Question string
	Expected string // expected answer fragment (keywords checked)
	Topic    string
}

// ExpectsRefusal reports whether the topic classifies this question as
// unanswerable from the knowledge base.
func (q GoldenQuestion) ExpectsRefusal() bool {
	return q.Topic == TopicMissing || q.Topic == TopicDeleted
}

// LoadGolden parses a golden question file: one
// "question;expected;topic" per line, blank lines and lines starting
// with # ignored. Lines with fewer than two fields are skipped. The
// topic field is optional and defaults to existing.
func LoadGolden(path string) ([]GoldenQuestion, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("eval: open golden file: %w", err)
	}
	defer f.Close()

	var questions []GoldenQuestion
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Split(line, ";")
		if len(parts) < 2 {
			continue
		}
		q := GoldenQuestion{
			Question: strings.TrimSpace(parts[0]),
			Expected: strings.TrimSpace(parts[1]),
			Topic:    TopicExisting,
		}
		if len(parts) > 2 {
			if topic := strings.TrimSpace(parts[2]); topic != "" {
				q.Topic = topic
			}
		}
		questions = append(questions, q)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("eval: read golden file: %w", err)
	}
	return questions, nil
}
