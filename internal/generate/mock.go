package generate

import (
	"context"
	"sync"
)

// Mock is a test generator that records prompts and returns
// configurable responses.
type Mock struct {
	mu        sync.Mutex
	responses []MockResponse
	prompts   []string
	next      int
}

// MockResponse is one pre-configured reply.
type MockResponse struct {
	Answer string
	Err    error
}

// NewMock creates a mock generator.
func NewMock(responses ...MockResponse) *Mock {
	return &Mock{responses: responses}
}

func (m *Mock) Name() string { return "mock" }

// Generate records the prompt and returns the next configured
// response. When responses run out it repeats the last one; with no
// responses configured it returns an empty answer.
func (m *Mock) Generate(_ context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.prompts = append(m.prompts, prompt)
	if len(m.responses) == 0 {
		return "", nil
	}
	r := m.responses[m.next]
	if m.next < len(m.responses)-1 {
		m.next++
	}
	return r.Answer, r.Err
}

// Calls returns how many times Generate was invoked.
func (m *Mock) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.prompts)
}

// Prompts returns a copy of the recorded prompts.
func (m *Mock) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.prompts))
	copy(out, m.prompts)
	return out
}
