package llm

import (
	"context"
	"sync"
)

// Call records one Generate invocation on a MockGenerator.
type Call struct {
	ModelID string
	Prompt  string
}

// MockResponse is one canned result of a MockGenerator.
type MockResponse struct {
	Text string
	Err  error
}

// MockGenerator returns canned responses in FIFO order. When the queue runs
// dry it keeps returning the last response.
type MockGenerator struct {
	mu        sync.Mutex
	responses []MockResponse
	calls     []Call
}

func NewMockGenerator(responses ...MockResponse) *MockGenerator {
	return &MockGenerator{responses: responses}
}

func (m *MockGenerator) Generate(ctx context.Context, modelID string, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, Call{ModelID: modelID, Prompt: prompt})
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(m.responses) == 0 {
		return "", nil
	}

	resp := m.responses[0]
	if len(m.responses) > 1 {
		m.responses = m.responses[1:]
	}
	return resp.Text, resp.Err
}

// CallCount returns the number of Generate calls so far.
func (m *MockGenerator) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// Calls returns a copy of the recorded calls.
func (m *MockGenerator) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Call, len(m.calls))
	copy(out, m.calls)
	return out
}
