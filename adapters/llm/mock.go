package llm

import (
	"context"
	"fmt"
	"sync"

	"surveygen/domain/core"
	"surveygen/ports"
)

// MockLLMClient is a scripted provider for tests. Responses are queued per
// task; the last queued response for a task repeats once the queue drains.
// Safe for concurrent use.
type MockLLMClient struct {
	mu        sync.Mutex
	responses map[ports.TaskCategory][]string
	errors    map[ports.TaskCategory]error
	handler   func(ports.ModelRequest) (*ports.LLMResponse, error)
	models    []string
	calls     []ports.ModelRequest
}

// NewMockLLMClient creates an empty mock; unscripted tasks fail with a provider error.
func NewMockLLMClient() *MockLLMClient {
	return &MockLLMClient{
		responses: make(map[ports.TaskCategory][]string),
		errors:    make(map[ports.TaskCategory]error),
	}
}

// OnTask queues responses for task.
func (m *MockLLMClient) OnTask(task ports.TaskCategory, contents ...string) *MockLLMClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[task] = append(m.responses[task], contents...)
	return m
}

// FailTask makes every call for task fail with err.
func (m *MockLLMClient) FailTask(task ports.TaskCategory, err error) *MockLLMClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[task] = err
	return m
}

// Handle installs a function consulted before the scripted queues. A nil
// response with a nil error falls through to the queues.
func (m *MockLLMClient) Handle(fn func(ports.ModelRequest) (*ports.LLMResponse, error)) *MockLLMClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handler = fn
	return m
}

// WithModels sets the ids returned by ListModels.
func (m *MockLLMClient) WithModels(ids ...string) *MockLLMClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.models = ids
	return m
}

func (m *MockLLMClient) Invoke(ctx context.Context, req ports.ModelRequest) (*ports.LLMResponse, error) {
	m.mu.Lock()
	m.calls = append(m.calls, req)
	handler := m.handler
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, core.NewProviderError(req.Model, err)
	}

	if handler != nil {
		resp, err := handler(req)
		if err != nil {
			return nil, err
		}
		if resp != nil {
			return resp, nil
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.errors[req.Task]; ok {
		return nil, core.NewProviderError(req.Model, err)
	}
	queue := m.responses[req.Task]
	if len(queue) == 0 {
		return nil, core.NewProviderError(req.Model, fmt.Errorf("no scripted response for task %s", req.Task))
	}
	content := queue[0]
	if len(queue) > 1 {
		m.responses[req.Task] = queue[1:]
	}
	return &ports.LLMResponse{
		Content: content,
		Model:   req.Model,
		Usage: &ports.UsageData{
			PromptTokens:     len(req.Prompt) / 4,
			CompletionTokens: len(content) / 4,
			TotalTokens:      (len(req.Prompt) + len(content)) / 4,
			Model:            req.Model,
			Provider:         "mock",
		},
	}, nil
}

func (m *MockLLMClient) ListModels(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.models...), nil
}

// Calls returns a copy of every request received.
func (m *MockLLMClient) Calls() []ports.ModelRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ports.ModelRequest(nil), m.calls...)
}

// CallsFor returns the requests received for task.
func (m *MockLLMClient) CallsFor(task ports.TaskCategory) []ports.ModelRequest {
	var out []ports.ModelRequest
	for _, c := range m.Calls() {
		if c.Task == task {
			out = append(out, c)
		}
	}
	return out
}
