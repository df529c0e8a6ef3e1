package model

import (
	"context"
	"fmt"
	"sync"
)

// Request captures one normalized generation call produced by an agent stage.
type Request struct {
	System      string  `json:"system"`      // System instructions for the model
	User        string  `json:"user"`        // Stage prompt built from the run context
	Temperature float64 `json:"temperature"` // Sampling temperature in [0, 1]
	MaxTokens   int     `json:"max_tokens"`  // Upper bound on generated tokens
}

// Response is the completed output of one generation call. Thinking carries
// provider-surfaced reasoning where available; it is empty for providers that
// do not expose it.
type Response struct {
	Thinking string `json:"thinking,omitempty"`
	Text     string `json:"text"`
}

// Gateway is the opaque request/response interface agents drive generation
// through. Implementations may fail; failures are never caught inside an
// agent and propagate to the run's caller.
type Gateway interface {
	Generate(ctx context.Context, req Request) (Response, error)

	// Info returns metadata about the gateway implementation.
	Info() Info
}

// Info contains metadata about a gateway implementation.
type Info struct {
	Name     string `json:"name"`
	Provider string `json:"provider"` // "openai", "anthropic", "mock", etc.
}

// MockGateway is a lightweight in-memory Gateway for tests and examples. It
// serves canned responses keyed by user prompt, falling back to a scripted
// sequence consumed one response per call, and finally to an echo response.
// It also counts calls so tests can assert on gateway traffic.
type MockGateway struct {
	mu        sync.Mutex
	info      Info
	responses map[string]string
	script    []string
	cursor    int
	calls     int
	requests  []Request
	err       error
}

// NewMockGateway constructs an empty MockGateway.
func NewMockGateway() *MockGateway {
	return &MockGateway{
		info:      Info{Name: "mock", Provider: "mock"},
		responses: map[string]string{},
	}
}

// AddResponse registers a deterministic completion for an exact user prompt.
func (m *MockGateway) AddResponse(prompt, response string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[prompt] = response
}

// Script sets an ordered response sequence consumed one entry per Generate
// call that has no exact prompt match. The last entry repeats once the
// script is exhausted.
func (m *MockGateway) Script(responses ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.script = responses
	m.cursor = 0
}

// Fail makes every subsequent Generate call return err.
func (m *MockGateway) Fail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls reports how many times Generate has been invoked.
func (m *MockGateway) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Requests returns a copy of every request seen so far, in order.
func (m *MockGateway) Requests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Request, len(m.requests))
	copy(out, m.requests)
	return out
}

// Generate implements Gateway.
func (m *MockGateway) Generate(ctx context.Context, req Request) (Response, error) {
	if err := ctx.Err(); err != nil {
		return Response{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	m.requests = append(m.requests, req)

	if m.err != nil {
		return Response{}, m.err
	}
	if text, ok := m.responses[req.User]; ok {
		return Response{Text: text}, nil
	}
	if len(m.script) > 0 {
		text := m.script[min(m.cursor, len(m.script)-1)]
		m.cursor++
		return Response{Text: text}, nil
	}
	return Response{Text: fmt.Sprintf("Mock response to: %s", req.User)}, nil
}

// Info implements Gateway.
func (m *MockGateway) Info() Info { return m.info }
