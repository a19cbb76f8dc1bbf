package hooks

import (
	"context"
	"sync"
	"time"
)

// Mutation tracks one user-triggered operation. It never retries.
type Mutation[Req, Resp any] struct {
	fn func(context.Context, Req) (Resp, error)

	mu    sync.Mutex
	state State[Resp]
}

// NewMutation wraps fn. The state starts idle.
func NewMutation[Req, Resp any](fn func(context.Context, Req) (Resp, error)) *Mutation[Req, Resp] {
	return &Mutation[Req, Resp]{fn: fn}
}

// Mutate runs the operation and records its outcome.
func (m *Mutation[Req, Resp]) Mutate(ctx context.Context, req Req) (Resp, error) {
	m.mu.Lock()
	m.state.Status = StatusPending
	m.state.Err = nil
	m.mu.Unlock()

	resp, err := m.fn(ctx, req)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.UpdatedAt = time.Now()
	if err != nil {
		m.state.Status = StatusError
		m.state.Err = err
		return resp, err
	}
	m.state.Status = StatusSuccess
	m.state.Data = resp
	m.state.HasData = true
	return resp, nil
}

func (m *Mutation[Req, Resp]) State() State[Resp] {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Reset returns the mutation to idle.
func (m *Mutation[Req, Resp]) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = State[Resp]{}
}
