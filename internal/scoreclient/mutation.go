package scoreclient

import (
	"context"
	"sync"
)

// Phase is the life cycle state of a Mutation.
type Phase int

const (
	// Pending: the optimistic patch is applied and the request is in flight.
	Pending Phase = iota
	// Succeeded: the server accepted the change.
	Succeeded
	// Failed: the server rejected it or was unreachable; the snapshot was
	// restored.
	Failed
)

func (p Phase) String() string {
	switch p {
	case Pending:
		return "pending"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Mutation tracks one optimistic edit.  By the time it leaves Pending the
// cache has been rolled back (on failure) and the affected keys invalidated.
type Mutation struct {
	mu    sync.Mutex
	phase Phase
	err   error
	done  chan struct{}
}

func newMutation() *Mutation {
	return &Mutation{done: make(chan struct{})}
}

func (m *Mutation) settle(err error) {
	m.mu.Lock()
	if err != nil {
		m.phase, m.err = Failed, err
	} else {
		m.phase = Succeeded
	}
	m.mu.Unlock()
	close(m.done)
}

func (m *Mutation) Phase() Phase {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.phase
}

// Err is the settlement error, nil while pending or after success.
func (m *Mutation) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.err
}

// Done is closed on settlement.
func (m *Mutation) Done() <-chan struct{} { return m.done }

// Wait blocks until the mutation settles and returns its error.
func (m *Mutation) Wait() error {
	<-m.done
	return m.Err()
}

// WaitContext is Wait bounded by ctx.
func (m *Mutation) WaitContext(ctx context.Context) error {
	select {
	case <-m.done:
		return m.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}
