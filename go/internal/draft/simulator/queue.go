package simulator

import (
	"context"
	"sync"

	"github.com/mcdev12/mockdraft/go/internal/draft/events"
)

// eventQueue buffers engine events for the terminal loop. Publish never
// blocks because the loop itself makes picks that publish.
type eventQueue struct {
	mu      sync.Mutex
	pending []events.Envelope
	ready   chan struct{}
}

func newEventQueue() *eventQueue {
	return &eventQueue{ready: make(chan struct{}, 1)}
}

// Publish implements draft.EventPublisher.
func (q *eventQueue) Publish(ctx context.Context, env events.Envelope) error {
	q.mu.Lock()
	q.pending = append(q.pending, env)
	q.mu.Unlock()

	select {
	case q.ready <- struct{}{}:
	default:
	}
	return nil
}

func (q *eventQueue) drain() []events.Envelope {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := q.pending
	q.pending = nil
	return out
}
