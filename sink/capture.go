package sink

import (
	"context"
	"sync"

	"conversation-lab/domain/event"
)

// Capture buffers every consumed event in order. Consumers (tests,
// projections) read them back with Events.
type Capture struct {
	mu     sync.Mutex
	events []event.DomainEvent
}

func NewCapture() *Capture {
	return &Capture{}
}

func (c *Capture) Consume(_ context.Context, e event.DomainEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, e)
	return nil
}

// Events returns a snapshot in consumption order.
func (c *Capture) Events() []event.DomainEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]event.DomainEvent, len(c.events))
	copy(out, c.events)
	return out
}
