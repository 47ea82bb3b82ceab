package outbox

import (
	"context"
	"errors"
	"fmt"

	"github.com/mcdev12/mockdraft/go/internal/draft/events"
)

// Publisher is anything that accepts draft events.
type Publisher interface {
	Publish(ctx context.Context, env events.Envelope) error
}

// Fanout delivers each event to every publisher in order. A failing
// publisher does not stop delivery to the rest.
type Fanout []Publisher

func (f Fanout) Publish(ctx context.Context, env events.Envelope) error {
	var errs []error
	for i, p := range f {
		if err := p.Publish(ctx, env); err != nil {
			errs = append(errs, fmt.Errorf("publisher %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}
