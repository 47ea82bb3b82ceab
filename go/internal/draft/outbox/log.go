package outbox

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/mcdev12/mockdraft/go/internal/draft/events"
)

// LogPublisher writes every event to a zerolog logger at debug level.
type LogPublisher struct {
	logger zerolog.Logger
}

func NewLogPublisher(logger zerolog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, env events.Envelope) error {
	p.logger.Debug().
		Str("event_id", env.ID.String()).
		Str("event_type", string(env.Type)).
		Str("session_id", env.SessionID.String()).
		RawJSON("payload", env.Payload).
		Msg("draft event")
	return nil
}
