package outbox

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcdev12/mockdraft/go/internal/draft/events"
)

type stubPublisher struct {
	err  error
	seen []events.Envelope
}

func (p *stubPublisher) Publish(ctx context.Context, env events.Envelope) error {
	p.seen = append(p.seen, env)
	return p.err
}

func TestFanoutDeliversToAll(t *testing.T) {
	boom := errors.New("boom")
	first := &stubPublisher{err: boom}
	second := &stubPublisher{}
	env := testEnvelope(t, events.EventTypePickStarted, events.PickStartedPayload{Team: 1})

	err := Fanout{first, second}.Publish(context.Background(), env)
	assert.ErrorIs(t, err, boom)
	assert.Len(t, first.seen, 1)
	assert.Len(t, second.seen, 1)

	assert.NoError(t, Fanout{second}.Publish(context.Background(), env))
	assert.NoError(t, Fanout{}.Publish(context.Background(), env))
}

func TestMetricPublisherCounts(t *testing.T) {
	counters := NewCounters()
	ok := NewMetricPublisher(&stubPublisher{}, counters)
	failing := NewMetricPublisher(&stubPublisher{err: errors.New("down")}, counters)

	ctx := context.Background()
	require.NoError(t, ok.Publish(ctx, testEnvelope(t, events.EventTypePickMade, nil)))
	require.NoError(t, ok.Publish(ctx, testEnvelope(t, events.EventTypePickMade, nil)))
	require.Error(t, failing.Publish(ctx, testEnvelope(t, events.EventTypeDraftStalled, nil)))

	stats := counters.Stats()
	assert.Equal(t, uint64(2), stats.Published[events.EventTypePickMade])
	assert.Equal(t, uint64(1), stats.Failed[events.EventTypeDraftStalled])
	assert.NotNil(t, stats.LastEvent)

	stats.Published[events.EventTypePickMade] = 100
	assert.Equal(t, uint64(2), counters.Stats().Published[events.EventTypePickMade])
}

func TestLogPublisher(t *testing.T) {
	var buf bytes.Buffer
	p := NewLogPublisher(zerolog.New(&buf).Level(zerolog.DebugLevel))

	env := testEnvelope(t, events.EventTypeDraftStarted, events.DraftStartedPayload{NumTeams: 12})
	require.NoError(t, p.Publish(context.Background(), env))

	out := buf.String()
	assert.Contains(t, out, `"event_type":"DraftStarted"`)
	assert.Contains(t, out, env.SessionID.String())
	assert.Contains(t, out, `"num_teams":12`)
}
