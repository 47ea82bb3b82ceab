package outbox

import (
	"context"
	"sync"
	"time"

	"github.com/mcdev12/mockdraft/go/internal/draft/events"
)

// MetricsCollector defines the interface for collecting publish metrics
type MetricsCollector interface {
	RecordPublish(eventType events.EventType, success bool, duration time.Duration)
}

// MetricPublisher wraps a Publisher with metrics collection
type MetricPublisher struct {
	publisher Publisher
	metrics   MetricsCollector
}

func NewMetricPublisher(publisher Publisher, metrics MetricsCollector) *MetricPublisher {
	return &MetricPublisher{
		publisher: publisher,
		metrics:   metrics,
	}
}

func (p *MetricPublisher) Publish(ctx context.Context, env events.Envelope) error {
	start := time.Now()

	err := p.publisher.Publish(ctx, env)

	p.metrics.RecordPublish(env.Type, err == nil, time.Since(start))
	return err
}

// EventStats is a point-in-time copy of Counters.
type EventStats struct {
	Published map[events.EventType]uint64 `json:"published"`
	Failed    map[events.EventType]uint64 `json:"failed"`
	LastEvent *time.Time                  `json:"last_event,omitempty"`
}

// Counters is an in-process MetricsCollector served by the health endpoint.
type Counters struct {
	mu        sync.Mutex
	published map[events.EventType]uint64
	failed    map[events.EventType]uint64
	lastEvent time.Time
}

func NewCounters() *Counters {
	return &Counters{
		published: make(map[events.EventType]uint64),
		failed:    make(map[events.EventType]uint64),
	}
}

func (c *Counters) RecordPublish(eventType events.EventType, success bool, duration time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if success {
		c.published[eventType]++
	} else {
		c.failed[eventType]++
	}
	c.lastEvent = time.Now()
}

func (c *Counters) Stats() EventStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := EventStats{
		Published: make(map[events.EventType]uint64, len(c.published)),
		Failed:    make(map[events.EventType]uint64, len(c.failed)),
	}
	for k, v := range c.published {
		stats.Published[k] = v
	}
	for k, v := range c.failed {
		stats.Failed[k] = v
	}
	if !c.lastEvent.IsZero() {
		at := c.lastEvent
		stats.LastEvent = &at
	}
	return stats
}
