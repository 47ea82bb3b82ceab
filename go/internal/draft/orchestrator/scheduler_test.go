package orchestrator

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startScheduler(t *testing.T, clock Clock) (*Scheduler, context.Context) {
	t.Helper()
	s := NewScheduler(clock, 2)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = s.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return s, ctx
}

func recvPick(t *testing.T, ch <-chan int) int {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for task to run")
		return 0
	}
}

func assertNoPick(t *testing.T, ch <-chan int) {
	t.Helper()
	select {
	case v := <-ch:
		t.Fatalf("unexpected task ran for pick %d", v)
	case <-time.After(50 * time.Millisecond):
	}
}

func recordingTask(sessionID uuid.UUID, overallPick int, delay time.Duration, ran chan<- int) Task {
	return Task{
		SessionID:   sessionID,
		OverallPick: overallPick,
		Delay:       delay,
		Run: func(ctx context.Context) error {
			ran <- overallPick
			return nil
		},
	}
}

func TestSchedulerRunsAfterDelay(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s, ctx := startScheduler(t, clock)
	session := uuid.New()
	ran := make(chan int, 4)

	s.Schedule(recordingTask(session, 3, time.Second, ran))
	require.NoError(t, clock.BlockUntilContext(ctx, 1))

	clock.Advance(999 * time.Millisecond)
	assertNoPick(t, ran)

	clock.Advance(time.Millisecond)
	assert.Equal(t, 3, recvPick(t, ran))

	_, pending := s.Pending(session)
	assert.False(t, pending)
}

func TestSchedulerReplacesPendingTask(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s, ctx := startScheduler(t, clock)
	session := uuid.New()
	ran := make(chan int, 4)

	s.Schedule(recordingTask(session, 3, time.Second, ran))
	s.Schedule(recordingTask(session, 4, time.Second, ran))
	require.NoError(t, clock.BlockUntilContext(ctx, 1))

	pick, pending := s.Pending(session)
	require.True(t, pending)
	assert.Equal(t, 4, pick)

	clock.Advance(time.Second)
	assert.Equal(t, 4, recvPick(t, ran))
	assertNoPick(t, ran)
}

func TestSchedulerCancel(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s, ctx := startScheduler(t, clock)
	session := uuid.New()
	ran := make(chan int, 4)

	s.Schedule(recordingTask(session, 7, time.Second, ran))
	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	s.Cancel(session)

	clock.Advance(time.Minute)
	assertNoPick(t, ran)

	_, pending := s.Pending(session)
	assert.False(t, pending)

	// cancelling twice is harmless
	s.Cancel(session)
}

func TestSchedulerSessionsAreIndependent(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s, ctx := startScheduler(t, clock)
	ran := make(chan int, 4)

	s.Schedule(recordingTask(uuid.New(), 1, time.Second, ran))
	s.Schedule(recordingTask(uuid.New(), 2, time.Second, ran))
	require.NoError(t, clock.BlockUntilContext(ctx, 2))

	clock.Advance(time.Second)
	got := []int{recvPick(t, ran), recvPick(t, ran)}
	assert.ElementsMatch(t, []int{1, 2}, got)
}

func TestSchedulerRealClock(t *testing.T) {
	s, _ := startScheduler(t, clockwork.NewRealClock())
	ran := make(chan int, 1)

	s.Schedule(recordingTask(uuid.New(), 9, time.Millisecond, ran))
	assert.Equal(t, 9, recvPick(t, ran))
}

func TestSchedulerShutdownStopsTimers(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := NewScheduler(clock, 1)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = s.Run(ctx)
	}()

	session := uuid.New()
	ran := make(chan int, 1)
	s.Schedule(recordingTask(session, 5, time.Second, ran))

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not shut down")
	}

	_, pending := s.Pending(session)
	assert.False(t, pending)

	clock.Advance(time.Second)
	assertNoPick(t, ran)
}
