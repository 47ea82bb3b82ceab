package orchestrator

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// Clock is the interface we use for time operations.
// In production, use clockwork.NewRealClock(). In tests, a FakeClock.
type Clock interface {
	Now() time.Time
	NewTimer(d time.Duration) clockwork.Timer
}

// Task is a deferred auto-pick bound to one session and one overall pick.
type Task struct {
	SessionID   uuid.UUID
	OverallPick int
	Delay       time.Duration
	Run         func(ctx context.Context) error
}

type scheduledTask struct {
	task  Task
	timer clockwork.Timer
	done  chan struct{}
}

// Scheduler runs deferred tasks on a fixed worker pool. Each session has at
// most one pending task; scheduling again replaces it.
type Scheduler struct {
	clock      Clock
	instanceID string // unique ID for this scheduler instance

	// Worker pool configuration
	numWorkers int
	workCh     chan Task

	stopCh   chan struct{}
	stopOnce sync.Once

	activeTimers   map[uuid.UUID]*scheduledTask
	activeTimersMu sync.Mutex
}

// NewScheduler creates a scheduler; call Run to start its workers.
func NewScheduler(clock Clock, numWorkers int) *Scheduler {
	if numWorkers < 1 {
		numWorkers = 1
	}
	return &Scheduler{
		clock:        clock,
		instanceID:   uuid.New().String()[:8], // short ID for logging
		numWorkers:   numWorkers,
		workCh:       make(chan Task, numWorkers*2),
		stopCh:       make(chan struct{}),
		activeTimers: make(map[uuid.UUID]*scheduledTask),
	}
}

// Schedule arms a one-shot timer for task, cancelling any task already
// pending for the same session.
func (s *Scheduler) Schedule(task Task) {
	st := &scheduledTask{
		task:  task,
		timer: s.clock.NewTimer(task.Delay),
		done:  make(chan struct{}),
	}
	s.replaceTimer(task.SessionID, st)

	go s.wait(st)

	log.Debug().
		Str("session_id", task.SessionID.String()).
		Int("overall_pick", task.OverallPick).
		Dur("delay", task.Delay).
		Msg("scheduled auto-pick")
}

// Cancel drops the pending task for a session, if any.
func (s *Scheduler) Cancel(sessionID uuid.UUID) {
	s.activeTimersMu.Lock()
	defer s.activeTimersMu.Unlock()

	if st, exists := s.activeTimers[sessionID]; exists {
		stopAndDrainTimer(st.timer)
		close(st.done)
		delete(s.activeTimers, sessionID)

		log.Debug().
			Str("session_id", sessionID.String()).
			Int("overall_pick", st.task.OverallPick).
			Msg("cancelled pending auto-pick")
	}
}

// Pending returns the overall pick of the session's pending task.
func (s *Scheduler) Pending(sessionID uuid.UUID) (int, bool) {
	s.activeTimersMu.Lock()
	defer s.activeTimersMu.Unlock()

	st, ok := s.activeTimers[sessionID]
	if !ok {
		return 0, false
	}
	return st.task.OverallPick, true
}

func (s *Scheduler) wait(st *scheduledTask) {
	select {
	case <-st.timer.Chan():
		// Lost a race with Cancel or a newer Schedule
		if !s.removeTimer(st) {
			return
		}
		select {
		case s.workCh <- st.task:
		case <-s.stopCh:
		}
	case <-st.done:
	case <-s.stopCh:
		stopAndDrainTimer(st.timer)
	}
}

// replaceTimer atomically replaces the pending task for a session.
func (s *Scheduler) replaceTimer(sessionID uuid.UUID, st *scheduledTask) {
	s.activeTimersMu.Lock()
	defer s.activeTimersMu.Unlock()

	if existing, exists := s.activeTimers[sessionID]; exists {
		stopAndDrainTimer(existing.timer)
		close(existing.done)
		log.Debug().
			Str("session_id", sessionID.String()).
			Int("overall_pick", existing.task.OverallPick).
			Msg("replaced pending auto-pick")
	}
	s.activeTimers[sessionID] = st
}

// removeTimer removes st if it is still the session's pending task.
func (s *Scheduler) removeTimer(st *scheduledTask) bool {
	s.activeTimersMu.Lock()
	defer s.activeTimersMu.Unlock()

	if s.activeTimers[st.task.SessionID] != st {
		return false
	}
	delete(s.activeTimers, st.task.SessionID)
	return true
}

// stopAndDrainTimer stops a timer and drains its channel if it already fired.
func stopAndDrainTimer(timer clockwork.Timer) {
	if !timer.Stop() {
		select {
		case <-timer.Chan():
		default:
		}
	}
}

func (s *Scheduler) shutdown() {
	s.stopOnce.Do(func() {
		close(s.stopCh)

		s.activeTimersMu.Lock()
		for sessionID, st := range s.activeTimers {
			stopAndDrainTimer(st.timer)
			log.Debug().Str("session_id", sessionID.String()).Msg("cancelled timer on shutdown")
		}
		s.activeTimers = make(map[uuid.UUID]*scheduledTask)
		s.activeTimersMu.Unlock()
	})
}
