package draft

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"github.com/mcdev12/mockdraft/go/internal/draft/events"
	"github.com/mcdev12/mockdraft/go/internal/draft/orchestrator"
	"github.com/mcdev12/mockdraft/go/internal/models"
)

// manualScheduler holds scheduled tasks until the test runs them.
type manualScheduler struct {
	mu      sync.Mutex
	tasks   map[uuid.UUID]orchestrator.Task
	cancels int
}

func newManualScheduler() *manualScheduler {
	return &manualScheduler{tasks: make(map[uuid.UUID]orchestrator.Task)}
}

func (s *manualScheduler) Schedule(task orchestrator.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks[task.SessionID] = task
}

func (s *manualScheduler) Cancel(sessionID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tasks, sessionID)
	s.cancels++
}

func (s *manualScheduler) pending(sessionID uuid.UUID) (orchestrator.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	task, ok := s.tasks[sessionID]
	return task, ok
}

// fire removes the pending task for sessionID and runs it.
func (s *manualScheduler) fire(t *testing.T, sessionID uuid.UUID) orchestrator.Task {
	t.Helper()
	s.mu.Lock()
	task, ok := s.tasks[sessionID]
	delete(s.tasks, sessionID)
	s.mu.Unlock()

	require.True(t, ok, "no auto-pick pending")
	require.NoError(t, task.Run(context.Background()))
	return task
}

type recordingPublisher struct {
	mu   sync.Mutex
	envs []events.Envelope
}

func (p *recordingPublisher) Publish(ctx context.Context, env events.Envelope) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.envs = append(p.envs, env)
	return nil
}

func (p *recordingPublisher) types() []events.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.EventType, len(p.envs))
	for i, env := range p.envs {
		out[i] = env.Type
	}
	return out
}

func (p *recordingPublisher) last() events.Envelope {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.envs[len(p.envs)-1]
}

func (p *recordingPublisher) reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.envs = nil
}

type staticCatalog []models.Player

func (c staticCatalog) Fetch(ctx context.Context, position *models.Position) ([]models.Player, error) {
	out := make([]models.Player, 0, len(c))
	for _, p := range c {
		if position == nil || p.Position == *position {
			out = append(out, p)
		}
	}
	return out, nil
}

// rankedPlayers numbers players in the order given; ID and overall rank match.
func rankedPlayers(positions ...models.Position) staticCatalog {
	players := make(staticCatalog, len(positions))
	for i, pos := range positions {
		players[i] = models.Player{
			ID:           int64(i + 1),
			Name:         string(pos) + " " + string(rune('A'+i%26)),
			Team:         "NFL",
			Position:     pos,
			RankOverall:  i + 1,
			RankPosition: 1,
		}
	}
	return players
}

// testPool cycles QB, RB, WR, TE, K five times.
func testPool() staticCatalog {
	var positions []models.Position
	for i := 0; i < 5; i++ {
		positions = append(positions,
			models.PositionQB, models.PositionRB, models.PositionWR, models.PositionTE, models.PositionK)
	}
	return rankedPlayers(positions...)
}

// testSpec has four rounds; K is deferred through round 3.
func testSpec() models.RosterSpec {
	return models.RosterSpec{QB: 1, RB: 1, K: 1, Bench: 1}
}

func testParams(userTeam int) models.DraftParameters {
	return models.DraftParameters{DraftType: models.DraftTypeSnake, NumTeams: 4, UserTeam: userTeam}
}

type engineFixture struct {
	engine    *Engine
	scheduler *manualScheduler
	publisher *recordingPublisher
	clock     *clockwork.FakeClock
}

func newEngineFixture(t *testing.T, catalog PlayerCatalog, configure func(*EngineConfig)) engineFixture {
	t.Helper()
	clock := clockwork.NewFakeClockAt(time.Date(2024, 8, 25, 19, 0, 0, 0, time.UTC))
	cfg := DefaultEngineConfig()
	cfg.Clock = clock
	if configure != nil {
		configure(&cfg)
	}

	f := engineFixture{
		scheduler: newManualScheduler(),
		publisher: &recordingPublisher{},
		clock:     clock,
	}
	f.engine = NewEngine(uuid.New(), catalog, f.scheduler, f.publisher, cfg)
	return f
}

func (f engineFixture) start(t *testing.T, userTeam int) {
	t.Helper()
	require.NoError(t, f.engine.Start(context.Background(), testSpec(), testParams(userTeam)))
}
