package draft

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/mockdraft/go/internal/models"
)

// App owns the draft sessions served by one process. Sessions never share
// a board, pool or clock.
type App struct {
	catalog   PlayerCatalog
	scheduler TaskScheduler
	publisher EventPublisher
	cfg       EngineConfig

	mu       sync.RWMutex
	sessions map[uuid.UUID]*Engine
}

// NewApp creates a new draft app
func NewApp(catalog PlayerCatalog, scheduler TaskScheduler, publisher EventPublisher, cfg EngineConfig) *App {
	return &App{
		catalog:   catalog,
		scheduler: scheduler,
		publisher: publisher,
		cfg:       cfg,
		sessions:  make(map[uuid.UUID]*Engine),
	}
}

// CreateSession registers a new engine in the Setup state.
func (a *App) CreateSession(ctx context.Context) uuid.UUID {
	id := uuid.New()
	engine := NewEngine(id, a.catalog, a.scheduler, a.publisher, a.cfg)

	a.mu.Lock()
	a.sessions[id] = engine
	a.mu.Unlock()

	log.Info().Str("session_id", id.String()).Msg("draft session created")
	return id
}

// Session looks up a session's engine.
func (a *App) Session(id uuid.UUID) (*Engine, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	engine, ok := a.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return engine, nil
}

// StartDraft starts (or restarts) the draft for a session.
func (a *App) StartDraft(ctx context.Context, id uuid.UUID, spec models.RosterSpec, params models.DraftParameters) (Snapshot, error) {
	engine, err := a.Session(id)
	if err != nil {
		return Snapshot{}, err
	}
	if err := engine.Start(ctx, spec, params); err != nil {
		return Snapshot{}, fmt.Errorf("failed to start draft: %w", err)
	}
	return engine.Snapshot(), nil
}

// MakePick resolves the pick on the clock with playerID.
func (a *App) MakePick(ctx context.Context, id uuid.UUID, playerID int64) (models.Pick, error) {
	engine, err := a.Session(id)
	if err != nil {
		return models.Pick{}, err
	}
	made, err := engine.ResolvePick(ctx, playerID)
	if err != nil {
		return models.Pick{}, fmt.Errorf("failed to make pick: %w", err)
	}
	return made, nil
}

// ForcePick settles a stalled pick with playerID, whatever its position.
func (a *App) ForcePick(ctx context.Context, id uuid.UUID, playerID int64) (models.Pick, error) {
	engine, err := a.Session(id)
	if err != nil {
		return models.Pick{}, err
	}
	made, err := engine.ForceResolve(ctx, playerID)
	if err != nil {
		return models.Pick{}, fmt.Errorf("failed to force pick: %w", err)
	}
	return made, nil
}

// GetSnapshot returns the current view of a session.
func (a *App) GetSnapshot(ctx context.Context, id uuid.UUID) (Snapshot, error) {
	engine, err := a.Session(id)
	if err != nil {
		return Snapshot{}, err
	}
	return engine.Snapshot(), nil
}

// ListAvailablePlayers lists the undrafted players of a session.
func (a *App) ListAvailablePlayers(ctx context.Context, id uuid.UUID, filter AvailableFilter) ([]AvailablePlayer, error) {
	engine, err := a.Session(id)
	if err != nil {
		return nil, err
	}
	players, err := engine.Available(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list available players: %w", err)
	}
	return players, nil
}

// GetTeamRoster returns the players drafted by team in a session.
func (a *App) GetTeamRoster(ctx context.Context, id uuid.UUID, team int) ([]models.Player, error) {
	engine, err := a.Session(id)
	if err != nil {
		return nil, err
	}
	roster, err := engine.TeamRoster(team)
	if err != nil {
		return nil, fmt.Errorf("failed to get team roster: %w", err)
	}
	return roster, nil
}

// StopDraft returns a session to Setup, cancelling pending auto-picks.
func (a *App) StopDraft(ctx context.Context, id uuid.UUID) error {
	engine, err := a.Session(id)
	if err != nil {
		return err
	}
	return engine.Stop(ctx)
}

// DeleteSession stops a session and forgets it.
func (a *App) DeleteSession(ctx context.Context, id uuid.UUID) error {
	a.mu.Lock()
	engine, ok := a.sessions[id]
	delete(a.sessions, id)
	a.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	if err := engine.Stop(ctx); err != nil {
		return fmt.Errorf("failed to stop draft: %w", err)
	}

	log.Info().Str("session_id", id.String()).Msg("draft session deleted")
	return nil
}

// Close stops every session.
func (a *App) Close(ctx context.Context) {
	a.mu.Lock()
	sessions := a.sessions
	a.sessions = make(map[uuid.UUID]*Engine)
	a.mu.Unlock()

	for id, engine := range sessions {
		if err := engine.Stop(ctx); err != nil {
			log.Error().Err(err).Str("session_id", id.String()).Msg("failed to stop draft")
		}
	}
}
