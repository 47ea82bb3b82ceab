package draft

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/mockdraft/go/internal/draft/eligibility"
	"github.com/mcdev12/mockdraft/go/internal/draft/events"
	"github.com/mcdev12/mockdraft/go/internal/draft/orchestrator"
	"github.com/mcdev12/mockdraft/go/internal/draft/pick"
	"github.com/mcdev12/mockdraft/go/internal/models"
)

// PlayerCatalog is the source of the draftable player pool.
type PlayerCatalog interface {
	Fetch(ctx context.Context, position *models.Position) ([]models.Player, error)
}

// TaskScheduler defers auto-picks. Implemented by orchestrator.Scheduler.
type TaskScheduler interface {
	Schedule(task orchestrator.Task)
	Cancel(sessionID uuid.UUID)
}

// EventPublisher receives every event an engine emits.
type EventPublisher interface {
	Publish(ctx context.Context, env events.Envelope) error
}

// EngineConfig tunes auto-pick behaviour.
type EngineConfig struct {
	AutoPickDelay time.Duration
	Policy        eligibility.Policy
	// Strategy defaults to best-available under Policy with StallBlock.
	Strategy orchestrator.AutoPickStrategy
	Clock    clockwork.Clock
}

// DefaultEngineConfig waits one second before each automated pick.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		AutoPickDelay: time.Second,
		Policy:        eligibility.DefaultPolicy(),
	}
}

// Stall describes an automated pick that found no eligible player.
type Stall struct {
	OverallPick int       `json:"overall_pick"`
	Round       int       `json:"round"`
	Team        int       `json:"team"`
	Since       time.Time `json:"since"`
}

// Engine runs one draft session. Resolutions are serialised by resolveMu;
// mu guards the state read by Snapshot so readers see whole picks only.
type Engine struct {
	id            uuid.UUID
	catalog       PlayerCatalog
	scheduler     TaskScheduler
	publisher     EventPublisher
	strategy      orchestrator.AutoPickStrategy
	policy        eligibility.Policy
	clock         clockwork.Clock
	autoPickDelay time.Duration

	resolveMu sync.Mutex

	mu         sync.RWMutex
	state      models.EngineState
	generation uint64
	spec       models.RosterSpec
	params     models.DraftParameters
	board      *pick.Board
	turn       *pick.Clock
	pool       map[int64]models.Player
	userRoster []models.Player
	stall      *Stall
	startedAt  time.Time
}

// NewEngine creates an engine in the Setup state.
func NewEngine(id uuid.UUID, catalog PlayerCatalog, scheduler TaskScheduler, publisher EventPublisher, cfg EngineConfig) *Engine {
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}
	if cfg.Strategy == nil {
		cfg.Strategy = orchestrator.NewStrategy(cfg.Policy, orchestrator.StallBlock)
	}
	if publisher == nil {
		publisher = nopPublisher{}
	}
	return &Engine{
		id:            id,
		catalog:       catalog,
		scheduler:     scheduler,
		publisher:     publisher,
		strategy:      cfg.Strategy,
		policy:        cfg.Policy,
		clock:         cfg.Clock,
		autoPickDelay: cfg.AutoPickDelay,
		state:         models.EngineStateSetup,
	}
}

// ID returns the session ID.
func (e *Engine) ID() uuid.UUID { return e.id }

// State returns the lifecycle state.
func (e *Engine) State() models.EngineState {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state
}

// Start loads the player pool, lays out the board and puts pick 1 on the
// clock. Starting again discards the previous draft.
func (e *Engine) Start(ctx context.Context, spec models.RosterSpec, params models.DraftParameters) error {
	if err := spec.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	}
	if err := params.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	}

	e.resolveMu.Lock()
	defer e.resolveMu.Unlock()

	players, err := e.catalog.Fetch(ctx, nil)
	if err != nil {
		return fmt.Errorf("fetch player pool: %w", err)
	}

	pool := make(map[int64]models.Player, len(players))
	for _, p := range players {
		pool[p.ID] = p
	}
	board := pick.BuildBoard(spec, params)

	evts := func() []pendingEvent {
		e.mu.Lock()
		defer e.mu.Unlock()

		e.scheduler.Cancel(e.id)
		e.generation++
		e.spec = spec
		e.params = params
		e.board = board
		e.turn = pick.NewClock(params.NumTeams, spec.TotalRounds(), params.DraftType)
		e.pool = pool
		e.userRoster = nil
		e.stall = nil
		e.startedAt = e.clock.Now()
		e.state = models.EngineStateInProgress

		started := pendingEvent{events.EventTypeDraftStarted, e.startedAt, events.DraftStartedPayload{
			DraftType:   string(params.DraftType),
			NumTeams:    params.NumTeams,
			UserTeam:    params.UserTeam,
			StartedAt:   e.startedAt,
			TotalRounds: spec.TotalRounds(),
			TotalPicks:  board.TotalPicks(),
			PoolSize:    len(pool),
		}}
		return []pendingEvent{started, e.pickStartedLocked(e.startedAt)}
	}()

	log.Info().
		Str("session_id", e.id.String()).
		Str("draft_type", string(params.DraftType)).
		Int("num_teams", params.NumTeams).
		Int("user_team", params.UserTeam).
		Int("rounds", spec.TotalRounds()).
		Int("pool_size", len(pool)).
		Msg("draft started")

	e.publish(ctx, evts...)
	return nil
}

// resolution says who is making a pick.
type resolution int

const (
	resolveHuman resolution = iota
	resolveAuto
	// resolveForced settles a stalled pick with any available player.
	resolveForced
)

func (r resolution) String() string {
	switch r {
	case resolveAuto:
		return "auto"
	case resolveForced:
		return "forced"
	default:
		return "human"
	}
}

// ResolvePick drafts playerID for the user's team. The user's team must be
// on the clock and the player must be eligible for the current round.
// It fails fast with ErrPickInProgress if another resolution is running.
func (e *Engine) ResolvePick(ctx context.Context, playerID int64) (models.Pick, error) {
	if !e.resolveMu.TryLock() {
		return models.Pick{}, ErrPickInProgress
	}
	defer e.resolveMu.Unlock()

	return e.resolveLocked(ctx, playerID, resolveHuman)
}

// ForceResolve settles a stalled pick by drafting playerID for whichever
// team is on the clock, ignoring positional eligibility. It fails with
// ErrNoStall unless the pick on the clock is the stalled one.
func (e *Engine) ForceResolve(ctx context.Context, playerID int64) (models.Pick, error) {
	if !e.resolveMu.TryLock() {
		return models.Pick{}, ErrPickInProgress
	}
	defer e.resolveMu.Unlock()

	return e.resolveLocked(ctx, playerID, resolveForced)
}

// Stop cancels any pending auto-pick, releases the board and pool and
// returns the engine to Setup.
func (e *Engine) Stop(ctx context.Context) error {
	e.resolveMu.Lock()
	defer e.resolveMu.Unlock()

	e.mu.Lock()
	if e.state == models.EngineStateSetup {
		e.mu.Unlock()
		return nil
	}
	e.scheduler.Cancel(e.id)
	e.generation++
	resolved := e.board.Resolved()
	e.board = nil
	e.turn = nil
	e.pool = nil
	e.userRoster = nil
	e.stall = nil
	e.state = models.EngineStateSetup
	now := e.clock.Now()
	e.mu.Unlock()

	log.Info().
		Str("session_id", e.id.String()).
		Int("picks_resolved", resolved).
		Msg("draft stopped")

	e.publish(ctx, pendingEvent{events.EventTypeDraftStopped, now, events.DraftStoppedPayload{
		StoppedAt:     now,
		PicksResolved: resolved,
	}})
	return nil
}

// resolveLocked runs one resolution. Callers hold resolveMu.
func (e *Engine) resolveLocked(ctx context.Context, playerID int64, by resolution) (models.Pick, error) {
	made, evts, err := e.applyPick(playerID, by)
	if err != nil {
		return models.Pick{}, err
	}

	log.Info().
		Str("session_id", e.id.String()).
		Int("overall_pick", made.OverallPick).
		Int("team", made.Team).
		Int64("player_id", made.Player.ID).
		Str("player_name", made.Player.Name).
		Stringer("by", by).
		Msg("pick made")

	e.publish(ctx, evts...)
	return made, nil
}

func (e *Engine) applyPick(playerID int64, by resolution) (models.Pick, []pendingEvent, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch {
	case e.state == models.EngineStateSetup:
		return models.Pick{}, nil, ErrDraftNotStarted
	case e.state == models.EngineStateComplete || e.turn.Complete():
		return models.Pick{}, nil, ErrDraftComplete
	}

	switch by {
	case resolveHuman:
		if team := e.turn.CurrentTeam(); team != e.params.UserTeam {
			return models.Pick{}, nil, fmt.Errorf("%w: team %d is on the clock", ErrNotUserTurn, team)
		}
	case resolveForced:
		if e.stall == nil || e.stall.OverallPick != e.turn.CurrentPick() {
			return models.Pick{}, nil, fmt.Errorf("%w: pick %d", ErrNoStall, e.turn.CurrentPick())
		}
	}

	player, ok := e.pool[playerID]
	if !ok {
		return models.Pick{}, nil, fmt.Errorf("%w: player %d", ErrPlayerNotAvailable, playerID)
	}

	round := e.turn.CurrentRound()
	if by == resolveHuman && !e.policy.IsEligible(player, round, e.spec) {
		return models.Pick{}, nil, fmt.Errorf("%w: %s in round %d", ErrIneligiblePosition, player.Position, round)
	}

	auto := by == resolveAuto

	now := e.clock.Now()
	made, err := e.board.ResolveAt(e.turn.CurrentPick(), player, now, auto)
	if err != nil {
		return models.Pick{}, nil, fmt.Errorf("resolve pick: %w", err)
	}
	delete(e.pool, playerID)

	if made.Team == e.params.UserTeam {
		e.userRoster = append(e.userRoster, player)
	}
	e.stall = nil
	e.turn.Advance()

	evts := []pendingEvent{{events.EventTypePickMade, now, events.PickMadePayload{
		Team:        made.Team,
		PlayerID:    player.ID,
		PlayerName:  player.Name,
		Position:    string(player.Position),
		Round:       made.Round,
		Pick:        made.Slot,
		OverallPick: made.OverallPick,
		Auto:        auto,
		Forced:      by == resolveForced,
		MadeAt:      now,
	}}}

	if e.turn.Complete() {
		e.state = models.EngineStateComplete
		e.scheduler.Cancel(e.id)
		evts = append(evts, pendingEvent{events.EventTypeDraftCompleted, now, events.DraftCompletedPayload{
			CompletedAt: now,
			Duration:    now.Sub(e.startedAt).String(),
			TotalPicks:  e.turn.TotalPicks(),
		}})
	} else {
		evts = append(evts, e.pickStartedLocked(now))
	}

	return made, evts, nil
}

// pickStartedLocked announces the pick now on the clock and, for automated
// teams, schedules its resolution. Callers hold mu and resolveMu.
func (e *Engine) pickStartedLocked(now time.Time) pendingEvent {
	payload := events.PickStartedPayload{
		Team:        e.turn.CurrentTeam(),
		Round:       e.turn.CurrentRound(),
		Pick:        e.turn.CurrentSlot(),
		OverallPick: e.turn.CurrentPick(),
		UserTurn:    e.turn.CurrentTeam() == e.params.UserTeam,
		StartedAt:   now,
	}

	if !payload.UserTurn {
		gen, overall := e.generation, e.turn.CurrentPick()
		at := now.Add(e.autoPickDelay)
		payload.AutoPickAt = &at

		e.scheduler.Schedule(orchestrator.Task{
			SessionID:   e.id,
			OverallPick: overall,
			Delay:       e.autoPickDelay,
			Run: func(ctx context.Context) error {
				return e.autoResolve(ctx, gen, overall)
			},
		})
	}

	return pendingEvent{events.EventTypePickStarted, now, payload}
}

// autoResolve makes the automated pick for overallPick. It is a no-op when
// the pick is no longer on the clock or the draft was restarted or stopped.
func (e *Engine) autoResolve(ctx context.Context, generation uint64, overallPick int) error {
	e.resolveMu.Lock()
	defer e.resolveMu.Unlock()

	e.mu.RLock()
	if e.state != models.EngineStateInProgress || e.generation != generation || e.turn.CurrentPick() != overallPick {
		e.mu.RUnlock()
		log.Debug().
			Str("session_id", e.id.String()).
			Int("overall_pick", overallPick).
			Msg("stale auto-pick ignored")
		return nil
	}
	pool := e.sortedPoolLocked()
	round, team, spec := e.turn.CurrentRound(), e.turn.CurrentTeam(), e.spec
	e.mu.RUnlock()

	choice, err := e.strategy.SelectPick(pool, round, spec)
	if errors.Is(err, orchestrator.ErrNoneAvailable) {
		e.markStall(ctx, overallPick, round, team)
		return nil
	}
	if err != nil {
		return fmt.Errorf("select auto-pick: %w", err)
	}

	if _, err := e.resolveLocked(ctx, choice.ID, resolveAuto); err != nil {
		return fmt.Errorf("auto-pick %d: %w", overallPick, err)
	}
	return nil
}

func (e *Engine) markStall(ctx context.Context, overallPick, round, team int) {
	now := e.clock.Now()

	e.mu.Lock()
	e.stall = &Stall{OverallPick: overallPick, Round: round, Team: team, Since: now}
	e.mu.Unlock()

	log.Warn().
		Str("session_id", e.id.String()).
		Int("overall_pick", overallPick).
		Int("round", round).
		Int("team", team).
		Msg("auto-pick stalled: no eligible player")

	e.publish(ctx, pendingEvent{events.EventTypeDraftStalled, now, events.DraftStalledPayload{
		Team:        team,
		Round:       round,
		OverallPick: overallPick,
		Reason:      ErrNoneAvailable.Error(),
		StalledAt:   now,
	}})
}

// AvailableFilter narrows the remaining pool. Zero values match everything.
type AvailableFilter struct {
	Position models.Position
	Search   string // case-insensitive match on name or team
}

// AvailablePlayer is a pool entry annotated with its eligibility this round.
type AvailablePlayer struct {
	models.Player
	Eligible bool `json:"eligible"`
}

// Available lists undrafted players in overall rank order.
func (e *Engine) Available(filter AvailableFilter) ([]AvailablePlayer, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.state == models.EngineStateSetup {
		return nil, ErrDraftNotStarted
	}

	var allowed eligibility.PositionSet
	if !e.turn.Complete() {
		allowed = e.policy.AllowedPositions(e.turn.CurrentRound(), e.spec)
	}
	search := strings.ToLower(strings.TrimSpace(filter.Search))

	out := make([]AvailablePlayer, 0, len(e.pool))
	for _, p := range e.sortedPoolLocked() {
		if filter.Position != "" && p.Position != filter.Position {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.Team), search) {
			continue
		}
		out = append(out, AvailablePlayer{Player: p, Eligible: allowed.Has(p.Position)})
	}
	return out, nil
}

// TeamRoster returns the players a team has drafted, in pick order.
func (e *Engine) TeamRoster(team int) ([]models.Player, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.state == models.EngineStateSetup {
		return nil, ErrDraftNotStarted
	}
	if team < 1 || team > e.params.NumTeams {
		return nil, fmt.Errorf("%w: %d", ErrTeamNotFound, team)
	}
	return e.board.TeamRoster(team), nil
}

func (e *Engine) sortedPoolLocked() []models.Player {
	pool := make([]models.Player, 0, len(e.pool))
	for _, p := range e.pool {
		pool = append(pool, p)
	}
	sort.Slice(pool, func(i, j int) bool {
		if pool[i].RankOverall != pool[j].RankOverall {
			return pool[i].RankOverall < pool[j].RankOverall
		}
		return pool[i].ID < pool[j].ID
	})
	return pool
}

type pendingEvent struct {
	typ     events.EventType
	at      time.Time
	payload any
}

func (e *Engine) publish(ctx context.Context, evts ...pendingEvent) {
	for _, ev := range evts {
		env, err := events.New(e.id, ev.typ, ev.at, ev.payload)
		if err != nil {
			log.Error().Err(err).Str("session_id", e.id.String()).Msg("failed to build event")
			continue
		}
		if err := e.publisher.Publish(ctx, env); err != nil {
			log.Warn().
				Err(err).
				Str("session_id", e.id.String()).
				Str("event_type", string(ev.typ)).
				Msg("failed to publish event")
		}
	}
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, events.Envelope) error { return nil }
