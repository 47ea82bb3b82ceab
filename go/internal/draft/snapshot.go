package draft

import (
	"github.com/google/uuid"

	"github.com/mcdev12/mockdraft/go/internal/models"
)

// ClockView is the derived turn state at snapshot time.
type ClockView struct {
	CurrentPick  int  `json:"current_pick"`
	CurrentRound int  `json:"current_round"`
	CurrentSlot  int  `json:"current_slot"`
	CurrentTeam  int  `json:"current_team"`
	TotalPicks   int  `json:"total_picks"`
	UserTurn     bool `json:"user_turn"`
	Complete     bool `json:"complete"`
}

// Snapshot is a point-in-time copy of a session. Nothing in it aliases
// engine state.
type Snapshot struct {
	SessionID  uuid.UUID              `json:"session_id"`
	State      models.EngineState     `json:"state"`
	Parameters models.DraftParameters `json:"parameters"`
	Roster     models.RosterSpec      `json:"roster"`
	Clock      *ClockView             `json:"clock,omitempty"`
	Board      [][]models.Pick        `json:"board,omitempty"`
	UserRoster []models.Player        `json:"user_roster"`
	PoolSize   int                    `json:"pool_size"`
	Stall      *Stall                 `json:"stall,omitempty"`
}

// Snapshot returns the board, clock and engine state as one consistent view.
func (e *Engine) Snapshot() Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()

	snap := Snapshot{
		SessionID:  e.id,
		State:      e.state,
		UserRoster: []models.Player{},
	}
	if e.state == models.EngineStateSetup {
		return snap
	}

	snap.Parameters = e.params
	snap.Roster = e.spec
	snap.Board = e.board.Grid()
	snap.UserRoster = append(snap.UserRoster, e.userRoster...)
	snap.PoolSize = len(e.pool)
	snap.Clock = &ClockView{
		CurrentPick: e.turn.CurrentPick(),
		TotalPicks:  e.turn.TotalPicks(),
		Complete:    e.turn.Complete(),
	}
	if !snap.Clock.Complete {
		snap.Clock.CurrentRound = e.turn.CurrentRound()
		snap.Clock.CurrentSlot = e.turn.CurrentSlot()
		snap.Clock.CurrentTeam = e.turn.CurrentTeam()
		snap.Clock.UserTurn = snap.Clock.CurrentTeam == e.params.UserTeam
	}
	if e.stall != nil {
		st := *e.stall
		snap.Stall = &st
	}
	return snap
}
