package events

import (
	"time"
)

// Event payload types shared by the engine, the gateway and the outbox publishers

// DraftStartedPayload is the payload for a DraftStarted event
type DraftStartedPayload struct {
	DraftType   string    `json:"draft_type"`
	NumTeams    int       `json:"num_teams"`
	UserTeam    int       `json:"user_team"`
	StartedAt   time.Time `json:"started_at"`
	TotalRounds int       `json:"total_rounds"`
	TotalPicks  int       `json:"total_picks"`
	PoolSize    int       `json:"pool_size"`
}

// PickStartedPayload is the payload for a PickStarted event
type PickStartedPayload struct {
	Team        int        `json:"team"`
	Round       int        `json:"round"`
	Pick        int        `json:"pick"`
	OverallPick int        `json:"overall_pick"`
	UserTurn    bool       `json:"user_turn"`
	StartedAt   time.Time  `json:"started_at"`
	AutoPickAt  *time.Time `json:"auto_pick_at,omitempty"`
}

// PickMadePayload is the payload for a PickMade event
type PickMadePayload struct {
	Team        int       `json:"team"`
	PlayerID    int64     `json:"player_id"`
	PlayerName  string    `json:"player_name"`
	Position    string    `json:"position"`
	Round       int       `json:"round"`
	Pick        int       `json:"pick"`
	OverallPick int       `json:"overall_pick"`
	Auto        bool      `json:"auto"`
	Forced      bool      `json:"forced,omitempty"`
	MadeAt      time.Time `json:"made_at"`
}

// DraftStalledPayload is the payload for a DraftStalled event
type DraftStalledPayload struct {
	Team        int       `json:"team"`
	Round       int       `json:"round"`
	OverallPick int       `json:"overall_pick"`
	Reason      string    `json:"reason"`
	StalledAt   time.Time `json:"stalled_at"`
}

// DraftCompletedPayload is the payload for a DraftCompleted event
type DraftCompletedPayload struct {
	CompletedAt time.Time `json:"completed_at"`
	Duration    string    `json:"duration"`
	TotalPicks  int       `json:"total_picks"`
}

// DraftStoppedPayload is the payload for a DraftStopped event
type DraftStoppedPayload struct {
	StoppedAt     time.Time `json:"stopped_at"`
	PicksResolved int       `json:"picks_resolved"`
}
