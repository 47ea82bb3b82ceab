package models

import "time"

// Pick represents a single pick on the draft board.
type Pick struct {
	Round       int        `json:"round"`
	Slot        int        `json:"slot"`             // pick number in the round
	OverallPick int        `json:"overall_pick"`     // pick number overall
	Team        int        `json:"team"`             // 1-based draft position of the owning team
	Player      *Player    `json:"player,omitempty"` // nil until picked
	PickedAt    *time.Time `json:"picked_at,omitempty"`
	Auto        bool       `json:"auto"` // resolved by the auto-picker
}

// Resolved reports whether a player has been drafted with this pick.
func (p Pick) Resolved() bool {
	return p.Player != nil
}

// Clone returns a copy that shares no pointers with p.
func (p Pick) Clone() Pick {
	out := p
	if p.Player != nil {
		pl := *p.Player
		out.Player = &pl
	}
	if p.PickedAt != nil {
		at := *p.PickedAt
		out.PickedAt = &at
	}
	return out
}
