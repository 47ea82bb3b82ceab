package models

import (
	"errors"
	"fmt"
	"strings"
)

// DraftType defines the type of draft.
type DraftType string

const (
	DraftTypeSnake    DraftType = "SNAKE"
	DraftTypeStandard DraftType = "STANDARD"
)

// ParseDraftType accepts the lower-case names used by setup forms and config files.
func ParseDraftType(s string) (DraftType, error) {
	switch DraftType(strings.ToUpper(strings.TrimSpace(s))) {
	case DraftTypeSnake:
		return DraftTypeSnake, nil
	case DraftTypeStandard:
		return DraftTypeStandard, nil
	}
	return "", fmt.Errorf("unknown draft type %q", s)
}

// EngineState defines the lifecycle state of a draft session.
type EngineState string

const (
	EngineStateSetup      EngineState = "SETUP"
	EngineStateInProgress EngineState = "IN_PROGRESS"
	EngineStateComplete   EngineState = "COMPLETE"
)

const (
	MinTeams = 4
	MaxTeams = 20
)

// RosterSpec holds the starting lineup slot counts plus bench depth.
// One draft round is played per roster spot.
type RosterSpec struct {
	QB    int `json:"qb" yaml:"qb"`
	RB    int `json:"rb" yaml:"rb"`
	WR    int `json:"wr" yaml:"wr"`
	TE    int `json:"te" yaml:"te"`
	Flex  int `json:"flex" yaml:"flex"`
	DEF   int `json:"def" yaml:"def"`
	K     int `json:"k" yaml:"k"`
	Bench int `json:"bench" yaml:"bench"`
}

// DefaultRosterSpec is the standard 1/2/2/1/1/1/1 lineup with a six-man bench.
func DefaultRosterSpec() RosterSpec {
	return RosterSpec{QB: 1, RB: 2, WR: 2, TE: 1, Flex: 1, DEF: 1, K: 1, Bench: 6}
}

// StartingSlots is the number of non-bench lineup spots.
func (r RosterSpec) StartingSlots() int {
	return r.QB + r.RB + r.WR + r.TE + r.Flex + r.DEF + r.K
}

// TotalRounds is the number of draft rounds.
func (r RosterSpec) TotalRounds() int {
	return r.StartingSlots() + r.Bench
}

// SlotCounts returns the lineup keyed by position, FLEX included.
func (r RosterSpec) SlotCounts() map[Position]int {
	return map[Position]int{
		PositionQB:   r.QB,
		PositionRB:   r.RB,
		PositionWR:   r.WR,
		PositionTE:   r.TE,
		PositionFlex: r.Flex,
		PositionDEF:  r.DEF,
		PositionK:    r.K,
	}
}

// Validate checks the structural constraints the engine relies on.
func (r RosterSpec) Validate() error {
	for pos, n := range r.SlotCounts() {
		if n < 0 {
			return fmt.Errorf("%s slot count must not be negative", strings.ToLower(string(pos)))
		}
	}
	if r.Bench < 0 {
		return errors.New("bench count must not be negative")
	}
	if r.TotalRounds() < 1 {
		return errors.New("roster must have at least one spot")
	}
	return nil
}

// DraftParameters holds the per-session draft configuration.
type DraftParameters struct {
	DraftType DraftType `json:"draft_type"`
	NumTeams  int       `json:"num_teams"`
	UserTeam  int       `json:"user_team"` // 1-based draft position of the human team
}

// Validate checks team count, user position and draft type.
func (p DraftParameters) Validate() error {
	if p.DraftType != DraftTypeSnake && p.DraftType != DraftTypeStandard {
		return fmt.Errorf("unknown draft type %q", p.DraftType)
	}
	if p.NumTeams < MinTeams || p.NumTeams > MaxTeams {
		return fmt.Errorf("num_teams must be between %d and %d, got %d", MinTeams, MaxTeams, p.NumTeams)
	}
	if p.UserTeam < 1 || p.UserTeam > p.NumTeams {
		return fmt.Errorf("user_team must be between 1 and %d, got %d", p.NumTeams, p.UserTeam)
	}
	return nil
}
