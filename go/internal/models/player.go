package models

import (
	"fmt"
	"strings"
)

// Position is a roster position. FLEX only ever appears as a lineup slot;
// players are always one of the draftable positions.
type Position string

const (
	PositionQB   Position = "QB"
	PositionRB   Position = "RB"
	PositionWR   Position = "WR"
	PositionTE   Position = "TE"
	PositionDEF  Position = "DEF"
	PositionK    Position = "K"
	PositionFlex Position = "FLEX"
)

// DraftablePositions lists the positions a player can hold, in display order.
var DraftablePositions = []Position{
	PositionQB,
	PositionRB,
	PositionWR,
	PositionTE,
	PositionDEF,
	PositionK,
}

// Draftable reports whether p is a position a player can hold.
func (p Position) Draftable() bool {
	for _, d := range DraftablePositions {
		if p == d {
			return true
		}
	}
	return false
}

// ParsePosition normalises user input ("qb", " Wr ") into a draftable Position.
func ParsePosition(s string) (Position, error) {
	p := Position(strings.ToUpper(strings.TrimSpace(s)))
	if !p.Draftable() {
		return "", fmt.Errorf("unknown position %q", s)
	}
	return p, nil
}

// Player is an entry in the draftable player pool.
type Player struct {
	ID              int64    `json:"id"`
	Name            string   `json:"name"`
	Team            string   `json:"team"` // NFL team abbreviation
	Position        Position `json:"position"`
	RankOverall     int      `json:"rank_overall"`
	RankPosition    int      `json:"rank_position"`
	ProjectedPoints float64  `json:"projected_points"`
}
