package pick

import (
	"fmt"
	"sync"
	"time"

	"github.com/mcdev12/mockdraft/go/internal/models"
)

// Board is the rounds x slots grid of picks for one draft. It is never
// resized after BuildBoard and each pick goes from unset to set exactly once.
type Board struct {
	mu       sync.RWMutex
	rounds   int
	numTeams int
	picks    []models.Pick // indexed by overall pick - 1
}

// Rounds returns the number of rounds on the board.
func (b *Board) Rounds() int { return b.rounds }

// NumTeams returns the number of picks per round.
func (b *Board) NumTeams() int { return b.numTeams }

// TotalPicks returns rounds * teams.
func (b *Board) TotalPicks() int { return len(b.picks) }

// At returns a copy of the pick with the given overall number.
func (b *Board) At(overallPick int) (models.Pick, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if overallPick < 1 || overallPick > len(b.picks) {
		return models.Pick{}, fmt.Errorf("%w: overall pick %d", ErrPickNotFound, overallPick)
	}
	return b.picks[overallPick-1].Clone(), nil
}

// ResolveAt assigns player to the pick and returns a copy of the result.
func (b *Board) ResolveAt(overallPick int, player models.Player, at time.Time, auto bool) (models.Pick, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if overallPick < 1 || overallPick > len(b.picks) {
		return models.Pick{}, fmt.Errorf("%w: overall pick %d", ErrPickNotFound, overallPick)
	}

	p := &b.picks[overallPick-1]
	if p.Resolved() {
		return models.Pick{}, fmt.Errorf("%w: overall pick %d", ErrPickAlreadyResolved, overallPick)
	}

	p.Player = &player
	p.PickedAt = &at
	p.Auto = auto

	return p.Clone(), nil
}

// TeamRoster returns the players drafted by team, in pick order.
func (b *Board) TeamRoster(team int) []models.Player {
	b.mu.RLock()
	defer b.mu.RUnlock()

	roster := make([]models.Player, 0, b.rounds)
	for _, p := range b.picks {
		if p.Team == team && p.Resolved() {
			roster = append(roster, *p.Player)
		}
	}
	return roster
}

// Resolved returns the number of picks that have a player.
func (b *Board) Resolved() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	n := 0
	for _, p := range b.picks {
		if p.Resolved() {
			n++
		}
	}
	return n
}

// Grid returns a deep copy of the board, one slice per round.
func (b *Board) Grid() [][]models.Pick {
	b.mu.RLock()
	defer b.mu.RUnlock()

	grid := make([][]models.Pick, b.rounds)
	for r := range grid {
		row := make([]models.Pick, b.numTeams)
		for s := range row {
			row[s] = b.picks[r*b.numTeams+s].Clone()
		}
		grid[r] = row
	}
	return grid
}
