package eligibility

import (
	"slices"

	"github.com/mcdev12/mockdraft/go/internal/models"
)

// DefaultDeferralWindow is how many rounds past the bench count DEF and K stay locked.
const DefaultDeferralWindow = 2

// PositionSet is the set of positions that may be drafted in a round.
type PositionSet map[models.Position]struct{}

// Has reports whether pos is in the set.
func (s PositionSet) Has(pos models.Position) bool {
	_, ok := s[pos]
	return ok
}

// List returns the positions in display order.
func (s PositionSet) List() []models.Position {
	out := make([]models.Position, 0, len(s))
	for _, pos := range models.DraftablePositions {
		if s.Has(pos) {
			out = append(out, pos)
		}
	}
	return out
}

// Policy keeps low-value positions out of the early rounds. While
//
//	round <= totalRounds - startingSlots + DeferralWindow
//
// every position in Deferred is excluded. The zero Policy allows everything.
type Policy struct {
	Deferred       []models.Position
	DeferralWindow int
}

// DefaultPolicy defers DEF and K.
func DefaultPolicy() Policy {
	return Policy{
		Deferred:       []models.Position{models.PositionDEF, models.PositionK},
		DeferralWindow: DefaultDeferralWindow,
	}
}

// LastDeferredRound is the final round in which Deferred positions are excluded.
func (p Policy) LastDeferredRound(spec models.RosterSpec) int {
	return spec.TotalRounds() - spec.StartingSlots() + p.DeferralWindow
}

// AllowedPositions returns the positions that may be drafted in round.
func (p Policy) AllowedPositions(round int, spec models.RosterSpec) PositionSet {
	deferring := len(p.Deferred) > 0 && round <= p.LastDeferredRound(spec)

	set := make(PositionSet, len(models.DraftablePositions))
	for _, pos := range models.DraftablePositions {
		if deferring && slices.Contains(p.Deferred, pos) {
			continue
		}
		set[pos] = struct{}{}
	}
	return set
}

// IsEligible reports whether player may be drafted in round.
func (p Policy) IsEligible(player models.Player, round int, spec models.RosterSpec) bool {
	return p.AllowedPositions(round, spec).Has(player.Position)
}
