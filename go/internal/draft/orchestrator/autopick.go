package orchestrator

import (
	"errors"

	"github.com/mcdev12/mockdraft/go/internal/draft/eligibility"
	"github.com/mcdev12/mockdraft/go/internal/models"
)

// ErrNoneAvailable is returned when no player in the pool may be drafted.
var ErrNoneAvailable = errors.New("no eligible player available")

// AutoPickStrategy chooses the player drafted for a team on auto-pick.
// The engine calls it once per automated pick.
type AutoPickStrategy interface {
	// SelectPick chooses the player an automated team drafts in round.
	// It never mutates pool.
	SelectPick(pool []models.Player, round int, spec models.RosterSpec) (models.Player, error)
}

// BestAvailableStrategy takes the lowest overall rank among eligible players.
// Ties go to the lower player ID so the choice is deterministic.
type BestAvailableStrategy struct {
	policy eligibility.Policy
}

// NewBestAvailableStrategy constructs a BestAvailableStrategy filtered by policy.
func NewBestAvailableStrategy(policy eligibility.Policy) *BestAvailableStrategy {
	return &BestAvailableStrategy{policy: policy}
}

// SelectPick implements AutoPickStrategy.SelectPick
func (s *BestAvailableStrategy) SelectPick(pool []models.Player, round int, spec models.RosterSpec) (models.Player, error) {
	allowed := s.policy.AllowedPositions(round, spec)

	var (
		best  models.Player
		found bool
	)
	for _, p := range pool {
		if !allowed.Has(p.Position) {
			continue
		}
		if !found || p.RankOverall < best.RankOverall ||
			(p.RankOverall == best.RankOverall && p.ID < best.ID) {
			best = p
			found = true
		}
	}

	if !found {
		return models.Player{}, ErrNoneAvailable
	}
	return best, nil
}

// FallbackStrategy asks Fallback whenever Primary finds nobody eligible.
type FallbackStrategy struct {
	Primary  AutoPickStrategy
	Fallback AutoPickStrategy
}

// SelectPick implements AutoPickStrategy.SelectPick
func (s FallbackStrategy) SelectPick(pool []models.Player, round int, spec models.RosterSpec) (models.Player, error) {
	p, err := s.Primary.SelectPick(pool, round, spec)
	if errors.Is(err, ErrNoneAvailable) {
		return s.Fallback.SelectPick(pool, round, spec)
	}
	return p, err
}

// StallPolicy decides what the auto-picker does when no eligible player is left.
type StallPolicy string

const (
	// StallBlock leaves the pick open until someone resolves it by hand.
	StallBlock StallPolicy = "block"
	// StallForceBest drafts the best remaining player ignoring eligibility.
	StallForceBest StallPolicy = "force_best"
)

// NewStrategy builds the auto-pick strategy for policy and stall handling.
func NewStrategy(policy eligibility.Policy, stall StallPolicy) AutoPickStrategy {
	best := NewBestAvailableStrategy(policy)
	if stall == StallForceBest {
		return FallbackStrategy{Primary: best, Fallback: NewBestAvailableStrategy(eligibility.Policy{})}
	}
	return best
}
