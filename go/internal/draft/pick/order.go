package pick

import "github.com/mcdev12/mockdraft/go/internal/models"

// TeamForSlot returns the team picking at the given slot of a round.
// Snake drafts reverse the order on even rounds; standard drafts never do.
func TeamForSlot(round, slot, numTeams int, draftType models.DraftType) int {
	if draftType == models.DraftTypeSnake && round%2 == 0 {
		return numTeams - slot + 1
	}
	return slot
}

// OverallPick maps a (round, slot) pair to its 1-based overall pick number.
func OverallPick(round, slot, numTeams int) int {
	return (round-1)*numTeams + slot
}

// Locate is the inverse of OverallPick.
func Locate(overallPick, numTeams int) (round, slot int) {
	round = (overallPick-1)/numTeams + 1
	slot = (overallPick-1)%numTeams + 1
	return round, slot
}

// BuildBoard lays out every pick of the draft with no players assigned.
func BuildBoard(spec models.RosterSpec, params models.DraftParameters) *Board {
	rounds := spec.TotalRounds()
	picks := make([]models.Pick, 0, rounds*params.NumTeams)

	for round := 1; round <= rounds; round++ {
		for slot := 1; slot <= params.NumTeams; slot++ {
			picks = append(picks, models.Pick{
				Round:       round,
				Slot:        slot,
				OverallPick: OverallPick(round, slot, params.NumTeams),
				Team:        TeamForSlot(round, slot, params.NumTeams, params.DraftType),
			})
		}
	}

	return &Board{
		rounds:   rounds,
		numTeams: params.NumTeams,
		picks:    picks,
	}
}
