package pick

import "github.com/mcdev12/mockdraft/go/internal/models"

// Clock tracks whose turn it is. Only the overall pick number is stored;
// round, slot and team are always derived from it so they cannot drift.
type Clock struct {
	numTeams    int
	totalPicks  int
	draftType   models.DraftType
	currentPick int
}

// NewClock returns a clock positioned on the first pick.
func NewClock(numTeams, totalRounds int, draftType models.DraftType) *Clock {
	return &Clock{
		numTeams:    numTeams,
		totalPicks:  numTeams * totalRounds,
		draftType:   draftType,
		currentPick: 1,
	}
}

// CurrentPick returns the overall pick on the clock, or TotalPicks()+1 once complete.
func (c *Clock) CurrentPick() int { return c.currentPick }

// TotalPicks returns the number of picks in the draft.
func (c *Clock) TotalPicks() int { return c.totalPicks }

// CurrentRound returns ceil(currentPick / numTeams).
func (c *Clock) CurrentRound() int {
	round, _ := Locate(c.currentPick, c.numTeams)
	return round
}

// CurrentSlot returns the position within the current round.
func (c *Clock) CurrentSlot() int {
	_, slot := Locate(c.currentPick, c.numTeams)
	return slot
}

// CurrentTeam returns the team on the clock.
func (c *Clock) CurrentTeam() int {
	round, slot := Locate(c.currentPick, c.numTeams)
	return TeamForSlot(round, slot, c.numTeams, c.draftType)
}

// Complete reports whether every pick has been made.
func (c *Clock) Complete() bool {
	return c.currentPick > c.totalPicks
}

// Advance moves to the next pick. It returns false, and does nothing, once complete.
func (c *Clock) Advance() bool {
	if c.Complete() {
		return false
	}
	c.currentPick++
	return true
}

// Reset puts the clock back on the first pick.
func (c *Clock) Reset() {
	c.currentPick = 1
}
