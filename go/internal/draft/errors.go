package draft

import (
	"errors"

	"github.com/mcdev12/mockdraft/go/internal/draft/orchestrator"
	"github.com/mcdev12/mockdraft/go/internal/draft/pick"
)

var (
	ErrInvalidConfiguration = errors.New("invalid draft configuration")
	ErrDraftNotStarted      = errors.New("draft not started")
	ErrDraftComplete        = errors.New("draft complete")
	ErrPlayerNotAvailable   = errors.New("player not available")
	ErrIneligiblePosition   = errors.New("position not eligible this round")
	ErrPickInProgress       = errors.New("pick in progress")
	ErrTeamNotFound         = errors.New("team not found")
	ErrSessionNotFound      = errors.New("session not found")
	ErrNotUserTurn          = errors.New("not the user's turn")
	ErrNoStall              = errors.New("pick on the clock is not stalled")

	// Re-exported so callers only need this package for errors.Is checks.
	ErrPickNotFound        = pick.ErrPickNotFound
	ErrPickAlreadyResolved = pick.ErrPickAlreadyResolved
	ErrNoneAvailable       = orchestrator.ErrNoneAvailable
)
