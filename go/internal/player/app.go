package player

import (
	"context"
	"fmt"
	"sort"

	"github.com/mcdev12/mockdraft/go/internal/models"
)

// PlayerRepository defines what the app layer needs from a player store
type PlayerRepository interface {
	ListPlayers(ctx context.Context, position *models.Position) ([]models.Player, error)
}

// App serves the draftable player pool from a repository. It satisfies the
// draft engine's PlayerCatalog.
type App struct {
	repo PlayerRepository
}

// NewApp creates a new player App
func NewApp(repo PlayerRepository) *App {
	return &App{repo: repo}
}

// Fetch returns players ordered by overall rank, optionally limited to one position.
func (a *App) Fetch(ctx context.Context, position *models.Position) ([]models.Player, error) {
	if position != nil && !position.Draftable() {
		return nil, fmt.Errorf("unknown position %q", *position)
	}

	players, err := a.repo.ListPlayers(ctx, position)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}

	seen := make(map[int64]bool, len(players))
	for _, p := range players {
		if err := validatePlayer(p); err != nil {
			return nil, err
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("%w: duplicate id %d", ErrInvalidPlayer, p.ID)
		}
		seen[p.ID] = true
	}

	sort.SliceStable(players, func(i, j int) bool {
		return players[i].RankOverall < players[j].RankOverall
	})
	return players, nil
}

// Positions returns the distinct positions present in the pool.
func (a *App) Positions(ctx context.Context) ([]models.Position, error) {
	players, err := a.repo.ListPlayers(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}

	present := make(map[models.Position]bool)
	for _, p := range players {
		present[p.Position] = true
	}

	positions := make([]models.Position, 0, len(present))
	for _, pos := range models.DraftablePositions {
		if present[pos] {
			positions = append(positions, pos)
		}
	}
	return positions, nil
}

func validatePlayer(p models.Player) error {
	if !p.Position.Draftable() {
		return fmt.Errorf("%w: player %d has position %q", ErrInvalidPlayer, p.ID, p.Position)
	}
	if p.RankOverall < 1 || p.RankPosition < 1 {
		return fmt.Errorf("%w: player %d has rank below 1", ErrInvalidPlayer, p.ID)
	}
	return nil
}
