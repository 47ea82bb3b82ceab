package player

import (
	"context"
	"slices"

	"github.com/mcdev12/mockdraft/go/internal/models"
)

// MemoryRepository serves a fixed player list.
type MemoryRepository struct {
	players []models.Player
}

// NewMemoryRepository copies players into a new repository.
func NewMemoryRepository(players []models.Player) *MemoryRepository {
	return &MemoryRepository{players: slices.Clone(players)}
}

// ListPlayers implements PlayerRepository.
func (r *MemoryRepository) ListPlayers(ctx context.Context, position *models.Position) ([]models.Player, error) {
	out := make([]models.Player, 0, len(r.players))
	for _, p := range r.players {
		if position != nil && p.Position != *position {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}
