package player

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcdev12/mockdraft/go/internal/models"
)

type failingRepository struct{ err error }

func (r failingRepository) ListPlayers(context.Context, *models.Position) ([]models.Player, error) {
	return nil, r.err
}

func TestFetchOrdersByRank(t *testing.T) {
	repo := NewMemoryRepository([]models.Player{
		{ID: 3, Name: "C", Position: models.PositionWR, RankOverall: 3, RankPosition: 1},
		{ID: 1, Name: "A", Position: models.PositionQB, RankOverall: 1, RankPosition: 1},
		{ID: 2, Name: "B", Position: models.PositionRB, RankOverall: 2, RankPosition: 1},
	})
	app := NewApp(repo)

	players, err := app.Fetch(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, players, 3)
	assert.Equal(t, []int64{1, 2, 3}, []int64{players[0].ID, players[1].ID, players[2].ID})
}

func TestFetchByPosition(t *testing.T) {
	app := NewApp(NewMemoryRepository(SamplePlayers()))
	pos := models.PositionTE

	players, err := app.Fetch(context.Background(), &pos)
	require.NoError(t, err)
	require.Len(t, players, 5)
	for _, p := range players {
		assert.Equal(t, models.PositionTE, p.Position)
	}
	assert.Equal(t, "Travis Kelce", players[0].Name)
}

func TestFetchRejectsUnknownPosition(t *testing.T) {
	app := NewApp(NewMemoryRepository(SamplePlayers()))
	pos := models.PositionFlex

	_, err := app.Fetch(context.Background(), &pos)
	assert.Error(t, err)
}

func TestFetchValidatesPlayers(t *testing.T) {
	tests := []struct {
		name    string
		players []models.Player
	}{
		{
			name:    "bad position",
			players: []models.Player{{ID: 1, Position: "LB", RankOverall: 1, RankPosition: 1}},
		},
		{
			name:    "zero rank",
			players: []models.Player{{ID: 1, Position: models.PositionQB, RankOverall: 0, RankPosition: 1}},
		},
		{
			name: "duplicate id",
			players: []models.Player{
				{ID: 1, Position: models.PositionQB, RankOverall: 1, RankPosition: 1},
				{ID: 1, Position: models.PositionRB, RankOverall: 2, RankPosition: 1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := NewApp(NewMemoryRepository(tt.players))
			_, err := app.Fetch(context.Background(), nil)
			assert.ErrorIs(t, err, ErrInvalidPlayer)
		})
	}
}

func TestFetchWrapsRepositoryError(t *testing.T) {
	boom := errors.New("connection refused")
	app := NewApp(failingRepository{err: boom})

	_, err := app.Fetch(context.Background(), nil)
	assert.ErrorIs(t, err, boom)
}

func TestPositions(t *testing.T) {
	app := NewApp(NewMemoryRepository([]models.Player{
		{ID: 1, Position: models.PositionK, RankOverall: 1, RankPosition: 1},
		{ID: 2, Position: models.PositionQB, RankOverall: 2, RankPosition: 1},
		{ID: 3, Position: models.PositionK, RankOverall: 3, RankPosition: 2},
	}))

	positions, err := app.Positions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []models.Position{models.PositionQB, models.PositionK}, positions)
}
