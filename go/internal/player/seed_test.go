package player

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcdev12/mockdraft/go/internal/models"
)

func TestSamplePlayers(t *testing.T) {
	players := SamplePlayers()
	require.Len(t, players, 30)

	counts := make(map[models.Position]int)
	for i, p := range players {
		assert.Equal(t, int64(i+1), p.ID)
		assert.Equal(t, i+1, p.RankOverall)
		counts[p.Position]++
	}
	for _, pos := range models.DraftablePositions {
		assert.Equal(t, 5, counts[pos], pos)
	}
}

func TestDefaultPoolCoversLargestDraft(t *testing.T) {
	pool := DefaultPool()
	spec := models.DefaultRosterSpec()
	needed := models.MaxTeams * spec.TotalRounds()
	assert.Greater(t, len(pool), needed)

	ids := make(map[int64]bool, len(pool))
	counts := make(map[models.Position]int)
	for i, p := range pool {
		assert.False(t, ids[p.ID], "duplicate id %d", p.ID)
		ids[p.ID] = true
		assert.Equal(t, i+1, p.RankOverall)
		counts[p.Position]++
	}
	// every team can fill its DEF and K slots
	assert.GreaterOrEqual(t, counts[models.PositionDEF], models.MaxTeams)
	assert.GreaterOrEqual(t, counts[models.PositionK], models.MaxTeams)
}

func TestDepthPlayersContinuePositionRanks(t *testing.T) {
	depth := DepthPlayers(31, 8)
	require.Len(t, depth, 8)

	assert.Equal(t, "Depth RB 6", depth[0].Name)
	assert.Equal(t, "Depth WR 6", depth[1].Name)
	assert.Equal(t, "Depth WR 7", depth[4].Name)
	assert.Equal(t, 7, depth[4].RankPosition)
	assert.Equal(t, int64(38), depth[7].ID)
	assert.Equal(t, models.PositionK, depth[7].Position)
}
