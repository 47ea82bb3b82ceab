package player

import (
	"fmt"

	"github.com/mcdev12/mockdraft/go/internal/models"
)

// SamplePlayers is the ranked top five at each position.
func SamplePlayers() []models.Player {
	rows := []struct {
		name   string
		team   string
		pos    models.Position
		points float64
	}{
		{"Patrick Mahomes", "KC", models.PositionQB, 402.5},
		{"Josh Allen", "BUF", models.PositionQB, 398.2},
		{"Jalen Hurts", "PHI", models.PositionQB, 387.1},
		{"Lamar Jackson", "BAL", models.PositionQB, 376.8},
		{"Joe Burrow", "CIN", models.PositionQB, 365.3},

		{"Christian McCaffrey", "SF", models.PositionRB, 340.7},
		{"Saquon Barkley", "PHI", models.PositionRB, 325.9},
		{"Bijan Robinson", "ATL", models.PositionRB, 318.6},
		{"Breece Hall", "NYJ", models.PositionRB, 310.2},
		{"Jahmyr Gibbs", "DET", models.PositionRB, 302.5},

		{"CeeDee Lamb", "DAL", models.PositionWR, 295.4},
		{"Justin Jefferson", "MIN", models.PositionWR, 290.8},
		{"Tyreek Hill", "MIA", models.PositionWR, 284.6},
		{"Ja'Marr Chase", "CIN", models.PositionWR, 278.3},
		{"Amon-Ra St. Brown", "DET", models.PositionWR, 270.1},

		{"Travis Kelce", "KC", models.PositionTE, 262.7},
		{"Mark Andrews", "BAL", models.PositionTE, 254.9},
		{"T.J. Hockenson", "MIN", models.PositionTE, 247.3},
		{"Dallas Goedert", "PHI", models.PositionTE, 240.5},
		{"George Kittle", "SF", models.PositionTE, 234.8},

		{"San Francisco 49ers", "SF", models.PositionDEF, 160.5},
		{"Dallas Cowboys", "DAL", models.PositionDEF, 155.2},
		{"Philadelphia Eagles", "PHI", models.PositionDEF, 151.8},
		{"New York Jets", "NYJ", models.PositionDEF, 148.3},
		{"Buffalo Bills", "BUF", models.PositionDEF, 145.1},

		{"Justin Tucker", "BAL", models.PositionK, 140.8},
		{"Harrison Butker", "KC", models.PositionK, 137.4},
		{"Evan McPherson", "CIN", models.PositionK, 134.9},
		{"Jake Elliott", "PHI", models.PositionK, 132.6},
		{"Tyler Bass", "BUF", models.PositionK, 130.2},
	}

	players := make([]models.Player, len(rows))
	for i, r := range rows {
		players[i] = models.Player{
			ID:              int64(i + 1),
			Name:            r.name,
			Team:            r.team,
			Position:        r.pos,
			RankOverall:     i + 1,
			RankPosition:    i%5 + 1,
			ProjectedPoints: r.points,
		}
	}
	return players
}

// depthOrder interleaves positions so every round has skill players left.
var depthOrder = []models.Position{
	models.PositionRB,
	models.PositionWR,
	models.PositionQB,
	models.PositionTE,
	models.PositionWR,
	models.PositionRB,
	models.PositionDEF,
	models.PositionK,
}

// DepthPlayers generates ranked free agents after the sample players so a
// full 20-team draft never runs the pool dry. IDs and ranks continue from
// startRank.
func DepthPlayers(startRank, count int) []models.Player {
	positionRank := map[models.Position]int{
		models.PositionQB: 5, models.PositionRB: 5, models.PositionWR: 5,
		models.PositionTE: 5, models.PositionDEF: 5, models.PositionK: 5,
	}

	players := make([]models.Player, 0, count)
	for i := 0; i < count; i++ {
		pos := depthOrder[i%len(depthOrder)]
		positionRank[pos]++
		rank := startRank + i

		players = append(players, models.Player{
			ID:              int64(rank),
			Name:            fmt.Sprintf("Depth %s %d", pos, positionRank[pos]),
			Team:            "FA",
			Position:        pos,
			RankOverall:     rank,
			RankPosition:    positionRank[pos],
			ProjectedPoints: depthPoints(pos, positionRank[pos]),
		})
	}
	return players
}

func depthPoints(pos models.Position, rank int) float64 {
	base := map[models.Position]float64{
		models.PositionQB: 360, models.PositionRB: 300, models.PositionWR: 265,
		models.PositionTE: 230, models.PositionDEF: 143, models.PositionK: 128,
	}[pos]
	pts := base - float64(rank-5)*2.5
	if pts < 10 {
		pts = 10
	}
	return pts
}

// DefaultPool is the sample players plus enough depth for any supported draft.
func DefaultPool() []models.Player {
	sample := SamplePlayers()
	depth := DepthPlayers(len(sample)+1, models.MaxTeams*16+40)
	return append(sample, depth...)
}
