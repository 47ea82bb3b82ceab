package player

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/mcdev12/mockdraft/go/internal/models"
	"github.com/mcdev12/mockdraft/go/internal/sqlutil"
)

// PostgresSchema creates the players table used by PostgresRepository.
const PostgresSchema = `
CREATE TABLE IF NOT EXISTS players (
    id               BIGSERIAL PRIMARY KEY,
    name             TEXT NOT NULL,
    team             TEXT NOT NULL,
    position         TEXT NOT NULL,
    rank_overall     INTEGER NOT NULL,
    rank_position    INTEGER NOT NULL,
    projected_points DOUBLE PRECISION NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS players_position_idx ON players (position);
CREATE INDEX IF NOT EXISTS players_rank_overall_idx ON players (rank_overall);
`

const listPlayersPostgres = `
SELECT id, name, team, position::text, rank_overall, rank_position, projected_points
FROM players
WHERE ($1::text IS NULL OR position::text = $1)
ORDER BY rank_overall, id`

// PostgresRepository reads players from a Postgres players table.
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository creates a new player repository
func NewPostgresRepository(database *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: database}
}

// OpenPostgres connects with lib/pq and verifies the connection.
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	database, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create database connection: %w", err)
	}
	if err := database.PingContext(ctx); err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return database, nil
}

// ListPlayers implements PlayerRepository.
func (r *PostgresRepository) ListPlayers(ctx context.Context, position *models.Position) ([]models.Player, error) {
	rows, err := r.db.QueryContext(ctx, listPlayersPostgres, sqlutil.ToSqlStringer(position))
	if err != nil {
		return nil, fmt.Errorf("query players: %w", err)
	}
	return scanPlayers(rows)
}

func scanPlayers(rows *sql.Rows) ([]models.Player, error) {
	defer rows.Close()

	var players []models.Player
	for rows.Next() {
		var (
			p   models.Player
			pos string
		)
		if err := rows.Scan(&p.ID, &p.Name, &p.Team, &pos, &p.RankOverall, &p.RankPosition, &p.ProjectedPoints); err != nil {
			return nil, fmt.Errorf("scan player: %w", err)
		}
		p.Position = models.Position(pos)
		players = append(players, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate players: %w", err)
	}
	return players, nil
}
