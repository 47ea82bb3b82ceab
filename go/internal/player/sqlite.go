package player

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/mcdev12/mockdraft/go/internal/models"
	"github.com/mcdev12/mockdraft/go/internal/sqlutil"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS players (
    id               INTEGER PRIMARY KEY,
    name             TEXT NOT NULL,
    team             TEXT NOT NULL,
    position         TEXT NOT NULL,
    rank_overall     INTEGER NOT NULL,
    rank_position    INTEGER NOT NULL,
    projected_points REAL NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS players_position_idx ON players (position);
`

// SQLiteRepository keeps the player pool in a single SQLite file.
type SQLiteRepository struct {
	sqlDB *sql.DB
}

// OpenSQLite opens (creating if needed) a SQLite player store.
func OpenSQLite(path string) (*SQLiteRepository, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(sqliteSchema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLiteRepository{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (r *SQLiteRepository) Close() error {
	if r == nil || r.sqlDB == nil {
		return nil
	}
	return r.sqlDB.Close()
}

// Count returns the number of stored players.
func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.sqlDB.QueryRowContext(ctx, `SELECT COUNT(*) FROM players`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count players: %w", err)
	}
	return n, nil
}

// Upsert writes players in one transaction, replacing rows with the same id.
func (r *SQLiteRepository) Upsert(ctx context.Context, players []models.Player) error {
	return sqlutil.Run(ctx, r.sqlDB, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
INSERT INTO players (id, name, team, position, rank_overall, rank_position, projected_points)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
    name = excluded.name,
    team = excluded.team,
    position = excluded.position,
    rank_overall = excluded.rank_overall,
    rank_position = excluded.rank_position,
    projected_points = excluded.projected_points`)
		if err != nil {
			return fmt.Errorf("prepare upsert: %w", err)
		}
		defer stmt.Close()

		for _, p := range players {
			if _, err := stmt.ExecContext(ctx, p.ID, p.Name, p.Team, string(p.Position), p.RankOverall, p.RankPosition, p.ProjectedPoints); err != nil {
				return fmt.Errorf("upsert player %d: %w", p.ID, err)
			}
		}
		return nil
	})
}

// ListPlayers implements PlayerRepository.
func (r *SQLiteRepository) ListPlayers(ctx context.Context, position *models.Position) ([]models.Player, error) {
	query := `SELECT id, name, team, position, rank_overall, rank_position, projected_points FROM players`
	var args []any
	if position != nil {
		query += ` WHERE position = ?`
		args = append(args, string(*position))
	}
	query += ` ORDER BY rank_overall, id`

	rows, err := r.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query players: %w", err)
	}
	return scanPlayers(rows)
}
